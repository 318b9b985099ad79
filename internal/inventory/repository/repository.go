package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tair/inventory-analytics/internal/inventory/domain"
)

type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Item{})
}

func (r *GormItemRepository) Create(ctx context.Context, item *domain.Item) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

func (r *GormItemRepository) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormItemRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).Order("id").Limit(limit).Offset(offset).Find(&items).Error
	return items, err
}

func (r *GormItemRepository) FindByCategories(ctx context.Context, categories []string, limit, offset int) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("category_name = ANY(?)", pq.Array(categories)).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *GormItemRepository) Update(ctx context.Context, item *domain.Item, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(item).Select(columns).Updates(item)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *GormItemRepository) AddStock(ctx context.Context, id uint, delta float64) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Item{}).
			Where("id = ?", id).
			Update("current_stock", gorm.Expr("current_stock + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrItemNotFound
		}
		return tx.First(&item, id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormItemRepository) UpdateStock(ctx context.Context, id uint, stock float64) error {
	result := r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("id = ?", id).
		Update("current_stock", stock)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *GormItemRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Item{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *GormItemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Item{}).Count(&count).Error
	return count, err
}

// translate maps gorm errors onto domain errors. Duplicate key detection
// relies on gorm.Config.TranslateError.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrItemNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicateSKU
	default:
		return err
	}
}
