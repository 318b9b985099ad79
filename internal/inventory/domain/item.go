package domain

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrDuplicateSKU = errors.New("sku already exists")
	ErrValidation   = errors.New("validation failed")
)

// Item is a stocked inventory item as persisted by this service.
type Item struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"not null"`
	SKU          string         `json:"sku" gorm:"uniqueIndex;not null"`
	CategoryName string         `json:"category_name" gorm:"index"`
	CurrentStock float64        `json:"current_stock" gorm:"not null;default:0"`
	Cost         *float64       `json:"cost"`
	ReorderPoint *float64       `json:"reorder_point"`
	SafetyStock  *float64       `json:"safety_stock"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// Columns a partial update may write.
const (
	ColumnName         = "name"
	ColumnCategoryName = "category_name"
	ColumnCost         = "cost"
	ColumnReorderPoint = "reorder_point"
	ColumnSafetyStock  = "safety_stock"
)

// TableName specifies the table name
func (Item) TableName() string {
	return "inventory_items"
}

// ToRecord converts the stored item into the record shape classification
// consumes.
func (i *Item) ToRecord() classification.Record {
	return classification.Record{
		ID:           classification.Identifier(strconv.FormatUint(uint64(i.ID), 10)),
		Name:         i.Name,
		SKU:          i.SKU,
		Category:     i.CategoryName,
		CurrentStock: classification.NumberOf(i.CurrentStock),
		UnitCost:     classification.NumberFrom(i.Cost),
		ReorderPoint: classification.NumberFrom(i.ReorderPoint),
		SafetyStock:  classification.NumberFrom(i.SafetyStock),
	}
}

// StockStatus evaluates the item's current stock against its thresholds.
func (i *Item) StockStatus() classification.Status {
	return classification.EvaluateStatus(classification.Resolve(i.ToRecord()))
}

// ItemRepository defines the contract for item data access
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id uint) (*Item, error)
	FindAll(ctx context.Context, limit, offset int) ([]Item, error)
	FindByCategories(ctx context.Context, categories []string, limit, offset int) ([]Item, error)
	// Update writes only the named columns of item.
	Update(ctx context.Context, item *Item, columns ...string) error
	UpdateStock(ctx context.Context, id uint, stock float64) error
	// AddStock adjusts stock by delta in a single write and returns the
	// stored item.
	AddStock(ctx context.Context, id uint, delta float64) (*Item, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}
