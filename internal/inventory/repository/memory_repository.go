package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/tair/inventory-analytics/internal/inventory/domain"
)

// MemoryItemRepository keeps items in process memory. It backs tests and
// the DB_DRIVER=memory mode.
type MemoryItemRepository struct {
	mu     sync.RWMutex
	items  map[uint]domain.Item
	nextID uint
	now    func() time.Time
}

// NewMemoryItemRepository creates an empty repository.
func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{
		items:  make(map[uint]domain.Item),
		nextID: 1,
		now:    time.Now,
	}
}

var _ domain.ItemRepository = (*MemoryItemRepository)(nil)

func (r *MemoryItemRepository) Create(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.skuTaken(item.SKU, 0) {
		return domain.ErrDuplicateSKU
	}

	item.ID = r.nextID
	r.nextID++
	item.CreatedAt = r.now()
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = clone(*item)
	return nil
}

func (r *MemoryItemRepository) FindByID(_ context.Context, id uint) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	out := clone(item)
	return &out, nil
}

func (r *MemoryItemRepository) FindAll(_ context.Context, limit, offset int) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.sorted(func(domain.Item) bool { return true }), limit, offset), nil
}

func (r *MemoryItemRepository) FindByCategories(_ context.Context, categories []string, limit, offset int) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.sorted(func(item domain.Item) bool {
		return slices.Contains(categories, item.CategoryName)
	}), limit, offset), nil
}

func (r *MemoryItemRepository) Update(_ context.Context, item *domain.Item, columns ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	for _, column := range columns {
		switch column {
		case domain.ColumnName:
			stored.Name = item.Name
		case domain.ColumnCategoryName:
			stored.CategoryName = item.CategoryName
		case domain.ColumnCost:
			stored.Cost = copyFloat(item.Cost)
		case domain.ColumnReorderPoint:
			stored.ReorderPoint = copyFloat(item.ReorderPoint)
		case domain.ColumnSafetyStock:
			stored.SafetyStock = copyFloat(item.SafetyStock)
		default:
			return fmt.Errorf("unknown item column %q", column)
		}
	}
	if len(columns) > 0 {
		stored.UpdatedAt = r.now()
	}
	r.items[item.ID] = stored
	return nil
}

func (r *MemoryItemRepository) UpdateStock(_ context.Context, id uint, stock float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.CurrentStock = stock
	item.UpdatedAt = r.now()
	r.items[id] = item
	return nil
}

func (r *MemoryItemRepository) AddStock(_ context.Context, id uint, delta float64) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	item.CurrentStock += delta
	item.UpdatedAt = r.now()
	r.items[id] = item

	out := clone(item)
	return &out, nil
}

func (r *MemoryItemRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryItemRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.items)), nil
}

// sorted returns matching items ordered by id. Callers hold the lock.
func (r *MemoryItemRepository) sorted(match func(domain.Item) bool) []domain.Item {
	out := make([]domain.Item, 0, len(r.items))
	for _, item := range r.items {
		if match(item) {
			out = append(out, clone(item))
		}
	}
	slices.SortFunc(out, func(a, b domain.Item) int { return int(a.ID) - int(b.ID) })
	return out
}

func (r *MemoryItemRepository) skuTaken(sku string, except uint) bool {
	for id, item := range r.items {
		if id != except && item.SKU == sku {
			return true
		}
	}
	return false
}

// page applies limit/offset the way SQL does; a non-positive limit means no limit.
func page(items []domain.Item, limit, offset int) []domain.Item {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []domain.Item{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func clone(item domain.Item) domain.Item {
	item.Cost = copyFloat(item.Cost)
	item.ReorderPoint = copyFloat(item.ReorderPoint)
	item.SafetyStock = copyFloat(item.SafetyStock)
	return item
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
