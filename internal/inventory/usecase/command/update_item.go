package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/inventory-analytics/internal/inventory/domain"
)

// OptionalFloat is a nullable field of a partial update. A set field with a
// nil Value clears the stored value.
type OptionalFloat struct {
	Set   bool
	Value *float64
}

// SetFloat returns a set OptionalFloat holding v.
func SetFloat(v float64) OptionalFloat {
	return OptionalFloat{Set: true, Value: &v}
}

// ClearFloat returns a set OptionalFloat that clears the field.
func ClearFloat() OptionalFloat {
	return OptionalFloat{Set: true}
}

// UpdateItemCommand is a partial update; nil and unset fields are left
// unchanged.
type UpdateItemCommand struct {
	ID           uint
	Name         *string
	CategoryName *string
	Cost         OptionalFloat
	ReorderPoint OptionalFloat
	SafetyStock  OptionalFloat
}

// UpdateItemHandler handles update item command
type UpdateItemHandler struct {
	repo    domain.ItemRepository
	effects *SideEffects
}

// NewUpdateItemHandler creates a new update item handler
func NewUpdateItemHandler(repo domain.ItemRepository, effects *SideEffects) *UpdateItemHandler {
	return &UpdateItemHandler{repo: repo, effects: effects}
}

// Handle executes the update item command
func (h *UpdateItemHandler) Handle(ctx context.Context, cmd UpdateItemCommand) (*domain.Item, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	}
	if err := validateOptional(map[string]*float64{
		"cost":          cmd.Cost.Value,
		"reorder_point": cmd.ReorderPoint.Value,
		"safety_stock":  cmd.SafetyStock.Value,
	}); err != nil {
		return nil, err
	}

	item, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item %d: %w", cmd.ID, err)
	}
	before := item.StockStatus()

	var columns []string
	if cmd.Name != nil {
		item.Name = strings.TrimSpace(*cmd.Name)
		columns = append(columns, domain.ColumnName)
	}
	if cmd.CategoryName != nil {
		item.CategoryName = strings.TrimSpace(*cmd.CategoryName)
		columns = append(columns, domain.ColumnCategoryName)
	}
	if cmd.Cost.Set {
		item.Cost = cmd.Cost.Value
		columns = append(columns, domain.ColumnCost)
	}
	if cmd.ReorderPoint.Set {
		item.ReorderPoint = cmd.ReorderPoint.Value
		columns = append(columns, domain.ColumnReorderPoint)
	}
	if cmd.SafetyStock.Set {
		item.SafetyStock = cmd.SafetyStock.Value
		columns = append(columns, domain.ColumnSafetyStock)
	}

	if err := h.repo.Update(ctx, item, columns...); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	item, err = h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload item %d: %w", cmd.ID, err)
	}

	h.effects.ItemChanged(ctx, before, item)
	return item, nil
}
