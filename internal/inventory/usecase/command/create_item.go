package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/inventory-analytics/internal/inventory/domain"
)

// CreateItemCommand represents the command to create an inventory item
type CreateItemCommand struct {
	Name         string
	SKU          string
	CategoryName string
	CurrentStock float64
	Cost         *float64
	ReorderPoint *float64
	SafetyStock  *float64
}

// CreateItemHandler handles create item command
type CreateItemHandler struct {
	repo    domain.ItemRepository
	effects *SideEffects
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(repo domain.ItemRepository, effects *SideEffects) *CreateItemHandler {
	return &CreateItemHandler{repo: repo, effects: effects}
}

// Handle executes the create item command
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*domain.Item, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.SKU = strings.TrimSpace(cmd.SKU)

	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if cmd.SKU == "" {
		return nil, fmt.Errorf("%w: sku is required", domain.ErrValidation)
	}
	if cmd.CurrentStock < 0 {
		return nil, fmt.Errorf("%w: current_stock cannot be negative", domain.ErrValidation)
	}
	if err := validateOptional(map[string]*float64{
		"cost":          cmd.Cost,
		"reorder_point": cmd.ReorderPoint,
		"safety_stock":  cmd.SafetyStock,
	}); err != nil {
		return nil, err
	}

	item := &domain.Item{
		Name:         cmd.Name,
		SKU:          cmd.SKU,
		CategoryName: strings.TrimSpace(cmd.CategoryName),
		CurrentStock: cmd.CurrentStock,
		Cost:         cmd.Cost,
		ReorderPoint: cmd.ReorderPoint,
		SafetyStock:  cmd.SafetyStock,
	}

	if err := h.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	h.effects.ItemChanged(ctx, "", item)
	return item, nil
}

func validateOptional(fields map[string]*float64) error {
	for name, v := range fields {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s cannot be negative", domain.ErrValidation, name)
		}
	}
	return nil
}
