package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-analytics/internal/inventory/domain"
)

// UpdateStockCommand sets an item's on-hand quantity.
type UpdateStockCommand struct {
	ID    uint
	Stock float64
}

// UpdateStockHandler handles update stock command
type UpdateStockHandler struct {
	repo    domain.ItemRepository
	effects *SideEffects
}

// NewUpdateStockHandler creates a new update stock handler
func NewUpdateStockHandler(repo domain.ItemRepository, effects *SideEffects) *UpdateStockHandler {
	return &UpdateStockHandler{repo: repo, effects: effects}
}

// Handle executes the update stock command
func (h *UpdateStockHandler) Handle(ctx context.Context, cmd UpdateStockCommand) (*domain.Item, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	if cmd.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", domain.ErrValidation)
	}

	item, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item %d: %w", cmd.ID, err)
	}
	before := item.StockStatus()

	if err := h.repo.UpdateStock(ctx, cmd.ID, cmd.Stock); err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	item.CurrentStock = cmd.Stock

	h.effects.ItemChanged(ctx, before, item)
	return item, nil
}
