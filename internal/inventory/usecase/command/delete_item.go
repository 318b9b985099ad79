package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-analytics/internal/inventory/domain"
)

// DeleteItemCommand represents the command to delete an item
type DeleteItemCommand struct {
	ID uint
}

// DeleteItemHandler handles delete item command
type DeleteItemHandler struct {
	repo    domain.ItemRepository
	effects *SideEffects
}

// NewDeleteItemHandler creates a new delete item handler
func NewDeleteItemHandler(repo domain.ItemRepository, effects *SideEffects) *DeleteItemHandler {
	return &DeleteItemHandler{repo: repo, effects: effects}
}

// Handle executes the delete item command
func (h *DeleteItemHandler) Handle(ctx context.Context, cmd DeleteItemCommand) error {
	if cmd.ID == 0 {
		return fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	h.effects.ItemChanged(ctx, "", nil)
	return nil
}
