package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-analytics/internal/inventory/domain"
)

// GetItemQuery represents the query to get an item
type GetItemQuery struct {
	ID uint
}

// GetItemHandler handles get item query
type GetItemHandler struct {
	repo domain.ItemRepository
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(repo domain.ItemRepository) *GetItemHandler {
	return &GetItemHandler{repo: repo}
}

// Handle executes the get item query
func (h *GetItemHandler) Handle(ctx context.Context, query GetItemQuery) (*domain.Item, error) {
	if query.ID == 0 {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	item, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", query.ID, err)
	}

	return item, nil
}
