package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/inventory-analytics/internal/inventory/domain"
)

// Paging limits
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListItemsQuery represents the query to list items
type ListItemsQuery struct {
	Limit      int
	Offset     int
	Categories []string
}

// ListItemsHandler handles list items query
type ListItemsHandler struct {
	repo domain.ItemRepository
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(repo domain.ItemRepository) *ListItemsHandler {
	return &ListItemsHandler{repo: repo}
}

// Handle executes the list items query
func (h *ListItemsHandler) Handle(ctx context.Context, query ListItemsQuery) ([]domain.Item, error) {
	if query.Limit <= 0 {
		query.Limit = DefaultLimit
	}
	if query.Limit > MaxLimit {
		query.Limit = MaxLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	var categories []string
	for _, c := range query.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	var (
		items []domain.Item
		err   error
	)
	if len(categories) > 0 {
		items, err = h.repo.FindByCategories(ctx, categories, query.Limit, query.Offset)
	} else {
		items, err = h.repo.FindAll(ctx, query.Limit, query.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}
