// Package source fetches the raw inventory records that classification runs on.
package source

import (
	"context"
	"fmt"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
	"github.com/tair/inventory-analytics/internal/inventory/domain"
)

// ItemSource returns a snapshot of every inventory record.
type ItemSource interface {
	FetchRecords(ctx context.Context) ([]classification.Record, error)
}

// DefaultPageSize is the batch size RepositorySource reads with.
const DefaultPageSize = 500

// RepositorySource reads records from the local item store.
type RepositorySource struct {
	repo     domain.ItemRepository
	pageSize int
}

// NewRepositorySource creates a source over repo.
func NewRepositorySource(repo domain.ItemRepository) *RepositorySource {
	return &RepositorySource{repo: repo, pageSize: DefaultPageSize}
}

func (s *RepositorySource) FetchRecords(ctx context.Context) ([]classification.Record, error) {
	records := []classification.Record{}
	for offset := 0; ; offset += s.pageSize {
		items, err := s.repo.FindAll(ctx, s.pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to read items at offset %d: %w", offset, err)
		}
		for i := range items {
			records = append(records, items[i].ToRecord())
		}
		if len(items) < s.pageSize {
			return records, nil
		}
	}
}
