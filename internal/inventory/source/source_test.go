package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
	"github.com/tair/inventory-analytics/internal/inventory/domain"
	"github.com/tair/inventory-analytics/internal/inventory/repository"
)

func TestRepositorySource_ReadsEveryPage(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryItemRepository()
	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Item{Name: fmt.Sprintf("item %d", i), SKU: fmt.Sprintf("S-%d", i), CurrentStock: float64(i)}))
	}

	src := NewRepositorySource(repo)
	src.pageSize = 3

	records, err := src.FetchRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 7)
	assert.Equal(t, classification.Identifier("1"), records[0].ID)
	assert.Equal(t, "S-6", records[6].SKU)
}

func TestRepositorySource_EmptyStore(t *testing.T) {
	records, err := NewRepositorySource(repository.NewMemoryItemRepository()).FetchRecords(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

type failingRepo struct {
	domain.ItemRepository
}

func (failingRepo) FindAll(context.Context, int, int) ([]domain.Item, error) {
	return nil, errors.New("connection refused")
}

func TestRepositorySource_PropagatesErrors(t *testing.T) {
	_, err := NewRepositorySource(failingRepo{}).FetchRecords(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/items":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[{"id": 1, "name": "Pallet", "sku": "PL-1", "current_stock": "12", "cost": "40.5"}]`)
		case "/wrapped":
			fmt.Fprint(w, `{"data": []}`)
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	ctx := context.Background()

	records, err := NewHTTPSource(server.URL, time.Second).FetchRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	item := classification.Resolve(records[0])
	assert.Equal(t, "1", item.ID)
	assert.Equal(t, 12.0, item.CurrentStock)
	assert.Equal(t, 40.5, item.UnitCost)

	_, err = NewHTTPSource(server.URL, time.Second).WithPath("/wrapped").FetchRecords(ctx)
	assert.ErrorIs(t, err, classification.ErrNotSequence)

	_, err = NewHTTPSource(server.URL, time.Second).WithPath("/broken").FetchRecords(ctx)
	assert.ErrorContains(t, err, "unexpected status 500")
}
