package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/inventory-analytics/internal/config"
	"github.com/tair/inventory-analytics/internal/inventory/cache"
	"github.com/tair/inventory-analytics/internal/inventory/delivery/http"
	"github.com/tair/inventory-analytics/internal/inventory/domain"
	"github.com/tair/inventory-analytics/internal/inventory/repository"
	"github.com/tair/inventory-analytics/internal/inventory/source"
	"github.com/tair/inventory-analytics/internal/inventory/usecase/command"
	"github.com/tair/inventory-analytics/internal/inventory/usecase/query"
)

// Service bundles what the process entry point serves.
type Service struct {
	HTTP         *http.InventoryHandler
	ReceiveGoods *command.ReceiveGoodsHandler
}

// ProvideItemRepository provides the traced item repository. A nil db selects
// the in-memory store.
func ProvideItemRepository(db *gorm.DB) domain.ItemRepository {
	if db == nil {
		return repository.NewTracedItemRepository(repository.NewMemoryItemRepository())
	}
	return repository.NewTracedItemRepository(repository.NewGormItemRepository(db))
}

// ProvideItemSource reads from the remote endpoint when one is configured and
// from the item store otherwise.
func ProvideItemSource(cfg config.SourceConfig, repo domain.ItemRepository) source.ItemSource {
	if cfg.URL != "" {
		return source.NewBreakerSource(
			source.NewHTTPSource(cfg.URL, cfg.Timeout),
			source.DefaultMaxFailures,
			source.DefaultOpenTimeout,
		)
	}
	return source.NewRepositorySource(repo)
}

// ProvideClassifyInventoryHandler feeds every fresh classification into the
// ABC gauges.
func ProvideClassifyInventoryHandler(src source.ItemSource, reportCache cache.ReportCache, metrics *http.Metrics) *query.ClassifyInventoryHandler {
	return query.NewClassifyInventoryHandler(src, reportCache).WithObserver(metrics)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideItemRepository,
	ProvideItemSource,
)

var CommandHandlerSet = wire.NewSet(
	command.NewSideEffects,
	command.NewCreateItemHandler,
	command.NewUpdateItemHandler,
	command.NewUpdateStockHandler,
	command.NewReceiveGoodsHandler,
	command.NewDeleteItemHandler,
	wire.Struct(new(http.Commands), "*"),
)

var QueryHandlerSet = wire.NewSet(
	ProvideClassifyInventoryHandler,
	query.NewGetItemHandler,
	query.NewListItemsHandler,
	query.NewGetSummaryHandler,
	query.NewExportReportHandler,
	wire.Struct(new(http.Queries), "*"),
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
	http.NewMetrics,
	http.NewInventoryHandler,
	wire.Struct(new(Service), "*"),
)
