//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/inventory-analytics/internal/config"
	"github.com/tair/inventory-analytics/internal/inventory/cache"
	"github.com/tair/inventory-analytics/internal/inventory/usecase/command"
)

// InitializeService initializes the HTTP handler and the goods receipt
// handler with all dependencies
func InitializeService(
	db *gorm.DB,
	sourceConfig config.SourceConfig,
	reportCache cache.ReportCache,
	alerts command.StockAlertPublisher,
	registerer prometheus.Registerer,
) (*Service, error) {
	wire.Build(AllHandlersSet)
	return nil, nil
}
