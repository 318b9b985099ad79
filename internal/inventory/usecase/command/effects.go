package command

import (
	"context"

	"github.com/tair/inventory-analytics/internal/inventory/cache"
	"github.com/tair/inventory-analytics/internal/inventory/classification"
	"github.com/tair/inventory-analytics/internal/inventory/domain"
	"github.com/tair/inventory-analytics/kafka"
	"github.com/tair/inventory-analytics/pkg/logger"
)

// StockAlertPublisher emits stock status alerts.
type StockAlertPublisher interface {
	PublishStockStatusChanged(ctx context.Context, event kafka.StockStatusChangedEvent) error
}

// SideEffects runs after every successful write: cached reports are dropped
// and items that fall into Low or Critical stock raise an alert.
type SideEffects struct {
	cache  cache.ReportCache
	alerts StockAlertPublisher
}

// NewSideEffects creates the post-write hooks shared by command handlers.
func NewSideEffects(reportCache cache.ReportCache, alerts StockAlertPublisher) *SideEffects {
	return &SideEffects{cache: reportCache, alerts: alerts}
}

// ItemChanged is called with the status before the write (empty for new
// items) and the item as stored. Failures are logged, never returned.
func (e *SideEffects) ItemChanged(ctx context.Context, before classification.Status, item *domain.Item) {
	if err := e.cache.Invalidate(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate report cache")
	}

	if item == nil {
		return
	}
	after := item.StockStatus()
	if after == before || after == classification.StatusGood {
		return
	}

	event := kafka.StockStatusChangedEvent{
		ItemID:         item.ID,
		SKU:            item.SKU,
		Name:           item.Name,
		PreviousStatus: string(before),
		Status:         string(after),
		CurrentStock:   item.CurrentStock,
		ReorderPoint:   item.ReorderPoint,
		SafetyStock:    item.SafetyStock,
	}
	if err := e.alerts.PublishStockStatusChanged(ctx, event); err != nil {
		logger.Error(ctx).
			Err(err).
			Uint("item_id", item.ID).
			Str("status", string(after)).
			Msg("Failed to publish stock alert")
	}
}
