package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-analytics/internal/inventory/domain"
	"github.com/tair/inventory-analytics/kafka"
	"github.com/tair/inventory-analytics/pkg/logger"
)

// ReceiveGoodsCommand books a goods receipt note line into stock.
type ReceiveGoodsCommand struct {
	ItemID    uint
	Quantity  float64
	GRNNumber string
}

// ReceiveGoodsHandler handles receive goods command
type ReceiveGoodsHandler struct {
	repo    domain.ItemRepository
	effects *SideEffects
}

// NewReceiveGoodsHandler creates a new receive goods handler
func NewReceiveGoodsHandler(repo domain.ItemRepository, effects *SideEffects) *ReceiveGoodsHandler {
	return &ReceiveGoodsHandler{repo: repo, effects: effects}
}

// Handle adds the received quantity to the item's stock.
func (h *ReceiveGoodsHandler) Handle(ctx context.Context, cmd ReceiveGoodsCommand) (*domain.Item, error) {
	if cmd.ItemID == 0 {
		return nil, fmt.Errorf("%w: item_id is required", domain.ErrValidation)
	}
	if cmd.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than 0", domain.ErrValidation)
	}

	item, err := h.repo.AddStock(ctx, cmd.ItemID, cmd.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to receive goods for item %d: %w", cmd.ItemID, err)
	}

	prior := *item
	prior.CurrentStock -= cmd.Quantity
	h.effects.ItemChanged(ctx, prior.StockStatus(), item)

	logger.Info(ctx).
		Str("grn", cmd.GRNNumber).
		Uint("item_id", item.ID).
		Float64("quantity", cmd.Quantity).
		Float64("stock", item.CurrentStock).
		Msg("Goods received")
	return item, nil
}

// HandleEvent adapts the handler to goods received events from Kafka.
func (h *ReceiveGoodsHandler) HandleEvent(ctx context.Context, event kafka.GoodsReceivedEvent) error {
	_, err := h.Handle(ctx, ReceiveGoodsCommand{
		ItemID:    event.ItemID,
		Quantity:  event.Quantity,
		GRNNumber: event.GRNNumber,
	})
	return err
}
