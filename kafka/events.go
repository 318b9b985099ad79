package kafka

import "time"

// StockStatusChangedEvent is published when an item drops into Low or
// Critical stock.
type StockStatusChangedEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	ItemID         uint      `json:"item_id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Status         string    `json:"status"`
	CurrentStock   float64   `json:"current_stock"`
	ReorderPoint   *float64  `json:"reorder_point,omitempty"`
	SafetyStock    *float64  `json:"safety_stock,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// GoodsReceivedEvent reports quantities booked in by a goods receipt note.
type GoodsReceivedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	GRNNumber string    `json:"grn_number"`
	ItemID    uint      `json:"item_id"`
	Quantity  float64   `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeStockStatusChanged = "inventory.stock_status_changed"
	EventTypeGoodsReceived      = "warehouse.goods_received"
)

// Default topics
const (
	TopicStockAlerts   = "inventory-stock-alerts"
	TopicGoodsReceived = "goods-received"
)
