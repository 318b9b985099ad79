package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
)

func f(v float64) *float64 { return &v }

func TestItem_ToRecord(t *testing.T) {
	item := &Item{ID: 42, Name: "Pallet", SKU: "PL-1", CurrentStock: 12, ReorderPoint: f(20)}

	resolved := classification.Resolve(item.ToRecord())

	assert.Equal(t, "42", resolved.ID)
	assert.Equal(t, classification.DefaultCategory, resolved.Category)
	assert.Equal(t, classification.DefaultUnitCost, resolved.UnitCost)
	assert.Equal(t, 12.0, resolved.CurrentStock)
	assert.Nil(t, resolved.SafetyStock)
	assert.Equal(t, 20.0, *resolved.ReorderPoint)
}

func TestItem_StockStatus(t *testing.T) {
	assert.Equal(t, classification.StatusLow, (&Item{CurrentStock: 12, ReorderPoint: f(20)}).StockStatus())
	assert.Equal(t, classification.StatusCritical, (&Item{CurrentStock: 2, SafetyStock: f(5), ReorderPoint: f(20)}).StockStatus())
	assert.Equal(t, classification.StatusGood, (&Item{CurrentStock: 2}).StockStatus())
}
