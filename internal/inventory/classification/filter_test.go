package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func classifiedFixture() []ClassifiedItem {
	pallet := Item{ID: "1", Name: "Pallet Jack", SKU: "PJ-100", Category: "Equipment", CurrentStock: 4, UnitCost: 5000}
	tape := Item{ID: "2", Name: "Packing Tape", SKU: "TP-7", Category: "Consumables", CurrentStock: 30, UnitCost: 2, SafetyStock: ptr(40)}
	labels := Item{ID: "3", Name: "Shipping Labels", SKU: "LB-2", Category: "consumables", CurrentStock: 90, UnitCost: 1, ReorderPoint: ptr(100)}
	return Classify([]Item{pallet, tape, labels})
}

func TestFilter(t *testing.T) {
	items := classifiedFixture()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"zero criteria", Criteria{}, []string{"1", "3", "2"}},
		{"search by name", Criteria{Search: "tape"}, []string{"2"}},
		{"search by sku", Criteria{Search: "lb-"}, []string{"3"}},
		{"category ignores case", Criteria{Category: "CONSUMABLES"}, []string{"3", "2"}},
		{"class", Criteria{Classes: []Class{ClassA}}, []string{"1"}},
		{"status", Criteria{Statuses: []Status{StatusCritical, StatusLow}}, []string{"3", "2"}},
		{"combined", Criteria{Category: "consumables", Statuses: []Status{StatusLow}}, []string{"3"}},
		{"no match", Criteria{Search: "crane"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(items, tt.criteria)
			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	items := classifiedFixture()
	before := append([]ClassifiedItem(nil), items...)

	Filter(items, Criteria{Classes: []Class{ClassC}})

	assert.Equal(t, before, items)
}

func TestCriteria_IsZero(t *testing.T) {
	assert.True(t, Criteria{Search: "  "}.IsZero())
	assert.False(t, Criteria{Statuses: []Status{StatusGood}}.IsZero())
}
