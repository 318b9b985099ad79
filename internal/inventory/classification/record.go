package classification

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultUnitCost is used when a record carries no usable cost.
	DefaultUnitCost = 100.0

	// DefaultCategory labels records without a category.
	DefaultCategory = "Uncategorized"
)

// ErrNotSequence is returned when a payload that should hold a batch of
// records is not a JSON array.
var ErrNotSequence = errors.New("inventory payload is not a sequence of records")

// Number is a numeric field as delivered by a data source. It accepts JSON
// numbers and numeric strings; null, empty and malformed values leave it unset.
type Number struct {
	value float64
	set   bool
}

// NumberOf returns a set Number holding v.
func NumberOf(v float64) Number {
	return Number{value: v, set: finite(v)}
}

// NumberFrom returns a set Number for non-nil v and an unset one otherwise.
func NumberFrom(v *float64) Number {
	if v == nil {
		return Number{}
	}
	return NumberOf(*v)
}

// Float returns the value and whether it was present and numeric.
func (n Number) Float() (float64, bool) {
	return n.value, n.set
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		*n = NumberOf(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	*n = NumberOf(f)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// Identifier is an opaque record id that may arrive as a string or a number.
type Identifier string

func (id *Identifier) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		*id = ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*id = Identifier(s)
	default:
		*id = Identifier(raw)
	}
	return nil
}

// Record is a partial inventory record as fetched from a data source.
type Record struct {
	ID           Identifier `json:"id"`
	Name         string     `json:"name"`
	SKU          string     `json:"sku"`
	Category     string     `json:"category_name,omitempty"`
	CurrentStock Number     `json:"current_stock"`
	UnitCost     Number     `json:"cost"`
	ReorderPoint Number     `json:"reorder_point"`
	SafetyStock  Number     `json:"safety_stock"`
}

// Item is an inventory record with every default resolved.
type Item struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SKU          string   `json:"sku"`
	Category     string   `json:"category"`
	CurrentStock float64  `json:"current_stock"`
	UnitCost     float64  `json:"unit_cost"`
	ReorderPoint *float64 `json:"reorder_point,omitempty"`
	SafetyStock  *float64 `json:"safety_stock,omitempty"`
}

// DecodeRecords parses a JSON array of records. Malformed numeric fields are
// tolerated; a payload that is not an array is not.
func DecodeRecords(data []byte) ([]Record, error) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrNotSequence
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Resolve applies the ingestion defaults to a single record.
func Resolve(r Record) Item {
	item := Item{
		ID:       string(r.ID),
		Name:     r.Name,
		SKU:      r.SKU,
		Category: strings.TrimSpace(r.Category),
		UnitCost: DefaultUnitCost,
	}
	if item.Category == "" {
		item.Category = DefaultCategory
	}

	if v, ok := r.CurrentStock.Float(); ok {
		item.CurrentStock = nonNegative(v)
	}
	if v, ok := r.UnitCost.Float(); ok {
		item.UnitCost = nonNegative(v)
	}

	item.ReorderPoint = threshold(r.ReorderPoint)
	item.SafetyStock = threshold(r.SafetyStock)
	return item
}

// ResolveAll resolves a batch of records, preserving order.
func ResolveAll(records []Record) []Item {
	items := make([]Item, len(records))
	for i, r := range records {
		items[i] = Resolve(r)
	}
	return items
}

func threshold(n Number) *float64 {
	v, ok := n.Float()
	if !ok {
		return nil
	}
	v = nonNegative(v)
	return &v
}

func nonNegative(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
