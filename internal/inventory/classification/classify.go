// Package classification derives ABC value classes and stock health for
// batches of inventory items. Everything here is pure: results depend only on
// the batch passed in and are recomputed on every call.
package classification

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Class is an ABC value class.
type Class string

const (
	ClassA Class = "A"
	ClassB Class = "B"
	ClassC Class = "C"
)

// Classes lists every class in display order.
var Classes = []Class{ClassA, ClassB, ClassC}

// Status is the stock health of an item relative to its thresholds.
type Status string

const (
	StatusCritical Status = "Critical"
	StatusLow      Status = "Low"
	StatusGood     Status = "Good"
)

// Statuses lists every status from worst to best.
var Statuses = []Status{StatusCritical, StatusLow, StatusGood}

// Per-item share thresholds, in percent.
const (
	ClassAThreshold = 80.0
	ClassBThreshold = 20.0
)

var (
	ErrUnknownClass  = errors.New("unknown abc class")
	ErrUnknownStatus = errors.New("unknown stock status")
	ErrUnknownMethod = errors.New("unknown classification method")
)

// ClassifiedItem is an item together with its derived value figures.
type ClassifiedItem struct {
	Item
	CurrentValue      float64 `json:"current_value"`
	PercentageOfTotal float64 `json:"percentage_of_total"`
	Class             Class   `json:"abc_class"`
	Status            Status  `json:"stock_status"`
}

// Classify values every item, assigns each a class by testing its own share
// of the batch total against the 80/20 thresholds, and evaluates its stock
// status. The result is sorted by share, descending, with ties kept in input
// order.
func Classify(items []Item) []ClassifiedItem {
	out := valuate(items)
	for i := range out {
		out[i].Class = classForShare(out[i].PercentageOfTotal)
	}
	sortByShare(out)
	return out
}

// EvaluateStatus reports Critical when stock is at or below safety stock, Low
// when it is at or below the reorder point, and Good otherwise. Undefined
// thresholds never trigger; negative ones count as zero.
func EvaluateStatus(item Item) Status {
	stock := nonNegative(item.CurrentStock)
	safety, reorder := clampThreshold(item.SafetyStock), clampThreshold(item.ReorderPoint)
	switch {
	case safety != nil && stock <= *safety:
		return StatusCritical
	case reorder != nil && stock <= *reorder:
		return StatusLow
	default:
		return StatusGood
	}
}

// ParseClass parses a class letter, case-insensitively.
func ParseClass(s string) (Class, error) {
	c := Class(strings.ToUpper(strings.TrimSpace(s)))
	if slices.Contains(Classes, c) {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownClass, s)
}

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func classForShare(pct float64) Class {
	switch {
	case pct >= ClassAThreshold:
		return ClassA
	case pct >= ClassBThreshold:
		return ClassB
	default:
		return ClassC
	}
}

// valuate computes value, share and status for each item in input order.
func valuate(items []Item) []ClassifiedItem {
	out := make([]ClassifiedItem, len(items))
	values := make([]float64, len(items))

	for i, item := range items {
		item = sanitize(item)
		out[i] = ClassifiedItem{
			Item:         item,
			CurrentValue: saturate(item.CurrentStock * item.UnitCost),
			Status:       EvaluateStatus(item),
		}
		values[i] = out[i].CurrentValue
	}

	for i, pct := range shares(values) {
		out[i].PercentageOfTotal = pct
	}
	return out
}

// shares returns each value as a percentage of the sum of values. When the
// sum overflows, values are first scaled down by the largest one.
func shares(values []float64) []float64 {
	out := make([]float64, len(values))

	var total, largest float64
	for _, v := range values {
		total += v
		largest = max(largest, v)
	}
	if largest <= 0 {
		return out
	}

	scale := 1.0
	if math.IsInf(total, 0) {
		scale = largest
		total = 0
		for _, v := range values {
			total += v / scale
		}
	}
	for i, v := range values {
		out[i] = v / scale / total * 100
	}
	return out
}

// saturate caps an overflowed value at the largest finite float64.
func saturate(v float64) float64 {
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

// sanitize re-applies the numeric guards for items built directly rather
// than through Resolve.
func sanitize(item Item) Item {
	item.CurrentStock = nonNegative(item.CurrentStock)
	if finite(item.UnitCost) {
		item.UnitCost = nonNegative(item.UnitCost)
	} else {
		item.UnitCost = DefaultUnitCost
	}
	if item.Category == "" {
		item.Category = DefaultCategory
	}
	item.ReorderPoint = clampThreshold(item.ReorderPoint)
	item.SafetyStock = clampThreshold(item.SafetyStock)
	return item
}

// clampThreshold returns a copy of p clamped to zero. Non-finite thresholds
// are dropped.
func clampThreshold(p *float64) *float64 {
	if p == nil || !finite(*p) {
		return nil
	}
	v := max(*p, 0)
	return &v
}

func sortByShare(items []ClassifiedItem) {
	slices.SortStableFunc(items, func(a, b ClassifiedItem) int {
		return cmp.Compare(b.PercentageOfTotal, a.PercentageOfTotal)
	})
}
