package classification

import (
	"fmt"
	"strings"
)

// Cumulative share cut-offs, in percent.
const (
	CumulativeAThreshold = 80.0
	CumulativeBThreshold = 95.0
)

// Method selects the classification algorithm.
type Method string

const (
	// MethodPerItem tests each item's own share against the thresholds.
	MethodPerItem Method = "per_item"
	// MethodCumulative is the classic Pareto cut over the running share.
	MethodCumulative Method = "cumulative"
)

// ParseMethod maps a user supplied name to a Method. The empty string
// selects MethodPerItem.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodPerItem:
		return MethodPerItem, nil
	case MethodCumulative:
		return MethodCumulative, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// ClassifyWith dispatches to the algorithm named by m.
func ClassifyWith(m Method, items []Item) ([]ClassifiedItem, error) {
	switch m {
	case MethodPerItem, "":
		return Classify(items), nil
	case MethodCumulative:
		return ClassifyCumulative(items), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
	}
}

// ClassifyCumulative ranks items by value and assigns A while the share
// accumulated before an item is under 80%, B while it is under 95%, and C
// for the rest. Items without value are always C. Output order and stock
// status are the same as Classify.
func ClassifyCumulative(items []Item) []ClassifiedItem {
	out := valuate(items)
	sortByShare(out)

	var cumulative float64
	for i := range out {
		switch {
		case out[i].CurrentValue <= 0:
			out[i].Class = ClassC
		case cumulative < CumulativeAThreshold:
			out[i].Class = ClassA
		case cumulative < CumulativeBThreshold:
			out[i].Class = ClassB
		default:
			out[i].Class = ClassC
		}
		cumulative += out[i].PercentageOfTotal
	}
	return out
}
