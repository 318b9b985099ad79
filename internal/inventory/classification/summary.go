package classification

import (
	"cmp"
	"slices"
)

// CategoryShare is the value held by one category.
type CategoryShare struct {
	Category   string  `json:"category"`
	Items      int     `json:"items"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Summary holds the dashboard counts for a classified batch.
type Summary struct {
	TotalItems int             `json:"total_items"`
	TotalValue float64         `json:"total_value"`
	ByClass    map[Class]int   `json:"by_class"`
	ByStatus   map[Status]int  `json:"by_status"`
	Categories []CategoryShare `json:"categories"`
}

// Summarize counts items per class and status and breaks value down by
// category, largest first.
func Summarize(items []ClassifiedItem) Summary {
	s := Summary{
		TotalItems: len(items),
		ByClass:    make(map[Class]int, len(Classes)),
		ByStatus:   make(map[Status]int, len(Statuses)),
		Categories: []CategoryShare{},
	}
	for _, c := range Classes {
		s.ByClass[c] = 0
	}
	for _, st := range Statuses {
		s.ByStatus[st] = 0
	}

	index := make(map[string]int)
	for _, item := range items {
		s.TotalValue = saturate(s.TotalValue + item.CurrentValue)
		s.ByClass[item.Class]++
		s.ByStatus[item.Status]++

		i, ok := index[item.Category]
		if !ok {
			i = len(s.Categories)
			index[item.Category] = i
			s.Categories = append(s.Categories, CategoryShare{Category: item.Category})
		}
		s.Categories[i].Items++
		s.Categories[i].Value = saturate(s.Categories[i].Value + item.CurrentValue)
	}

	values := make([]float64, len(s.Categories))
	for i, c := range s.Categories {
		values[i] = c.Value
	}
	for i, pct := range shares(values) {
		s.Categories[i].Percentage = pct
	}

	slices.SortStableFunc(s.Categories, func(a, b CategoryShare) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return s
}
