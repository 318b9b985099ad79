package query

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tair/inventory-analytics/internal/inventory/cache"
	"github.com/tair/inventory-analytics/internal/inventory/classification"
	"github.com/tair/inventory-analytics/internal/inventory/source"
	"github.com/tair/inventory-analytics/pkg/logger"
)

// ClassifyInventoryQuery represents the query to build an ABC report
type ClassifyInventoryQuery struct {
	Method   classification.Method
	Criteria classification.Criteria
}

// Report is a classified and filtered inventory snapshot.
type Report struct {
	Method      classification.Method           `json:"method"`
	GeneratedAt time.Time                       `json:"generated_at"`
	Items       []classification.ClassifiedItem `json:"items"`
	Summary     classification.Summary          `json:"summary"`
}

// ReportObserver receives the unfiltered classification of every freshly
// built report.
type ReportObserver interface {
	ObserveClassification(items []classification.ClassifiedItem)
}

// ClassifyInventoryHandler handles classify inventory query
type ClassifyInventoryHandler struct {
	source   source.ItemSource
	cache    cache.ReportCache
	observer ReportObserver
	now      func() time.Time
}

// NewClassifyInventoryHandler creates a new classify inventory handler
func NewClassifyInventoryHandler(src source.ItemSource, reportCache cache.ReportCache) *ClassifyInventoryHandler {
	return &ClassifyInventoryHandler{
		source: src,
		cache:  reportCache,
		now:    time.Now,
	}
}

// WithObserver registers o to be told about every fresh classification.
func (h *ClassifyInventoryHandler) WithObserver(o ReportObserver) *ClassifyInventoryHandler {
	h.observer = o
	return h
}

// Handle executes the classify inventory query. A source that cannot be read
// yields an empty report, which is not cached.
func (h *ClassifyInventoryHandler) Handle(ctx context.Context, q ClassifyInventoryQuery) (*Report, error) {
	if q.Method == "" {
		q.Method = classification.MethodPerItem
	}

	key := reportKey(q)
	if data, ok := h.cache.Get(ctx, key); ok {
		var report Report
		if err := json.Unmarshal(data, &report); err == nil {
			return &report, nil
		}
		logger.Warn(ctx).Str("cache_key", key).Msg("Discarding unreadable cached report")
	}

	records, fetchErr := h.source.FetchRecords(ctx)
	if fetchErr != nil {
		logger.Warn(ctx).Err(fetchErr).Msg("Failed to fetch inventory records, classifying an empty batch")
		records = nil
	}

	classified, err := classification.ClassifyWith(q.Method, classification.ResolveAll(records))
	if err != nil {
		return nil, err
	}
	if fetchErr == nil && h.observer != nil {
		h.observer.ObserveClassification(classified)
	}

	items := classification.Filter(classified, q.Criteria)
	report := &Report{
		Method:      q.Method,
		GeneratedAt: h.now().UTC(),
		Items:       items,
		Summary:     classification.Summarize(items),
	}

	logger.Info(ctx).
		Str("method", string(q.Method)).
		Int("total_items", len(classified)).
		Int("matched_items", len(items)).
		Float64("total_value", report.Summary.TotalValue).
		Msg("Inventory classified")

	if fetchErr == nil {
		if data, err := json.Marshal(report); err == nil {
			h.cache.Set(ctx, key, data)
		}
	}
	return report, nil
}

// reportKey renders q canonically so equivalent queries share a cache entry.
func reportKey(q ClassifyInventoryQuery) string {
	classes := make([]string, 0, len(q.Criteria.Classes))
	for _, c := range q.Criteria.Classes {
		classes = append(classes, string(c))
	}
	statuses := make([]string, 0, len(q.Criteria.Statuses))
	for _, s := range q.Criteria.Statuses {
		statuses = append(statuses, string(s))
	}
	slices.Sort(classes)
	slices.Sort(statuses)
	classes = slices.Compact(classes)
	statuses = slices.Compact(statuses)

	return fmt.Sprintf("report|method=%s|search=%s|category=%s|class=%s|status=%s",
		q.Method,
		strings.ToLower(strings.TrimSpace(q.Criteria.Search)),
		strings.ToLower(strings.TrimSpace(q.Criteria.Category)),
		strings.Join(classes, ","),
		strings.Join(statuses, ","),
	)
}
