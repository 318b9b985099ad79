package query

import (
	"context"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
)

// GetSummaryHandler returns only the dashboard counts of a report.
type GetSummaryHandler struct {
	reports *ClassifyInventoryHandler
}

// NewGetSummaryHandler creates a new get summary handler
func NewGetSummaryHandler(reports *ClassifyInventoryHandler) *GetSummaryHandler {
	return &GetSummaryHandler{reports: reports}
}

// Handle executes the get summary query
func (h *GetSummaryHandler) Handle(ctx context.Context, q ClassifyInventoryQuery) (*classification.Summary, error) {
	report, err := h.reports.Handle(ctx, q)
	if err != nil {
		return nil, err
	}
	return &report.Summary, nil
}
