package query

import (
	"context"
	"fmt"
	"io"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
)

// ExportReportHandler writes a report as CSV.
type ExportReportHandler struct {
	reports *ClassifyInventoryHandler
}

// NewExportReportHandler creates a new export report handler
func NewExportReportHandler(reports *ClassifyInventoryHandler) *ExportReportHandler {
	return &ExportReportHandler{reports: reports}
}

// Handle builds the report for q and streams it to w.
func (h *ExportReportHandler) Handle(ctx context.Context, q ClassifyInventoryQuery, w io.Writer) error {
	report, err := h.reports.Handle(ctx, q)
	if err != nil {
		return err
	}
	if err := classification.WriteCSV(w, report.Items); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
