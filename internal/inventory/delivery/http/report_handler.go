package http

import (
	"bytes"
	"net/http"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
	"github.com/tair/inventory-analytics/internal/inventory/usecase/query"
)

// ExportFilename is the attachment name of CSV exports.
const ExportFilename = "abc-analysis.csv"

// GetABCReport godoc
// @Summary ABC analysis report
// @Description Classify every item by its share of total inventory value and evaluate stock status
// @Tags ABC
// @Produce json
// @Param method query string false "per_item (default) or cumulative"
// @Param search query string false "Name or SKU substring"
// @Param category query string false "Category"
// @Param class query []string false "A, B or C"
// @Param status query []string false "Critical, Low or Good"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/inventory/abc [get]
func (h *InventoryHandler) GetABCReport(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	report, err := h.queries.ClassifyReport.Handle(r.Context(), q)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    report,
	})
}

// GetABCSummary godoc
// @Summary ABC analysis summary
// @Tags ABC
// @Produce json
// @Param method query string false "per_item (default) or cumulative"
// @Param search query string false "Name or SKU substring"
// @Param category query string false "Category"
// @Param class query []string false "A, B or C"
// @Param status query []string false "Critical, Low or Good"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/inventory/abc/summary [get]
func (h *InventoryHandler) GetABCSummary(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	summary, err := h.queries.GetSummary.Handle(r.Context(), q)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    summary,
	})
}

// ExportABCReport godoc
// @Summary Export ABC analysis as CSV
// @Tags ABC
// @Produce text/csv
// @Param method query string false "per_item (default) or cumulative"
// @Param search query string false "Name or SKU substring"
// @Param category query string false "Category"
// @Param class query []string false "A, B or C"
// @Param status query []string false "Critical, Low or Good"
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/inventory/abc/export [get]
func (h *InventoryHandler) ExportABCReport(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.queries.ExportReport.Handle(r.Context(), q, &buf); err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseReportQuery reads method, search, category, class and status from the
// query string. class and status accept repeated or comma separated values.
func parseReportQuery(r *http.Request) (query.ClassifyInventoryQuery, error) {
	values := r.URL.Query()

	method, err := classification.ParseMethod(values.Get("method"))
	if err != nil {
		return query.ClassifyInventoryQuery{}, err
	}

	criteria := classification.Criteria{
		Search:   values.Get("search"),
		Category: values.Get("category"),
	}
	for _, raw := range listParam(r, "class") {
		c, err := classification.ParseClass(raw)
		if err != nil {
			return query.ClassifyInventoryQuery{}, err
		}
		criteria.Classes = append(criteria.Classes, c)
	}
	for _, raw := range listParam(r, "status") {
		s, err := classification.ParseStatus(raw)
		if err != nil {
			return query.ClassifyInventoryQuery{}, err
		}
		criteria.Statuses = append(criteria.Statuses, s)
	}

	return query.ClassifyInventoryQuery{Method: method, Criteria: criteria}, nil
}
