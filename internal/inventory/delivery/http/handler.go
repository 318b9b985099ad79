package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
	"github.com/tair/inventory-analytics/internal/inventory/domain"
	"github.com/tair/inventory-analytics/internal/inventory/usecase/command"
	"github.com/tair/inventory-analytics/internal/inventory/usecase/query"
	"github.com/tair/inventory-analytics/pkg/logger"
)

// Commands groups the write side handlers.
type Commands struct {
	CreateItem   *command.CreateItemHandler
	UpdateItem   *command.UpdateItemHandler
	UpdateStock  *command.UpdateStockHandler
	ReceiveGoods *command.ReceiveGoodsHandler
	DeleteItem   *command.DeleteItemHandler
}

// Queries groups the read side handlers.
type Queries struct {
	GetItem        *query.GetItemHandler
	ListItems      *query.ListItemsHandler
	ClassifyReport *query.ClassifyInventoryHandler
	GetSummary     *query.GetSummaryHandler
	ExportReport   *query.ExportReportHandler
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// InventoryHandler handles HTTP requests for inventory items and ABC reports
type InventoryHandler struct {
	commands Commands
	queries  Queries
	metrics  *Metrics
	limiter  *RateLimiter
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(commands Commands, queries Queries, metrics *Metrics) *InventoryHandler {
	return &InventoryHandler{
		commands: commands,
		queries:  queries,
		metrics:  metrics,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// WithRateLimiter throttles the report endpoints with rl.
func (h *InventoryHandler) WithRateLimiter(rl *RateLimiter) *InventoryHandler {
	h.limiter = rl
	return h
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	const (
		items   = "/api/inventory/items"
		item    = "/api/inventory/items/{id}"
		stock   = "/api/inventory/items/{id}/stock"
		receipt = "/api/inventory/items/{id}/receipts"
		abc     = "/api/inventory/abc"
		summary = "/api/inventory/abc/summary"
		export  = "/api/inventory/abc/export"
	)
	m := h.metrics.instrument

	router.HandleFunc(items, m(items, h.ListItems)).Methods("GET")
	router.HandleFunc(items, m(items, h.CreateItem)).Methods("POST")
	router.HandleFunc(item, m(item, h.GetItem)).Methods("GET")
	router.HandleFunc(item, m(item, h.UpdateItem)).Methods("PATCH")
	router.HandleFunc(item, m(item, h.DeleteItem)).Methods("DELETE")
	router.HandleFunc(stock, m(stock, h.UpdateStock)).Methods("PATCH")
	router.HandleFunc(receipt, m(receipt, h.ReceiveGoods)).Methods("POST")

	router.HandleFunc(abc, m(abc, h.limit(h.GetABCReport))).Methods("GET")
	router.HandleFunc(summary, m(summary, h.limit(h.GetABCSummary))).Methods("GET")
	router.HandleFunc(export, m(export, h.limit(h.ExportABCReport))).Methods("GET")
}

func (h *InventoryHandler) limit(next http.HandlerFunc) http.HandlerFunc {
	if h.limiter == nil {
		return next
	}
	return h.limiter.Middleware(next).ServeHTTP
}

// RegisterHealthCheck registers health check endpoint. A nil db is always
// healthy.
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db HealthChecker) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				logger.Error(r.Context()).Err(err).Msg("Health check failed")
				respondJSON(w, http.StatusServiceUnavailable, Response{
					Success: false,
					Error:   "Database unavailable",
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Inventory service is healthy",
		})
	}).Methods("GET")
}

// respondJSON sends a JSON response
// respondJSON encodes payload before writing the status so an unencodable
// payload still yields a 500.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to encode response")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(Response{Success: false, Error: "Internal server error"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// respondError maps a use case error onto an HTTP status and writes it.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		message = "Internal server error"
	}

	respondJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, classification.ErrUnknownClass),
		errors.Is(err, classification.ErrUnknownStatus),
		errors.Is(err, classification.ErrUnknownMethod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSKU):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Error:   message,
	})
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// listParam collects a query parameter given repeatedly and/or as a comma
// separated list.
func listParam(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
