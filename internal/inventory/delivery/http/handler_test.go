package http

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-analytics/internal/inventory/cache"
	"github.com/tair/inventory-analytics/internal/inventory/repository"
	"github.com/tair/inventory-analytics/internal/inventory/source"
	"github.com/tair/inventory-analytics/internal/inventory/usecase/command"
	"github.com/tair/inventory-analytics/internal/inventory/usecase/query"
	"github.com/tair/inventory-analytics/kafka"
)

type testServer struct {
	router  *mux.Router
	metrics *Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo := repository.NewMemoryItemRepository()
	effects := command.NewSideEffects(cache.NopCache{}, kafka.NopPublisher{})
	metrics := NewMetrics(prometheus.NewRegistry())
	reports := query.NewClassifyInventoryHandler(source.NewRepositorySource(repo), cache.NopCache{}).
		WithObserver(metrics)

	handler := NewInventoryHandler(
		Commands{
			CreateItem:   command.NewCreateItemHandler(repo, effects),
			UpdateItem:   command.NewUpdateItemHandler(repo, effects),
			UpdateStock:  command.NewUpdateStockHandler(repo, effects),
			ReceiveGoods: command.NewReceiveGoodsHandler(repo, effects),
			DeleteItem:   command.NewDeleteItemHandler(repo, effects),
		},
		Queries{
			GetItem:        query.NewGetItemHandler(repo),
			ListItems:      query.NewListItemsHandler(repo),
			ClassifyReport: reports,
			GetSummary:     query.NewGetSummaryHandler(reports),
			ExportReport:   query.NewExportReportHandler(reports),
		},
		metrics,
	)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router, nil)
	return &testServer{router: router, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func (s *testServer) seed(t *testing.T) {
	t.Helper()
	for _, body := range []string{
		`{"name":"Forklift Battery","sku":"FB-1","category_name":"Equipment","current_stock":90,"cost":10}`,
		`{"name":"Stretch Film","sku":"SF-1","category_name":"Packaging","current_stock":10,"cost":10,"safety_stock":10}`,
	} {
		rec := s.do(t, http.MethodPost, "/api/inventory/items", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func TestItemLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/inventory/items", `{"name":"Pallet","sku":"PL-1","current_stock":40,"reorder_point":30}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Item created successfully", env.Message)

	rec = s.do(t, http.MethodGet, "/api/inventory/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var item struct {
		SKU          string  `json:"sku"`
		CurrentStock float64 `json:"current_stock"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &item))
	assert.Equal(t, "PL-1", item.SKU)

	rec = s.do(t, http.MethodPatch, "/api/inventory/items/1/stock", `{"stock":12}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/inventory/items/1/receipts", `{"quantity":8,"grn_number":"GRN-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &item))
	assert.Equal(t, 20.0, item.CurrentStock)

	rec = s.do(t, http.MethodPatch, "/api/inventory/items/1", `{"category_name":"Equipment"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/inventory/items?category=Equipment", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []json.RawMessage
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &listed))
	assert.Len(t, listed, 1)

	rec = s.do(t, http.MethodDelete, "/api/inventory/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/inventory/items/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestUpdateItem_NullClearsThreshold(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/inventory/items", `{"name":"Pallet","sku":"PL-1","current_stock":5,"cost":7,"reorder_point":30,"safety_stock":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var item struct {
		Cost         *float64 `json:"cost"`
		ReorderPoint *float64 `json:"reorder_point"`
		SafetyStock  *float64 `json:"safety_stock"`
	}

	rec = s.do(t, http.MethodPatch, "/api/inventory/items/1", `{"safety_stock":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &item))
	assert.Nil(t, item.SafetyStock)
	require.NotNil(t, item.ReorderPoint)
	assert.Equal(t, 30.0, *item.ReorderPoint)
	require.NotNil(t, item.Cost)
	assert.Equal(t, 7.0, *item.Cost)

	rec = s.do(t, http.MethodPatch, "/api/inventory/items/1", `{"reorder_point":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	item.ReorderPoint = nil
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &item))
	assert.Nil(t, item.ReorderPoint)

	rec = s.do(t, http.MethodPatch, "/api/inventory/items/1", `{"reorder_point":"ten"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestItemErrors(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"malformed body", http.MethodPost, "/api/inventory/items", `{`, http.StatusBadRequest},
		{"missing sku", http.MethodPost, "/api/inventory/items", `{"name":"X"}`, http.StatusBadRequest},
		{"duplicate sku", http.MethodPost, "/api/inventory/items", `{"name":"X","sku":"FB-1"}`, http.StatusConflict},
		{"bad id", http.MethodGet, "/api/inventory/items/abc", "", http.StatusBadRequest},
		{"zero id", http.MethodGet, "/api/inventory/items/0", "", http.StatusBadRequest},
		{"unknown id", http.MethodPatch, "/api/inventory/items/99/stock", `{"stock":1}`, http.StatusNotFound},
		{"missing stock", http.MethodPatch, "/api/inventory/items/1/stock", `{}`, http.StatusBadRequest},
		{"negative stock", http.MethodPatch, "/api/inventory/items/1/stock", `{"stock":-1}`, http.StatusBadRequest},
		{"zero receipt", http.MethodPost, "/api/inventory/items/1/receipts", `{"quantity":0}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode(t, rec).Error)
		})
	}
}

func TestGetABCReport(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	rec := s.do(t, http.MethodGet, "/api/inventory/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Method string `json:"method"`
		Items  []struct {
			SKU               string  `json:"sku"`
			PercentageOfTotal float64 `json:"percentage_of_total"`
			Class             string  `json:"abc_class"`
			Status            string  `json:"stock_status"`
		} `json:"items"`
		Summary struct {
			TotalItems int `json:"total_items"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &report))

	assert.Equal(t, "per_item", report.Method)
	require.Len(t, report.Items, 2)
	assert.Equal(t, "FB-1", report.Items[0].SKU)
	assert.Equal(t, "A", report.Items[0].Class)
	assert.InDelta(t, 90.0, report.Items[0].PercentageOfTotal, 1e-9)
	assert.Equal(t, "C", report.Items[1].Class)
	assert.Equal(t, "Critical", report.Items[1].Status)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.abcItems.WithLabelValues("A")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.abcItems.WithLabelValues("C")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.statusItems.WithLabelValues("Critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requestCounter.WithLabelValues("GET", "/api/inventory/abc", "200")))
}

func TestGetABCReport_HugeValues(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []string{
		`{"name":"Bullion","sku":"AU-1","current_stock":1e200,"cost":1e200}`,
		`{"name":"Tape","sku":"TP-1","current_stock":10,"cost":10}`,
	} {
		rec := s.do(t, http.MethodPost, "/api/inventory/items", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/inventory/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		Items []struct {
			SKU               string  `json:"sku"`
			PercentageOfTotal float64 `json:"percentage_of_total"`
			Class             string  `json:"abc_class"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &report))
	require.Len(t, report.Items, 2)
	assert.Equal(t, "AU-1", report.Items[0].SKU)
	assert.Equal(t, "A", report.Items[0].Class)
	assert.Equal(t, 100.0, report.Items[0].PercentageOfTotal)

	rec = s.do(t, http.MethodGet, "/api/inventory/abc/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AU-1")
}

func TestGetABCReport_Filters(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	tests := []struct {
		target string
		skus   []string
	}{
		{"/api/inventory/abc?class=a", []string{"FB-1"}},
		{"/api/inventory/abc?class=A,C", []string{"FB-1", "SF-1"}},
		{"/api/inventory/abc?class=B", []string{}},
		{"/api/inventory/abc?status=critical", []string{"SF-1"}},
		{"/api/inventory/abc?search=film", []string{"SF-1"}},
		{"/api/inventory/abc?category=equipment", []string{"FB-1"}},
		{"/api/inventory/abc?method=cumulative&class=B", []string{"SF-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var report struct {
				Items []struct {
					SKU string `json:"sku"`
				} `json:"items"`
			}
			require.NoError(t, json.Unmarshal(decode(t, rec).Data, &report))

			skus := []string{}
			for _, item := range report.Items {
				skus = append(skus, item.SKU)
			}
			assert.Equal(t, tt.skus, skus)
		})
	}
}

func TestGetABCReport_InvalidParameters(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{
		"/api/inventory/abc?class=D",
		"/api/inventory/abc?status=Fine",
		"/api/inventory/abc?method=pareto",
		"/api/inventory/abc/summary?class=Z",
		"/api/inventory/abc/export?method=x",
	} {
		rec := s.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetABCReport_EmptyInventory(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/inventory/abc/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		TotalItems int            `json:"total_items"`
		TotalValue float64        `json:"total_value"`
		ByClass    map[string]int `json:"by_class"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &summary))
	assert.Zero(t, summary.TotalItems)
	assert.Zero(t, summary.TotalValue)
	assert.Equal(t, map[string]int{"A": 0, "B": 0, "C": 0}, summary.ByClass)
}

func TestExportABCReport(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	rec := s.do(t, http.MethodGet, "/api/inventory/abc/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="abc-analysis.csv"`, rec.Header().Get("Content-Disposition"))

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Stretch Film", "SF-1", "Packaging", "10", "10.00", "100.00", "10.00%", "C"}, rows[2])
}

type failingPinger struct{ err error }

func (p failingPinger) PingContext(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	router := mux.NewRouter()
	(&InventoryHandler{}).RegisterHealthCheck(router, failingPinger{err: errors.New("down")})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
