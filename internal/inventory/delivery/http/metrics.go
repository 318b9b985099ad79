package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
)

// Metrics holds the Prometheus collectors of the inventory service.
type Metrics struct {
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	abcItems       *prometheus.GaugeVec
	statusItems    *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_service_requests_total",
				Help: "Total number of requests to inventory service",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventory_service_request_duration_seconds",
				Help:    "Duration of inventory service requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		// p50, p90, p95, p99
		requestSummary: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "inventory_service_request_duration_summary",
				Help: "Summary of request durations with percentiles (client-side quantiles)",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.01,
					0.99: 0.001,
				},
				MaxAge: 10 * time.Minute,
			},
			[]string{"method", "endpoint"},
		),
		abcItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "inventory_abc_items",
				Help: "Number of items per ABC class in the latest classification",
			},
			[]string{"class"},
		),
		statusItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "inventory_stock_status_items",
				Help: "Number of items per stock status in the latest classification",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(m.requestCounter, m.requestLatency, m.requestSummary, m.abcItems, m.statusItems)
	return m
}

// ObserveClassification publishes class and status counts of a full batch.
func (m *Metrics) ObserveClassification(items []classification.ClassifiedItem) {
	byClass := make(map[classification.Class]int, len(classification.Classes))
	byStatus := make(map[classification.Status]int, len(classification.Statuses))
	for _, item := range items {
		byClass[item.Class]++
		byStatus[item.Status]++
	}

	for _, c := range classification.Classes {
		m.abcItems.WithLabelValues(string(c)).Set(float64(byClass[c]))
	}
	for _, s := range classification.Statuses {
		m.statusItems.WithLabelValues(string(s)).Set(float64(byStatus[s]))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler with request metrics labelled by endpoint.
func (m *Metrics) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		m.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		m.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}
