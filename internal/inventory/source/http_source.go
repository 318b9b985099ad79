package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
)

// DefaultItemsPath is requested relative to the configured base URL.
const DefaultItemsPath = "/api/items"

// HTTPSource reads records from a remote REST endpoint that answers with a
// JSON array of items.
type HTTPSource struct {
	client *resty.Client
	path   string
}

// NewHTTPSource creates a source against baseURL. Requests carry the
// current trace context.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetTransport(otelhttp.NewTransport(http.DefaultTransport))

	return &HTTPSource{client: client, path: DefaultItemsPath}
}

// WithPath overrides the items path.
func (s *HTTPSource) WithPath(path string) *HTTPSource {
	s.path = path
	return s
}

func (s *HTTPSource) FetchRecords(ctx context.Context) ([]classification.Record, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch items: unexpected status %d", resp.StatusCode())
	}

	records, err := classification.DecodeRecords(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return records, nil
}
