package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWindow struct {
	hits map[string]int64
	err  error
}

func (m *memoryWindow) Hit(_ context.Context, key string, _ time.Time, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.hits[key]++
	return m.hits[key], nil
}

func TestRateLimiter(t *testing.T) {
	store := &memoryWindow{hits: map[string]int64{}}
	limiter := NewRateLimiter(store, 2, time.Minute)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	request := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/inventory/abc/export", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := request("10.0.0.1:5000")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, request("10.0.0.1:5001").Code)

	rec = request("10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, request("10.0.0.2:5000").Code, "limits are per client")
	assert.Equal(t, int64(3), store.hits["ratelimit:10.0.0.1"])
}

func TestRateLimiter_StoreFailureAllows(t *testing.T) {
	limiter := NewRateLimiter(&memoryWindow{err: errors.New("redis down")}, 1, time.Minute)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestRateLimiter_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	store := &memoryWindow{hits: map[string]int64{}}
	limiter := NewRateLimiter(store, 2, time.Minute)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for _, forwarded := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/inventory/abc", nil)
		req.RemoteAddr = "203.0.113.50:6000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
	assert.Equal(t, map[string]int64{"ratelimit:203.0.113.50": 3}, store.hits)
}

func TestClientIP(t *testing.T) {
	limiter := NewRateLimiter(&memoryWindow{}, 1, time.Minute)
	require.NoError(t, limiter.TrustProxies([]string{"10.0.0.0/8", "192.168.1.9"}))

	tests := []struct {
		name      string
		remote    string
		forwarded string
		want      string
	}{
		{name: "no header", remote: "172.16.0.4:4242", want: "172.16.0.4"},
		{name: "untrusted peer ignores header", remote: "172.16.0.4:4242", forwarded: "203.0.113.7", want: "172.16.0.4"},
		{name: "trusted peer", remote: "192.168.1.9:4242", forwarded: "203.0.113.7", want: "203.0.113.7"},
		{name: "spoofed leftmost hop", remote: "10.1.2.3:80", forwarded: "1.2.3.4, 203.0.113.7, 10.0.0.5", want: "203.0.113.7"},
		{name: "only proxies", remote: "10.1.2.3:80", forwarded: "10.0.0.5", want: "10.1.2.3"},
		{name: "trusted peer without header", remote: "10.1.2.3:80", want: "10.1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, limiter.clientIP(req))
		})
	}
}

func TestRateLimiter_TrustProxiesRejectsGarbage(t *testing.T) {
	limiter := NewRateLimiter(&memoryWindow{}, 1, time.Minute)
	assert.Error(t, limiter.TrustProxies([]string{"not-an-ip"}))
	assert.Error(t, limiter.TrustProxies([]string{"10.0.0.0/99"}))
}
