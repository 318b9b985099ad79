package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/inventory-analytics/pkg/logger"
)

// WindowStore counts hits for a key inside a sliding window, the current hit
// included.
type WindowStore interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)
}

// RedisWindowStore keeps one sorted set of hit timestamps per key.
type RedisWindowStore struct {
	client *redis.Client
}

// NewRedisWindowStore creates a window store over client.
func NewRedisWindowStore(client *redis.Client) *RedisWindowStore {
	return &RedisWindowStore{client: client}
}

func (s *RedisWindowStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	windowStart := now.Add(-window)

	pipe := s.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	countCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return countCmd.Val(), nil
}

// RateLimiter limits report requests per client address.
type RateLimiter struct {
	store       WindowStore
	maxRequests int
	window      time.Duration
	trusted     []netip.Prefix
	now         func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(store WindowStore, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:       store,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Middleware returns the rate limiting middleware. Store errors let the
// request through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		identifier := rl.clientIP(r)
		now := rl.now()

		count, err := rl.store.Hit(ctx, "ratelimit:"+identifier, now, rl.window)
		if err != nil {
			logger.Error(ctx).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			next.ServeHTTP(w, r)
			return
		}

		remaining := rl.maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		resetTime := now.Add(rl.window)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if count > int64(rl.maxRequests) {
			logger.Warn(ctx).
				Str("identifier", identifier).
				Int("limit", rl.maxRequests).
				Msg("Rate limit exceeded")

			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			respondJSON(w, http.StatusTooManyRequests, Response{
				Success: false,
				Error:   fmt.Sprintf("Rate limit exceeded, try again in %v", rl.window),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// TrustProxies makes the limiter honour X-Forwarded-For on requests whose
// peer is one of the given addresses or CIDR ranges.
func (rl *RateLimiter) TrustProxies(proxies []string) error {
	for _, proxy := range proxies {
		prefix, err := parseProxy(proxy)
		if err != nil {
			return fmt.Errorf("invalid trusted proxy %q: %w", proxy, err)
		}
		rl.trusted = append(rl.trusted, prefix)
	}
	return nil
}

// clientIP keys on the connection peer. Behind a trusted proxy it walks
// X-Forwarded-For from the right and returns the first untrusted hop.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	remote := remoteHost(r)
	if !rl.isTrusted(remote) {
		return remote
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop != "" && !rl.isTrusted(hop) {
			return hop
		}
	}
	return remote
}

func (rl *RateLimiter) isTrusted(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range rl.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func parseProxy(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		return netip.ParsePrefix(s)
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
