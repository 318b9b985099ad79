package source

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
	"github.com/tair/inventory-analytics/pkg/logger"
)

// ErrCircuitOpen is returned without calling the wrapped source while the
// breaker is open.
var ErrCircuitOpen = errors.New("item source circuit breaker is open")

// CircuitState represents the state of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half-open"
)

// Breaker defaults
const (
	DefaultMaxFailures = 5
	DefaultOpenTimeout = 30 * time.Second
)

// BreakerSource guards a remote ItemSource with a circuit breaker so a failing
// endpoint is not called on every report request.
type BreakerSource struct {
	next        ItemSource
	maxFailures int
	openTimeout time.Duration

	mu              sync.Mutex
	state           CircuitState
	failures        int
	lastStateChange time.Time
	now             func() time.Time
}

// NewBreakerSource opens after maxFailures consecutive failures and probes
// again once openTimeout has passed.
func NewBreakerSource(next ItemSource, maxFailures int, openTimeout time.Duration) *BreakerSource {
	if maxFailures <= 0 {
		maxFailures = DefaultMaxFailures
	}
	if openTimeout <= 0 {
		openTimeout = DefaultOpenTimeout
	}
	return &BreakerSource{
		next:            next,
		maxFailures:     maxFailures,
		openTimeout:     openTimeout,
		state:           StateClosed,
		lastStateChange: time.Now(),
		now:             time.Now,
	}
}

func (b *BreakerSource) FetchRecords(ctx context.Context) ([]classification.Record, error) {
	if !b.allow(ctx) {
		return nil, ErrCircuitOpen
	}

	records, err := b.next.FetchRecords(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure(ctx)
		return nil, err
	}
	b.onSuccess(ctx)
	return records, nil
}

// State returns the current state
func (b *BreakerSource) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *BreakerSource) allow(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.lastStateChange) >= b.openTimeout {
		b.transition(StateHalfOpen)
		logger.Info(ctx).Msg("Item source circuit breaker transitioning to half-open")
	}
	return b.state != StateOpen
}

// onFailure records a failure. Callers hold the lock.
func (b *BreakerSource) onFailure(ctx context.Context) {
	b.failures++

	switch {
	case b.state == StateHalfOpen:
		b.transition(StateOpen)
		logger.Warn(ctx).Msg("Item source circuit breaker reopened after half-open failure")
	case b.failures >= b.maxFailures:
		b.transition(StateOpen)
		logger.Error(ctx).
			Int("failures", b.failures).
			Int("threshold", b.maxFailures).
			Msg("Item source circuit breaker opened")
	}
}

// onSuccess records a success. Callers hold the lock.
func (b *BreakerSource) onSuccess(ctx context.Context) {
	if b.state == StateHalfOpen {
		logger.Info(ctx).Msg("Item source circuit breaker closed after successful recovery")
		b.transition(StateClosed)
	}
	b.failures = 0
}

func (b *BreakerSource) transition(state CircuitState) {
	b.state = state
	b.lastStateChange = b.now()
}
