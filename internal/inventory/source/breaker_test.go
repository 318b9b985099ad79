package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-analytics/internal/inventory/classification"
)

type flakySource struct {
	err   error
	calls int
}

func (s *flakySource) FetchRecords(context.Context) ([]classification.Record, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []classification.Record{{ID: "1"}}, nil
}

func TestBreakerSource(t *testing.T) {
	ctx := context.Background()
	remote := &flakySource{err: errors.New("503")}
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	b := NewBreakerSource(remote, 2, time.Minute)
	b.now = func() time.Time { return clock }

	_, err := b.FetchRecords(ctx)
	require.Error(t, err)
	assert.Equal(t, StateClosed, b.State())

	_, err = b.FetchRecords(ctx)
	require.Error(t, err)
	assert.Equal(t, StateOpen, b.State())

	_, err = b.FetchRecords(ctx)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, remote.calls, "open breaker does not call the source")

	clock = clock.Add(time.Minute)
	_, err = b.FetchRecords(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, StateOpen, b.State(), "half-open probe failed")
	assert.Equal(t, 3, remote.calls)

	clock = clock.Add(time.Minute)
	remote.err = nil
	records, err := b.FetchRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerSource_SuccessResetsFailures(t *testing.T) {
	ctx := context.Background()
	remote := &flakySource{err: errors.New("timeout")}
	b := NewBreakerSource(remote, 2, time.Minute)

	_, _ = b.FetchRecords(ctx)
	remote.err = nil
	_, err := b.FetchRecords(ctx)
	require.NoError(t, err)

	remote.err = errors.New("timeout")
	_, _ = b.FetchRecords(ctx)
	assert.Equal(t, StateClosed, b.State())
}
