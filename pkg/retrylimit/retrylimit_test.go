package retrylimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, nil, fastRetryConfig(5))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("always down")
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return boom
	}, nil, fastRetryConfig(3))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestWithRetryFatalStopsImmediately(t *testing.T) {
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return &FatalError{Err: errors.New("hard 403")}
	}, nil, fastRetryConfig(5))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	var fatal *FatalError
	assert.ErrorAs(t, err, &fatal)
}

func TestWithRetryContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := fastRetryConfig(5)
	cfg.InitialDelay = time.Minute
	err := WithRetryConfig(ctx, func() error { return errors.New("down") }, nil, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdaptiveLimiterAdjusts(t *testing.T) {
	lim := NewAdaptiveLimiter(5, 1, 10, 1, 0.5)
	require.Equal(t, 5.0, lim.CurrentLimit())

	lim.Failure()
	assert.Equal(t, 2.5, lim.CurrentLimit())
	lim.Failure()
	assert.Equal(t, 1.25, lim.CurrentLimit())

	// A success right after a failure must not bounce the limit back up.
	lim.Success()
	assert.Equal(t, 1.25, lim.CurrentLimit())
}

func TestAdaptiveLimiterBounds(t *testing.T) {
	lim := NewAdaptiveLimiter(2, 1, 3, 10, 0.01)

	lim.lastError = time.Now().Add(-time.Minute)
	lim.Success()
	assert.Equal(t, 3.0, lim.CurrentLimit())

	lim.Failure()
	assert.Equal(t, 1.0, lim.CurrentLimit())
}

func TestTrackerMutesAfterThreshold(t *testing.T) {
	tr := NewTracker(3, time.Minute)

	tr.Failure("chan-1")
	tr.Failure("chan-1")
	assert.False(t, tr.Muted("chan-1"))

	tr.Failure("chan-1")
	assert.True(t, tr.Muted("chan-1"))
	assert.False(t, tr.Muted("chan-2"))

	tr.Success("chan-1")
	assert.False(t, tr.Muted("chan-1"))
}

func TestTrackerPurgeDropsStaleEntries(t *testing.T) {
	tr := NewTracker(1, 10*time.Millisecond)

	tr.Failure("chan-1")
	assert.True(t, tr.Muted("chan-1"))

	time.Sleep(20 * time.Millisecond)
	assert.False(t, tr.Muted("chan-1"))
	assert.Equal(t, 1, tr.Purge())
	assert.Zero(t, tr.Purge())
}

func TestTrackerPurgerStopsOnContext(t *testing.T) {
	tr := NewTracker(1, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		tr.RunPurger(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purger did not stop")
	}
}
