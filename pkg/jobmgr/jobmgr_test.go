package jobmgr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAndStop(t *testing.T) {
	m := NewManager(nil)

	started := make(chan struct{})
	err := m.Start("worker", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	})
	require.NoError(t, err)
	<-started

	assert.Equal(t, []string{"worker"}, m.List())
	require.NoError(t, m.Stop("worker"))
	assert.Empty(t, m.List())
}

func TestDuplicateNameRejected(t *testing.T) {
	m := NewManager(nil)

	require.NoError(t, m.Start("worker", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}))
	assert.Error(t, m.Start("worker", func(context.Context) error { return nil }))

	m.StopAll()
}

func TestFinishedJobIsRemoved(t *testing.T) {
	m := NewManager(nil)

	require.NoError(t, m.Start("oneshot", func(context.Context) error { return nil }))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && len(m.List()) > 0 {
		time.Sleep(time.Millisecond)
	}
	assert.Empty(t, m.List())

	// The name is reusable once the job finished.
	require.NoError(t, m.Start("oneshot", func(context.Context) error { return errors.New("fails, still removed") }))
	m.StopAll()
}

func TestStopUnknownJob(t *testing.T) {
	m := NewManager(nil)
	assert.Error(t, m.Stop("ghost"))
}

func TestStopAllWaitsForJobs(t *testing.T) {
	m := NewManager(nil)

	finished := make(chan string, 2)
	for _, name := range []string{"a", "b"} {
		name := name
		require.NoError(t, m.Start(name, func(ctx context.Context) error {
			<-ctx.Done()
			finished <- name
			return nil
		}))
	}

	m.StopAll()
	assert.Len(t, finished, 2)
	assert.Empty(t, m.List())
}
