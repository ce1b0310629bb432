// Package jobmgr runs named background jobs with cancellation and in-memory
// tracking. The bot uses it for its periodic workers: the stats flusher, the
// retry-tracker purger, and the datastore autosaver.
//
// Jobs run in separate goroutines and are removed automatically when they
// finish. There is no retry logic and no persistence.
package jobmgr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Job is a running unit of work.
type Job struct {
	Name   string
	Cancel context.CancelFunc
	done   chan struct{}
}

// Manager starts, stops, and tracks background jobs. Safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*Job
	log  *slog.Logger
}

// NewManager creates a Manager. A nil logger falls back to slog.Default.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		jobs: make(map[string]*Job),
		log:  log,
	}
}

// Start runs a job in its own goroutine. Starting a name that is already
// running is an error. The job's context is cancelled by Stop or StopAll.
func (m *Manager) Start(name string, runner func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{Name: name, Cancel: cancel, done: make(chan struct{})}

	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("job %q is already running", name)
	}
	m.jobs[name] = job
	m.mu.Unlock()

	go func() {
		defer close(job.done)
		m.log.Debug("job started", "job", name)

		if err := runner(ctx); err != nil && ctx.Err() == nil {
			m.log.Error("job failed", "job", name, "error", err)
		} else {
			m.log.Debug("job finished", "job", name)
		}

		m.mu.Lock()
		delete(m.jobs, name)
		m.mu.Unlock()
	}()

	return nil
}

// Stop cancels a running job and waits for it to finish.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	job, ok := m.jobs[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %q not running", name)
	}

	job.Cancel()
	<-job.done
	return nil
}

// StopAll cancels every running job and waits for all of them.
func (m *Manager) StopAll() {
	m.mu.Lock()
	running := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		running = append(running, job)
	}
	m.mu.Unlock()

	for _, job := range running {
		job.Cancel()
	}
	for _, job := range running {
		<-job.done
	}
}

// List returns the names of active jobs.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for name := range m.jobs {
		out = append(out, name)
	}
	return out
}
