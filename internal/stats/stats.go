// Package stats is the persistent statistics sink: message and command
// counters aggregated in memory and flushed to a sqlite file. Recording
// never touches disk on the dispatch path.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gatebot/internal/core"

	_ "modernc.org/sqlite"
)

// Sink implements core.Recorder with sqlite persistence.
type Sink struct {
	db *sql.DB

	mu       sync.Mutex
	messages int64
	perCmd   map[string]*cmdStats
}

type cmdStats struct {
	runs    int64
	blocked int64
	totalMs int64
}

// Totals is an aggregate snapshot across the lifetime of the database.
type Totals struct {
	Messages int64
	Runs     int64
	Blocked  int64
}

// Open opens (or creates) the stats database.
func Open(dbPath string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("stats: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("stats: open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS counters (
			name  TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err == nil {
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS command_stats (
				name     TEXT PRIMARY KEY,
				runs     INTEGER NOT NULL DEFAULT 0,
				blocked  INTEGER NOT NULL DEFAULT 0,
				total_ms INTEGER NOT NULL DEFAULT 0
			)
		`)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("stats: create tables: %w", err)
	}

	return &Sink{db: db, perCmd: make(map[string]*cmdStats)}, nil
}

// MessageSeen counts one inbound message.
func (s *Sink) MessageSeen() {
	s.mu.Lock()
	s.messages++
	s.mu.Unlock()
}

// CommandRan counts one executed command and its duration.
func (s *Sink) CommandRan(name string, elapsed time.Duration) {
	s.mu.Lock()
	c := s.cmd(name)
	c.runs++
	c.totalMs += elapsed.Milliseconds()
	s.mu.Unlock()
}

// CommandBlocked counts one blocked invocation.
func (s *Sink) CommandBlocked(name string, _ core.BlockedReason) {
	s.mu.Lock()
	s.cmd(name).blocked++
	s.mu.Unlock()
}

// cmd must be called with the mutex held.
func (s *Sink) cmd(name string) *cmdStats {
	c, ok := s.perCmd[name]
	if !ok {
		c = &cmdStats{}
		s.perCmd[name] = c
	}
	return c
}

// Flush writes the accumulated deltas to sqlite and resets them.
func (s *Sink) Flush(ctx context.Context) error {
	s.mu.Lock()
	messages := s.messages
	pending := s.perCmd
	s.messages = 0
	s.perCmd = make(map[string]*cmdStats)
	s.mu.Unlock()

	if messages == 0 && len(pending) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("stats: begin flush: %w", err)
	}
	defer tx.Rollback()

	if messages > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO counters (name, value) VALUES ('messages', ?)
			ON CONFLICT(name) DO UPDATE SET value = value + excluded.value
		`, messages)
		if err != nil {
			return fmt.Errorf("stats: flush counters: %w", err)
		}
	}

	for name, c := range pending {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO command_stats (name, runs, blocked, total_ms) VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				runs     = runs + excluded.runs,
				blocked  = blocked + excluded.blocked,
				total_ms = total_ms + excluded.total_ms
		`, name, c.runs, c.blocked, c.totalMs)
		if err != nil {
			return fmt.Errorf("stats: flush command %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// RunFlusher flushes on a fixed interval until ctx is done, then once more.
func (s *Sink) RunFlusher(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.Flush(context.Background())
		case <-ticker.C:
			if err := s.Flush(ctx); err != nil {
				return err
			}
		}
	}
}

// ReadTotals returns lifetime totals, including unflushed deltas.
func (s *Sink) ReadTotals(ctx context.Context) (Totals, error) {
	var t Totals

	row := s.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = 'messages'`)
	if err := row.Scan(&t.Messages); err != nil && err != sql.ErrNoRows {
		return t, fmt.Errorf("stats: read counters: %w", err)
	}

	row = s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(runs), 0), COALESCE(SUM(blocked), 0) FROM command_stats`)
	if err := row.Scan(&t.Runs, &t.Blocked); err != nil {
		return t, fmt.Errorf("stats: read command stats: %w", err)
	}

	s.mu.Lock()
	t.Messages += s.messages
	for _, c := range s.perCmd {
		t.Runs += c.runs
		t.Blocked += c.blocked
	}
	s.mu.Unlock()

	return t, nil
}

// Close flushes pending deltas and closes the database.
func (s *Sink) Close() error {
	if err := s.Flush(context.Background()); err != nil {
		return err
	}
	return s.db.Close()
}
