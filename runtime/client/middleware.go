package client

import (
	"context"
	"database/sql"
	"time"

	"github.com/satishbabariya/psyker-go/internal/debug"
	"github.com/satishbabariya/psyker-go/query/executor"
)

// QueryEvent describes one executed statement.
type QueryEvent struct {
	Query    string
	Args     []any
	Start    time.Time
	Duration time.Duration
	Error    error
}

// Hook observes executed statements.
type Hook func(ctx context.Context, event QueryEvent)

// instrumented wraps a pool or transaction, timing and logging every
// statement.
type instrumented struct {
	db    executor.Storage
	hooks []Hook
}

func (s *instrumented) observe(ctx context.Context, query string, args []any, start time.Time, err error) {
	event := QueryEvent{
		Query:    query,
		Args:     args,
		Start:    start,
		Duration: time.Since(start),
		Error:    err,
	}
	if err != nil {
		debug.Warn("statement failed", "sql", query, "duration", event.Duration, "error", err)
	} else {
		debug.Debug("statement", "sql", query, "duration", event.Duration)
	}
	for _, h := range s.hooks {
		h(ctx, event)
	}
}

func (s *instrumented) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := s.db.ExecContext(ctx, query, args...)
	s.observe(ctx, query, args, start, err)
	return res, err
}

func (s *instrumented) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	s.observe(ctx, query, args, start, err)
	return rows, err
}

// QueryRowContext reports the time to the first row; scan errors surface to
// the caller only.
func (s *instrumented) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := s.db.QueryRowContext(ctx, query, args...)
	s.observe(ctx, query, args, start, row.Err())
	return row
}
