// Package executor runs built queries against a database and turns the rows
// back into entities or mappings.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/satishbabariya/psyker-go/internal/debug"
	"github.com/satishbabariya/psyker-go/query/builder"
	"github.com/satishbabariya/psyker-go/query/sqlgen"
	"github.com/satishbabariya/psyker-go/schema"
)

// Storage is what the executor needs from a database handle. *sql.DB,
// *sql.Conn and *sql.Tx satisfy it.
type Storage interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Fetch selects what Execute returns.
type Fetch int

const (
	// FetchNone runs the statement and returns nothing.
	FetchNone Fetch = iota
	// FetchOne returns the first row, or nil.
	FetchOne
	// FetchAll returns every row.
	FetchAll
)

// Executor runs queries on a Storage.
type Executor struct {
	db Storage
}

// New creates an executor on db.
func New(db Storage) *Executor {
	return &Executor{db: db}
}

func (e *Executor) build(q builder.Query) (sqlgen.Statement, error) {
	st, err := q.Build()
	if err != nil {
		return st, err
	}
	debug.Debug("execute",
		"kind", q.Kind().String(),
		"table", q.Targets()[0].Name,
		"sql", st.SQL,
		"params", len(st.Args),
	)
	return st, nil
}

func wrap(q builder.Query, st sqlgen.Statement, err error) error {
	table := ""
	if targets := q.Targets(); len(targets) > 0 {
		table = targets[0].Name
	}
	return &QueryError{Kind: q.Kind().String(), Table: table, SQL: st.SQL, Args: st.Args, Cause: err}
}

// Exec runs a statement that returns no rows.
func (e *Executor) Exec(ctx context.Context, q builder.Query) (sql.Result, error) {
	st, err := e.build(q)
	if err != nil {
		return nil, err
	}
	res, err := e.db.ExecContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, wrap(q, st, err)
	}
	return res, nil
}

// Count runs a count query and returns the scalar.
func (e *Executor) Count(ctx context.Context, q builder.Query) (int64, error) {
	st, err := e.build(q)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := e.db.QueryRowContext(ctx, st.SQL, st.Args...).Scan(&n); err != nil {
		return 0, wrap(q, st, err)
	}
	return n, nil
}

// Returning runs an insert with a returning clause and returns the value it
// produced.
func (e *Executor) Returning(ctx context.Context, q builder.Query) (any, error) {
	st, err := e.build(q)
	if err != nil {
		return nil, err
	}
	var v any
	if err := e.db.QueryRowContext(ctx, st.SQL, st.Args...).Scan(&v); err != nil {
		return nil, wrap(q, st, err)
	}
	return normalize(v), nil
}

// Rows returns the raw rows of a query, at most limit of them when limit > 0.
func (e *Executor) Rows(ctx context.Context, q builder.Query, limit int) ([][]any, error) {
	st, err := e.build(q)
	if err != nil {
		return nil, err
	}
	rows, err := e.db.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, wrap(q, st, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, wrap(q, st, err)
	}
	var out [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, wrap(q, st, fmt.Errorf("scan failed: %w", err))
		}
		out = append(out, values)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(q, st, err)
	}
	return out, nil
}

// Dictionaries returns every row as a mapping.
func (e *Executor) Dictionaries(ctx context.Context, q builder.Query) ([]map[string]any, error) {
	rows, err := e.Rows(ctx, q, 0)
	if err != nil {
		return nil, err
	}
	return dictionaries(rows, q.Targets())
}

// Dictionary returns the first row as a mapping, or nil when there is none.
func (e *Executor) Dictionary(ctx context.Context, q builder.Query) (map[string]any, error) {
	rows, err := e.Rows(ctx, q, 1)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return Dictionary(rows[0], q.Targets())
}

func dictionaries(rows [][]any, targets []*schema.Table) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		m, err := Dictionary(row, targets)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Execute dispatches on the query kind and fetch mode. Count queries return
// an int64; FetchOne a map[string]any or nil; FetchAll a []map[string]any;
// FetchNone nil.
func (e *Executor) Execute(ctx context.Context, q builder.Query, fetch Fetch) (any, error) {
	if q.Kind() == builder.KindCount {
		return e.Count(ctx, q)
	}
	switch fetch {
	case FetchOne:
		m, err := e.Dictionary(ctx, q)
		if err != nil || m == nil {
			return nil, err
		}
		return m, nil
	case FetchAll:
		return e.Dictionaries(ctx, q)
	default:
		_, err := e.Exec(ctx, q)
		return nil, err
	}
}

// One returns the first row as a *T, or nil when the query matched nothing.
func One[T any](ctx context.Context, e *Executor, q builder.Query) (*T, error) {
	rows, err := e.Rows(ctx, q, 1)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return Materialize[T](rows[0], q.Targets())
}

// All returns every row as a *T.
func All[T any](ctx context.Context, e *Executor, q builder.Query) ([]*T, error) {
	rows, err := e.Rows(ctx, q, 0)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		v, err := Materialize[T](row, q.Targets())
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// IsNoRows reports whether err means a single-row query found nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
