// Package client connects a schema to a PostgreSQL database.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "github.com/lib/pq"              // PostgreSQL driver

	"github.com/satishbabariya/psyker-go/internal/debug"
	"github.com/satishbabariya/psyker-go/query/builder"
	"github.com/satishbabariya/psyker-go/query/executor"
	"github.com/satishbabariya/psyker-go/query/sqlgen"
	"github.com/satishbabariya/psyker-go/schema"
)

// Config describes the database connection.
type Config struct {
	// Driver is "postgres" (lib/pq, default) or "pgx".
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
	// ServerVersion is an optional constraint such as ">= 12".
	ServerVersion string
}

// Client owns a connection pool and the schema it serves.
type Client struct {
	db       *sql.DB
	cfg      Config
	registry *schema.Registry
	storage  *instrumented
	exec     *executor.Executor
}

// Option customizes Open.
type Option func(*Client)

// WithHook registers a hook called after every statement.
func WithHook(h Hook) Option {
	return func(c *Client) { c.storage.hooks = append(c.storage.hooks, h) }
}

// driverName maps configured driver names to database/sql driver names.
func driverName(driver string) string {
	switch driver {
	case "", "postgres", "postgresql", "pq":
		return "postgres"
	case "pgx":
		return "pgx"
	default:
		return ""
	}
}

// Open connects to the database and pings it. Failures to reach the server
// are reported as *ConnectionFailure.
func Open(ctx context.Context, cfg Config, registry *schema.Registry, opts ...Option) (*Client, error) {
	name := driverName(cfg.Driver)
	if name == "" {
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	db, err := sql.Open(name, cfg.URL)
	if err != nil {
		return nil, &ConnectionFailure{Target: redact(cfg.URL), Cause: err}
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, &ConnectionFailure{Target: redact(cfg.URL), Cause: err}
	}

	c := New(db, registry, opts...)
	c.cfg = cfg
	if cfg.ServerVersion != "" {
		if err := c.CheckServerVersion(ctx, cfg.ServerVersion); err != nil {
			db.Close()
			return nil, err
		}
	}
	debug.Info("connected", "driver", name, "target", redact(cfg.URL))
	return c, nil
}

// New wraps an open database handle.
func New(db *sql.DB, registry *schema.Registry, opts ...Option) *Client {
	c := &Client{db: db, registry: registry, storage: &instrumented{db: db}}
	for _, opt := range opts {
		opt(c)
	}
	c.exec = executor.New(c.storage)
	return c
}

// Close closes the pool. The client is unusable afterwards.
func (c *Client) Close() error {
	return c.db.Close()
}

// DB returns the underlying pool.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Registry returns the schema served by the client.
func (c *Client) Registry() *schema.Registry {
	return c.registry
}

// Executor returns the executor bound to the client.
func (c *Client) Executor() *executor.Executor {
	return c.exec
}

// Table looks up a table of the registry.
func (c *Client) Table(name string) (*schema.Table, error) {
	t, ok := c.registry.Table(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, schema.ErrUnknownTable)
	}
	return t, nil
}

// CreateTables creates every table, referenced tables first. The uuid-ossp
// extension is created when a table uses generated uuid keys.
func (c *Client) CreateTables(ctx context.Context) error {
	if err := c.registry.Validate(); err != nil {
		return err
	}
	var stmts []string
	if c.registry.NeedsUUID() {
		stmts = append(stmts, sqlgen.CreateExtension("uuid-ossp"))
	}
	ddl, err := c.registry.RenderCreate()
	if err != nil {
		return err
	}
	stmts = append(stmts, ddl...)
	for _, stmt := range stmts {
		if _, err := c.storage.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// DropTables drops every table, referencing tables first.
func (c *Client) DropTables(ctx context.Context, cascade bool) error {
	order := c.registry.CreationOrder()
	for i := len(order) - 1; i >= 0; i-- {
		if _, err := c.exec.Exec(ctx, builder.Drop(order[i], cascade)); err != nil {
			return err
		}
	}
	return nil
}

func returningColumn(t *schema.Table) string {
	if pk := t.PrimaryKey(); pk != nil {
		return pk.Name
	}
	return "id"
}

// Save inserts values into t and returns the stored row, read back by its
// primary key.
func (c *Client) Save(ctx context.Context, t *schema.Table, values map[string]any) (map[string]any, error) {
	key := returningColumn(t)
	id, err := c.exec.Returning(ctx, builder.Insert(t, values, key))
	if err != nil {
		return nil, err
	}
	return c.exec.Dictionary(ctx, builder.Select(t, builder.F(key, id)))
}

// SaveAs is Save returning a typed entity.
func SaveAs[T any](ctx context.Context, c *Client, t *schema.Table, values map[string]any) (*T, error) {
	key := returningColumn(t)
	id, err := c.exec.Returning(ctx, builder.Insert(t, values, key))
	if err != nil {
		return nil, err
	}
	return executor.One[T](ctx, c.exec, builder.Select(t, builder.F(key, id)))
}
