package schema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/satishbabariya/psyker-go/internal/debug"
)

// TableOption customizes Define.
type TableOption func(*tableConfig)

type tableConfig struct {
	key KeyStrategy
}

// WithKey selects the primary key strategy. The default is KeyUUID.
func WithKey(k KeyStrategy) TableOption {
	return func(c *tableConfig) { c.key = k }
}

// Registry owns every table of a schema. Tables refer to each other by name
// through the registry; aliases follow registration order.
type Registry struct {
	mu     sync.RWMutex
	tables []*Table
	byName map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Define registers a table. The name is lower-cased and the table receives
// the next alias.
func (r *Registry) Define(name string, fields Fields, opts ...TableOption) (*Table, error) {
	cfg := tableConfig{key: KeyUUID}
	for _, opt := range opts {
		opt(&cfg)
	}
	name = strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("%s: %w", name, ErrDuplicateTable)
	}
	t, err := newTable(name, fmt.Sprintf("t%d", len(r.tables)), fields, cfg.key)
	if err != nil {
		return nil, err
	}
	r.byName[name] = len(r.tables)
	r.tables = append(r.tables, t)

	for _, target := range t.forward {
		if i, ok := r.byName[target]; ok {
			r.tables[i].addReverse(name)
		}
	}
	// earlier tables that reference this one
	for _, other := range r.tables[:len(r.tables)-1] {
		for _, target := range other.forward {
			if target == name {
				t.addReverse(other.Name)
			}
		}
	}

	debug.Debug("table defined", "table", name, "alias", t.Alias, "columns", t.Len())
	return t, nil
}

// MustDefine is like Define but panics on error.
func (r *Registry) MustDefine(name string, fields Fields, opts ...TableOption) *Table {
	t, err := r.Define(name, fields, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Table looks up a table by name.
func (r *Registry) Table(name string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return r.tables[i], true
}

// Tables returns every table in registration order.
func (r *Registry) Tables() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Table(nil), r.tables...)
}

// Forward resolves the tables t references.
func (r *Registry) Forward(t *Table) []*Table {
	return r.resolve(t.forward)
}

// Reverse resolves the tables referencing t.
func (r *Registry) Reverse(t *Table) []*Table {
	return r.resolve(t.ReverseRelationships())
}

func (r *Registry) resolve(names []string) []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Table, 0, len(names))
	for _, n := range names {
		if i, ok := r.byName[n]; ok {
			out = append(out, r.tables[i])
		}
	}
	return out
}

// Validate reports references to tables that were never defined.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tables {
		for _, target := range t.forward {
			if _, ok := r.byName[target]; !ok {
				return fmt.Errorf("table %s references %s: %w", t.Name, target, ErrUnknownTable)
			}
		}
	}
	return nil
}

// CreationOrder returns the tables ordered so that referenced tables come
// before the tables referencing them. Ties keep registration order; cycles
// fall back to registration order.
func (r *Registry) CreationOrder() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	placed := make(map[string]bool, len(r.tables))
	order := make([]*Table, 0, len(r.tables))
	for len(order) < len(r.tables) {
		progress := false
		for _, t := range r.tables {
			if placed[t.Name] || !r.ready(t, placed) {
				continue
			}
			placed[t.Name] = true
			order = append(order, t)
			progress = true
		}
		if !progress {
			for _, t := range r.tables {
				if !placed[t.Name] {
					placed[t.Name] = true
					order = append(order, t)
				}
			}
		}
	}
	return order
}

func (r *Registry) ready(t *Table, placed map[string]bool) bool {
	for _, target := range t.forward {
		if target == t.Name {
			continue
		}
		if _, known := r.byName[target]; known && !placed[target] {
			return false
		}
	}
	return true
}

// RenderCreate renders the create statements in creation order.
func (r *Registry) RenderCreate() ([]string, error) {
	var out []string
	for _, t := range r.CreationOrder() {
		sql, err := t.RenderCreate()
		if err != nil {
			return nil, err
		}
		out = append(out, sql)
	}
	return out, nil
}

// NeedsUUID reports whether any table synthesizes uuid keys.
func (r *Registry) NeedsUUID() bool {
	for _, t := range r.Tables() {
		if pk := t.PrimaryKey(); pk != nil && pk.Default == UUIDDefault {
			return true
		}
	}
	return false
}
