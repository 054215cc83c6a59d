package schema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/satishbabariya/psyker-go/query/sqlgen"
)

// KeyStrategy selects the primary key synthesized for a table that declares
// none.
type KeyStrategy int

const (
	KeyUUID KeyStrategy = iota
	KeySerial
	KeyNone
)

// UUIDDefault is the default expression of synthesized uuid keys. It needs
// the uuid-ossp extension.
const UUIDDefault = "uuid_generate_v1()"

func (k KeyStrategy) column() *Column {
	switch k {
	case KeySerial:
		return NewColumn("id", Serial, PrimaryKey())
	case KeyNone:
		return nil
	default:
		return NewColumn("id", UUID, NotNull(), Default(UUIDDefault), PrimaryKey())
	}
}

// Declaration is one entry of a table declaration: either a bare type tag
// or a ready Column.
type Declaration struct {
	name   string
	tag    string
	column *Column
	opts   []ColumnOption
}

// Fields is an ordered table declaration.
type Fields []Declaration

// Field declares a column by type tag.
func Field(name, tag string, opts ...ColumnOption) Declaration {
	return Declaration{name: name, tag: tag, opts: opts}
}

// Use declares a column from a prepared Column value, kept as is.
func Use(c *Column) Declaration {
	return Declaration{name: c.Name, column: c}
}

// Foreign declares a reference column to table.id.
func Foreign(name, table string, opts ...ColumnOption) Declaration {
	return Use(NewForeign(name, table, opts...))
}

func (d Declaration) resolve() (*Column, error) {
	if d.column != nil {
		return d.column, nil
	}
	t, err := ParseType(d.tag)
	if err != nil {
		return nil, err
	}
	c := NewColumn(d.name, t, d.opts...)
	if t == Reference && c.Ref.Table == "" {
		return nil, fmt.Errorf("column %q: reference without target, use To: %w", d.name, ErrUnknownTable)
	}
	return c, nil
}

// Table is a named entity kind with ordered columns.
type Table struct {
	Name  string
	Alias string

	columns []*Column
	index   map[string]int
	key     KeyStrategy
	forward []string

	mu      sync.RWMutex
	reverse []string
}

func newTable(name, alias string, fields Fields, key KeyStrategy) (*Table, error) {
	t := &Table{
		Name:  name,
		Alias: alias,
		index: make(map[string]int, len(fields)+1),
		key:   key,
	}
	hasKey := false
	for _, d := range fields {
		c, err := d.resolve()
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		if _, err := c.RenderType(); err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		if c.PrimaryKey {
			hasKey = true
		}
		t.add(c)
	}
	if !hasKey {
		if pk := key.column(); pk != nil {
			t.add(pk)
		}
	}

	seen := make(map[string]bool)
	for _, c := range t.columns {
		if target, ok := c.IsRelationship(); ok && !seen[target] {
			seen[target] = true
			t.forward = append(t.forward, target)
		}
	}
	return t, nil
}

func (t *Table) add(c *Column) {
	if i, ok := t.index[c.Name]; ok {
		t.columns[i] = c
		return
	}
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
}

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// HasColumn reports whether the table declares name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of columns.
func (t *Table) Len() int {
	return len(t.columns)
}

// PrimaryKey returns the primary key column, if any.
func (t *Table) PrimaryKey() *Column {
	for _, c := range t.columns {
		if c.PrimaryKey {
			return c
		}
	}
	return nil
}

// KeyStrategy returns the strategy the table was defined with.
func (t *Table) KeyStrategy() KeyStrategy {
	return t.key
}

// Relationships returns the names of the tables this table references.
func (t *Table) Relationships() []string {
	return append([]string(nil), t.forward...)
}

// ReverseRelationships returns the names of the tables referencing this one.
// The list grows as referencing tables are defined.
func (t *Table) ReverseRelationships() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.reverse...)
}

func (t *Table) addReverse(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reverse = append(t.reverse, name)
}

// RenderCreate renders the create table statement.
func (t *Table) RenderCreate() (string, error) {
	defs := make([]string, len(t.columns))
	for i, c := range t.columns {
		def, err := c.RenderDefinition()
		if err != nil {
			return "", fmt.Errorf("table %s: %w", t.Name, err)
		}
		defs[i] = def
	}
	return sqlgen.CreateTable(t.Name, defs), nil
}

// CastValues applies each column's Cast. Keys without a column pass through.
func (t *Table) CastValues(values map[string]any) map[string]any {
	cast := make(map[string]any, len(values))
	for k, v := range values {
		if c, ok := t.Column(k); ok {
			v = c.Cast(v)
		}
		cast[k] = v
	}
	return cast
}

// Cast casts a single value for column name.
func (t *Table) Cast(name string, v any) any {
	if c, ok := t.Column(name); ok {
		return c.Cast(v)
	}
	return v
}

// Order returns the keys of values in column order; unknown keys follow,
// sorted.
func (t *Table) Order(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for _, c := range t.columns {
		if _, ok := values[c.Name]; ok {
			keys = append(keys, c.Name)
		}
	}
	var extra []string
	for k := range values {
		if !t.HasColumn(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// Target returns the renderer view of the table.
func (t *Table) Target() sqlgen.Target {
	return sqlgen.Target{Name: t.Name, Alias: t.Alias, Columns: t.ColumnNames()}
}

func (t *Table) String() string {
	return fmt.Sprintf("<Table(%s)>", t.Name)
}
