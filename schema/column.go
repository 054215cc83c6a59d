package schema

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/satishbabariya/psyker-go/query/sqlgen"
)

// Ref is the target of a reference column.
type Ref struct {
	Table  string
	Column string
}

// Column describes one field of a table.
type Column struct {
	Name       string
	Type       Type
	Nullable   bool
	Unique     bool
	Default    string // SQL expression, empty for none
	PrimaryKey bool
	Length     int // varchar length for String columns, 0 for unbounded
	Ref        Ref // set for Reference columns
}

// ColumnOption customizes a Column built by NewColumn or Foreign.
type ColumnOption func(*Column)

// NotNull marks the column as required.
func NotNull() ColumnOption {
	return func(c *Column) { c.Nullable = false }
}

// Unique adds a unique constraint.
func Unique() ColumnOption {
	return func(c *Column) { c.Unique = true }
}

// Default sets the default SQL expression.
func Default(expr string) ColumnOption {
	return func(c *Column) { c.Default = expr }
}

// PrimaryKey flags the column as the table's primary key.
func PrimaryKey() ColumnOption {
	return func(c *Column) { c.PrimaryKey = true }
}

// Length bounds a String column.
func Length(n int) ColumnOption {
	return func(c *Column) { c.Length = n }
}

// To points a reference column at table.id. It lets a bare "foreign" tag
// name its target.
func To(table string) ColumnOption {
	return func(c *Column) {
		c.Ref.Table = strings.ToLower(table)
		if c.Ref.Column == "" {
			c.Ref.Column = "id"
		}
	}
}

// References changes the referenced column of a Foreign column.
func References(column string) ColumnOption {
	return func(c *Column) { c.Ref.Column = column }
}

// NewColumn returns a nullable column of type t.
func NewColumn(name string, t Type, opts ...ColumnOption) *Column {
	c := &Column{Name: name, Type: t, Nullable: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewForeign returns a reference column pointing at table.id. Table names
// are lower-cased like registered tables.
func NewForeign(name, table string, opts ...ColumnOption) *Column {
	c := &Column{Name: name, Type: Reference, Nullable: true, Ref: Ref{Table: strings.ToLower(table), Column: "id"}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RenderType returns the PostgreSQL type of the column.
func (c *Column) RenderType() (string, error) {
	switch c.Type {
	case Int:
		return "integer", nil
	case Float:
		return "numeric", nil
	case Bool:
		return "boolean", nil
	case Serial:
		return "serial", nil
	case String:
		if c.Length > 0 {
			return fmt.Sprintf("varchar(%d)", c.Length), nil
		}
		return "varchar", nil
	case Text:
		return "text", nil
	case Date:
		return "date", nil
	case DateTime:
		return "timestamp", nil
	case UUID:
		return "uuid", nil
	case Reference:
		column := c.Ref.Column
		if column == "" {
			column = "id"
		}
		return sqlgen.ForeignKey(c.Ref.Table, column), nil
	}
	return "", &UnsupportedTypeError{Tag: fmt.Sprintf("type(%d)", int(c.Type))}
}

// RenderDefinition returns the column definition used in create table.
func (c *Column) RenderDefinition() (string, error) {
	typ, err := c.RenderType()
	if err != nil {
		return "", err
	}
	return sqlgen.ColumnDefinition(sqlgen.ColumnDef{
		Name:       c.Name,
		Type:       typ,
		Nullable:   c.Nullable,
		Unique:     c.Unique,
		Default:    c.Default,
		PrimaryKey: c.PrimaryKey,
	}), nil
}

// IsRelationship returns the referenced table of a reference column.
func (c *Column) IsRelationship() (string, bool) {
	if c.Type != Reference {
		return "", false
	}
	return c.Ref.Table, true
}

// Cast prepares v for binding. UUID-valued columns get the canonical string
// form; everything else is returned unchanged.
func (c *Column) Cast(v any) any {
	if c.Type != UUID && c.Type != Reference {
		return v
	}
	switch id := v.(type) {
	case uuid.UUID:
		return id.String()
	case *uuid.UUID:
		if id == nil {
			return nil
		}
		return id.String()
	case [16]byte:
		return uuid.UUID(id).String()
	case fmt.Stringer:
		return id.String()
	}
	return v
}

func (c *Column) String() string {
	return fmt.Sprintf("<Column(%s, type: %s)>", c.Name, c.Type)
}
