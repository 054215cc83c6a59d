package sqlgen

import (
	"fmt"
	"strings"
)

// ColumnDef holds what is needed to render one column definition.
type ColumnDef struct {
	Name       string
	Type       string
	Nullable   bool
	Unique     bool
	Default    string
	PrimaryKey bool
}

// ColumnDefinition renders "<ident> <type> [not null] [unique] [default v] [primary key]".
func ColumnDefinition(c ColumnDef) string {
	parts := []string{Quote(c.Name), c.Type}
	if !c.Nullable {
		parts = append(parts, "not null")
	}
	if c.Unique {
		parts = append(parts, "unique")
	}
	if c.Default != "" {
		parts = append(parts, "default "+c.Default)
	}
	if c.PrimaryKey {
		parts = append(parts, "primary key")
	}
	return strings.Join(parts, " ")
}

// ForeignKey renders the column type of a reference.
func ForeignKey(table, column string) string {
	return fmt.Sprintf("uuid references %s (%s)", Quote(table), Quote(column))
}

// CreateTable renders create table if not exists <name> (<defs>).
func CreateTable(name string, definitions []string) string {
	return fmt.Sprintf("create table if not exists %s (%s)", Quote(name), strings.Join(definitions, ", "))
}

// CreateExtension renders create extension if not exists "<name>".
func CreateExtension(name string) string {
	return fmt.Sprintf("create extension if not exists %s", Quote(name))
}
