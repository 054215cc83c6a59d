// Package sqlgen renders PostgreSQL statements from plain query state.
//
// Every function is pure. Values never appear in the rendered text: they are
// handed to a Params accumulator which returns the positional placeholder for
// them, so the order of Params.Args always follows the order of the
// placeholders in the text.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Statement is rendered SQL plus its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

// String returns the SQL text.
func (s Statement) String() string {
	return s.SQL
}

// Params collects bound values while a statement is rendered.
type Params struct {
	args []any
}

// Bind records v and returns the placeholder referring to it.
func (p *Params) Bind(v any) string {
	p.args = append(p.args, v)
	return Placeholder(len(p.args))
}

// Args returns the bound values in placeholder order.
func (p *Params) Args() []any {
	return p.args
}

// Len returns how many values have been bound.
func (p *Params) Len() int {
	return len(p.args)
}

// Placeholder returns the n-th positional placeholder.
func Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// Quote quotes a single identifier.
func Quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// Qualified quotes a dotted identifier such as alias.column.
func Qualified(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}

// Reference quotes a column reference. A dot separates a qualifier.
func Reference(name string) string {
	return Qualified(strings.Split(name, ".")...)
}

// Concat joins the non-empty fragments with sep.
func Concat(sep string, fragments ...string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, sep)
}

// Columns renders a quoted column list.
func Columns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = Quote(c)
	}
	return strings.Join(quoted, ", ")
}

// Select renders select <cols> from <table>.
func Select(table string, columns []string) string {
	return fmt.Sprintf("select %s from %s", Columns(columns), Quote(table))
}

// Count renders select count(*) from <table>.
func Count(table string) string {
	return fmt.Sprintf("select count(*) from %s", Quote(table))
}

// Delete renders delete from <table>.
func Delete(table string) string {
	return fmt.Sprintf("delete from %s", Quote(table))
}

// DropTable renders drop table <table> [cascade].
func DropTable(table string, cascade bool) string {
	return withCascade(fmt.Sprintf("drop table %s", Quote(table)), cascade)
}

// Truncate renders truncate <table> [cascade].
func Truncate(table string, cascade bool) string {
	return withCascade(fmt.Sprintf("truncate %s", Quote(table)), cascade)
}

func withCascade(sql string, cascade bool) string {
	if cascade {
		return sql + " cascade"
	}
	return sql
}

// Assignment is one column = value pair of an insert or update.
type Assignment struct {
	Column string
	Value  any
}

// Update renders update <table> set <col> = $n, ...
func Update(table string, set []Assignment, p *Params) string {
	parts := make([]string, len(set))
	for i, a := range set {
		parts[i] = fmt.Sprintf("%s = %s", Quote(a.Column), p.Bind(a.Value))
	}
	return fmt.Sprintf("update %s set %s", Quote(table), strings.Join(parts, ", "))
}

// Insert renders insert into <table> (<cols>) values (<placeholders>) with an
// optional returning column.
func Insert(table string, values []Assignment, returning string, p *Params) string {
	columns := make([]string, len(values))
	placeholders := make([]string, len(values))
	for i, a := range values {
		columns[i] = a.Column
		placeholders[i] = p.Bind(a.Value)
	}
	sql := fmt.Sprintf("insert into %s (%s) values (%s)",
		Quote(table), Columns(columns), strings.Join(placeholders, ", "))
	if returning != "" {
		sql += " returning " + Quote(returning)
	}
	return sql
}

// Limit renders limit $n and, when offset is set, offset $m.
func Limit(limit int, offset *int, p *Params) string {
	sql := "limit " + p.Bind(limit)
	if offset != nil {
		sql += " offset " + p.Bind(*offset)
	}
	return sql
}
