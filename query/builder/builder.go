// Package builder assembles statements from a chain of calls.
//
// A Query is a plain value: every method returns an updated copy and leaves
// the receiver untouched, so a partially built query can be shared or
// branched freely.
package builder

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/satishbabariya/psyker-go/query/sqlgen"
	"github.com/satishbabariya/psyker-go/schema"
)

var (
	// ErrNoTarget is returned when building a query without a table.
	ErrNoTarget = errors.New("query has no target table")

	// ErrNoValues is returned when an insert or update carries no values.
	ErrNoValues = errors.New("query has no values")
)

// Kind is the statement a query renders to.
type Kind int

const (
	KindSelect Kind = iota
	KindInsert
	KindUpdate
	KindDelete
	KindDrop
	KindTruncate
	KindCount
	KindJoin
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	case KindDrop:
		return "drop"
	case KindTruncate:
		return "truncate"
	case KindCount:
		return "count"
	case KindJoin:
		return "join"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Query is the accumulated state of one statement.
type Query struct {
	kind       Kind
	targets    []*schema.Table
	aliases    []string
	joins      []JoinSpec
	conditions []sqlgen.Condition
	order      []sqlgen.Order
	random     bool
	limit      *int
	offset     *int
	values     map[string]any
	returning  string
	cascade    bool
}

func newQuery(kind Kind, t *schema.Table) Query {
	q := Query{kind: kind, targets: []*schema.Table{t}}
	if t != nil {
		q.aliases = []string{t.Alias}
	}
	return q
}

// Select starts a select on t, filtered by filters when given.
func Select(t *schema.Table, filters ...Filter) Query {
	q := newQuery(KindSelect, t)
	if len(filters) > 0 {
		q = q.Where(filters...)
	}
	return q
}

// Count starts a select count(*) on t.
func Count(t *schema.Table, filters ...Filter) Query {
	q := newQuery(KindCount, t)
	if len(filters) > 0 {
		q = q.Where(filters...)
	}
	return q
}

// Delete starts a delete on t.
func Delete(t *schema.Table, filters ...Filter) Query {
	q := newQuery(KindDelete, t)
	if len(filters) > 0 {
		q = q.Where(filters...)
	}
	return q
}

// Update starts an update setting values on t.
func Update(t *schema.Table, values map[string]any) Query {
	q := newQuery(KindUpdate, t)
	q.values = values
	return q
}

// Insert starts an insert of values into t. When returning is not empty the
// statement returns that column.
func Insert(t *schema.Table, values map[string]any, returning string) Query {
	q := newQuery(KindInsert, t)
	q.values = values
	q.returning = returning
	return q
}

// Drop starts a drop table.
func Drop(t *schema.Table, cascade bool) Query {
	q := newQuery(KindDrop, t)
	q.cascade = cascade
	return q
}

// Truncate starts a truncate.
func Truncate(t *schema.Table, cascade bool) Query {
	q := newQuery(KindTruncate, t)
	q.cascade = cascade
	return q
}

// Where replaces the filter of the query.
func (q Query) Where(filters ...Filter) Query {
	conditions := make([]sqlgen.Condition, len(filters))
	for i, f := range filters {
		conditions[i] = ParseFilter(f)
	}
	q.conditions = conditions
	return q
}

// OrderBy sets explicit ordering, replacing Random.
func (q Query) OrderBy(orders ...sqlgen.Order) Query {
	q.order = slices.Clone(orders)
	q.random = false
	return q
}

// Random orders rows randomly, replacing OrderBy.
func (q Query) Random() Query {
	q.order = nil
	q.random = true
	return q
}

// Limit caps the number of rows, skipping offset rows when given.
func (q Query) Limit(n int, offset ...int) Query {
	q.limit = &n
	q.offset = nil
	if len(offset) > 0 {
		o := offset[0]
		q.offset = &o
	}
	return q
}

// Paginate returns page (zero based) of items rows.
func (q Query) Paginate(page, items int) Query {
	return q.Limit(items, page*items)
}

// Asc orders by column ascending.
func Asc(column string) sqlgen.Order {
	return sqlgen.Order{Column: column, Direction: sqlgen.Asc}
}

// Desc orders by column descending.
func Desc(column string) sqlgen.Order {
	return sqlgen.Order{Column: column, Direction: sqlgen.Desc}
}

// Kind returns the statement kind.
func (q Query) Kind() Kind {
	return q.kind
}

// Targets returns the primary table followed by joined tables in join order.
func (q Query) Targets() []*schema.Table {
	return slices.Clone(q.targets)
}

// Aliases returns the alias of every target, parallel to Targets. A table
// keeps its registry alias the first time it appears; repeats get a fresh
// one.
func (q Query) Aliases() []string {
	return slices.Clone(q.aliases)
}

// Joins returns the resolved join specs in join order.
func (q Query) Joins() []JoinSpec {
	return slices.Clone(q.joins)
}

// Conditions returns the parsed filter.
func (q Query) Conditions() []sqlgen.Condition {
	return slices.Clone(q.conditions)
}

// Build renders the statement.
func (q Query) Build() (sqlgen.Statement, error) {
	if len(q.targets) == 0 || q.targets[0] == nil {
		return sqlgen.Statement{}, ErrNoTarget
	}
	t := q.targets[0]
	var p sqlgen.Params
	var parts []string

	switch q.kind {
	case KindSelect:
		parts = append(parts, sqlgen.Select(t.Name, t.ColumnNames()))
		parts = append(parts, q.filter(&p)...)
		parts = append(parts, q.window(&p)...)
	case KindJoin:
		parts = append(parts, q.selectJoined())
		parts = append(parts, q.filter(&p)...)
		parts = append(parts, q.window(&p)...)
	case KindCount:
		parts = append(parts, sqlgen.Count(t.Name))
		parts = append(parts, q.filter(&p)...)
	case KindDelete:
		parts = append(parts, sqlgen.Delete(t.Name))
		parts = append(parts, q.filter(&p)...)
	case KindUpdate:
		set, err := q.assignments()
		if err != nil {
			return sqlgen.Statement{}, err
		}
		parts = append(parts, sqlgen.Update(t.Name, set, &p))
		parts = append(parts, q.filter(&p)...)
	case KindInsert:
		values, err := q.assignments()
		if err != nil {
			return sqlgen.Statement{}, err
		}
		parts = append(parts, sqlgen.Insert(t.Name, values, q.returning, &p))
	case KindDrop:
		parts = append(parts, sqlgen.DropTable(t.Name, q.cascade))
	case KindTruncate:
		parts = append(parts, sqlgen.Truncate(t.Name, q.cascade))
	default:
		return sqlgen.Statement{}, fmt.Errorf("unknown query kind %s", q.kind)
	}

	return sqlgen.Statement{SQL: sqlgen.Concat(" ", parts...), Args: p.Args()}, nil
}

// SQL returns the rendered text, or an empty string when Build fails.
func (q Query) SQL() string {
	st, err := q.Build()
	if err != nil {
		return ""
	}
	return st.SQL
}

// Params returns the bound values in placeholder order.
func (q Query) Params() []any {
	st, err := q.Build()
	if err != nil {
		return nil
	}
	return st.Args
}

func (q Query) filter(p *sqlgen.Params) []string {
	if len(q.conditions) == 0 {
		return nil
	}
	cast := make([]sqlgen.Condition, len(q.conditions))
	for i, c := range q.conditions {
		c.Value = q.cast(c.Column, c.Value)
		cast[i] = c
	}
	return []string{sqlgen.Where(cast, p)}
}

func (q Query) window(p *sqlgen.Params) []string {
	var parts []string
	if q.random {
		parts = append(parts, sqlgen.Random())
	} else if len(q.order) > 0 {
		parts = append(parts, sqlgen.OrderBy(q.order))
	}
	if q.limit != nil {
		parts = append(parts, sqlgen.Limit(*q.limit, q.offset, p))
	}
	return parts
}

func (q Query) assignments() ([]sqlgen.Assignment, error) {
	if len(q.values) == 0 {
		return nil, fmt.Errorf("%s %s: %w", q.kind, q.targets[0].Name, ErrNoValues)
	}
	t := q.targets[0]
	cast := t.CastValues(q.values)
	keys := t.Order(q.values)
	out := make([]sqlgen.Assignment, len(keys))
	for i, k := range keys {
		out[i] = sqlgen.Assignment{Column: k, Value: cast[k]}
	}
	return out, nil
}

// cast applies the column cast of the table owning column. A qualified
// column is resolved through the target alias.
func (q Query) cast(column string, v any) any {
	alias, name, qualified := cut(column)
	for i, t := range q.targets {
		if qualified && q.aliases[i] != alias {
			continue
		}
		if c, ok := t.Column(name); ok {
			return c.Cast(v)
		}
	}
	return v
}

func cut(column string) (string, string, bool) {
	i := strings.LastIndexByte(column, '.')
	if i < 0 {
		return "", column, false
	}
	return column[:i], column[i+1:], true
}
