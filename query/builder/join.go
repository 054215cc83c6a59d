package builder

import (
	"fmt"
	"slices"

	"github.com/satishbabariya/psyker-go/query/sqlgen"
	"github.com/satishbabariya/psyker-go/schema"
)

// On names the join key of a Join call.
type On struct {
	table  *schema.Table
	column string
}

// Key joins on column. When the first target declares column the join is
// many-to-one (first.column = joined.id), otherwise one-to-many
// (first.id = joined.column).
func Key(column string) On {
	return On{column: column}
}

// Explicit anchors the join on table.column = joined.id.
func Explicit(table *schema.Table, column string) On {
	return On{table: table, column: column}
}

// JoinSpec is a resolved join: AnchorAlias.Left = Alias.Right.
type JoinSpec struct {
	Type        string
	Table       *schema.Table
	Alias       string
	Anchor      *schema.Table
	AnchorAlias string
	Left        string
	Right       string
}

// Join appends t to the targets and turns the query into a join. joinType
// defaults to a plain join. Joining a table already present, itself
// included, gives the new occurrence a fresh alias.
func (q Query) Join(t *schema.Table, on On, joinType ...string) Query {
	kind := sqlgen.DefaultJoin
	if len(joinType) > 0 && joinType[0] != "" {
		kind = joinType[0]
	}
	spec := q.resolve(on)
	spec.Type = kind
	spec.Table = t
	spec.Alias = q.nextAlias(t)

	q.targets = append(slices.Clone(q.targets), t)
	q.aliases = append(slices.Clone(q.aliases), spec.Alias)
	q.joins = append(slices.Clone(q.joins), spec)
	q.kind = KindJoin
	return q
}

func (q Query) resolve(on On) JoinSpec {
	if on.table != nil {
		return JoinSpec{Anchor: on.table, AnchorAlias: q.aliasOf(on.table), Left: on.column, Right: "id"}
	}
	first := q.targets[0]
	if first.HasColumn(on.column) {
		return JoinSpec{Anchor: first, AnchorAlias: q.aliases[0], Left: on.column, Right: "id"}
	}
	return JoinSpec{Anchor: first, AnchorAlias: q.aliases[0], Left: "id", Right: on.column}
}

// aliasOf returns the alias of the first occurrence of t.
func (q Query) aliasOf(t *schema.Table) string {
	if i := slices.Index(q.targets, t); i >= 0 {
		return q.aliases[i]
	}
	return t.Alias
}

// nextAlias keeps the registry alias of t unless the query already uses it,
// then falls back to the lowest unused tN.
func (q Query) nextAlias(t *schema.Table) string {
	if t.Alias != "" && !slices.Contains(q.aliases, t.Alias) {
		return t.Alias
	}
	for n := 0; ; n++ {
		alias := fmt.Sprintf("t%d", n)
		if !slices.Contains(q.aliases, alias) {
			return alias
		}
	}
}

func (q Query) target(i int) sqlgen.Target {
	return sqlgen.Target{Name: q.targets[i].Name, Alias: q.aliases[i], Columns: q.targets[i].ColumnNames()}
}

func (q Query) selectJoined() string {
	targets := make([]sqlgen.Target, len(q.targets))
	for i := range q.targets {
		targets[i] = q.target(i)
	}
	joins := make([]sqlgen.Join, len(q.joins))
	for i, j := range q.joins {
		anchor := j.Anchor.Target()
		anchor.Alias = j.AnchorAlias
		joins[i] = sqlgen.Join{
			Type:   j.Type,
			Table:  targets[i+1],
			Anchor: anchor,
			Left:   j.Left,
			Right:  j.Right,
		}
	}
	return sqlgen.SelectJoined(targets, joins)
}
