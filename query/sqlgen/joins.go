package sqlgen

import (
	"fmt"
	"strings"
)

// DefaultJoin is the keyword used when a join has no explicit type.
const DefaultJoin = "join"

// Target is a table taking part in a select, with its alias and columns in
// declaration order.
type Target struct {
	Name    string
	Alias   string
	Columns []string
}

// From renders the table with its alias.
func (t Target) From() string {
	if t.Alias == "" {
		return Quote(t.Name)
	}
	return fmt.Sprintf("%s as %s", Quote(t.Name), Quote(t.Alias))
}

// Join describes how one joined target attaches to an earlier one.
type Join struct {
	Type   string
	Table  Target
	Anchor Target
	Left   string
	Right  string
}

// JoinTable renders join <t> as <alias> on <anchor>.<left> = <alias>.<right>.
func JoinTable(j Join) string {
	kind := j.Type
	if kind == "" {
		kind = DefaultJoin
	}
	right := j.Right
	if right == "" {
		right = "id"
	}
	return fmt.Sprintf("%s %s on %s = %s",
		kind, j.Table.From(),
		Qualified(j.Anchor.Alias, j.Left),
		Qualified(j.Table.Alias, right))
}

// JoinColumns renders the alias-prefixed columns of every target in order.
func JoinColumns(targets []Target) string {
	var cols []string
	for _, t := range targets {
		for _, c := range t.Columns {
			cols = append(cols, Qualified(t.Alias, c))
		}
	}
	return strings.Join(cols, ", ")
}

// SelectJoined renders the select head of a join query. joins holds one
// entry per target after the first, in target order.
func SelectJoined(targets []Target, joins []Join) string {
	if len(targets) == 0 {
		return ""
	}
	from := []string{targets[0].From()}
	for _, j := range joins {
		from = append(from, JoinTable(j))
	}
	return fmt.Sprintf("select %s from %s", JoinColumns(targets), strings.Join(from, " "))
}
