package sqlgen

import (
	"fmt"
	"strings"
)

// Condition is a single column/operator/value comparison.
type Condition struct {
	Column   string
	Operator string
	Value    any
}

// Comparison renders conditions as col op $n, comma-joined.
func Comparison(conditions []Condition, p *Params) string {
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = fmt.Sprintf("%s %s %s", Reference(c.Column), c.Operator, p.Bind(c.Value))
	}
	return strings.Join(parts, ", ")
}

// Where renders the where clause, or nothing for an empty filter.
func Where(conditions []Condition, p *Params) string {
	if len(conditions) == 0 {
		return ""
	}
	return "where " + Comparison(conditions, p)
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order is one ordering term.
type Order struct {
	Column    string
	Direction Direction
}

// OrderBy renders order by col dir, ...
func OrderBy(orders []Order) string {
	if len(orders) == 0 {
		return ""
	}
	parts := make([]string, len(orders))
	for i, o := range orders {
		dir := o.Direction
		if dir == "" {
			dir = Asc
		}
		parts[i] = fmt.Sprintf("%s %s", Reference(o.Column), dir)
	}
	return "order by " + strings.Join(parts, ", ")
}

// Random renders randomized ordering.
func Random() string {
	return "order by random()"
}
