package builder

import (
	"strings"

	"github.com/satishbabariya/psyker-go/query/sqlgen"
)

// Filter is one column = value entry of a Where call. String values may
// carry an operator prefix: ">5", "<=10", "!x".
type Filter struct {
	Column string
	Value  any
}

// F builds a Filter.
func F(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Operand is an explicit (operator, value) pair.
type Operand struct {
	Operator string
	Value    any
}

// Op builds an Operand, e.g. F("height", Op(">=", 5)).
func Op(operator string, value any) Operand {
	return Operand{Operator: operator, Value: value}
}

// ParseFilter splits a filter into column, operator and literal. Operators
// are not validated.
func ParseFilter(f Filter) sqlgen.Condition {
	switch v := f.Value.(type) {
	case Operand:
		return sqlgen.Condition{Column: f.Column, Operator: v.Operator, Value: v.Value}
	case string:
		switch {
		case strings.HasPrefix(v, ">="), strings.HasPrefix(v, "<="):
			return sqlgen.Condition{Column: f.Column, Operator: v[:2], Value: v[2:]}
		case strings.HasPrefix(v, "!"), strings.HasPrefix(v, ">"), strings.HasPrefix(v, "<"):
			return sqlgen.Condition{Column: f.Column, Operator: v[:1], Value: v[1:]}
		}
	}
	return sqlgen.Condition{Column: f.Column, Operator: "=", Value: f.Value}
}
