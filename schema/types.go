// Package schema describes tables, their columns and the relationships
// between them.
package schema

import "strings"

// Type is the semantic type of a column.
type Type int

const (
	Int Type = iota + 1
	Float
	Bool
	Serial
	String
	Text
	Date
	DateTime
	UUID
	Reference
)

var typeTags = map[string]Type{
	"int":       Int,
	"float":     Float,
	"bool":      Bool,
	"serial":    Serial,
	"str":       String,
	"string":    String,
	"text":      Text,
	"date":      Date,
	"datetime":  DateTime,
	"uuid":      UUID,
	"foreign":   Reference,
	"reference": Reference,
}

// ParseType maps a textual type tag to its Type.
func ParseType(tag string) (Type, error) {
	if t, ok := typeTags[strings.ToLower(tag)]; ok {
		return t, nil
	}
	return 0, &UnsupportedTypeError{Tag: tag}
}

// Valid reports whether t belongs to the supported set.
func (t Type) Valid() bool {
	return t >= Int && t <= Reference
}

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Serial:
		return "serial"
	case String:
		return "str"
	case Text:
		return "text"
	case Date:
		return "date"
	case DateTime:
		return "datetime"
	case UUID:
		return "uuid"
	case Reference:
		return "foreign"
	default:
		return "unknown"
	}
}
