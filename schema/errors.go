package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType is matched by every UnsupportedTypeError.
	ErrUnsupportedType = errors.New("unsupported column type")

	// ErrDuplicateTable is returned when a table name is defined twice.
	ErrDuplicateTable = errors.New("table already defined")

	// ErrUnknownTable is returned when a reference points to an undefined table.
	ErrUnknownTable = errors.New("unknown table")
)

// UnsupportedTypeError reports a column type outside the supported set.
type UnsupportedTypeError struct {
	Tag string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("field type error: %s is invalid or not supported", e.Tag)
}

// Is matches ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}
