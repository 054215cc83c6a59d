package executor

import (
	"errors"
	"fmt"
)

// ErrRowShape is returned when a row does not match the column layout of
// the query targets.
var ErrRowShape = errors.New("row does not match targets")

// QueryError wraps a failure of the storage with the statement that caused it.
type QueryError struct {
	Kind  string
	Table string
	SQL   string
	Args  []any
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Kind, e.Table, e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}
