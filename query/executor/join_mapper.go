package executor

import (
	"fmt"
	"reflect"

	"github.com/satishbabariya/psyker-go/schema"
)

// SplitRow cuts a flat row into one slice per target, in target order. The
// first targets[0].Len() values belong to the primary table, the next
// targets[1].Len() to the first joined table, and so on.
func SplitRow(row []any, targets []*schema.Table) ([][]any, error) {
	width := 0
	for _, t := range targets {
		width += t.Len()
	}
	if len(row) != width {
		return nil, fmt.Errorf("%w: %d values for %d columns", ErrRowShape, len(row), width)
	}
	out := make([][]any, len(targets))
	start := 0
	for i, t := range targets {
		out[i] = row[start : start+t.Len()]
		start += t.Len()
	}
	return out, nil
}

// Dictionary turns a row into a mapping. The joined table's mapping is
// nested under its name as a one-element slice, recursively. uuid values
// become strings.
func Dictionary(row []any, targets []*schema.Table) (map[string]any, error) {
	parts, err := SplitRow(row, targets)
	if err != nil {
		return nil, err
	}
	return dictionary(parts, targets), nil
}

func dictionary(parts [][]any, targets []*schema.Table) map[string]any {
	t := targets[0]
	m := make(map[string]any, t.Len()+1)
	for i, name := range t.ColumnNames() {
		m[name] = t.Cast(name, normalize(parts[0][i]))
	}
	if len(targets) > 1 {
		m[targets[1].Name] = []map[string]any{dictionary(parts[1:], targets[1:])}
	}
	return m
}

// Materialize builds a T from a row. Columns go to fields by db tag (or the
// snake_case field name); the joined entity goes to the slice field named
// after the joined table, as a one-element slice.
func Materialize[T any](row []any, targets []*schema.Table) (*T, error) {
	parts, err := SplitRow(row, targets)
	if err != nil {
		return nil, err
	}
	dest := new(T)
	if err := fill(reflect.ValueOf(dest).Elem(), parts, targets); err != nil {
		return nil, err
	}
	return dest, nil
}

func fill(dest reflect.Value, parts [][]any, targets []*schema.Table) error {
	if dest.Kind() != reflect.Struct {
		return fmt.Errorf("cannot materialize %s into %s", targets[0].Name, dest.Type())
	}
	fields := fieldsOf(dest.Type())
	for i, name := range targets[0].ColumnNames() {
		idx, ok := fields.columns[name]
		if !ok {
			continue
		}
		if err := setFieldValue(dest.Field(idx), parts[0][i]); err != nil {
			return fmt.Errorf("%s.%s: %w", targets[0].Name, name, err)
		}
	}
	if len(targets) == 1 {
		return nil
	}

	idx, ok := fields.relations[targets[1].Name]
	if !ok {
		return nil
	}
	field := dest.Field(idx)
	elemType := field.Type().Elem()
	var elem reflect.Value
	if elemType.Kind() == reflect.Ptr {
		elem = reflect.New(elemType.Elem())
		if err := fill(elem.Elem(), parts[1:], targets[1:]); err != nil {
			return err
		}
	} else {
		elem = reflect.New(elemType).Elem()
		if err := fill(elem, parts[1:], targets[1:]); err != nil {
			return err
		}
	}
	related := reflect.MakeSlice(field.Type(), 1, 1)
	related.Index(0).Set(elem)
	field.Set(related)
	return nil
}
