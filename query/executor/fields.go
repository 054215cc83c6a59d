package executor

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
)

type structFields struct {
	columns   map[string]int // column name -> field index
	relations map[string]int // table name -> slice field index
}

var fieldCache sync.Map // reflect.Type -> *structFields

var uuidType = reflect.TypeOf(uuid.UUID{})

func fieldsOf(t reflect.Type) *structFields {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(*structFields)
	}
	sf := &structFields{columns: map[string]int{}, relations: map[string]int{}}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("db")
		if name == "-" {
			continue
		}
		if name == "" {
			name = toSnakeCase(field.Name)
		}
		if field.Type.Kind() == reflect.Slice && isEntity(field.Type.Elem()) {
			sf.relations[name] = i
			continue
		}
		sf.columns[name] = i
	}
	fieldCache.Store(t, sf)
	return sf
}

func isEntity(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && t != uuidType && t != reflect.TypeOf(time.Time{})
}

// setFieldValue stores a scanned value into a struct field.
func setFieldValue(field reflect.Value, value any) error {
	fieldType := field.Type()
	if value == nil {
		field.Set(reflect.Zero(fieldType))
		return nil
	}

	if fieldType.Kind() == reflect.Ptr {
		elem := reflect.New(fieldType.Elem())
		if err := setFieldValue(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if b, ok := value.([]byte); ok {
		value = string(b)
	}

	if fieldType == uuidType {
		if s, ok := value.(string); ok {
			id, err := uuid.Parse(s)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(id))
			return nil
		}
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(fieldType) {
		field.Set(v)
		return nil
	}

	if s, ok := value.(string); ok {
		switch fieldType.Kind() {
		case reflect.Float32, reflect.Float64:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return err
			}
			field.SetFloat(f)
			return nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(n)
			return nil
		case reflect.Bool:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return err
			}
			field.SetBool(b)
			return nil
		}
	}

	if fieldType.Kind() == reflect.Bool {
		if n, ok := value.(int64); ok {
			field.SetBool(n != 0)
			return nil
		}
	}

	if fieldType.Kind() == reflect.String && v.Kind() != reflect.String {
		field.SetString(fmt.Sprint(value))
		return nil
	}

	if v.Type().ConvertibleTo(fieldType) {
		field.Set(v.Convert(fieldType))
		return nil
	}

	return fmt.Errorf("cannot convert %s to %s", v.Type(), fieldType)
}

// normalize turns driver byte slices into strings for mappings.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// toSnakeCase converts PascalCase to snake_case, keeping acronyms together:
// MaxHeight -> max_height, UserID -> user_id.
func toSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
