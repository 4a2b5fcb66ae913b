package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Type validates one route parameter value.
type Type interface {
	// Name is the type as written in definitions ("int", "[string]").
	Name() string
	Validate(value any) error
}

type scalar struct {
	name  string
	check func(any) bool
}

func (s scalar) Name() string { return s.name }

func (s scalar) Validate(value any) error {
	if !s.check(value) {
		return fmt.Errorf("expected %s, got %T", s.name, value)
	}
	return nil
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

// isInt accepts whole floats, which is how JSON decodes numbers.
func isInt(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return n == float64(int64(n))
	}
	return false
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return isInt(v)
}

type slice struct {
	elem Type
}

func (s slice) Name() string { return "[" + s.elem.Name() + "]" }

func (s slice) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected %s, got %T", s.Name(), value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := s.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type custom struct {
	name     string
	validate func(any) error
}

func (c custom) Name() string             { return c.name }
func (c custom) Validate(value any) error { return c.validate(value) }

// String accepts strings.
func String() Type { return scalar{"string", isString} }

// Int accepts integers and whole floats.
func Int() Type { return scalar{"int", isInt} }

// Float accepts any number.
func Float() Type { return scalar{"float", isFloat} }

// Bool accepts booleans.
func Bool() Type { return scalar{"bool", isBool} }

// Slice accepts slices whose elements all match elem.
func Slice(elem Type) Type { return slice{elem} }

// Custom wraps an application validator under a name.
func Custom(name string, validate func(any) error) Type {
	return custom{name: name, validate: validate}
}

// ParseType converts a type name ("string", "int", "float", "bool", or a
// bracketed slice such as "[int]") to a Type.
func ParseType(name string) (Type, error) {
	name = strings.TrimSpace(name)
	if len(name) > 2 && strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		elem, err := ParseType(name[1 : len(name)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}
	switch name {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	}
	return nil, fmt.Errorf("unsupported type: %s", name)
}

// ParseTypeMap converts field names mapped to type names into a Schema.
func ParseTypeMap(m map[string]string) (Schema, error) {
	out := make(Schema, len(m))
	for key, name := range m {
		t, err := ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		out[key] = t
	}
	return out, nil
}
