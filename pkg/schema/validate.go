package schema

import (
	"sort"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Schema maps parameter names to their types.
//
//	schema.Schema{"id": schema.Int(), "tags": schema.Slice(schema.String())}
type Schema map[string]Type

// Validate checks data against s. Every field is required and fields not in s
// are rejected. All failures are returned together, in field order.
func Validate(s Schema, data map[string]any) error {
	if len(s) == 0 && len(data) == 0 {
		return nil
	}

	var errs error
	for _, key := range sortedKeys(s) {
		value, ok := data[key]
		if !ok {
			errs = multierr.Append(errs, &ValidationError{Key: key, Reason: "required"})
			continue
		}
		if err := s[key].Validate(value); err != nil {
			errs = multierr.Append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: value})
		}
	}
	for _, key := range sortedKeys(data) {
		if _, ok := s[key]; !ok {
			errs = multierr.Append(errs, &ValidationError{Key: key, Reason: "not declared", Value: data[key]})
		}
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalYAML writes the schema as field names mapped to type names.
func (s Schema) MarshalYAML() (any, error) {
	if s == nil {
		return nil, nil
	}
	out := make(map[string]string, len(s))
	for k, t := range s {
		out[k] = t.Name()
	}
	return out, nil
}

// UnmarshalYAML reads field names mapped to type names.
func (s *Schema) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseTypeMap(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
