// Package codec converts destination payloads between their in-memory and
// serialized representations.
package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Codec encodes payload values to strings and back.
type Codec interface {
	Format() string
	Encode(v any) (string, error)
	Decode(data string, into any) error
}

// JSON encodes payloads as JSON.
type JSON struct{}

func (JSON) Format() string { return domain.FormatJSON }

func (JSON) Encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (JSON) Decode(data string, into any) error {
	return json.Unmarshal([]byte(data), into)
}

// YAML encodes payloads as YAML.
type YAML struct{}

func (YAML) Format() string { return domain.FormatYAML }

func (YAML) Encode(v any) (string, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (YAML) Decode(data string, into any) error {
	return yaml.Unmarshal([]byte(data), into)
}

// Set holds the codecs available at a restoration boundary.
type Set struct {
	mu       sync.RWMutex
	codecs   map[string]Codec
	fallback string
}

// NewSet creates a set. The first codec is used for encoding by default;
// with none given, JSON and YAML are installed.
func NewSet(codecs ...Codec) *Set {
	if len(codecs) == 0 {
		codecs = []Codec{JSON{}, YAML{}}
	}
	s := &Set{codecs: make(map[string]Codec, len(codecs)), fallback: codecs[0].Format()}
	for _, c := range codecs {
		s.codecs[c.Format()] = c
	}
	return s
}

// Lookup returns the codec for a format.
func (s *Set) Lookup(format string) (Codec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.codecs[format]
	if !ok {
		return nil, fmt.Errorf("no codec registered for format %q", format)
	}
	return c, nil
}

// Encode returns p in serialized form. Already encoded and empty payloads are
// returned unchanged.
func (s *Set) Encode(p domain.Payload) (domain.Payload, error) {
	if p.IsZero() || p.IsEncoded() {
		return p, nil
	}
	c, err := s.Lookup(s.fallback)
	if err != nil {
		return p, err
	}
	data, err := c.Encode(p.Value)
	if err != nil {
		return p, fmt.Errorf("encode %T payload as %s: %w", p.Value, c.Format(), err)
	}
	return domain.Serialized(c.Format(), data), nil
}

// Decode reads p as a T. In-memory values of type T are returned as is; maps
// and serialized forms are decoded field by field using json tags. Any
// mismatch is reported as *domain.PayloadTypeError.
func Decode[T any](s *Set, p domain.Payload) (T, error) {
	var out T
	expected := typeName[T]()

	if p.IsZero() {
		return out, &domain.PayloadTypeError{Expected: expected, Actual: "empty payload"}
	}

	if p.Value != nil {
		if v, ok := p.Value.(T); ok {
			return v, nil
		}
		if err := decodeInto(p.Value, &out); err != nil {
			return out, &domain.PayloadTypeError{Expected: expected, Actual: fmt.Sprintf("%T", p.Value), Err: err}
		}
		return out, nil
	}

	c, err := s.Lookup(p.Format)
	if err != nil {
		return out, &domain.PayloadTypeError{Expected: expected, Actual: "serialized", Format: p.Format, Err: err}
	}
	var raw any
	if err := c.Decode(p.Encoded, &raw); err != nil {
		return out, &domain.PayloadTypeError{Expected: expected, Actual: "malformed data", Format: p.Format, Err: err}
	}
	if err := decodeInto(raw, &out); err != nil {
		return out, &domain.PayloadTypeError{Expected: expected, Actual: fmt.Sprintf("%T", raw), Format: p.Format, Err: err}
	}
	return out, nil
}

func decodeInto(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
