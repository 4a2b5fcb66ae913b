package domain

// Payload formats understood by the bundled codecs.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Payload is destination data in one of two representations:
// an in-memory value, or a previously serialized form awaiting decode.
// Readers must handle both; see codec.Decode.
type Payload struct {
	Value   any    `json:"-" yaml:"-"`
	Encoded string `json:"encoded,omitempty" yaml:"encoded,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
}

// InMemory wraps a live value.
func InMemory(v any) Payload {
	return Payload{Value: v}
}

// Serialized wraps an encoded form.
func Serialized(format, encoded string) Payload {
	return Payload{Encoded: encoded, Format: format}
}

// IsEncoded reports whether the payload only exists in serialized form.
func (p Payload) IsEncoded() bool {
	return p.Value == nil && p.Encoded != ""
}

// IsZero reports whether the payload carries nothing.
func (p Payload) IsZero() bool {
	return p.Value == nil && p.Encoded == ""
}
