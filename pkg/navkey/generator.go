package navkey

import (
	"strconv"

	"go.uber.org/atomic"
)

// DefaultLabel is used when Generate is called without a label.
const DefaultLabel = "key"

// Generator produces unique, optionally labeled keys.
// Safe for concurrent use.
type Generator struct {
	counter atomic.Uint64
}

// New creates an independent Generator.
// Components that need deterministic keys (tests, previews) should own one
// instead of sharing the process-wide default.
func New() *Generator {
	return &Generator{}
}

// Generate returns a new key. An empty label falls back to DefaultLabel.
func (g *Generator) Generate(label string) string {
	if label == "" {
		label = DefaultLabel
	}
	n := g.counter.Inc()
	return label + "-" + strconv.FormatUint(n, 10)
}

// Issued reports how many keys this Generator has produced.
func (g *Generator) Issued() uint64 {
	return g.counter.Load()
}

func (g *Generator) reset() {
	g.counter.Store(0)
}

var defaultGenerator = New()

// Default returns the process-wide Generator.
func Default() *Generator {
	return defaultGenerator
}

// Generate allocates a key from the process-wide Generator.
func Generate(label string) string {
	return defaultGenerator.Generate(label)
}
