package domain

import "time"

// Transition is an animation hint consumed by the rendering layer.
// The core never interprets it beyond carrying it along with an entry.
type Transition struct {
	Name     string        `json:"name" yaml:"name"`
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}
