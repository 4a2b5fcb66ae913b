package domain

import "reflect"

// Destination identifies what to show.
// Identity is by value: two equal destinations may back two distinct entries.
type Destination interface {
	// Kind is the stable type tag used for route and scope lookups.
	Kind() string
}

// PayloadCarrier is implemented by destinations that carry data.
type PayloadCarrier interface {
	Payload() Payload
}

// TransitionCarrier is implemented by destinations with a preferred transition.
type TransitionCarrier interface {
	PreferredTransition() *Transition
}

// PayloadOf returns the destination payload, if it carries one.
func PayloadOf(d Destination) (Payload, bool) {
	if c, ok := d.(PayloadCarrier); ok {
		p := c.Payload()
		return p, !p.IsZero()
	}
	return Payload{}, false
}

// PreferredTransitionOf returns the destination's preferred transition or nil.
func PreferredTransitionOf(d Destination) *Transition {
	if c, ok := d.(TransitionCarrier); ok {
		return c.PreferredTransition()
	}
	return nil
}

// SameDestination reports whether two destinations are equal by value.
func SameDestination(a, b Destination) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// Route is a plain destination made of a kind and an optional payload.
// Useful for restored entries and for applications that do not need
// their own destination types.
type Route struct {
	Name string
	Data Payload
	Anim *Transition
}

// Kind implements Destination.
func (r Route) Kind() string { return r.Name }

// Payload implements PayloadCarrier.
func (r Route) Payload() Payload { return r.Data }

// PreferredTransition implements TransitionCarrier.
func (r Route) PreferredTransition() *Transition { return r.Anim }
