// Package backstack implements the ordered navigation history of a flat navigator.
//
// Index 0 is the oldest entry; the last entry is the current screen. The stack
// is owned by a single navigation context and performs no locking.
package backstack

import (
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/navkey"
)

// KeyGenerator allocates screen keys.
type KeyGenerator interface {
	Generate(label string) string
}

// Stack manages navigation history.
type Stack struct {
	entries []*domain.BackStackEntry
	keys    KeyGenerator
}

// Option configures a Stack.
type Option func(*Stack)

// WithKeyGenerator sets the screen key source (default: navkey.Default()).
func WithKeyGenerator(g KeyGenerator) Option {
	return func(s *Stack) {
		s.keys = g
	}
}

// New creates an empty stack.
func New(opts ...Option) *Stack {
	s := &Stack{
		entries: make([]*domain.BackStackEntry, 0, 8),
		keys:    navkey.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push appends a new entry for dest and makes it current.
// When transition is nil the destination's preferred transition is used.
// No lifecycle side effects happen here.
func (s *Stack) Push(dest domain.Destination, transition *domain.Transition) domain.BackStackEntry {
	if transition == nil {
		transition = domain.PreferredTransitionOf(dest)
	}
	entry := &domain.BackStackEntry{
		ScreenKey:   s.keys.Generate(dest.Kind()),
		Destination: dest,
		Transition:  transition,
	}
	s.entries = append(s.entries, entry)
	return entry.Clone()
}

// Pop removes the current entry.
// It refuses (returns false) when one entry or fewer remain, so a home entry
// always survives.
func (s *Stack) Pop() (domain.BackStackEntry, bool) {
	if len(s.entries) <= 1 {
		return domain.BackStackEntry{}, false
	}
	return s.removeLast(), true
}

// Replace swaps the current entry for a new one as a single step.
// On an empty stack it behaves like Push. The removed entry is returned when
// there was one.
func (s *Stack) Replace(dest domain.Destination, transition *domain.Transition) (removed *domain.BackStackEntry, added domain.BackStackEntry) {
	if len(s.entries) > 0 {
		old := s.removeLast()
		removed = &old
	}
	added = s.Push(dest, transition)
	return removed, added
}

// Clear removes all entries and returns them oldest first.
func (s *Stack) Clear() []domain.BackStackEntry {
	removed := s.Entries()
	for i := range s.entries {
		s.entries[i] = nil
	}
	s.entries = s.entries[:0]
	return removed
}

// Current returns the last entry.
func (s *Stack) Current() (domain.BackStackEntry, bool) {
	if len(s.entries) == 0 {
		return domain.BackStackEntry{}, false
	}
	return s.entries[len(s.entries)-1].Clone(), true
}

// Previous returns the second-to-last entry.
func (s *Stack) Previous() (domain.BackStackEntry, bool) {
	if len(s.entries) < 2 {
		return domain.BackStackEntry{}, false
	}
	return s.entries[len(s.entries)-2].Clone(), true
}

// CanPop reports whether Pop would succeed.
func (s *Stack) CanPop() bool {
	return len(s.entries) > 1
}

// Len returns the number of entries in the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Entries returns copies of all entries, oldest first.
func (s *Stack) Entries() []domain.BackStackEntry {
	out := make([]domain.BackStackEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

// Keys returns the screen keys, oldest first.
func (s *Stack) Keys() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.ScreenKey
	}
	return out
}

// SetSavedState attaches state to the entry with the given key.
// Returns false if no such entry exists.
func (s *Stack) SetSavedState(screenKey string, state []byte) bool {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].ScreenKey == screenKey {
			s.entries[i].SavedState = append([]byte(nil), state...)
			return true
		}
	}
	return false
}

// Restore appends an entry with an already allocated key.
// Used when rebuilding a stack from a snapshot; the key must be fresh.
func (s *Stack) Restore(entry domain.BackStackEntry) {
	e := entry.Clone()
	s.entries = append(s.entries, &e)
}

// NewKey allocates a screen key from the stack's generator.
func (s *Stack) NewKey(label string) string {
	return s.keys.Generate(label)
}

func (s *Stack) removeLast() domain.BackStackEntry {
	last := len(s.entries) - 1
	entry := s.entries[last]
	s.entries[last] = nil
	s.entries = s.entries[:last]
	return *entry
}
