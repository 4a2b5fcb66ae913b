package navigator

import (
	"context"

	"github.com/aretw0/waypoint/pkg/backstack"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/lifecycle"
)

// Snapshot is the observable state of a Stack navigator.
type Snapshot struct {
	Current   *domain.BackStackEntry
	Previous  *domain.BackStackEntry
	CanGoBack bool
	Size      int
	Version   uint64
}

// Stack is the navigator facade over a flat back stack.
type Stack struct {
	stack   *backstack.Stack
	disp    *dispatcher
	feed    *feed[Snapshot]
	version uint64
}

// NewStack creates an empty Stack navigator.
func NewStack(opts ...Option) *Stack {
	cfg := newConfig(opts)
	return &Stack{
		stack: backstack.New(backstack.WithKeyGenerator(cfg.keys)),
		disp: &dispatcher{
			lifecycles: cfg.lifecycles,
			hooks:      cfg.hooks,
			logger:     cfg.logger,
		},
		feed: newFeed[Snapshot](),
	}
}

// Lifecycles returns the lifecycle manager screens register with.
func (s *Stack) Lifecycles() *lifecycle.Manager {
	return s.disp.lifecycles
}

// Navigate pushes dest using its preferred transition.
func (s *Stack) Navigate(dest domain.Destination) domain.BackStackEntry {
	return s.NavigateWith(dest, nil)
}

// NavigateWith pushes dest with an explicit transition.
func (s *Stack) NavigateWith(dest domain.Destination, transition *domain.Transition) domain.BackStackEntry {
	before := s.begin()
	entry := s.stack.Push(dest, transition)
	s.commit(domain.EventPush, dest.Kind(), before)
	return entry
}

// NavigateBack pops the current entry. It returns false, without any side
// effect, when only the home entry (or nothing) is left.
func (s *Stack) NavigateBack() bool {
	before := s.begin()
	popped, ok := s.stack.Pop()
	if !ok {
		return false
	}
	s.commit(domain.EventPop, popped.Destination.Kind(), before)
	return true
}

// NavigateAndReplace swaps the current entry for dest in one step. The stack
// size is unchanged unless it was empty.
func (s *Stack) NavigateAndReplace(dest domain.Destination) domain.BackStackEntry {
	before := s.begin()
	_, added := s.stack.Replace(dest, nil)
	s.commit(domain.EventReplace, dest.Kind(), before)
	return added
}

// NavigateAndClearAll leaves exactly one entry: dest.
func (s *Stack) NavigateAndClearAll(dest domain.Destination) domain.BackStackEntry {
	before := s.begin()
	s.stack.Clear()
	entry := s.stack.Push(dest, nil)
	s.commit(domain.EventClear, dest.Kind(), before)
	return entry
}

// Clear removes every entry, destroying all screens.
func (s *Stack) Clear() {
	if s.stack.IsEmpty() {
		return
	}
	before := s.begin()
	s.stack.Clear()
	s.commit(domain.EventClear, "", before)
}

// SetSavedState attaches state to an entry. It is not a structural change and
// publishes nothing.
func (s *Stack) SetSavedState(screenKey string, state []byte) bool {
	return s.stack.SetSavedState(screenKey, state)
}

// Current returns the current entry.
func (s *Stack) Current() (domain.BackStackEntry, bool) { return s.stack.Current() }

// Previous returns the entry below the current one.
func (s *Stack) Previous() (domain.BackStackEntry, bool) { return s.stack.Previous() }

// CanGoBack reports whether NavigateBack would succeed.
func (s *Stack) CanGoBack() bool { return s.stack.CanPop() }

// Size returns the number of entries.
func (s *Stack) Size() int { return s.stack.Len() }

// Entries returns all entries, oldest first.
func (s *Stack) Entries() []domain.BackStackEntry { return s.stack.Entries() }

// Snapshot returns the current observable state.
func (s *Stack) Snapshot() Snapshot {
	snap := Snapshot{
		CanGoBack: s.stack.CanPop(),
		Size:      s.stack.Len(),
		Version:   s.version,
	}
	if cur, ok := s.stack.Current(); ok {
		snap.Current = &cur
	}
	if prev, ok := s.stack.Previous(); ok {
		snap.Previous = &prev
	}
	return snap
}

// Subscribe calls fn with every new snapshot, on the navigating goroutine.
// The returned function cancels the subscription.
func (s *Stack) Subscribe(fn func(Snapshot)) func() {
	return s.feed.subscribe(fn)
}

// Watch streams snapshots until ctx is done, starting with the current one.
// Slow readers only see the latest state.
func (s *Stack) Watch(ctx context.Context) <-chan Snapshot {
	return s.feed.watch(ctx, s.Snapshot())
}

type stackState struct {
	keys   []string
	active string
}

func (s *Stack) begin() stackState {
	st := stackState{keys: s.stack.Keys()}
	if cur, ok := s.stack.Current(); ok {
		st.active = cur.ScreenKey
	}
	return st
}

func (s *Stack) commit(event domain.EventType, kind string, before stackState) {
	s.version++
	snap := s.Snapshot()
	s.feed.publish(snap)

	var active string
	if snap.Current != nil {
		active = snap.Current.ScreenKey
	}
	s.disp.dispatch(change{
		event:     event,
		kind:      kind,
		size:      snap.Size,
		oldKeys:   before.keys,
		newKeys:   s.stack.Keys(),
		oldActive: before.active,
		newActive: active,
	})
}
