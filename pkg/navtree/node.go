package navtree

import (
	"strconv"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Node is a node of the navigation tree. The set of variants is closed.
type Node interface {
	Key() string
	ParentKey() string
	withParent(parentKey string) Node
}

// container is implemented by nodes that own children.
type container interface {
	Node
	activeChild() Node
	childNodes() []Node
	replaceChild(oldKey string, n Node) Node
}

// ScreenNode is a leaf displaying one destination.
type ScreenNode struct {
	key        string
	parentKey  string
	dest       domain.Destination
	transition *domain.Transition
	savedState []byte
}

// NewScreen creates a leaf node. The key is the screen's lifecycle identity.
func NewScreen(key string, dest domain.Destination, transition *domain.Transition) (*ScreenNode, error) {
	if key == "" {
		return nil, &domain.InvalidNodeError{Key: key, Reason: "empty key"}
	}
	if dest == nil {
		return nil, &domain.InvalidNodeError{Key: key, Reason: "screen without destination"}
	}
	if transition == nil {
		transition = domain.PreferredTransitionOf(dest)
	}
	return &ScreenNode{key: key, dest: dest, transition: transition}, nil
}

// MustScreen is NewScreen that panics on error.
func MustScreen(key string, dest domain.Destination, transition *domain.Transition) *ScreenNode {
	n, err := NewScreen(key, dest, transition)
	if err != nil {
		panic(err)
	}
	return n
}

func (s *ScreenNode) Key() string                     { return s.key }
func (s *ScreenNode) ParentKey() string               { return s.parentKey }
func (s *ScreenNode) Destination() domain.Destination { return s.dest }
func (s *ScreenNode) Transition() *domain.Transition  { return s.transition }

// SavedState returns a copy of the attached state blob.
func (s *ScreenNode) SavedState() []byte {
	if s.savedState == nil {
		return nil
	}
	return append([]byte(nil), s.savedState...)
}

// Entry views the screen as a back stack entry.
func (s *ScreenNode) Entry() domain.BackStackEntry {
	return domain.BackStackEntry{
		ScreenKey:   s.key,
		Destination: s.dest,
		Transition:  s.transition,
		SavedState:  s.SavedState(),
	}
}

func (s *ScreenNode) withParent(parentKey string) Node {
	c := *s
	c.parentKey = parentKey
	return &c
}

func (s *ScreenNode) withSavedState(state []byte) *ScreenNode {
	c := *s
	c.savedState = append([]byte(nil), state...)
	return &c
}

// StackNode holds children with push/pop semantics.
type StackNode struct {
	key       string
	parentKey string
	children  []Node
}

// NewStack creates a stack owning children, oldest first.
func NewStack(key string, children ...Node) (*StackNode, error) {
	if key == "" {
		return nil, &domain.InvalidNodeError{Key: key, Reason: "empty key"}
	}
	owned := make([]Node, 0, len(children))
	for i, c := range children {
		if c == nil {
			return nil, &domain.InvalidNodeError{Key: key, Reason: "nil child at index " + strconv.Itoa(i)}
		}
		owned = append(owned, c.withParent(key))
	}
	return &StackNode{key: key, children: owned}, nil
}

// MustStack is NewStack that panics on error.
func MustStack(key string, children ...Node) *StackNode {
	n, err := NewStack(key, children...)
	if err != nil {
		panic(err)
	}
	return n
}

func (s *StackNode) Key() string       { return s.key }
func (s *StackNode) ParentKey() string { return s.parentKey }

// Len returns the number of children.
func (s *StackNode) Len() int { return len(s.children) }

// ActiveIndex is the index of the active child, -1 when empty.
func (s *StackNode) ActiveIndex() int { return len(s.children) - 1 }

// Children returns the children, oldest first.
func (s *StackNode) Children() []Node {
	return append([]Node(nil), s.children...)
}

func (s *StackNode) withParent(parentKey string) Node {
	c := *s
	c.parentKey = parentKey
	return &c
}

func (s *StackNode) activeChild() Node {
	if len(s.children) == 0 {
		return nil
	}
	return s.children[len(s.children)-1]
}

func (s *StackNode) childNodes() []Node { return s.children }

func (s *StackNode) replaceChild(oldKey string, n Node) Node {
	children := make([]Node, len(s.children))
	for i, c := range s.children {
		if c.Key() == oldKey {
			children[i] = n.withParent(s.key)
		} else {
			children[i] = c
		}
	}
	return s.withChildren(children)
}

func (s *StackNode) withChildren(children []Node) *StackNode {
	c := *s
	c.children = children
	return &c
}

func (s *StackNode) pushed(n Node) *StackNode {
	children := make([]Node, 0, len(s.children)+1)
	children = append(children, s.children...)
	children = append(children, n.withParent(s.key))
	return s.withChildren(children)
}

func (s *StackNode) truncated(n int) *StackNode {
	return s.withChildren(append([]Node(nil), s.children[:n]...))
}
