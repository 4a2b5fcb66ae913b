package navtree

import (
	"github.com/aretw0/waypoint/pkg/domain"
)

// Tab pairs a tab identifier with its root node.
type Tab struct {
	ID   string
	Root Node
}

// TabNode shows one tab at a time; inactive tabs keep their state.
type TabNode struct {
	key       string
	parentKey string
	tabs      map[string]Node
	order     []string
	active    string
	initial   string
	scopeKey  string
}

// TabOption configures a TabNode.
type TabOption func(*TabNode)

// WithActiveTab selects the active tab (default: first tab).
func WithActiveTab(id string) TabOption {
	return func(t *TabNode) {
		t.active = id
	}
}

// WithInitialTab sets the tab that back navigation returns to (default: first tab).
func WithInitialTab(id string) TabOption {
	return func(t *TabNode) {
		t.initial = id
	}
}

// WithTabScope sets the scope key claimed by the container.
func WithTabScope(scope string) TabOption {
	return func(t *TabNode) {
		t.scopeKey = scope
	}
}

// NewTabs creates a tab container.
func NewTabs(key string, tabs []Tab, opts ...TabOption) (*TabNode, error) {
	if key == "" {
		return nil, &domain.InvalidNodeError{Key: key, Reason: "empty key"}
	}
	if len(tabs) == 0 {
		return nil, &domain.InvalidNodeError{Key: key, Reason: "tab container without tabs"}
	}

	t := &TabNode{
		key:  key,
		tabs: make(map[string]Node, len(tabs)),
	}
	for _, tab := range tabs {
		if tab.ID == "" || tab.Root == nil {
			return nil, &domain.InvalidNodeError{Key: key, Reason: "tab without id or root"}
		}
		if _, dup := t.tabs[tab.ID]; dup {
			return nil, &domain.InvalidNodeError{Key: key, Reason: "duplicate tab " + tab.ID}
		}
		t.tabs[tab.ID] = tab.Root.withParent(key)
		t.order = append(t.order, tab.ID)
	}
	t.active = t.order[0]
	t.initial = t.order[0]

	for _, opt := range opts {
		opt(t)
	}

	if _, ok := t.tabs[t.active]; !ok {
		return nil, &domain.InvalidNodeError{Key: key, Reason: "active tab " + t.active + " not configured"}
	}
	if _, ok := t.tabs[t.initial]; !ok {
		return nil, &domain.InvalidNodeError{Key: key, Reason: "initial tab " + t.initial + " not configured"}
	}
	return t, nil
}

// MustTabs is NewTabs that panics on error.
func MustTabs(key string, tabs []Tab, opts ...TabOption) *TabNode {
	n, err := NewTabs(key, tabs, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

func (t *TabNode) Key() string        { return t.key }
func (t *TabNode) ParentKey() string  { return t.parentKey }
func (t *TabNode) ActiveTab() string  { return t.active }
func (t *TabNode) InitialTab() string { return t.initial }
func (t *TabNode) ScopeKey() string   { return t.scopeKey }

// TabIDs returns tab identifiers in declaration order.
func (t *TabNode) TabIDs() []string {
	return append([]string(nil), t.order...)
}

// Tab returns the root node of a tab.
func (t *TabNode) Tab(id string) (Node, bool) {
	n, ok := t.tabs[id]
	return n, ok
}

func (t *TabNode) withParent(parentKey string) Node {
	c := *t
	c.parentKey = parentKey
	return &c
}

func (t *TabNode) activeChild() Node { return t.tabs[t.active] }

func (t *TabNode) childNodes() []Node {
	out := make([]Node, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.tabs[id])
	}
	return out
}

func (t *TabNode) replaceChild(oldKey string, n Node) Node {
	c := *t
	c.tabs = make(map[string]Node, len(t.tabs))
	for id, child := range t.tabs {
		if child.Key() == oldKey {
			c.tabs[id] = n.withParent(t.key)
		} else {
			c.tabs[id] = child
		}
	}
	return &c
}

func (t *TabNode) withActive(id string) *TabNode {
	c := *t
	c.active = id
	return &c
}
