package navtree

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/navkey"
)

// KeyGenerator allocates keys for new screens.
type KeyGenerator interface {
	Generate(label string) string
}

// Mutator applies navigation intents to a tree.
// It holds no tree state and may be shared; the trees it returns are new values.
type Mutator struct {
	keys   KeyGenerator
	scopes ScopeResolver
	logger *slog.Logger
}

// MutatorOption configures a Mutator.
type MutatorOption func(*Mutator)

// WithKeys sets the screen key source (default: navkey.Default()).
func WithKeys(g KeyGenerator) MutatorOption {
	return func(m *Mutator) {
		m.keys = g
	}
}

// WithScopes sets the scope resolver consulted at scoped containers.
func WithScopes(r ScopeResolver) MutatorOption {
	return func(m *Mutator) {
		m.scopes = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) MutatorOption {
	return func(m *Mutator) {
		m.logger = logger
	}
}

// NewMutator creates a Mutator.
func NewMutator(opts ...MutatorOption) *Mutator {
	m := &Mutator{
		keys:   navkey.Default(),
		scopes: noScopes{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// maxKeyAttempts bounds the search for a key not already present in a tree.
const maxKeyAttempts = 64

// newScreen creates a screen for dest whose key does not occur in root.
// Declared keys can look like generated ones, so a generated key is checked
// before use.
func (m *Mutator) newScreen(root Node, dest domain.Destination, transition *domain.Transition) (*ScreenNode, error) {
	key, err := freeKey(m.keys, dest.Kind(), func(k string) bool {
		_, taken := Find(root, k)
		return taken
	})
	if err != nil {
		return nil, err
	}
	return NewScreen(key, dest, transition)
}

// freeKey generates keys for label until taken reports false.
func freeKey(keys KeyGenerator, label string, taken func(string) bool) (string, error) {
	for i := 0; i < maxKeyAttempts; i++ {
		key := keys.Generate(label)
		if !taken(key) {
			return key, nil
		}
	}
	return "", &domain.InvalidNodeError{
		Key:    label,
		Reason: fmt.Sprintf("no free key after %d attempts", maxKeyAttempts),
	}
}

// Push adds a screen for dest to the stack selected by scope-aware routing and
// returns the new root together with the created screen.
func (m *Mutator) Push(root Node, dest domain.Destination, transition *domain.Transition) (Node, *ScreenNode, error) {
	path, target, err := m.targetStack(root, dest)
	if err != nil {
		return root, nil, err
	}
	screen, err := m.newScreen(root, dest, transition)
	if err != nil {
		return root, nil, err
	}
	stack := path[target].(*StackNode)
	next := stack.pushed(screen)
	m.logger.Debug("tree push", "stack", stack.key, "screen_key", screen.key, "kind", dest.Kind())
	return rebuild(path, target, next), next.activeChild().(*ScreenNode), nil
}

// Replace swaps the active child of the target stack for a new screen.
// On an empty target stack it behaves like Push.
func (m *Mutator) Replace(root Node, dest domain.Destination, transition *domain.Transition) (Node, *ScreenNode, error) {
	path, target, err := m.targetStack(root, dest)
	if err != nil {
		return root, nil, err
	}
	screen, err := m.newScreen(root, dest, transition)
	if err != nil {
		return root, nil, err
	}
	stack := path[target].(*StackNode)
	if n := stack.Len(); n > 0 {
		stack = stack.truncated(n - 1)
	}
	next := stack.pushed(screen)
	m.logger.Debug("tree replace", "stack", stack.key, "screen_key", screen.key, "kind", dest.Kind())
	return rebuild(path, target, next), next.activeChild().(*ScreenNode), nil
}

// ClearAndPush empties the outermost stack on the active path and pushes a
// single screen for dest, discarding every other node beneath that stack.
func (m *Mutator) ClearAndPush(root Node, dest domain.Destination, transition *domain.Transition) (Node, *ScreenNode, error) {
	path := ActivePath(root)
	target := -1
	for i, n := range path {
		if _, ok := n.(*StackNode); ok {
			target = i
			break
		}
	}
	if target < 0 {
		return root, nil, domain.ErrNoTargetStack
	}
	screen, err := m.newScreen(root, dest, transition)
	if err != nil {
		return root, nil, err
	}
	next := path[target].(*StackNode).truncated(0).pushed(screen)
	m.logger.Debug("tree clear", "stack", next.key, "screen_key", screen.key, "kind", dest.Kind())
	return rebuild(path, target, next), next.activeChild().(*ScreenNode), nil
}

// Pop performs one back step and reports whether anything changed.
// Deeper nodes are tried first. Stacks pop their last child while more than
// one remains; tab containers fall back to their initial tab; pane containers
// apply their BackBehavior to the active pane.
func (m *Mutator) Pop(root Node) (Node, bool) {
	path := ActivePath(root)
	for i := len(path) - 1; i >= 0; i-- {
		switch n := path[i].(type) {
		case *StackNode:
			if i > 0 {
				if _, ownedByPane := path[i-1].(*PaneNode); ownedByPane {
					continue
				}
			}
			if n.Len() > 1 {
				m.logger.Debug("tree pop", "stack", n.key)
				return rebuild(path, i, n.truncated(n.Len()-1)), true
			}
		case *TabNode:
			if n.active != n.initial {
				m.logger.Debug("tree pop to initial tab", "tabs", n.key, "tab", n.initial)
				return rebuild(path, i, n.withActive(n.initial)), true
			}
		case *PaneNode:
			if next, ok := m.popPane(n); ok {
				return rebuild(path, i, next), true
			}
		}
	}
	return root, false
}

// CanPop reports whether Pop would change the tree.
func (m *Mutator) CanPop(root Node) bool {
	_, ok := m.Pop(root)
	return ok
}

func (m *Mutator) popPane(p *PaneNode) (Node, bool) {
	cfg := p.panes[p.active]
	stack, isStack := cfg.Content.(*StackNode)
	depth := 1
	if isStack {
		depth = stack.Len()
	}

	switch p.back {
	case PopUntilScaffoldValueChange:
		if p.active != PanePrimary {
			next := p
			if isStack && depth > 1 {
				next = p.replaceChild(stack.key, stack.truncated(1)).(*PaneNode)
			}
			m.logger.Debug("pane back collapses to primary", "panes", p.key, "from", p.active)
			return next.withActive(PanePrimary), true
		}
		if depth > 1 {
			return p.replaceChild(stack.key, stack.truncated(depth-1)), true
		}
	case PopUntilContentChange:
		if depth > 1 {
			removed := stack.children[depth-1]
			n := depth - 1
			for n > 1 && sameContent(stack.children[n-1], removed) {
				n--
			}
			return p.replaceChild(stack.key, stack.truncated(n)), true
		}
		if p.active != PanePrimary {
			return p.withActive(PanePrimary), true
		}
	case PopLatest:
		if depth > 1 {
			return p.replaceChild(stack.key, stack.truncated(depth-1)), true
		}
		if p.active != PanePrimary {
			return p.withActive(PanePrimary), true
		}
	}
	return p, false
}

func sameContent(a, b Node) bool {
	sa, ok1 := a.(*ScreenNode)
	sb, ok2 := b.(*ScreenNode)
	if !ok1 || !ok2 {
		return false
	}
	return domain.SameDestination(sa.dest, sb.dest)
}

// SwitchTab activates a tab of the tab container with key tabsKey.
func (m *Mutator) SwitchTab(root Node, tabsKey, tabID string) (Node, error) {
	path := PathTo(root, tabsKey)
	if path == nil {
		return root, fmt.Errorf("tab container %q: %w", tabsKey, domain.ErrNodeNotFound)
	}
	tabs, ok := path[len(path)-1].(*TabNode)
	if !ok {
		return root, &domain.InvalidNodeError{Key: tabsKey, Reason: "not a tab container"}
	}
	if _, ok := tabs.tabs[tabID]; !ok {
		return root, &domain.InvalidNodeError{Key: tabsKey, Reason: "unknown tab " + tabID}
	}
	if tabs.active == tabID {
		return root, nil
	}
	return rebuild(path, len(path)-1, tabs.withActive(tabID)), nil
}

// SetActivePane activates a configured role of the pane container panesKey.
func (m *Mutator) SetActivePane(root Node, panesKey string, role PaneRole) (Node, error) {
	path := PathTo(root, panesKey)
	if path == nil {
		return root, fmt.Errorf("pane container %q: %w", panesKey, domain.ErrNodeNotFound)
	}
	panes, ok := path[len(path)-1].(*PaneNode)
	if !ok {
		return root, &domain.InvalidNodeError{Key: panesKey, Reason: "not a pane container"}
	}
	if _, ok := panes.panes[role]; !ok {
		return root, &domain.InvalidNodeError{Key: panesKey, Reason: "pane " + role.String() + " not configured"}
	}
	if panes.active == role {
		return root, nil
	}
	return rebuild(path, len(path)-1, panes.withActive(role)), nil
}

// SetSavedState attaches a state blob to the screen with screenKey.
func (m *Mutator) SetSavedState(root Node, screenKey string, state []byte) (Node, error) {
	path := PathTo(root, screenKey)
	if path == nil {
		return root, fmt.Errorf("screen %q: %w", screenKey, domain.ErrNodeNotFound)
	}
	screen, ok := path[len(path)-1].(*ScreenNode)
	if !ok {
		return root, &domain.InvalidNodeError{Key: screenKey, Reason: "not a screen"}
	}
	return rebuild(path, len(path)-1, screen.withSavedState(state)), nil
}

// targetStack walks the active path and picks the stack that receives dest.
// A scoped container that does not claim dest stops the walk, so the push
// lands in the nearest stack above it. With no stack above, the container
// keeps the destination.
func (m *Mutator) targetStack(root Node, dest domain.Destination) ([]Node, int, error) {
	if root == nil {
		return nil, -1, domain.ErrNoTargetStack
	}
	path := ActivePath(root)
	target := -1

scan:
	for i, n := range path {
		var scope string
		switch c := n.(type) {
		case *StackNode:
			target = i
			continue
		case *TabNode:
			scope = c.scopeKey
		case *PaneNode:
			scope = c.scopeKey
		default:
			continue
		}
		if scope == "" {
			continue
		}
		resolved, ok := m.scopes.ResolveScope(dest)
		if ok && resolved == scope {
			continue
		}
		if target >= 0 {
			m.logger.Debug("destination escapes scoped container",
				"container", n.Key(), "scope", scope, "resolved", resolved, "kind", dest.Kind())
			break scan
		}
		m.logger.Debug("out-of-scope destination kept: no enclosing stack",
			"container", n.Key(), "scope", scope, "kind", dest.Kind())
	}

	if target < 0 {
		return nil, -1, domain.ErrNoTargetStack
	}
	return path, target, nil
}
