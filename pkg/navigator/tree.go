package navigator

import (
	"context"
	"fmt"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/lifecycle"
	"github.com/aretw0/waypoint/pkg/navtree"
)

// TreeSnapshot is the observable state of a Tree navigator.
type TreeSnapshot struct {
	Root      navtree.Node
	Active    *navtree.ScreenNode
	CanGoBack bool
	Version   uint64
}

// Tree is the navigator facade over a navigation tree.
// Like Stack it expects a single writer.
type Tree struct {
	root    navtree.Node
	mutator *navtree.Mutator
	disp    *dispatcher
	feed    *feed[TreeSnapshot]
	version uint64
}

// NewTree validates root and wraps it in a navigator.
func NewTree(root navtree.Node, opts ...Option) (*Tree, error) {
	if err := navtree.Validate(root); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	mopts := []navtree.MutatorOption{
		navtree.WithKeys(cfg.keys),
		navtree.WithLogger(cfg.logger),
	}
	if cfg.scopes != nil {
		mopts = append(mopts, navtree.WithScopes(cfg.scopes))
	}
	return &Tree{
		root:    root,
		mutator: navtree.NewMutator(mopts...),
		disp: &dispatcher{
			lifecycles: cfg.lifecycles,
			hooks:      cfg.hooks,
			logger:     cfg.logger,
		},
		feed: newFeed[TreeSnapshot](),
	}, nil
}

// Lifecycles returns the lifecycle manager screens register with.
func (t *Tree) Lifecycles() *lifecycle.Manager {
	return t.disp.lifecycles
}

// Root returns the current tree.
func (t *Tree) Root() navtree.Node { return t.root }

// ActiveScreen returns the deepest active screen, or nil.
func (t *Tree) ActiveScreen() *navtree.ScreenNode { return navtree.ActiveLeaf(t.root) }

// CanGoBack reports whether NavigateBack would change the tree.
func (t *Tree) CanGoBack() bool { return t.mutator.CanPop(t.root) }

// Navigate pushes dest onto the stack chosen by scope-aware routing.
func (t *Tree) Navigate(dest domain.Destination) (*navtree.ScreenNode, error) {
	return t.NavigateWith(dest, nil)
}

// NavigateWith pushes dest with an explicit transition.
func (t *Tree) NavigateWith(dest domain.Destination, transition *domain.Transition) (*navtree.ScreenNode, error) {
	next, screen, err := t.mutator.Push(t.root, dest, transition)
	if err != nil {
		return nil, err
	}
	if err := t.commit(domain.EventPush, dest.Kind(), next); err != nil {
		return nil, err
	}
	return screen, nil
}

// NavigateAndReplace swaps the active screen of the target stack for dest.
func (t *Tree) NavigateAndReplace(dest domain.Destination) (*navtree.ScreenNode, error) {
	next, screen, err := t.mutator.Replace(t.root, dest, nil)
	if err != nil {
		return nil, err
	}
	if err := t.commit(domain.EventReplace, dest.Kind(), next); err != nil {
		return nil, err
	}
	return screen, nil
}

// NavigateAndClearAll empties the outermost active stack and pushes dest.
func (t *Tree) NavigateAndClearAll(dest domain.Destination) (*navtree.ScreenNode, error) {
	next, screen, err := t.mutator.ClearAndPush(t.root, dest, nil)
	if err != nil {
		return nil, err
	}
	if err := t.commit(domain.EventClear, dest.Kind(), next); err != nil {
		return nil, err
	}
	return screen, nil
}

// NavigateBack performs one back step. It returns false when nothing could
// be popped.
func (t *Tree) NavigateBack() bool {
	next, ok := t.mutator.Pop(t.root)
	if !ok {
		return false
	}
	if err := t.commit(domain.EventPop, "", next); err != nil {
		t.disp.logger.Warn("back navigation rejected", "err", err)
		return false
	}
	return true
}

// SwitchTab activates a tab of the given tab container.
func (t *Tree) SwitchTab(tabsKey, tabID string) error {
	next, err := t.mutator.SwitchTab(t.root, tabsKey, tabID)
	if err != nil {
		return err
	}
	if next != t.root {
		return t.commit(domain.EventSwitch, "", next)
	}
	return nil
}

// SetActivePane focuses a pane of the given pane container.
func (t *Tree) SetActivePane(panesKey string, role navtree.PaneRole) error {
	next, err := t.mutator.SetActivePane(t.root, panesKey, role)
	if err != nil {
		return err
	}
	if next != t.root {
		return t.commit(domain.EventSwitch, "", next)
	}
	return nil
}

// SetSavedState attaches state to a screen. It is not a structural change and
// publishes nothing.
func (t *Tree) SetSavedState(screenKey string, state []byte) error {
	next, err := t.mutator.SetSavedState(t.root, screenKey, state)
	if err != nil {
		return err
	}
	t.root = next
	return nil
}

// Reset swaps in a whole new tree. Screens missing from it are destroyed.
func (t *Tree) Reset(root navtree.Node) error {
	if err := t.commit(domain.EventClear, "", root); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// Snapshot returns the current observable state.
func (t *Tree) Snapshot() TreeSnapshot {
	return TreeSnapshot{
		Root:      t.root,
		Active:    navtree.ActiveLeaf(t.root),
		CanGoBack: t.mutator.CanPop(t.root),
		Version:   t.version,
	}
}

// Subscribe calls fn with every new snapshot. The returned function cancels
// the subscription.
func (t *Tree) Subscribe(fn func(TreeSnapshot)) func() {
	return t.feed.subscribe(fn)
}

// Watch streams snapshots until ctx is done, starting with the current one.
func (t *Tree) Watch(ctx context.Context) <-chan TreeSnapshot {
	return t.feed.watch(ctx, t.Snapshot())
}

// commit installs next and dispatches the change. A tree that breaks key
// uniqueness or parent links is rejected and nothing is published.
func (t *Tree) commit(event domain.EventType, kind string, next navtree.Node) error {
	if err := navtree.Validate(next); err != nil {
		return fmt.Errorf("%s rejected: %w", event, err)
	}
	oldKeys := navtree.ScreenKeys(t.root)
	oldActive := activeKey(t.root)

	t.root = next
	t.version++
	snap := t.Snapshot()
	t.feed.publish(snap)

	newKeys := navtree.ScreenKeys(next)
	t.disp.dispatch(change{
		event:     event,
		kind:      kind,
		size:      len(newKeys),
		oldKeys:   oldKeys,
		newKeys:   newKeys,
		oldActive: oldActive,
		newActive: activeKey(next),
	})
	return nil
}

func activeKey(root navtree.Node) string {
	if leaf := navtree.ActiveLeaf(root); leaf != nil {
		return leaf.Key()
	}
	return ""
}
