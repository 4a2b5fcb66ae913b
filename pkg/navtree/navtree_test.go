package navtree_test

import (
	"testing"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/navkey"
	"github.com/aretw0/waypoint/pkg/navtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func route(name string) domain.Route { return domain.Route{Name: name} }

func screen(key, name string) *navtree.ScreenNode {
	return navtree.MustScreen(key, route(name), nil)
}

func newMutator(scopes navtree.ScopeResolver) *navtree.Mutator {
	opts := []navtree.MutatorOption{navtree.WithKeys(navkey.New())}
	if scopes != nil {
		opts = append(opts, navtree.WithScopes(scopes))
	}
	return navtree.NewMutator(opts...)
}

func TestPanes_RequirePrimary(t *testing.T) {
	_, err := navtree.NewPanes("panes", map[navtree.PaneRole]navtree.PaneConfiguration{
		navtree.PaneSupporting: {Content: navtree.MustStack("s", screen("a", "a"))},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidNode)
}

func TestPanes_ActiveRoleMustBeConfigured(t *testing.T) {
	_, err := navtree.NewPanes("panes", map[navtree.PaneRole]navtree.PaneConfiguration{
		navtree.PanePrimary: {Content: navtree.MustStack("p", screen("a", "a"))},
	}, navtree.WithActivePane(navtree.PaneExtra))
	assert.ErrorIs(t, err, domain.ErrInvalidNode)

	assert.Panics(t, func() {
		navtree.MustPanes("panes", map[navtree.PaneRole]navtree.PaneConfiguration{})
	})
}

func TestPanes_Defaults(t *testing.T) {
	p := navtree.MustPanes("panes", map[navtree.PaneRole]navtree.PaneConfiguration{
		navtree.PanePrimary:    {Content: navtree.MustStack("p", screen("a", "a"))},
		navtree.PaneSupporting: {Content: navtree.MustStack("s", screen("b", "b")), Adapt: navtree.AdaptLevitate},
	})

	assert.Equal(t, navtree.PanePrimary, p.ActivePane())
	assert.Equal(t, navtree.PopUntilScaffoldValueChange, p.BackBehavior())
	assert.Equal(t, []navtree.PaneRole{navtree.PanePrimary, navtree.PaneSupporting}, p.Roles())

	cfg, ok := p.Pane(navtree.PanePrimary)
	require.True(t, ok)
	assert.Equal(t, navtree.AdaptHide, cfg.Adapt)
	assert.Equal(t, "panes", cfg.Content.ParentKey())
}

func TestTabs_Invariants(t *testing.T) {
	_, err := navtree.NewTabs("tabs", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidNode)

	_, err = navtree.NewTabs("tabs", []navtree.Tab{
		{ID: "home", Root: navtree.MustStack("h")},
	}, navtree.WithActiveTab("nope"))
	assert.ErrorIs(t, err, domain.ErrInvalidNode)

	_, err = navtree.NewTabs("tabs", []navtree.Tab{
		{ID: "home", Root: navtree.MustStack("h")},
		{ID: "home", Root: navtree.MustStack("h2")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidNode)
}

func TestConstructors_Reparent(t *testing.T) {
	root := navtree.MustStack("root", screen("a", "a"), screen("b", "b"))
	require.NoError(t, navtree.Validate(root))
	for _, c := range root.Children() {
		assert.Equal(t, "root", c.ParentKey())
	}
}

func TestValidate_DuplicateKeys(t *testing.T) {
	root := navtree.MustStack("root", screen("a", "a"), screen("a", "b"), navtree.MustStack("root"))
	err := navtree.Validate(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidNode)
	assert.Contains(t, err.Error(), `"a"`)
	assert.Contains(t, err.Error(), `"root"`)
}

func TestPush_FlatStack(t *testing.T) {
	m := newMutator(nil)
	root := navtree.Node(navtree.MustStack("root"))

	root, s1, err := m.Push(root, route("home"), nil)
	require.NoError(t, err)
	root, s2, err := m.Push(root, route("detail"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, s1.Key(), s2.Key())
	assert.Equal(t, s2.Key(), navtree.ActiveLeaf(root).Key())
	assert.Equal(t, []string{s1.Key(), s2.Key()}, navtree.ScreenKeys(root))
	assert.Equal(t, "root", s2.ParentKey())
}

func TestPush_DoesNotMutateOldTree(t *testing.T) {
	m := newMutator(nil)
	old := navtree.Node(navtree.MustStack("root", screen("home", "home")))

	next, _, err := m.Push(old, route("detail"), nil)
	require.NoError(t, err)

	assert.Len(t, navtree.ScreenKeys(old), 1)
	assert.Len(t, navtree.ScreenKeys(next), 2)
}

func scopedPaneTree() (*navtree.StackNode, *navtree.PaneNode) {
	pane := navtree.MustPanes("catalog", map[navtree.PaneRole]navtree.PaneConfiguration{
		navtree.PanePrimary:    {Content: navtree.MustStack("catalog-primary", screen("list", "list"))},
		navtree.PaneSupporting: {Content: navtree.MustStack("catalog-supporting", screen("empty", "empty"))},
	}, navtree.WithPaneScope("S"))
	root := navtree.MustStack("root", screen("home", "home"), pane)
	return root, root.Children()[1].(*navtree.PaneNode)
}

func TestPush_ScopeAware(t *testing.T) {
	scopes := navtree.ScopeMap{"X": "S", "Y": "T"}
	m := newMutator(scopes)
	root, pane := scopedPaneTree()

	// In scope: lands inside the active pane content.
	inScope, x, err := m.Push(root, route("X"), nil)
	require.NoError(t, err)
	assert.Equal(t, "catalog-primary", x.ParentKey())
	assert.Equal(t, x.Key(), navtree.ActiveLeaf(inScope).Key())

	// Out of scope: escapes to the parent stack, pane untouched.
	outScope, y, err := m.Push(root, route("Y"), nil)
	require.NoError(t, err)
	assert.Equal(t, "root", y.ParentKey())

	top := outScope.(*navtree.StackNode)
	require.Equal(t, 3, top.Len())
	assert.Same(t, pane, top.Children()[1])

	primary, _ := pane.Pane(navtree.PanePrimary)
	assert.Equal(t, 1, primary.Content.(*navtree.StackNode).Len())
}

func TestPush_UnresolvedScopeEscapes(t *testing.T) {
	m := newMutator(navtree.ScopeMap{})
	root, _ := scopedPaneTree()

	_, s, err := m.Push(root, route("unknown"), nil)
	require.NoError(t, err)
	assert.Equal(t, "root", s.ParentKey())
}

func TestPush_NestedScopes(t *testing.T) {
	inner := navtree.MustTabs("inner", []navtree.Tab{
		{ID: "a", Root: navtree.MustStack("inner-a", screen("ia", "ia"))},
	}, navtree.WithTabScope("inner"))
	outer := navtree.MustPanes("outer", map[navtree.PaneRole]navtree.PaneConfiguration{
		navtree.PanePrimary: {Content: navtree.MustStack("outer-primary", screen("op", "op"), inner)},
	}, navtree.WithPaneScope("outer"))
	root := navtree.MustStack("root", screen("home", "home"), outer)

	m := newMutator(navtree.ScopeResolverFunc(func(d domain.Destination) (string, bool) {
		switch d.Kind() {
		case "deep":
			return "inner", true
		case "mid":
			return "outer", true
		}
		return "", false
	}))

	// "mid" belongs to outer but not inner: stops at outer's primary stack.
	_, s, err := m.Push(root, route("mid"), nil)
	require.NoError(t, err)
	assert.Equal(t, "outer-primary", s.ParentKey())

	// "deep" belongs to inner only; outer rejects it first, so it escapes to root.
	_, s, err = m.Push(root, route("deep"), nil)
	require.NoError(t, err)
	assert.Equal(t, "root", s.ParentKey())
}

func TestPush_ScopedRootKeepsDestination(t *testing.T) {
	root := navtree.MustPanes("panes", map[navtree.PaneRole]navtree.PaneConfiguration{
		navtree.PanePrimary: {Content: navtree.MustStack("primary", screen("a", "a"))},
	}, navtree.WithPaneScope("S"))
	m := newMutator(navtree.ScopeMap{})

	_, s, err := m.Push(root, route("other"), nil)
	require.NoError(t, err)
	assert.Equal(t, "primary", s.ParentKey())
}

func TestPush_NoStack(t *testing.T) {
	m := newMutator(nil)
	_, _, err := m.Push(screen("lonely", "lonely"), route("x"), nil)
	assert.ErrorIs(t, err, domain.ErrNoTargetStack)
}

func TestPop_Stack(t *testing.T) {
	m := newMutator(nil)
	root := navtree.Node(navtree.MustStack("root", screen("a", "a"), screen("b", "b")))

	root, ok := m.Pop(root)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, navtree.ScreenKeys(root))

	_, ok = m.Pop(root)
	assert.False(t, ok)
	assert.False(t, m.CanPop(root))
}

func TestPop_NestedStackFirst(t *testing.T) {
	m := newMutator(nil)
	inner := navtree.MustStack("inner", screen("i1", "i1"), screen("i2", "i2"))
	root := navtree.Node(navtree.MustStack("root", screen("home", "home"), inner))

	root, ok := m.Pop(root)
	require.True(t, ok)
	assert.Equal(t, []string{"home", "i1"}, navtree.ScreenKeys(root))

	// Inner at its root: the whole inner stack is popped from the outer one.
	root, ok = m.Pop(root)
	require.True(t, ok)
	assert.Equal(t, []string{"home"}, navtree.ScreenKeys(root))
}

func TestTabs_SwitchAndBack(t *testing.T) {
	m := newMutator(nil)
	tabs := navtree.MustTabs("tabs", []navtree.Tab{
		{ID: "home", Root: navtree.MustStack("home-stack", screen("h", "h"))},
		{ID: "search", Root: navtree.MustStack("search-stack", screen("s", "s"))},
	})
	root := navtree.Node(navtree.MustStack("root", tabs))

	root, err := m.SwitchTab(root, "tabs", "search")
	require.NoError(t, err)
	assert.Equal(t, "s", navtree.ActiveLeaf(root).Key())

	root, _, err = m.Push(root, route("result"), nil)
	require.NoError(t, err)
	assert.Equal(t, "search-stack", navtree.ActiveLeaf(root).ParentKey())

	// Pop inside the tab first, then fall back to the initial tab.
	root, ok := m.Pop(root)
	require.True(t, ok)
	assert.Equal(t, "s", navtree.ActiveLeaf(root).Key())

	root, ok = m.Pop(root)
	require.True(t, ok)
	assert.Equal(t, "h", navtree.ActiveLeaf(root).Key())

	// Inactive tabs are retained.
	assert.ElementsMatch(t, []string{"h", "s"}, navtree.ScreenKeys(root))

	_, ok = m.Pop(root)
	assert.False(t, ok)

	_, err = m.SwitchTab(root, "tabs", "missing")
	assert.ErrorIs(t, err, domain.ErrInvalidNode)
	_, err = m.SwitchTab(root, "nope", "home")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func paneTree(b navtree.BackBehavior) navtree.Node {
	pane := navtree.MustPanes("panes", map[navtree.PaneRole]navtree.PaneConfiguration{
		navtree.PanePrimary:    {Content: navtree.MustStack("primary", screen("list", "list"), screen("filter", "filter"))},
		navtree.PaneSupporting: {Content: navtree.MustStack("supporting", screen("d1", "detail"), screen("d2", "detail"), screen("d3", "other"))},
	}, navtree.WithActivePane(navtree.PaneSupporting), navtree.WithBackBehavior(b))
	return navtree.MustStack("root", screen("home", "home"), pane)
}

func activePane(t *testing.T, root navtree.Node) *navtree.PaneNode {
	n, ok := navtree.Find(root, "panes")
	require.True(t, ok)
	return n.(*navtree.PaneNode)
}

func TestPop_PaneScaffoldValueChange(t *testing.T) {
	m := newMutator(nil)
	root := paneTree(navtree.PopUntilScaffoldValueChange)

	root, ok := m.Pop(root)
	require.True(t, ok)
	assert.Equal(t, navtree.PanePrimary, activePane(t, root).ActivePane())
	assert.ElementsMatch(t, []string{"home", "list", "filter", "d1"}, navtree.ScreenKeys(root))
	assert.Equal(t, "filter", navtree.ActiveLeaf(root).Key())

	root, ok = m.Pop(root)
	require.True(t, ok)
	assert.Equal(t, "list", navtree.ActiveLeaf(root).Key())

	// Primary at root: the pane container itself is popped from root.
	root, ok = m.Pop(root)
	require.True(t, ok)
	assert.Equal(t, []string{"home"}, navtree.ScreenKeys(root))
}

func TestPop_PaneLatest(t *testing.T) {
	m := newMutator(nil)
	root := paneTree(navtree.PopLatest)

	root, ok := m.Pop(root)
	require.True(t, ok)
	assert.Equal(t, "d2", navtree.ActiveLeaf(root).Key())
	assert.Equal(t, navtree.PaneSupporting, activePane(t, root).ActivePane())

	root, _ = m.Pop(root)
	root, _ = m.Pop(root)
	assert.Equal(t, navtree.PanePrimary, activePane(t, root).ActivePane())
	assert.Equal(t, "filter", navtree.ActiveLeaf(root).Key())
}

func TestPop_PaneContentChange(t *testing.T) {
	m := newMutator(nil)
	pane := navtree.MustPanes("panes", map[navtree.PaneRole]navtree.PaneConfiguration{
		navtree.PanePrimary: {Content: navtree.MustStack("primary",
			screen("list", "list"), screen("d1", "detail"), screen("d2", "detail"))},
	}, navtree.WithBackBehavior(navtree.PopUntilContentChange))
	root := navtree.Node(navtree.MustStack("root", screen("home", "home"), pane))

	root, ok := m.Pop(root)
	require.True(t, ok)
	assert.Equal(t, "list", navtree.ActiveLeaf(root).Key())
}

func TestSetActivePane(t *testing.T) {
	m := newMutator(nil)
	root := paneTree(navtree.PopLatest)

	root, err := m.SetActivePane(root, "panes", navtree.PanePrimary)
	require.NoError(t, err)
	assert.Equal(t, "filter", navtree.ActiveLeaf(root).Key())

	_, err = m.SetActivePane(root, "panes", navtree.PaneExtra)
	assert.ErrorIs(t, err, domain.ErrInvalidNode)
}

func TestReplaceAndClear(t *testing.T) {
	m := newMutator(nil)
	root := navtree.Node(navtree.MustStack("root", screen("a", "a"), navtree.MustStack("inner", screen("b", "b"))))

	replaced, s, err := m.Replace(root, route("c"), nil)
	require.NoError(t, err)
	assert.Equal(t, "inner", s.ParentKey())
	assert.Equal(t, []string{"a", s.Key()}, navtree.ScreenKeys(replaced))

	cleared, s, err := m.ClearAndPush(root, route("fresh"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{s.Key()}, navtree.ScreenKeys(cleared))
	assert.Equal(t, "root", s.ParentKey())
}

func TestSetSavedState(t *testing.T) {
	m := newMutator(nil)
	root := navtree.Node(navtree.MustStack("root", screen("a", "a")))

	next, err := m.SetSavedState(root, "a", []byte("pos=3"))
	require.NoError(t, err)
	assert.Equal(t, "pos=3", string(navtree.ActiveLeaf(next).SavedState()))
	assert.Nil(t, navtree.ActiveLeaf(root).SavedState())

	_, err = m.SetSavedState(root, "root", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidNode)
}

func TestParseEnums(t *testing.T) {
	r, err := navtree.ParsePaneRole("Supporting")
	require.NoError(t, err)
	assert.Equal(t, navtree.PaneSupporting, r)

	b, err := navtree.ParseBackBehavior("pop_latest")
	require.NoError(t, err)
	assert.Equal(t, navtree.PopLatest, b)

	_, err = navtree.ParseBackBehavior("sideways")
	assert.Error(t, err)
}

func TestMutations_KeepKeysUnique(t *testing.T) {
	m := newMutator(nil)
	// Declared keys shaped like generated ones must not be reissued.
	root := navtree.Node(navtree.MustStack("root",
		screen("detail-1", "detail"),
		navtree.MustStack("detail-3", screen("detail-2", "detail")),
	))
	require.NoError(t, navtree.Validate(root))

	steps := []func(navtree.Node) (navtree.Node, *navtree.ScreenNode, error){
		func(n navtree.Node) (navtree.Node, *navtree.ScreenNode, error) { return m.Push(n, route("detail"), nil) },
		func(n navtree.Node) (navtree.Node, *navtree.ScreenNode, error) { return m.Replace(n, route("detail"), nil) },
		func(n navtree.Node) (navtree.Node, *navtree.ScreenNode, error) { return m.Push(n, route("detail"), nil) },
		func(n navtree.Node) (navtree.Node, *navtree.ScreenNode, error) { return m.ClearAndPush(n, route("detail"), nil) },
	}
	for i, step := range steps {
		next, s, err := step(root)
		require.NoError(t, err, "step %d", i)
		require.NoError(t, navtree.Validate(next), "step %d", i)
		assert.NotContains(t, []string{"detail-1", "detail-2", "detail-3"}, s.Key(), "step %d", i)
		root = next
	}
}

type fixedKeys string

func (f fixedKeys) Generate(string) string { return string(f) }

func TestPush_NoFreeKey(t *testing.T) {
	m := navtree.NewMutator(navtree.WithKeys(fixedKeys("a")))
	root := navtree.MustStack("root", screen("a", "a"))

	next, s, err := m.Push(root, route("b"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidNode)
	assert.Nil(t, s)
	assert.Same(t, navtree.Node(root), next)
}

func TestRekey(t *testing.T) {
	root := navtree.MustTabs("tabs", []navtree.Tab{
		{ID: "main", Root: navtree.MustStack("main-stack", screen("home", "home"), screen("detail", "detail"))},
		{ID: "extra", Root: navtree.MustPanes("panes", map[navtree.PaneRole]navtree.PaneConfiguration{
			navtree.PanePrimary: {Content: navtree.MustStack("list", screen("item", "item"))},
		}, navtree.WithPaneScope("s"))},
	}, navtree.WithActiveTab("extra"))

	keys := navkey.New()
	a, err := navtree.Rekey(root, keys)
	require.NoError(t, err)
	b, err := navtree.Rekey(root, keys)
	require.NoError(t, err)

	assert.Equal(t, []string{"home-1", "detail-2", "item-3"}, navtree.ScreenKeys(a))
	assert.Equal(t, []string{"home-4", "detail-5", "item-6"}, navtree.ScreenKeys(b))
	assert.Equal(t, []string{"home", "detail", "item"}, navtree.ScreenKeys(root))
	require.NoError(t, navtree.Validate(a))
	require.NoError(t, navtree.Validate(b))

	// Containers keep their keys and configuration.
	tabs := a.(*navtree.TabNode)
	assert.Equal(t, "extra", tabs.ActiveTab())
	assert.Equal(t, []string{"main", "extra"}, tabs.TabIDs())
	panes, ok := navtree.Find(a, "panes")
	require.True(t, ok)
	assert.Equal(t, "s", panes.(*navtree.PaneNode).ScopeKey())
	assert.Equal(t, "list", navtree.ActiveLeaf(a).ParentKey())

	nilRoot, err := navtree.Rekey(nil, keys)
	assert.NoError(t, err)
	assert.Nil(t, nilRoot)
}

func TestRekey_AvoidsContainerKeys(t *testing.T) {
	root := navtree.MustStack("home-1", screen("home", "home"))
	next, err := navtree.Rekey(root, navkey.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"home-2"}, navtree.ScreenKeys(next))
}
