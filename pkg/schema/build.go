package schema

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/navkey"
	"github.com/aretw0/waypoint/pkg/navtree"
	"github.com/aretw0/waypoint/pkg/routes"
)

// KeyGenerator allocates keys for screens declared without one.
type KeyGenerator interface {
	Generate(label string) string
}

// Definition is a built Document: a validated tree plus the routes it uses.
type Definition struct {
	Root   navtree.Node
	Routes *routes.Registry
	Params map[string]Schema
}

// Destination builds a destination of a declared kind, checking data against
// the kind's params first.
func (d *Definition) Destination(kind string, data map[string]any) (domain.Destination, error) {
	if _, err := d.Routes.Lookup(kind); err != nil {
		return nil, err
	}
	if err := Validate(d.Params[kind], data); err != nil {
		return nil, fmt.Errorf("%s params: %w", kind, err)
	}
	var p domain.Payload
	if len(data) > 0 {
		p = domain.InMemory(data)
	}
	return d.Routes.Restore(kind, p)
}

type buildConfig struct {
	keys     KeyGenerator
	restores map[string]routes.RestoreFunc
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithKeys sets the generator for implicit screen keys (default: navkey.Default()).
func WithKeys(g KeyGenerator) BuildOption {
	return func(c *buildConfig) {
		c.keys = g
	}
}

// WithRestore attaches a RestoreFunc to a declared kind, so screens of that
// kind are built as application destinations instead of domain.Route.
func WithRestore(kind string, fn routes.RestoreFunc) BuildOption {
	return func(c *buildConfig) {
		c.restores[kind] = fn
	}
}

type builder struct {
	keys   KeyGenerator
	reg    *routes.Registry
	params map[string]Schema
	errs   error
}

func (b *builder) fail(path string, err error) {
	b.errs = multierr.Append(b.errs, &NodeError{Path: path, Err: err})
}

// Build turns doc into a navtree. Every problem found is reported, each as a
// *NodeError; use Errors to list them.
func Build(doc *Document, opts ...BuildOption) (*Definition, error) {
	cfg := buildConfig{
		keys:     navkey.Default(),
		restores: make(map[string]routes.RestoreFunc),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &builder{
		keys:   cfg.keys,
		reg:    routes.NewRegistry(),
		params: make(map[string]Schema),
	}
	for i, r := range doc.Routes {
		err := b.reg.Register(routes.Route{
			Kind:    r.Kind,
			Path:    r.Path,
			Scope:   r.Scope,
			Restore: cfg.restores[r.Kind],
		})
		if err != nil {
			b.fail(fmt.Sprintf("routes[%d]", i), err)
			continue
		}
		b.params[r.Kind] = r.Params
	}

	root := b.node("root", doc.Root)
	if b.errs == nil {
		if err := navtree.Validate(root); err != nil {
			for _, e := range multierr.Errors(err) {
				b.fail("root", e)
			}
		}
	}
	if b.errs != nil {
		return nil, b.errs
	}
	return &Definition{Root: root, Routes: b.reg, Params: b.params}, nil
}

func (b *builder) node(path string, def NodeDef) navtree.Node {
	set := 0
	for _, ok := range []bool{def.Screen != nil, def.Stack != nil, def.Tabs != nil, def.Panes != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		b.fail(path, fmt.Errorf("node must set exactly one of screen, stack, tabs, panes (got %d)", set))
		return nil
	}

	switch {
	case def.Screen != nil:
		return b.screen(path+".screen", def.Screen)
	case def.Stack != nil:
		return b.stack(path+".stack", def.Stack)
	case def.Tabs != nil:
		return b.tabs(path+".tabs", def.Tabs)
	default:
		return b.panes(path+".panes", def.Panes)
	}
}

func (b *builder) screen(path string, def *ScreenDef) navtree.Node {
	if _, err := b.reg.Lookup(def.Kind); err != nil {
		b.fail(path, err)
		return nil
	}
	if err := Validate(b.params[def.Kind], def.Data); err != nil {
		for _, e := range multierr.Errors(err) {
			b.fail(path+".data", e)
		}
		return nil
	}

	var p domain.Payload
	if len(def.Data) > 0 {
		p = domain.InMemory(def.Data)
	}
	dest, err := b.reg.Restore(def.Kind, p)
	if err != nil {
		b.fail(path, err)
		return nil
	}

	key := def.Key
	if key == "" {
		key = b.keys.Generate(def.Kind)
	}
	s, err := navtree.NewScreen(key, dest, def.Transition)
	if err != nil {
		b.fail(path, err)
		return nil
	}
	return s
}

func (b *builder) stack(path string, def *StackDef) navtree.Node {
	children := make([]navtree.Node, 0, len(def.Children))
	ok := true
	for i, c := range def.Children {
		n := b.node(fmt.Sprintf("%s[%d]", path, i), c)
		if n == nil {
			ok = false
			continue
		}
		children = append(children, n)
	}
	if !ok {
		return nil
	}
	s, err := navtree.NewStack(def.Key, children...)
	if err != nil {
		b.fail(path, err)
		return nil
	}
	return s
}

func (b *builder) tabs(path string, def *TabsDef) navtree.Node {
	tabs := make([]navtree.Tab, 0, len(def.Tabs))
	ok := true
	for _, t := range def.Tabs {
		n := b.node(fmt.Sprintf("%s[%s]", path, t.ID), t.Root)
		if n == nil {
			ok = false
			continue
		}
		tabs = append(tabs, navtree.Tab{ID: t.ID, Root: n})
	}
	if !ok {
		return nil
	}

	var opts []navtree.TabOption
	if def.Active != "" {
		opts = append(opts, navtree.WithActiveTab(def.Active))
	}
	if def.Initial != "" {
		opts = append(opts, navtree.WithInitialTab(def.Initial))
	}
	if def.Scope != "" {
		opts = append(opts, navtree.WithTabScope(def.Scope))
	}
	t, err := navtree.NewTabs(def.Key, tabs, opts...)
	if err != nil {
		b.fail(path, err)
		return nil
	}
	return t
}

func (b *builder) panes(path string, def *PanesDef) navtree.Node {
	panes := make(map[navtree.PaneRole]navtree.PaneConfiguration, len(def.Panes))
	ok := true

	names := make([]string, 0, len(def.Panes))
	for name := range def.Panes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := def.Panes[name]
		sub := fmt.Sprintf("%s[%s]", path, name)
		role, err := navtree.ParsePaneRole(name)
		if err != nil {
			b.fail(sub, err)
			ok = false
			continue
		}
		adapt, err := parseAdapt(p.Adapt)
		if err != nil {
			b.fail(sub, err)
			ok = false
			continue
		}
		n := b.node(sub, p.Content)
		if n == nil {
			ok = false
			continue
		}
		panes[role] = navtree.PaneConfiguration{Content: n, Adapt: adapt}
	}

	var opts []navtree.PaneOption
	if def.Active != "" {
		role, err := navtree.ParsePaneRole(def.Active)
		if err != nil {
			b.fail(path, err)
			ok = false
		}
		opts = append(opts, navtree.WithActivePane(role))
	}
	if def.Back != "" {
		back, err := navtree.ParseBackBehavior(def.Back)
		if err != nil {
			b.fail(path, err)
			ok = false
		}
		opts = append(opts, navtree.WithBackBehavior(back))
	}
	if def.Scope != "" {
		opts = append(opts, navtree.WithPaneScope(def.Scope))
	}
	if !ok {
		return nil
	}

	p, err := navtree.NewPanes(def.Key, panes, opts...)
	if err != nil {
		b.fail(path, err)
		return nil
	}
	return p
}

func parseAdapt(s string) (navtree.AdaptStrategy, error) {
	switch a := navtree.AdaptStrategy(s); a {
	case "":
		return navtree.AdaptHide, nil
	case navtree.AdaptHide, navtree.AdaptLevitate, navtree.AdaptReflow:
		return a, nil
	}
	return "", fmt.Errorf("unknown adapt strategy %q", s)
}
