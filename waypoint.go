package waypoint

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/lifecycle"
	"github.com/aretw0/waypoint/pkg/navigator"
	"github.com/aretw0/waypoint/pkg/navkey"
	"github.com/aretw0/waypoint/pkg/navtree"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/routes"
	"github.com/aretw0/waypoint/pkg/schema"
)

// Engine is the high-level entry point for the library.
// It pairs a navigation definition with the infrastructure every navigator
// built from it shares: keys, lifecycle manager, hooks, metrics and logger.
type Engine struct {
	def        *schema.Definition
	keys       *navkey.Generator
	lifecycles *lifecycle.Manager
	hooks      []navigator.Hooks
	metrics    *observability.Metrics
	restores   map[string]routes.RestoreFunc
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers navigation hooks. Repeated calls accumulate.
func WithHooks(hooks navigator.Hooks) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithMetrics records navigations and lifecycle dispatches.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithKeyGenerator sets the key source (default: a fresh navkey.Generator).
func WithKeyGenerator(g *navkey.Generator) Option {
	return func(e *Engine) {
		e.keys = g
	}
}

// WithRestore rebuilds destinations of kind with fn, both when the definition
// is built and when sessions are restored.
func WithRestore(kind string, fn routes.RestoreFunc) Option {
	return func(e *Engine) {
		e.restores[kind] = fn
	}
}

// New loads a navigation definition from a YAML file.
func New(path string, opts ...Option) (*Engine, error) {
	doc, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, opts...)
}

// FromDocument builds an Engine from a parsed document.
func FromDocument(doc *schema.Document, opts ...Option) (*Engine, error) {
	e := &Engine{
		restores: make(map[string]routes.RestoreFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.keys == nil {
		e.keys = navkey.New()
	}

	buildOpts := []schema.BuildOption{schema.WithKeys(e.keys)}
	for kind, fn := range e.restores {
		buildOpts = append(buildOpts, schema.WithRestore(kind, fn))
	}
	def, err := schema.Build(doc, buildOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid navigation definition: %w", err)
	}
	e.def = def

	lcOpts := []lifecycle.Option{lifecycle.WithLogger(e.logger)}
	if e.metrics != nil {
		lcOpts = append(lcOpts, lifecycle.WithObserver(e.metrics))
	}
	e.lifecycles = lifecycle.NewManager(lcOpts...)

	e.logger.Debug("navigation definition loaded", "routes", len(def.Routes.Kinds()), "root", def.Root.Key())
	return e, nil
}

// Definition returns the built definition.
func (e *Engine) Definition() *schema.Definition { return e.def }

// Routes returns the route registry. It restores sessions and resolves scopes.
func (e *Engine) Routes() *routes.Registry { return e.def.Routes }

// Lifecycles returns the manager shared by every navigator of the engine.
func (e *Engine) Lifecycles() *lifecycle.Manager { return e.lifecycles }

// Destination builds a destination of a declared kind.
func (e *Engine) Destination(kind string, data map[string]any) (domain.Destination, error) {
	return e.def.Destination(kind, data)
}

// Home returns the destination of the definition's active screen.
func (e *Engine) Home() (domain.Destination, bool) {
	leaf := navtree.ActiveLeaf(e.def.Root)
	if leaf == nil {
		return nil, false
	}
	return leaf.Destination(), true
}

// NewTree returns a tree navigator over a copy of the definition's tree.
// Every navigator gets its own screen keys, labeled by kind, so trees sharing
// the engine's lifecycle manager never address each other's screens.
// Container keys are kept as declared. Scoped routes are routed to the
// containers claiming their scope. Extra hooks run after the engine's own.
func (e *Engine) NewTree(extra ...navigator.Hooks) (*navigator.Tree, error) {
	root, err := navtree.Rekey(e.def.Root, e.keys)
	if err != nil {
		return nil, err
	}
	return navigator.NewTree(root, append(e.options(extra), navigator.WithScopeResolver(e.def.Routes))...)
}

// NewStack returns an empty flat navigator.
func (e *Engine) NewStack(extra ...navigator.Hooks) *navigator.Stack {
	return navigator.NewStack(e.options(extra)...)
}

func (e *Engine) options(extra []navigator.Hooks) []navigator.Option {
	hooks := append(append([]navigator.Hooks(nil), e.hooks...), extra...)
	if e.metrics != nil {
		hooks = append(hooks, e.metrics.Hooks())
	}
	return []navigator.Option{
		navigator.WithKeyGenerator(e.keys),
		navigator.WithLifecycleManager(e.lifecycles),
		navigator.WithLogger(e.logger),
		navigator.WithHooks(observability.MergeHooks(hooks...)),
	}
}
