package navigator

import (
	"log/slog"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/lifecycle"
	"github.com/aretw0/waypoint/pkg/navkey"
	"github.com/aretw0/waypoint/pkg/navtree"
)

// KeyGenerator allocates screen keys.
type KeyGenerator interface {
	Generate(label string) string
}

type config struct {
	lifecycles *lifecycle.Manager
	keys       KeyGenerator
	scopes     navtree.ScopeResolver
	hooks      Hooks
	logger     *slog.Logger
}

// Option configures a navigator.
type Option func(*config)

// WithLifecycleManager shares a lifecycle manager (default: a private one).
func WithLifecycleManager(m *lifecycle.Manager) Option {
	return func(c *config) {
		c.lifecycles = m
	}
}

// WithKeyGenerator sets the screen key source.
func WithKeyGenerator(g KeyGenerator) Option {
	return func(c *config) {
		c.keys = g
	}
}

// WithScopeResolver sets the resolver consulted by Tree at scoped containers.
func WithScopeResolver(r navtree.ScopeResolver) Option {
	return func(c *config) {
		c.scopes = r
	}
}

// WithHooks registers observability hooks.
func WithHooks(h Hooks) Option {
	return func(c *config) {
		c.hooks = h
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(opts []Option) config {
	c := config{
		keys:   navkey.Default(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.lifecycles == nil {
		c.lifecycles = lifecycle.NewManager(lifecycle.WithLogger(c.logger))
	}
	return c
}
