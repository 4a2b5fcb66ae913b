// Package routes maps destination kinds to route metadata.
//
// The mapping is explicit and built at startup through Register calls; lookups
// never inspect destination types at runtime beyond their Kind tag.
package routes

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
)

// RestoreFunc rebuilds a destination from its payload during state restoration.
type RestoreFunc func(p domain.Payload) (domain.Destination, error)

// Route is the metadata registered for one destination kind.
type Route struct {
	Kind    string
	Path    string
	Scope   string
	Restore RestoreFunc
}

// Registry manages the available routes.
// Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	routes map[string]Route
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		routes: make(map[string]Route),
	}
}

// Register adds a route. Registering the same kind twice is an error.
func (r *Registry) Register(route Route) error {
	if route.Kind == "" {
		return fmt.Errorf("route kind cannot be empty")
	}
	if route.Path == "" {
		route.Path = "/" + route.Kind
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.routes[route.Kind]; exists {
		return fmt.Errorf("route already registered for kind %q", route.Kind)
	}
	r.routes[route.Kind] = route
	return nil
}

// MustRegister is Register that panics on error. Intended for init-time tables.
func (r *Registry) MustRegister(routes ...Route) *Registry {
	for _, route := range routes {
		if err := r.Register(route); err != nil {
			panic(err)
		}
	}
	return r
}

// Lookup returns the route for a kind.
func (r *Registry) Lookup(kind string) (Route, error) {
	r.mu.RLock()
	route, ok := r.routes[kind]
	r.mu.RUnlock()

	if !ok {
		return Route{}, &domain.RouteNotFoundError{Kind: kind}
	}
	return route, nil
}

// Resolve returns the route for a destination.
func (r *Registry) Resolve(dest domain.Destination) (Route, error) {
	return r.Lookup(dest.Kind())
}

// Path returns the route string for a destination.
func (r *Registry) Path(dest domain.Destination) (string, error) {
	route, err := r.Resolve(dest)
	if err != nil {
		return "", err
	}
	return route.Path, nil
}

// ResolveScope implements navtree.ScopeResolver.
func (r *Registry) ResolveScope(dest domain.Destination) (string, bool) {
	route, err := r.Resolve(dest)
	if err != nil || route.Scope == "" {
		return "", false
	}
	return route.Scope, true
}

// Restore rebuilds a destination of the given kind. Kinds without a
// RestoreFunc come back as a domain.Route carrying the payload.
func (r *Registry) Restore(kind string, p domain.Payload) (domain.Destination, error) {
	route, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	if route.Restore == nil {
		return domain.Route{Name: kind, Data: p}, nil
	}
	dest, err := route.Restore(p)
	if err != nil {
		return nil, fmt.Errorf("restore %q: %w", kind, err)
	}
	return dest, nil
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.routes))
	for k := range r.routes {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
