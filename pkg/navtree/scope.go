package navtree

import "github.com/aretw0/waypoint/pkg/domain"

// ScopeResolver maps a destination to the scope that claims it.
// Implementations must be pure lookups.
type ScopeResolver interface {
	ResolveScope(dest domain.Destination) (scopeKey string, ok bool)
}

// ScopeResolverFunc adapts a function to ScopeResolver.
type ScopeResolverFunc func(dest domain.Destination) (string, bool)

// ResolveScope implements ScopeResolver.
func (f ScopeResolverFunc) ResolveScope(dest domain.Destination) (string, bool) {
	return f(dest)
}

// ScopeMap is a static kind -> scope table.
type ScopeMap map[string]string

// ResolveScope implements ScopeResolver.
func (m ScopeMap) ResolveScope(dest domain.Destination) (string, bool) {
	s, ok := m[dest.Kind()]
	return s, ok
}

type noScopes struct{}

func (noScopes) ResolveScope(domain.Destination) (string, bool) { return "", false }
