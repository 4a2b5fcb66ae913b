package navtree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/waypoint/pkg/domain"
)

// PaneRole identifies a pane's position in a multi-pane container.
type PaneRole int

const (
	PanePrimary PaneRole = iota
	PaneSupporting
	PaneExtra
)

func (r PaneRole) String() string {
	switch r {
	case PanePrimary:
		return "primary"
	case PaneSupporting:
		return "supporting"
	case PaneExtra:
		return "extra"
	}
	return fmt.Sprintf("pane(%d)", int(r))
}

// ParsePaneRole parses the String form of a role.
func ParsePaneRole(s string) (PaneRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary":
		return PanePrimary, nil
	case "supporting":
		return PaneSupporting, nil
	case "extra":
		return PaneExtra, nil
	}
	return 0, fmt.Errorf("unknown pane role %q", s)
}

// AdaptStrategy tells the renderer how to show a pane that does not fit.
type AdaptStrategy string

const (
	AdaptHide     AdaptStrategy = "hide"
	AdaptLevitate AdaptStrategy = "levitate"
	AdaptReflow   AdaptStrategy = "reflow"
)

// BackBehavior selects how back navigation treats a pane container.
type BackBehavior int

const (
	// PopUntilScaffoldValueChange: back from a non-primary pane drops that
	// pane's stack to its root and activates Primary in one step, so every
	// back press changes which pane arrangement is shown.
	PopUntilScaffoldValueChange BackBehavior = iota
	// PopUntilContentChange: pop entries from the active pane until the top
	// destination differs from the one removed.
	PopUntilContentChange
	// PopLatest: pop one entry from the active pane.
	PopLatest
)

func (b BackBehavior) String() string {
	switch b {
	case PopUntilScaffoldValueChange:
		return "pop_until_scaffold_value_change"
	case PopUntilContentChange:
		return "pop_until_content_change"
	case PopLatest:
		return "pop_latest"
	}
	return fmt.Sprintf("back(%d)", int(b))
}

// ParseBackBehavior parses the String form of a behavior.
func ParseBackBehavior(s string) (BackBehavior, error) {
	for _, b := range []BackBehavior{PopUntilScaffoldValueChange, PopUntilContentChange, PopLatest} {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown back behavior %q", s)
}

// PaneConfiguration is the content of one pane.
type PaneConfiguration struct {
	Content Node
	Adapt   AdaptStrategy
}

// PaneNode is a multi-pane container.
type PaneNode struct {
	key       string
	parentKey string
	panes     map[PaneRole]PaneConfiguration
	active    PaneRole
	back      BackBehavior
	scopeKey  string
}

// PaneOption configures a PaneNode.
type PaneOption func(*PaneNode)

// WithActivePane selects the active role (default: Primary).
func WithActivePane(role PaneRole) PaneOption {
	return func(p *PaneNode) {
		p.active = role
	}
}

// WithBackBehavior sets the back policy (default: PopUntilScaffoldValueChange).
func WithBackBehavior(b BackBehavior) PaneOption {
	return func(p *PaneNode) {
		p.back = b
	}
}

// WithPaneScope sets the scope key claimed by the container.
func WithPaneScope(scope string) PaneOption {
	return func(p *PaneNode) {
		p.scopeKey = scope
	}
}

// NewPanes creates a pane container. Primary must be configured and the active
// role must be one of the configured roles.
func NewPanes(key string, panes map[PaneRole]PaneConfiguration, opts ...PaneOption) (*PaneNode, error) {
	if key == "" {
		return nil, &domain.InvalidNodeError{Key: key, Reason: "empty key"}
	}
	if _, ok := panes[PanePrimary]; !ok {
		return nil, &domain.InvalidNodeError{Key: key, Reason: "missing primary pane"}
	}

	p := &PaneNode{
		key:    key,
		panes:  make(map[PaneRole]PaneConfiguration, len(panes)),
		active: PanePrimary,
	}
	for role, cfg := range panes {
		if cfg.Content == nil {
			return nil, &domain.InvalidNodeError{Key: key, Reason: role.String() + " pane without content"}
		}
		if cfg.Adapt == "" {
			cfg.Adapt = AdaptHide
		}
		cfg.Content = cfg.Content.withParent(key)
		p.panes[role] = cfg
	}

	for _, opt := range opts {
		opt(p)
	}

	if _, ok := p.panes[p.active]; !ok {
		return nil, &domain.InvalidNodeError{Key: key, Reason: "active pane " + p.active.String() + " not configured"}
	}
	return p, nil
}

// MustPanes is NewPanes that panics on error.
func MustPanes(key string, panes map[PaneRole]PaneConfiguration, opts ...PaneOption) *PaneNode {
	n, err := NewPanes(key, panes, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

func (p *PaneNode) Key() string                { return p.key }
func (p *PaneNode) ParentKey() string          { return p.parentKey }
func (p *PaneNode) ActivePane() PaneRole       { return p.active }
func (p *PaneNode) BackBehavior() BackBehavior { return p.back }
func (p *PaneNode) ScopeKey() string           { return p.scopeKey }

// Pane returns the configuration for role.
func (p *PaneNode) Pane(role PaneRole) (PaneConfiguration, bool) {
	cfg, ok := p.panes[role]
	return cfg, ok
}

// Roles returns the configured roles in ascending order.
func (p *PaneNode) Roles() []PaneRole {
	roles := make([]PaneRole, 0, len(p.panes))
	for r := range p.panes {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

func (p *PaneNode) withParent(parentKey string) Node {
	c := *p
	c.parentKey = parentKey
	return &c
}

func (p *PaneNode) activeChild() Node { return p.panes[p.active].Content }

func (p *PaneNode) childNodes() []Node {
	roles := p.Roles()
	out := make([]Node, 0, len(roles))
	for _, r := range roles {
		out = append(out, p.panes[r].Content)
	}
	return out
}

func (p *PaneNode) replaceChild(oldKey string, n Node) Node {
	c := *p
	c.panes = make(map[PaneRole]PaneConfiguration, len(p.panes))
	for role, cfg := range p.panes {
		if cfg.Content.Key() == oldKey {
			cfg.Content = n.withParent(p.key)
		}
		c.panes[role] = cfg
	}
	return &c
}

func (p *PaneNode) withActive(role PaneRole) *PaneNode {
	c := *p
	c.active = role
	return &c
}
