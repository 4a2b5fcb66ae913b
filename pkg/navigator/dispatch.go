package navigator

import (
	"log/slog"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/lifecycle"
)

// Hooks are optional callbacks invoked after each structural change and
// lifecycle dispatch.
type Hooks struct {
	OnNavigate  func(*domain.NavigationEvent)
	OnLifecycle func(*domain.NavigationEvent)
}

// change describes one committed structural step.
type change struct {
	event     domain.EventType
	kind      string
	size      int
	oldKeys   []string
	newKeys   []string
	oldActive string
	newActive string
}

// dispatcher turns a committed change into lifecycle notifications.
type dispatcher struct {
	lifecycles *lifecycle.Manager
	hooks      Hooks
	logger     *slog.Logger
}

func (d *dispatcher) dispatch(c change) {
	d.logger.Debug("navigation committed", "event", c.event, "kind", c.kind, "size", c.size, "active", c.newActive)
	if d.hooks.OnNavigate != nil {
		d.hooks.OnNavigate(domain.NewEvent(c.event, c.newActive, c.kind, c.size))
	}

	alive := make(map[string]struct{}, len(c.newKeys))
	for _, k := range c.newKeys {
		alive[k] = struct{}{}
	}

	if c.oldActive != "" && c.oldActive != c.newActive {
		d.lifecycles.NotifyExited(c.oldActive)
		d.lifecycleHook(domain.EventExit, c.oldActive, c.size)
	}

	// Newest first, so nested screens go before the ones beneath them.
	for i := len(c.oldKeys) - 1; i >= 0; i-- {
		k := c.oldKeys[i]
		if _, ok := alive[k]; ok {
			continue
		}
		d.lifecycles.NotifyDestroyed(k)
		d.lifecycleHook(domain.EventDestroy, k, c.size)
	}

	if c.newActive != "" && c.newActive != c.oldActive {
		// Screens mounting later get OnEnter from Register instead.
		d.lifecycles.NotifyEntered(c.newActive)
		d.lifecycleHook(domain.EventEnter, c.newActive, c.size)
	}
}

func (d *dispatcher) lifecycleHook(t domain.EventType, key string, size int) {
	if d.hooks.OnLifecycle != nil {
		d.hooks.OnLifecycle(domain.NewEvent(t, key, "", size))
	}
}
