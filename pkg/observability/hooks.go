package observability

import (
	"log/slog"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/navigator"
)

// LogHooks logs every navigation at Info and every lifecycle dispatch at Debug.
func LogHooks(logger *slog.Logger) navigator.Hooks {
	return navigator.Hooks{
		OnNavigate: func(e *domain.NavigationEvent) {
			logger.Info("navigation",
				"event", e.Type,
				"kind", e.Kind,
				"screen_key", e.ScreenKey,
				"size", e.Size,
			)
		},
		OnLifecycle: func(e *domain.NavigationEvent) {
			logger.Debug("lifecycle", "event", e.Type, "screen_key", e.ScreenKey)
		},
	}
}

// MergeHooks calls every non-nil hook in order.
func MergeHooks(hooks ...navigator.Hooks) navigator.Hooks {
	var nav, lc []func(*domain.NavigationEvent)
	for _, h := range hooks {
		if h.OnNavigate != nil {
			nav = append(nav, h.OnNavigate)
		}
		if h.OnLifecycle != nil {
			lc = append(lc, h.OnLifecycle)
		}
	}
	return navigator.Hooks{
		OnNavigate:  fanOut(nav),
		OnLifecycle: fanOut(lc),
	}
}

func fanOut(fns []func(*domain.NavigationEvent)) func(*domain.NavigationEvent) {
	if len(fns) == 0 {
		return nil
	}
	return func(e *domain.NavigationEvent) {
		for _, fn := range fns {
			fn(e)
		}
	}
}
