package lifecycle

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
)

// Observer is notified after every dispatch with the number of lifecycles reached.
type Observer interface {
	LifecycleDispatched(event domain.EventType, screenKey string, receivers int)
	RegistrationsChanged(total int)
}

// Manager is the registry between lifecycles and screen keys.
type Manager struct {
	mu          sync.Mutex
	byKey       map[string]map[Lifecycle]struct{}
	byLifecycle map[Lifecycle]string

	logger   *slog.Logger
	observer Observer
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithObserver attaches a dispatch observer (e.g. metrics).
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		m.observer = o
	}
}

// NewManager creates an empty registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		byKey:       make(map[string]map[Lifecycle]struct{}),
		byLifecycle: make(map[Lifecycle]string),
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register associates l with screenKey and immediately fires OnEnter on l.
// The caller must only register against the currently active screen; this is
// not checked. A lifecycle already bound to another key is moved.
func (m *Manager) Register(l Lifecycle, screenKey string) {
	if l == nil || screenKey == "" {
		m.logger.Warn("ignoring lifecycle registration", "screen_key", screenKey, "nil_lifecycle", l == nil)
		return
	}
	if !identifiable(l) {
		m.logger.Warn("ignoring lifecycle registration: lifecycle must be a pointer",
			"screen_key", screenKey, "type", reflect.TypeOf(l).String())
		return
	}

	m.mu.Lock()
	total := m.bindLocked(l, screenKey)
	m.mu.Unlock()

	m.logger.Debug("lifecycle registered", "screen_key", screenKey)
	m.registrationsChanged(total)

	l.OnEnter()
	m.dispatched(domain.EventEnter, screenKey, 1)
}

// Unregister removes l from the registry. Unknown lifecycles are ignored.
func (m *Manager) Unregister(l Lifecycle) {
	if !identifiable(l) {
		return
	}

	m.mu.Lock()
	total, removed := m.unbindLocked(l)
	m.mu.Unlock()

	if removed {
		m.registrationsChanged(total)
	}
}

// RegisterSync is Register for callers already on the navigation owner
// context. It takes the same lock as Register, so mixing both is safe.
func (m *Manager) RegisterSync(l Lifecycle, screenKey string) {
	m.Register(l, screenKey)
}

// UnregisterSync is Unregister for callers already on the navigation owner
// context. It takes the same lock as Unregister.
func (m *Manager) UnregisterSync(l Lifecycle) {
	m.Unregister(l)
}

// NotifyEntered fires OnEnter on every lifecycle bound to screenKey.
// Used when an already registered screen becomes active again.
func (m *Manager) NotifyEntered(screenKey string) {
	targets := m.snapshot(screenKey)
	for _, l := range targets {
		l.OnEnter()
	}
	m.dispatched(domain.EventEnter, screenKey, len(targets))
}

// NotifyExited fires OnExit on every lifecycle bound to screenKey.
// Associations are kept so the screen can re-enter later.
func (m *Manager) NotifyExited(screenKey string) {
	targets := m.snapshot(screenKey)
	for _, l := range targets {
		l.OnExit()
	}
	m.dispatched(domain.EventExit, screenKey, len(targets))
}

// NotifyDestroyed fires OnDestroy on every lifecycle bound to screenKey and
// drops all of its associations. The read and the removal are one critical
// section, so concurrent calls for the same key fire each OnDestroy once.
func (m *Manager) NotifyDestroyed(screenKey string) {
	m.mu.Lock()
	set := m.byKey[screenKey]
	delete(m.byKey, screenKey)
	targets := make([]Lifecycle, 0, len(set))
	for l := range set {
		delete(m.byLifecycle, l)
		targets = append(targets, l)
	}
	total := len(m.byLifecycle)
	m.mu.Unlock()

	if len(targets) > 0 {
		m.registrationsChanged(total)
	}
	for _, l := range targets {
		l.OnDestroy()
	}
	m.dispatched(domain.EventDestroy, screenKey, len(targets))
}

// Registrations returns the number of lifecycles bound to screenKey.
func (m *Manager) Registrations(screenKey string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byKey[screenKey])
}

// KeyOf returns the screen key l is bound to.
func (m *Manager) KeyOf(l Lifecycle) (string, bool) {
	if !identifiable(l) {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.byLifecycle[l]
	return key, ok
}

// Len returns the total number of registered lifecycles.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byLifecycle)
}

func (m *Manager) bindLocked(l Lifecycle, screenKey string) int {
	if prev, ok := m.byLifecycle[l]; ok && prev != screenKey {
		m.removeFromKeyLocked(l, prev)
	}
	m.byLifecycle[l] = screenKey
	set, ok := m.byKey[screenKey]
	if !ok {
		set = make(map[Lifecycle]struct{})
		m.byKey[screenKey] = set
	}
	set[l] = struct{}{}
	return len(m.byLifecycle)
}

func (m *Manager) unbindLocked(l Lifecycle) (int, bool) {
	key, ok := m.byLifecycle[l]
	if !ok {
		return len(m.byLifecycle), false
	}
	delete(m.byLifecycle, l)
	m.removeFromKeyLocked(l, key)
	return len(m.byLifecycle), true
}

func (m *Manager) removeFromKeyLocked(l Lifecycle, key string) {
	set := m.byKey[key]
	delete(set, l)
	if len(set) == 0 {
		delete(m.byKey, key)
	}
}

func (m *Manager) snapshot(screenKey string) []Lifecycle {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.byKey[screenKey]
	out := make([]Lifecycle, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	return out
}

func (m *Manager) dispatched(event domain.EventType, screenKey string, n int) {
	if n > 0 {
		m.logger.Debug("lifecycle dispatched", "event", event, "screen_key", screenKey, "receivers", n)
	}
	if m.observer != nil {
		m.observer.LifecycleDispatched(event, screenKey, n)
	}
}

func (m *Manager) registrationsChanged(total int) {
	if m.observer != nil {
		m.observer.RegistrationsChanged(total)
	}
}

// identifiable reports whether l can key the registry. Only non-nil pointers
// qualify: they hash by address and never panic as map keys.
func identifiable(l Lifecycle) bool {
	if l == nil {
		return false
	}
	v := reflect.ValueOf(l)
	return v.Kind() == reflect.Pointer && !v.IsNil()
}
