package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/codec"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/navigator"
	"github.com/aretw0/waypoint/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// Unused local locks are garbage collected by reference counting.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	encoder navigator.PayloadEncoder
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiry (default DefaultLockTTL).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithEncoder sets how payloads are serialized by Checkpoint
// (default: codec.NewSet(), JSON first).
func WithEncoder(enc navigator.PayloadEncoder) Option {
	return func(m *Manager) {
		m.encoder = enc
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		encoder: codec.NewSet(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu, and call release after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[sessionID]
	if !ok {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and drops the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[sessionID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves a stored snapshot.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.StackSnapshot, error) {
	var snap *domain.StackSnapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		return err
	})
	return snap, err
}

// Save persists a snapshot.
func (m *Manager) Save(ctx context.Context, sessionID string, snap *domain.StackSnapshot) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, snap)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// Checkpoint exports nav and stores it under sessionID.
// It must run on the navigation owner, like any other read of nav.
func (m *Manager) Checkpoint(ctx context.Context, sessionID string, nav *navigator.Stack) error {
	snap, err := nav.Export(m.encoder)
	if err != nil {
		return fmt.Errorf("checkpoint %s: %w", sessionID, err)
	}
	if err := m.Save(ctx, sessionID, snap); err != nil {
		return err
	}
	m.logger.Debug("session checkpoint", "session_id", sessionID, "entries", len(snap.Entries))
	return nil
}

// Resume loads the snapshot for sessionID into nav. Restored screens get
// fresh keys. Returns domain.ErrSessionNotFound if nothing was stored.
func (m *Manager) Resume(ctx context.Context, sessionID string, nav *navigator.Stack, r navigator.Restorer) error {
	snap, err := m.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := nav.Restore(snap, r); err != nil {
		return fmt.Errorf("resume %s: %w", sessionID, err)
	}
	m.logger.Debug("session resumed", "session_id", sessionID, "entries", len(snap.Entries))
	return nil
}

// ResumeOrStart resumes sessionID, or leaves nav at home when the session does
// not exist. It reports whether a stored session was resumed.
func (m *Manager) ResumeOrStart(ctx context.Context, sessionID string, nav *navigator.Stack, r navigator.Restorer, home domain.Destination) (bool, error) {
	err := m.Resume(ctx, sessionID, nav, r)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}
	nav.NavigateAndClearAll(home)
	return false, nil
}

// Navigate runs one read-modify-write cycle on sessionID while holding its
// lock: the stored stack is restored into nav (or nav starts at home when
// nothing is stored), fn is applied and the result is checkpointed. Nothing is
// saved when fn fails.
func (m *Manager) Navigate(ctx context.Context, sessionID string, nav *navigator.Stack, r navigator.Restorer, home domain.Destination, fn func(*navigator.Stack) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, sessionID)
		switch {
		case err == nil:
			if err := nav.Restore(snap, r); err != nil {
				return fmt.Errorf("resume %s: %w", sessionID, err)
			}
		case errors.Is(err, domain.ErrSessionNotFound):
			nav.NavigateAndClearAll(home)
		default:
			return err
		}

		if err := fn(nav); err != nil {
			return err
		}

		out, err := nav.Export(m.encoder)
		if err != nil {
			return fmt.Errorf("checkpoint %s: %w", sessionID, err)
		}
		return m.store.Save(ctx, sessionID, out)
	})
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
