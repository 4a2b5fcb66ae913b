package ports

import (
	"context"

	"github.com/aretw0/waypoint/pkg/domain"
)

// SnapshotStore persists back stack snapshots by session ID.
type SnapshotStore interface {
	// Save persists the snapshot for a given session ID, replacing any previous one.
	Save(ctx context.Context, sessionID string, snap *domain.StackSnapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.StackSnapshot, error)

	// Delete removes the snapshot for a given session ID. Missing sessions are not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
