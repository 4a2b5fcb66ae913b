package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSnapshot() *domain.StackSnapshot {
	p := domain.Serialized(domain.FormatJSON, `{"id":42}`)
	return &domain.StackSnapshot{
		Entries: []domain.EntryRecord{
			{ScreenKey: "home-1", Kind: "home"},
			{
				ScreenKey:  "detail-2",
				Kind:       "detail",
				Payload:    &p,
				Transition: &domain.Transition{Name: "slide", Duration: 250 * time.Millisecond},
				SavedState: []byte("scroll=12"),
			},
		},
		SavedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot()
		require.NoError(t, store.Save(ctx, sessionID, snap), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Entries, 2)

		cur, ok := loaded.Current()
		require.True(t, ok)
		assert.Equal(t, "detail-2", cur.ScreenKey)
		assert.Equal(t, "detail", cur.Kind)
		require.NotNil(t, cur.Payload)
		assert.Equal(t, `{"id":42}`, cur.Payload.Encoded)
		assert.Equal(t, domain.FormatJSON, cur.Payload.Format)
		require.NotNil(t, cur.Transition)
		assert.Equal(t, 250*time.Millisecond, cur.Transition.Duration)
		assert.Equal(t, []byte("scroll=12"), cur.SavedState)
		assert.True(t, snap.SavedAt.Equal(loaded.SavedAt))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		snap := contractSnapshot()
		snap.Entries = snap.Entries[:1]
		require.NoError(t, store.Save(ctx, sessionID, snap))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Len(t, loaded.Entries, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, contractSnapshot()))
		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Delete of a missing session is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractSnapshot())
		_ = store.Save(ctx, id2, contractSnapshot())
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
