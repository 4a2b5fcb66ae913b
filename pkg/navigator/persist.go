package navigator

import (
	"fmt"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
)

// PayloadEncoder turns in-memory payloads into their serialized form.
// *codec.Set satisfies it.
type PayloadEncoder interface {
	Encode(p domain.Payload) (domain.Payload, error)
}

// Restorer rebuilds destinations from persisted records.
// *routes.Registry satisfies it.
type Restorer interface {
	Restore(kind string, p domain.Payload) (domain.Destination, error)
}

// Export captures the stack as a serializable snapshot.
func (s *Stack) Export(enc PayloadEncoder) (*domain.StackSnapshot, error) {
	entries := s.stack.Entries()
	snap := &domain.StackSnapshot{
		Entries: make([]domain.EntryRecord, 0, len(entries)),
		SavedAt: time.Now().UTC(),
	}
	for _, e := range entries {
		rec := domain.EntryRecord{
			ScreenKey:  e.ScreenKey,
			Kind:       e.Destination.Kind(),
			Transition: e.Transition,
			SavedState: e.SavedState,
		}
		if p, ok := domain.PayloadOf(e.Destination); ok {
			encoded, err := enc.Encode(p)
			if err != nil {
				return nil, fmt.Errorf("export %s: %w", e.ScreenKey, err)
			}
			rec.Payload = &encoded
		}
		snap.Entries = append(snap.Entries, rec)
	}
	return snap, nil
}

// Restore replaces the stack content with the snapshot entries. Every entry
// gets a fresh screen key; keys stored in the snapshot are never reused so
// they cannot collide with keys issued since. Screens that were on the stack
// before are destroyed. Nothing changes if any record fails to restore.
func (s *Stack) Restore(snap *domain.StackSnapshot, r Restorer) error {
	if snap == nil || len(snap.Entries) == 0 {
		return fmt.Errorf("restore: %w", domain.ErrEmptyStack)
	}

	restored := make([]domain.BackStackEntry, 0, len(snap.Entries))
	for _, rec := range snap.Entries {
		var p domain.Payload
		if rec.Payload != nil {
			p = *rec.Payload
		}
		dest, err := r.Restore(rec.Kind, p)
		if err != nil {
			return err
		}
		restored = append(restored, domain.BackStackEntry{
			ScreenKey:   s.stack.NewKey(rec.Kind),
			Destination: dest,
			Transition:  rec.Transition,
			SavedState:  rec.SavedState,
		})
	}

	before := s.begin()
	s.stack.Clear()
	for _, e := range restored {
		s.stack.Restore(e)
	}
	cur := restored[len(restored)-1]
	s.commit(domain.EventRestore, cur.Destination.Kind(), before)
	return nil
}
