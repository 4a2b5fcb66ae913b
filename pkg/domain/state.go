package domain

import "time"

// EntryRecord is the serializable form of a BackStackEntry.
// The payload is always stored encoded; the destination itself is rebuilt on
// restore from its kind.
type EntryRecord struct {
	ScreenKey  string      `json:"screen_key"`
	Kind       string      `json:"kind"`
	Payload    *Payload    `json:"payload,omitempty"`
	Transition *Transition `json:"transition,omitempty"`
	SavedState []byte      `json:"saved_state,omitempty"`
}

// StackSnapshot represents a persisted picture of a back stack.
type StackSnapshot struct {
	Entries []EntryRecord `json:"entries"`
	SavedAt time.Time     `json:"saved_at"`
}

// Current returns the last record, if any.
func (s *StackSnapshot) Current() (EntryRecord, bool) {
	if s == nil || len(s.Entries) == 0 {
		return EntryRecord{}, false
	}
	return s.Entries[len(s.Entries)-1], true
}

// Clone returns a deep copy of the snapshot.
func (s *StackSnapshot) Clone() *StackSnapshot {
	if s == nil {
		return nil
	}
	out := &StackSnapshot{
		Entries: make([]EntryRecord, len(s.Entries)),
		SavedAt: s.SavedAt,
	}
	for i, e := range s.Entries {
		if e.Payload != nil {
			p := *e.Payload
			e.Payload = &p
		}
		if e.Transition != nil {
			tr := *e.Transition
			e.Transition = &tr
		}
		if e.SavedState != nil {
			e.SavedState = append([]byte(nil), e.SavedState...)
		}
		out.Entries[i] = e
	}
	return out
}
