package domain

// BackStackEntry is a single navigation history record.
// ScreenKey is allocated once on creation and never reused; it is the unit of
// lifecycle identity. Everything but SavedState is immutable.
type BackStackEntry struct {
	ScreenKey   string
	Destination Destination
	Transition  *Transition
	SavedState  []byte
}

// Clone returns a copy that does not share the SavedState buffer.
func (e BackStackEntry) Clone() BackStackEntry {
	if e.SavedState != nil {
		e.SavedState = append([]byte(nil), e.SavedState...)
	}
	return e
}
