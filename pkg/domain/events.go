package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventPush    EventType = "push"
	EventPop     EventType = "pop"
	EventReplace EventType = "replace"
	EventClear   EventType = "clear"
	EventSwitch  EventType = "switch"
	EventRestore EventType = "restore"

	EventEnter   EventType = "enter"
	EventExit    EventType = "exit"
	EventDestroy EventType = "destroy"
)

// NavigationEvent describes a structural change or a lifecycle dispatch.
type NavigationEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	ScreenKey string    `json:"screen_key,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	Size      int       `json:"size"`
}

// NewEvent stamps an event with the current time.
func NewEvent(t EventType, screenKey, kind string, size int) *NavigationEvent {
	return &NavigationEvent{
		Timestamp: time.Now(),
		Type:      t,
		ScreenKey: screenKey,
		Kind:      kind,
		Size:      size,
	}
}
