package event

import "time"

// SessionCreatedData is the data for session.created events.
type SessionCreatedData struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionActivatedData is the data for session.activated events.
type SessionActivatedData struct {
	ID       string    `json:"id"`
	LastSeen time.Time `json:"lastSeen"`
}

// EventDispatchedData is the data for event.dispatched events, emitted after
// a context worker has run its handlers for an inbound event.
type EventDispatchedData struct {
	ContextID  string         `json:"contextID"`
	EventID    string         `json:"eventID"`
	Name       string         `json:"name"`
	Payload    map[string]any `json:"payload"`
	ReceivedAt time.Time      `json:"receivedAt"`
}

// EventDroppedData is the data for event.dropped events, emitted when a
// context inbox is full and an inbound event is discarded.
type EventDroppedData struct {
	ContextID string `json:"contextID"`
	EventID   string `json:"eventID"`
	Name      string `json:"name"`
}
