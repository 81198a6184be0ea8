package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope every server-to-client message travels in.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType identifies the payload carried by an Event.
type EventType string

const (
	EventTypeUserJoined      EventType = "user:joined"
	EventTypeUsersList       EventType = "users:list"
	EventTypeMessageReceived EventType = "message:received"
	EventTypeGameUpdated     EventType = "game:updated"
	EventTypeBombTick        EventType = "game:bomb-tick"
	EventTypeExplosion       EventType = "game:explosion"
	EventTypeWordRejected    EventType = "game:word-rejected"
	EventTypeError           EventType = "error"
)

// NewEvent wraps a payload in an envelope. Marshal failures are programming
// errors (payload types are all plain structs), so they panic.
func NewEvent(eventType EventType, payload any) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
