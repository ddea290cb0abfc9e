package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_MESSAGE_SENT").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// ChatEvent is scoped to one chat session and travels the in-process bus as JSON.
type ChatEvent struct {
	Type       string      `json:"type"`
	SessionId  uuid.UUID   `json:"session_id"`
	Data       interface{} `json:"data"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func NewChatEvent(eventType string, sessionId uuid.UUID, data interface{}) ChatEvent {
	return ChatEvent{
		Type:       eventType,
		SessionId:  sessionId,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func (e ChatEvent) EventType() string {
	return e.Type
}

func (e ChatEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":  e.SessionId.String(),
		"data":        e.Data,
		"occurred_at": e.OccurredAt,
	}
}

func (e ChatEvent) Timestamp() time.Time {
	return e.OccurredAt
}
