package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatNotification is the toast raised when a message lands outside the chat section.
type ChatNotification struct {
	ThreadId  uuid.UUID
	Title     string
	Preview   string
	CreatedAt time.Time
}
