package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id        uuid.UUID
	ThreadId  uuid.UUID
	Author    string
	Text      string
	Kind      string
	FileId    *uuid.UUID
	FileName  string
	CreatedAt time.Time
}
