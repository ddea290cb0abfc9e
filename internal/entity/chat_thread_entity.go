package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatThread struct {
	Id          uuid.UUID
	ClientName  string
	ManagerName string
	Online      bool
	Unread      int
	LastMessage string
	CaseStatus  string // legal variant only
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
