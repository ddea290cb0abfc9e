package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ChatUser struct {
	Id           uuid.UUID
	FirstName    string
	LastName     string
	MiddleName   string
	Role         string
	RegisteredAt time.Time
}

// DisplayName is how the user signs messages and files.
func (u *ChatUser) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

func (u *ChatUser) Initials() string {
	return strings.ToUpper(firstRune(u.FirstName) + firstRune(u.LastName))
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
