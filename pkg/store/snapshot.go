package store

import (
	"time"

	"bizchat-be/internal/entity"

	"github.com/google/uuid"
)

// State is a point-in-time copy of a Session for rendering.
type State struct {
	SessionId       uuid.UUID
	Variant         string
	Authenticated   bool
	User            *entity.ChatUser
	Threads         []entity.ChatThread
	CurrentThreadId uuid.UUID
	Section         string
	Messages        []entity.ChatMessage  // current thread only
	Files           []entity.UploadedFile // current thread only
	CreatedAt       time.Time
}

func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := State{
		SessionId:     s.id,
		Variant:       s.variant.Code,
		Authenticated: s.user != nil,
		Threads:       make([]entity.ChatThread, 0, len(s.threads)),
		Section:       s.section,
		Messages:      []entity.ChatMessage{},
		Files:         []entity.UploadedFile{},
		CreatedAt:     s.createdAt,
	}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	for _, thread := range s.threads {
		state.Threads = append(state.Threads, *thread)
	}
	if current := s.currentThread(); current != nil {
		state.CurrentThreadId = current.Id
		state.Messages = copyMessages(s.messages[current.Id])
		state.Files = copyFiles(s.files[current.Id])
	}
	return state
}
