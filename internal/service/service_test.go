package service

import (
	"context"
	"sync"
	"time"

	"bizchat-be/pkg/events"

	"github.com/google/uuid"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ChatEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.ChatEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type staticTokens struct{}

func (staticTokens) Issue(sessionID uuid.UUID) (string, error) {
	return "token-" + sessionID.String(), nil
}

type constPresence bool

func (c constPresence) Online(uuid.UUID) bool { return bool(c) }

var testNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
