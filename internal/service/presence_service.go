package service

import (
	"context"
	"time"

	"bizchat-be/internal/constant"
	"bizchat-be/internal/mapper"
	"bizchat-be/internal/pkg/logger"
	"bizchat-be/internal/repository/memory"
	"bizchat-be/pkg/events"
	"bizchat-be/pkg/store"
)

type IPresenceService interface {
	Run(ctx context.Context)
	Tick(ctx context.Context) int
}

// presenceService re-rolls every thread's online flag on a fixed interval.
type presenceService struct {
	sessionRepo *memory.SessionRepository
	source      store.PresenceSource
	publisher   IPublisherService
	interval    time.Duration
	mapper      *mapper.SessionMapper
	logger      logger.ILogger
}

func NewPresenceService(
	sessionRepo *memory.SessionRepository,
	source store.PresenceSource,
	publisher IPublisherService,
	interval time.Duration,
	log logger.ILogger,
) IPresenceService {
	return &presenceService{
		sessionRepo: sessionRepo,
		source:      source,
		publisher:   publisher,
		interval:    interval,
		mapper:      mapper.NewSessionMapper(),
		logger:      log,
	}
}

// Run blocks until ctx is cancelled.
func (p *presenceService) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("PresenceService", "Presence ticker started", map[string]interface{}{"interval": p.interval.String()})
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("PresenceService", "Presence ticker stopped", nil)
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick updates all authenticated sessions and returns how many it touched.
func (p *presenceService) Tick(ctx context.Context) int {
	touched := 0
	for _, session := range p.sessionRepo.All() {
		if !session.IsAuthenticated() {
			continue
		}
		flags := session.TickPresence(p.source)
		touched++

		event := events.NewChatEvent(constant.EventPresenceChanged, session.ID(), p.mapper.PresenceToResponse(flags))
		if err := p.publisher.Publish(ctx, event); err != nil {
			p.logger.Warn("PresenceService", "Failed to publish presence", map[string]interface{}{"error": err.Error()})
		}
	}
	return touched
}
