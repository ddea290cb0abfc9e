package service

import (
	"context"
	"testing"
	"time"

	"bizchat-be/internal/constant"
	"bizchat-be/internal/pkg/logger"
	"bizchat-be/internal/repository/memory"
	"bizchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceTick(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	publisher := &recordingPublisher{}

	active := store.NewSession(store.Options{Variant: constant.LookupVariant(constant.VariantBizChat)})
	require.True(t, active.Register(constant.RoleManager, "Анна", "Смирнова", "Олеговна"))
	idle := store.NewSession(store.Options{})
	repo.Save(active)
	repo.Save(idle)

	svc := NewPresenceService(repo, constPresence(true), publisher, time.Hour, logger.NewNop())

	assert.Equal(t, 1, svc.Tick(context.Background()))
	for _, thread := range active.Snapshot().Threads {
		assert.True(t, thread.Online)
	}
	assert.Equal(t, []string{constant.EventPresenceChanged}, publisher.types())
}

func TestPresenceRunStopsOnCancel(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	publisher := &recordingPublisher{}

	session := store.NewSession(store.Options{})
	require.True(t, session.Register(constant.RoleClient, "Иван", "Петров", "Сергеевич"))
	repo.Save(session)

	svc := NewPresenceService(repo, constPresence(true), publisher, 5*time.Millisecond, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(publisher.types()) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("presence ticker did not stop")
	}
}
