package bootstrap

import (
	"context"
	"log"

	"bizchat-be/internal/config"
	"bizchat-be/internal/constant"
	"bizchat-be/internal/controller"
	"bizchat-be/internal/handler"
	"bizchat-be/internal/pkg/logger"
	"bizchat-be/internal/pkg/serverutils"
	"bizchat-be/internal/repository/memory"
	"bizchat-be/internal/service"
	"bizchat-be/internal/websocket"
	pktNats "bizchat-be/pkg/nats"
	"bizchat-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	RealtimeHandler *handler.RealtimeHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	PresenceService service.IPresenceService
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	wsLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)
	return NewContainerWithLoggers(cfg, sysLogger, wsLogger)
}

// NewContainerWithLoggers lets tests swap the file-backed loggers out.
func NewContainerWithLoggers(cfg *config.Config, sysLogger, wsLogger logger.ILogger) *Container {
	c := &Container{Logger: sysLogger}

	variant := constant.LookupVariant(cfg.Chat.Variant)
	log.Printf("[INFO] Chat variant: %s (%s)", variant.Title, variant.Code)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure (optional)
	var mirror service.EventMirror
	if cfg.Realtime.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Realtime.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			mirror = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var rdb *redis.Client
	if cfg.Realtime.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.Realtime.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.Realtime.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// 4. In-Memory Storage
	sessionRepo := memory.NewSessionRepository(cfg.Chat.SessionTTL)
	blobRepo := memory.NewBlobRepository()
	tokens := serverutils.NewSessionTokens(cfg.Keys.JwtSecret)

	// 5. Services
	wsHub := websocket.NewHub(rdb, wsLogger)
	publisherService := service.NewPublisherService(cfg.Keys.EventTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.EventTopic, wsHub, mirror, wsLogger)
	chatService := service.NewChatService(variant, sessionRepo, blobRepo, tokens, publisherService, sysLogger)
	presenceService := service.NewPresenceService(
		sessionRepo,
		store.NewRandomPresence(0),
		publisherService,
		cfg.Chat.PresenceInterval,
		wsLogger,
	)

	// 6. Controllers
	c.ChatController = controller.NewChatController(chatService, tokens)
	c.RealtimeHandler = handler.NewRealtimeHandler(chatService, tokens, wsHub, wsLogger)
	c.ConsumerService = consumerService
	c.PresenceService = presenceService
	c.WebSocketHub = wsHub
	return c
}

// Close releases infrastructure connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
