package service

import (
	"context"
	"encoding/json"

	"bizchat-be/internal/constant"
	"bizchat-be/internal/pkg/logger"
	"bizchat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// EventDelivery pushes encoded events to the browser tabs of a session.
type EventDelivery interface {
	Deliver(ctx context.Context, sessionID uuid.UUID, data []byte)
	Disconnect(sessionID uuid.UUID)
}

// EventMirror forwards events outside the process (NATS JetStream).
type EventMirror interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	delivery   EventDelivery
	mirror     EventMirror // nil when NATS is not configured
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	delivery EventDelivery,
	mirror EventMirror,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		delivery:   delivery,
		mirror:     mirror,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Ack first: delivery is best effort and a bad payload must not loop.
	defer msg.Ack()

	var event events.ChatEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal chat event", map[string]interface{}{"error": err.Error()})
		return
	}

	cs.delivery.Deliver(ctx, event.SessionId, msg.Payload)
	if event.Type == constant.EventSessionClosed {
		cs.delivery.Disconnect(event.SessionId)
	}

	if cs.mirror != nil {
		if err := cs.mirror.Publish(ctx, event); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to mirror event to NATS", map[string]interface{}{
				"error":      err.Error(),
				"event_type": event.Type,
			})
		}
	}
}
