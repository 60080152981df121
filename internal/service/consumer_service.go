package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IConsumerService drains the in-process event bus: events reach connected
// websocket clients and, when NATS is configured, an external mirror.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub        *gochannel.GoChannel
	hub           *websocket.Hub
	natsPublisher *pktNats.Publisher // optional
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	hub *websocket.Hub,
	natsPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		hub:           hub,
		natsPublisher: natsPublisher,
	}
}

var consumedTopics = []string{
	events.TopicSessionTitled,
	events.TopicSessionDeleted,
	events.TopicMessageSaved,
	events.TopicDocumentCreated,
	events.TopicDocumentDeleted,
}

func (cs *consumerService) Consume(ctx context.Context) error {
	for _, topic := range consumedTopics {
		messages, err := cs.pubSub.Subscribe(ctx, topic)
		if err != nil {
			return err
		}

		go func(topic string, messages <-chan *message.Message) {
			for msg := range messages {
				cs.processMessage(ctx, topic, msg)
			}
		}(topic, messages)
	}

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, topic string, msg *message.Message) {
	var payload struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal event on %s: %v", topic, err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if cs.hub != nil {
		if userIdStr, ok := payload.Data["user_id"].(string); ok {
			if userId, err := uuid.Parse(userIdStr); err == nil {
				cs.hub.Send(userId, websocket.SessionEvent{
					Type: payload.Type,
					Data: payload.Data,
				})
			}
		}
	}

	if cs.natsPublisher != nil {
		event := events.New(payload.Type, payload.Data)
		if err := cs.natsPublisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to mirror event %s to NATS: %v", payload.Type, err)
		}
	}

	msg.Ack()
}
