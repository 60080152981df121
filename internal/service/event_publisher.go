package service

import (
	"encoding/json"
	"log"

	"ai-chat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// publishEvent pushes a domain event onto the in-process bus. Delivery is
// best effort: a full or closed bus is logged and the request continues.
func publishEvent(pubSub *gochannel.GoChannel, topic string, data map[string]interface{}) {
	if pubSub == nil {
		return
	}

	event := events.New(topic, data)
	payload, err := json.Marshal(struct {
		Type       string                 `json:"type"`
		Data       map[string]interface{} `json:"data"`
		OccurredAt string                 `json:"occurred_at"`
	}{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if err != nil {
		log.Printf("[WARN] Failed to marshal event %s: %v", topic, err)
		return
	}

	if err := pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		log.Printf("[WARN] Failed to publish event %s: %v", topic, err)
	}
}
