package events

import "time"

// Topics on the in-process bus. NATS mirrors them under the "events."
// subject prefix when configured.
const (
	TopicSessionTitled   = "chat.session.titled"
	TopicSessionDeleted  = "chat.session.deleted"
	TopicMessageSaved    = "chat.message.saved"
	TopicDocumentCreated = "document.created"
	TopicDocumentDeleted = "document.deleted"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "chat.session.titled").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the standard Event implementation.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
