package entity

import (
	"time"

	"github.com/google/uuid"
)

// EvidenceItem is a scored, cited snippet attached to an assistant message.
// DocumentId is the literal "Conversation" when the snippet comes from recent
// user turns rather than an uploaded document.
type EvidenceItem struct {
	DocumentId string  `json:"document_id"`
	Title      string  `json:"title"`
	Citation   string  `json:"citation"`
	Snippet    string  `json:"snippet"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	UserId        uuid.UUID
	Role          string
	Content       string
	Status        string
	Evidence      []EvidenceItem
	Meta          map[string]any
	CreatedAt     time.Time
}
