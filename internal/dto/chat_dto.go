package dto

import (
	"time"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
)

type CreateChatSessionRequest struct {
	Title string `json:"title"`
}

type CreateChatSessionResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type ChatSessionResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	TitleLocked  bool      `json:"title_locked"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RenameChatSessionRequest struct {
	Id    uuid.UUID
	Title string `json:"title" validate:"required,max=200"`
}

type ChatMessageResponse struct {
	Id            uuid.UUID             `json:"id"`
	ChatSessionId uuid.UUID             `json:"chat_session_id"`
	Role          string                `json:"role"`
	Content       string                `json:"content"`
	Status        string                `json:"status"`
	Evidence      []entity.EvidenceItem `json:"evidence,omitempty"`
	Meta          map[string]any        `json:"meta,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

type SendMessageRequest struct {
	ChatSessionId uuid.UUID
	Content       string `json:"content" validate:"required"`
}

// UpdateMessageRequest patches a message. Content edits user turns or fixes
// up a partial assistant response; Status lets a client settle an assistant
// message after a cancelled stream.
type UpdateMessageRequest struct {
	Id      uuid.UUID
	Content string `json:"content" validate:"omitempty"`
	Status  string `json:"status" validate:"omitempty,oneof=completed aborted error"`
}

type RegenerateRequest struct {
	// MessageId selects the user message to regenerate from. Empty means the
	// most recent user turn.
	MessageId uuid.UUID `json:"message_id"`
}

// ExportSessionResponse is the portable form of a full conversation.
type ExportSessionResponse struct {
	Session    ChatSessionResponse   `json:"session"`
	Messages   []ChatMessageResponse `json:"messages"`
	ExportedAt time.Time             `json:"exported_at"`
}

type DeleteAfterResponse struct {
	Deleted int64 `json:"deleted"`
}
