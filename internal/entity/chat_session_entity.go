package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	TitleLocked  bool
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
