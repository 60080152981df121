package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserPreference holds per-user settings. Model-affecting values are always
// overridden by the admin ModelSettings when those are present; only the UI
// preferences are truly per-user.
type UserPreference struct {
	Id                uuid.UUID
	UserId            uuid.UUID
	ContextWindowSize int
	MaxResponseLength int
	EnableCaching     bool
	EnableLogging     bool
	ThemePreference   string
	MessageGrouping   bool
	AutoScroll        bool
	ShowTimestamps    bool
	SaveHistory       bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ModelSettings is the admin-owned singleton applied to every user's
// generation requests.
type ModelSettings struct {
	Id                uuid.UUID
	ContextWindowSize int
	MaxResponseLength int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
