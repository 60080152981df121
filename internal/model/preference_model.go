package model

import (
	"time"

	"github.com/google/uuid"
)

type UserPreference struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ContextWindowSize int       `gorm:"not null;default:8"`
	MaxResponseLength int       `gorm:"not null;default:2000"`
	EnableCaching     bool      `gorm:"not null;default:true"`
	EnableLogging     bool      `gorm:"not null;default:true"`
	ThemePreference   string    `gorm:"type:varchar(16);not null;default:'auto'"`
	MessageGrouping   bool      `gorm:"not null;default:true"`
	AutoScroll        bool      `gorm:"not null;default:true"`
	ShowTimestamps    bool      `gorm:"not null;default:false"`
	SaveHistory       bool      `gorm:"not null;default:true"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

// ModelSettings is a single-row table; SettingType keeps a uniqueness anchor
// the same way the legacy system did.
type ModelSettings struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	SettingType       string    `gorm:"type:varchar(32);not null;uniqueIndex;default:'model_settings'"`
	ContextWindowSize int       `gorm:"not null;default:8"`
	MaxResponseLength int       `gorm:"not null;default:2000"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (ModelSettings) TableName() string {
	return "model_settings"
}
