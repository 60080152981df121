package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Document struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title     string         `gorm:"type:text;not null"`
	Content   string         `gorm:"type:text;not null"`
	Tags      datatypes.JSON `gorm:"type:jsonb"`
	Source    string         `gorm:"type:varchar(32);not null;default:'manual'"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (Document) TableName() string {
	return "documents"
}
