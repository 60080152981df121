package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PreferenceRepository interface {
	Upsert(ctx context.Context, preference *entity.UserPreference) error
	Delete(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserPreference, error)

	// Admin-owned model settings singleton.
	GetModelSettings(ctx context.Context) (*entity.ModelSettings, error)
	SaveModelSettings(ctx context.Context, settings *entity.ModelSettings) error
}
