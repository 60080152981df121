package service

import (
	"context"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const modelSettingsCacheKey = "model_settings"

// GenerationSettings are the resolved knobs for one generation request.
// Admin model settings override user preferences, which override defaults.
type GenerationSettings struct {
	ContextWindowSize int
	MaxResponseLength int
}

type IPreferenceService interface {
	GetPreferences(ctx context.Context, userId uuid.UUID) (*dto.PreferenceResponse, error)
	UpdatePreferences(ctx context.Context, userId uuid.UUID, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error)
	ResetPreferences(ctx context.Context, userId uuid.UUID) error

	GetModelSettings(ctx context.Context) (*dto.ModelSettingsResponse, error)
	UpdateModelSettings(ctx context.Context, req *dto.UpdateModelSettingsRequest) (*dto.ModelSettingsResponse, error)

	ResolveGenerationSettings(ctx context.Context, userId uuid.UUID) GenerationSettings
}

type preferenceService struct {
	uowFactory    unitofwork.RepositoryFactory
	settingsCache *gocache.Cache
}

func NewPreferenceService(uowFactory unitofwork.RepositoryFactory) IPreferenceService {
	return &preferenceService{
		uowFactory:    uowFactory,
		settingsCache: gocache.New(1*time.Minute, 5*time.Minute),
	}
}

func defaultPreferences(userId uuid.UUID) *entity.UserPreference {
	now := time.Now()
	return &entity.UserPreference{
		Id:                uuid.New(),
		UserId:            userId,
		ContextWindowSize: constant.ContextWindowDefault,
		MaxResponseLength: constant.MaxResponseLengthDefault,
		EnableCaching:     true,
		EnableLogging:     true,
		ThemePreference:   "system",
		MessageGrouping:   true,
		AutoScroll:        true,
		ShowTimestamps:    false,
		SaveHistory:       true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (ps *preferenceService) loadPreferences(ctx context.Context, userId uuid.UUID) (*entity.UserPreference, error) {
	uow := ps.uowFactory.NewUnitOfWork(ctx)
	pref, err := uow.PreferenceRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.NewPersistence("failed to load preferences", err)
	}
	if pref == nil {
		return defaultPreferences(userId), nil
	}
	return pref, nil
}

func (ps *preferenceService) GetPreferences(ctx context.Context, userId uuid.UUID) (*dto.PreferenceResponse, error) {
	pref, err := ps.loadPreferences(ctx, userId)
	if err != nil {
		return nil, err
	}
	return preferenceToResponse(pref), nil
}

func (ps *preferenceService) UpdatePreferences(ctx context.Context, userId uuid.UUID, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	pref, err := ps.loadPreferences(ctx, userId)
	if err != nil {
		return nil, err
	}

	if req.ContextWindowSize != nil {
		pref.ContextWindowSize = clamp(*req.ContextWindowSize, constant.ContextWindowMin, constant.ContextWindowMax)
	}
	if req.MaxResponseLength != nil {
		pref.MaxResponseLength = clamp(*req.MaxResponseLength, constant.MaxResponseLengthMin, constant.MaxResponseLengthMax)
	}
	if req.EnableCaching != nil {
		pref.EnableCaching = *req.EnableCaching
	}
	if req.EnableLogging != nil {
		pref.EnableLogging = *req.EnableLogging
	}
	if req.ThemePreference != nil {
		pref.ThemePreference = *req.ThemePreference
	}
	if req.MessageGrouping != nil {
		pref.MessageGrouping = *req.MessageGrouping
	}
	if req.AutoScroll != nil {
		pref.AutoScroll = *req.AutoScroll
	}
	if req.ShowTimestamps != nil {
		pref.ShowTimestamps = *req.ShowTimestamps
	}
	if req.SaveHistory != nil {
		pref.SaveHistory = *req.SaveHistory
	}
	pref.UpdatedAt = time.Now()

	uow := ps.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PreferenceRepository().Upsert(ctx, pref); err != nil {
		return nil, apperror.NewPersistence("failed to save preferences", err)
	}

	return preferenceToResponse(pref), nil
}

func (ps *preferenceService) ResetPreferences(ctx context.Context, userId uuid.UUID) error {
	uow := ps.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PreferenceRepository().Delete(ctx, userId); err != nil {
		return apperror.NewPersistence("failed to reset preferences", err)
	}
	return nil
}

func (ps *preferenceService) loadModelSettings(ctx context.Context) (*entity.ModelSettings, error) {
	if cached, ok := ps.settingsCache.Get(modelSettingsCacheKey); ok {
		if settings, ok := cached.(*entity.ModelSettings); ok {
			return settings, nil
		}
	}

	uow := ps.uowFactory.NewUnitOfWork(ctx)
	settings, err := uow.PreferenceRepository().GetModelSettings(ctx)
	if err != nil {
		return nil, apperror.NewPersistence("failed to load model settings", err)
	}

	if settings != nil {
		ps.settingsCache.Set(modelSettingsCacheKey, settings, gocache.DefaultExpiration)
	}
	return settings, nil
}

func (ps *preferenceService) GetModelSettings(ctx context.Context) (*dto.ModelSettingsResponse, error) {
	settings, err := ps.loadModelSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &dto.ModelSettingsResponse{
			ContextWindowSize: constant.ContextWindowDefault,
			MaxResponseLength: constant.MaxResponseLengthDefault,
		}, nil
	}
	return &dto.ModelSettingsResponse{
		ContextWindowSize: settings.ContextWindowSize,
		MaxResponseLength: settings.MaxResponseLength,
		UpdatedAt:         settings.UpdatedAt,
	}, nil
}

func (ps *preferenceService) UpdateModelSettings(ctx context.Context, req *dto.UpdateModelSettingsRequest) (*dto.ModelSettingsResponse, error) {
	now := time.Now()
	settings := &entity.ModelSettings{
		Id:                uuid.New(),
		ContextWindowSize: clamp(req.ContextWindowSize, constant.ContextWindowMin, constant.ContextWindowMax),
		MaxResponseLength: clamp(req.MaxResponseLength, constant.MaxResponseLengthMin, constant.MaxResponseLengthMax),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	uow := ps.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PreferenceRepository().SaveModelSettings(ctx, settings); err != nil {
		return nil, apperror.NewPersistence("failed to save model settings", err)
	}

	ps.settingsCache.Delete(modelSettingsCacheKey)

	return &dto.ModelSettingsResponse{
		ContextWindowSize: settings.ContextWindowSize,
		MaxResponseLength: settings.MaxResponseLength,
		UpdatedAt:         settings.UpdatedAt,
	}, nil
}

// ResolveGenerationSettings never fails: persistence trouble falls back to
// defaults so a broken settings table cannot block generation.
func (ps *preferenceService) ResolveGenerationSettings(ctx context.Context, userId uuid.UUID) GenerationSettings {
	resolved := GenerationSettings{
		ContextWindowSize: constant.ContextWindowDefault,
		MaxResponseLength: constant.MaxResponseLengthDefault,
	}

	if pref, err := ps.loadPreferences(ctx, userId); err == nil && pref != nil {
		resolved.ContextWindowSize = pref.ContextWindowSize
		resolved.MaxResponseLength = pref.MaxResponseLength
	}

	if settings, err := ps.loadModelSettings(ctx); err == nil && settings != nil {
		resolved.ContextWindowSize = settings.ContextWindowSize
		resolved.MaxResponseLength = settings.MaxResponseLength
	}

	resolved.ContextWindowSize = clamp(resolved.ContextWindowSize, constant.ContextWindowMin, constant.ContextWindowMax)
	resolved.MaxResponseLength = clamp(resolved.MaxResponseLength, constant.MaxResponseLengthMin, constant.MaxResponseLengthMax)
	return resolved
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func preferenceToResponse(p *entity.UserPreference) *dto.PreferenceResponse {
	return &dto.PreferenceResponse{
		ContextWindowSize: p.ContextWindowSize,
		MaxResponseLength: p.MaxResponseLength,
		EnableCaching:     p.EnableCaching,
		EnableLogging:     p.EnableLogging,
		ThemePreference:   p.ThemePreference,
		MessageGrouping:   p.MessageGrouping,
		AutoScroll:        p.AutoScroll,
		ShowTimestamps:    p.ShowTimestamps,
		SaveHistory:       p.SaveHistory,
		UpdatedAt:         p.UpdatedAt,
	}
}
