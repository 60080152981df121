package mapper

import (
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
)

type PreferenceMapper struct{}

func NewPreferenceMapper() *PreferenceMapper {
	return &PreferenceMapper{}
}

func (m *PreferenceMapper) ToEntity(p *model.UserPreference) *entity.UserPreference {
	if p == nil {
		return nil
	}
	return &entity.UserPreference{
		Id:                p.Id,
		UserId:            p.UserId,
		ContextWindowSize: p.ContextWindowSize,
		MaxResponseLength: p.MaxResponseLength,
		EnableCaching:     p.EnableCaching,
		EnableLogging:     p.EnableLogging,
		ThemePreference:   p.ThemePreference,
		MessageGrouping:   p.MessageGrouping,
		AutoScroll:        p.AutoScroll,
		ShowTimestamps:    p.ShowTimestamps,
		SaveHistory:       p.SaveHistory,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (m *PreferenceMapper) ToModel(p *entity.UserPreference) *model.UserPreference {
	if p == nil {
		return nil
	}
	return &model.UserPreference{
		Id:                p.Id,
		UserId:            p.UserId,
		ContextWindowSize: p.ContextWindowSize,
		MaxResponseLength: p.MaxResponseLength,
		EnableCaching:     p.EnableCaching,
		EnableLogging:     p.EnableLogging,
		ThemePreference:   p.ThemePreference,
		MessageGrouping:   p.MessageGrouping,
		AutoScroll:        p.AutoScroll,
		ShowTimestamps:    p.ShowTimestamps,
		SaveHistory:       p.SaveHistory,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (m *PreferenceMapper) ModelSettingsToEntity(s *model.ModelSettings) *entity.ModelSettings {
	if s == nil {
		return nil
	}
	return &entity.ModelSettings{
		Id:                s.Id,
		ContextWindowSize: s.ContextWindowSize,
		MaxResponseLength: s.MaxResponseLength,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func (m *PreferenceMapper) ModelSettingsToModel(s *entity.ModelSettings) *model.ModelSettings {
	if s == nil {
		return nil
	}
	return &model.ModelSettings{
		Id:                s.Id,
		SettingType:       "model_settings",
		ContextWindowSize: s.ContextWindowSize,
		MaxResponseLength: s.MaxResponseLength,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}
