package dto

import "time"

type UpdatePreferenceRequest struct {
	ContextWindowSize *int    `json:"context_window_size" validate:"omitempty,min=1,max=20"`
	MaxResponseLength *int    `json:"max_response_length" validate:"omitempty,min=500,max=8000"`
	EnableCaching     *bool   `json:"enable_caching"`
	EnableLogging     *bool   `json:"enable_logging"`
	ThemePreference   *string `json:"theme_preference" validate:"omitempty,oneof=light dark system"`
	MessageGrouping   *bool   `json:"message_grouping"`
	AutoScroll        *bool   `json:"auto_scroll"`
	ShowTimestamps    *bool   `json:"show_timestamps"`
	SaveHistory       *bool   `json:"save_history"`
}

type PreferenceResponse struct {
	ContextWindowSize int       `json:"context_window_size"`
	MaxResponseLength int       `json:"max_response_length"`
	EnableCaching     bool      `json:"enable_caching"`
	EnableLogging     bool      `json:"enable_logging"`
	ThemePreference   string    `json:"theme_preference"`
	MessageGrouping   bool      `json:"message_grouping"`
	AutoScroll        bool      `json:"auto_scroll"`
	ShowTimestamps    bool      `json:"show_timestamps"`
	SaveHistory       bool      `json:"save_history"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type UpdateModelSettingsRequest struct {
	ContextWindowSize int `json:"context_window_size" validate:"required,min=1,max=20"`
	MaxResponseLength int `json:"max_response_length" validate:"required,min=500,max=8000"`
}

type ModelSettingsResponse struct {
	ContextWindowSize int       `json:"context_window_size"`
	MaxResponseLength int       `json:"max_response_length"`
	UpdatedAt         time.Time `json:"updated_at"`
}
