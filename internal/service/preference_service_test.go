package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
)

func newPreferenceFixture(t *testing.T) (*fakeStore, IPreferenceService) {
	t.Helper()
	store := newFakeStore()
	return store, NewPreferenceService(&fakeFactory{store: store})
}

func TestResolveGenerationSettingsDefaults(t *testing.T) {
	_, svc := newPreferenceFixture(t)

	resolved := svc.ResolveGenerationSettings(context.Background(), uuid.New())

	assert.Equal(t, constant.ContextWindowDefault, resolved.ContextWindowSize)
	assert.Equal(t, constant.MaxResponseLengthDefault, resolved.MaxResponseLength)
}

func TestResolveGenerationSettingsUsesUserPreferences(t *testing.T) {
	_, svc := newPreferenceFixture(t)
	userId := uuid.New()

	window := 12
	length := 4000
	_, err := svc.UpdatePreferences(context.Background(), userId, &dto.UpdatePreferenceRequest{
		ContextWindowSize: &window,
		MaxResponseLength: &length,
	})
	require.NoError(t, err)

	resolved := svc.ResolveGenerationSettings(context.Background(), userId)

	assert.Equal(t, 12, resolved.ContextWindowSize)
	assert.Equal(t, 4000, resolved.MaxResponseLength)
}

func TestModelSettingsOverrideUserPreferences(t *testing.T) {
	_, svc := newPreferenceFixture(t)
	userId := uuid.New()

	window := 12
	_, err := svc.UpdatePreferences(context.Background(), userId, &dto.UpdatePreferenceRequest{
		ContextWindowSize: &window,
	})
	require.NoError(t, err)

	_, err = svc.UpdateModelSettings(context.Background(), &dto.UpdateModelSettingsRequest{
		ContextWindowSize: 5,
		MaxResponseLength: 1000,
	})
	require.NoError(t, err)

	resolved := svc.ResolveGenerationSettings(context.Background(), userId)

	assert.Equal(t, 5, resolved.ContextWindowSize)
	assert.Equal(t, 1000, resolved.MaxResponseLength)
}

func TestUpdatePreferencesClampsOutOfRangeValues(t *testing.T) {
	_, svc := newPreferenceFixture(t)
	userId := uuid.New()

	window := 99
	length := 10
	resp, err := svc.UpdatePreferences(context.Background(), userId, &dto.UpdatePreferenceRequest{
		ContextWindowSize: &window,
		MaxResponseLength: &length,
	})
	require.NoError(t, err)

	assert.Equal(t, constant.ContextWindowMax, resp.ContextWindowSize)
	assert.Equal(t, constant.MaxResponseLengthMin, resp.MaxResponseLength)
}

func TestUpdatePreferencesLeavesUnsetFieldsAlone(t *testing.T) {
	_, svc := newPreferenceFixture(t)
	userId := uuid.New()

	theme := "dark"
	resp, err := svc.UpdatePreferences(context.Background(), userId, &dto.UpdatePreferenceRequest{
		ThemePreference: &theme,
	})
	require.NoError(t, err)

	assert.Equal(t, "dark", resp.ThemePreference)
	assert.Equal(t, constant.ContextWindowDefault, resp.ContextWindowSize)
	assert.True(t, resp.SaveHistory)
}

func TestResetPreferencesRestoresDefaults(t *testing.T) {
	_, svc := newPreferenceFixture(t)
	userId := uuid.New()

	window := 3
	_, err := svc.UpdatePreferences(context.Background(), userId, &dto.UpdatePreferenceRequest{
		ContextWindowSize: &window,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ResetPreferences(context.Background(), userId))

	prefs, err := svc.GetPreferences(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, constant.ContextWindowDefault, prefs.ContextWindowSize)
}
