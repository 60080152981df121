package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/apperror"
)

func newAuthFixture(t *testing.T) IAuthService {
	t.Helper()
	store := newFakeStore()
	return NewAuthService(&fakeFactory{store: store}, config.AuthConfig{
		JwtSecret:   "test-secret",
		JwtTTLHours: 1,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)

	reg, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotZero(t, reg.Id)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", login.User.Username)
	assert.Equal(t, "user", login.User.Role)

	token, err := jwt.Parse(login.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, reg.Id.String(), claims["user_id"])
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "other",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	_, unknownErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, unknownErr)
	assert.Equal(t, err.Error(), unknownErr.Error())
}
