package service

import (
	"context"
	"testing"
	"time"

	"carrental/internal/auth"
	"carrental/internal/clock"
	"carrental/internal/entities"
	apperrors "carrental/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	svc := NewUserService(newFakeUserStore(), "secret", clock.Fixed(now))

	user, err := svc.Register(ctx, entities.RegisterRequest{Username: "  Alice ", Password: "hunter22", Phone: "+34600111222"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	_, err = svc.Register(ctx, entities.RegisterRequest{Username: "alice", Password: "another1"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	resp, err := svc.Login(ctx, entities.LoginRequest{Username: "ALICE", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := auth.ParseToken("secret", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, claims.Role)
	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = svc.Login(ctx, entities.LoginRequest{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = svc.Login(ctx, entities.LoginRequest{Username: "bob", Password: "hunter22"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUserRegisterValidation(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), "secret", clock.Real{})
	tests := []entities.RegisterRequest{
		{Username: "ab", Password: "hunter22"},
		{Username: "alice", Password: "short"},
		{Username: "alice", Password: "hunter22", Phone: "600111222"},
	}
	for _, req := range tests {
		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "request %+v", req)
	}
}

func TestUserGetAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserStore(), "secret", clock.Real{})
	user, err := svc.Register(ctx, entities.RegisterRequest{Username: "carol", Password: "hunter22"})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", got.Username)

	deleted, err := svc.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
