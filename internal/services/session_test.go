package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/internal/store"
)

const validPassword = "Sup3r$ecret"

func newSessionFixture() (*SessionManager, *store.MemStore) {
	s := store.NewMemStore()
	tokens := NewTokenIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewSessionManager(s, tokens, NewMemRefreshVersions()), s
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessionFixture()

	reg, err := sessions.Register(ctx, "User@Example.com", validPassword, "")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.AccessToken)
	assert.Empty(t, reg.RefreshToken, "registration must not mint a refresh token")
	assert.Equal(t, models.RoleUser, reg.User.Role)
	assert.Equal(t, "user@example.com", reg.User.Email)

	login, err := sessions.Login(ctx, "user@example.com", validPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessionFixture()

	_, err := sessions.Register(ctx, "user@example.com", validPassword, "")
	require.NoError(t, err)

	_, err = sessions.Register(ctx, "USER@example.com", validPassword, "")
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	sessions, _ := newSessionFixture()

	_, err := sessions.Register(context.Background(), "user@example.com", "weak", "")
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessionFixture()

	_, err := sessions.Register(ctx, "user@example.com", validPassword, "")
	require.NoError(t, err)

	_, unknownErr := sessions.Login(ctx, "nobody@example.com", validPassword)
	_, wrongErr := sessions.Login(ctx, "user@example.com", "Wr0ng$ecret")

	assert.ErrorIs(t, unknownErr, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, apperr.ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongErr)
}

func TestRefreshRotatesAndStrandsOldToken(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessionFixture()

	_, err := sessions.Register(ctx, "user@example.com", validPassword, "")
	require.NoError(t, err)
	login, err := sessions.Login(ctx, "user@example.com", validPassword)
	require.NoError(t, err)

	refreshed, err := sessions.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.RefreshToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// Replaying the pre-rotation token fails.
	_, err = sessions.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)

	// The rotated token still works.
	_, err = sessions.Refresh(ctx, refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshMissingToken(t *testing.T) {
	sessions, _ := newSessionFixture()
	_, err := sessions.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrMissingToken)
}

func TestRefreshGarbageToken(t *testing.T) {
	sessions, _ := newSessionFixture()
	_, err := sessions.Refresh(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)
}

func TestLogoutInvalidatesRefresh(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessionFixture()

	reg, err := sessions.Register(ctx, "user@example.com", validPassword, "")
	require.NoError(t, err)
	login, err := sessions.Login(ctx, "user@example.com", validPassword)
	require.NoError(t, err)

	require.NoError(t, sessions.Logout(ctx, reg.User.ID))

	_, err = sessions.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	ctx := context.Background()
	sessions, memStore := newSessionFixture()

	reg, err := sessions.Register(ctx, "user@example.com", validPassword, "")
	require.NoError(t, err)

	before, err := memStore.FindUserByID(ctx, reg.User.ID)
	require.NoError(t, err)

	err = sessions.ChangePassword(ctx, reg.User.ID, "Wr0ng$ecret", "N3w$ecret!")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	after, err := memStore.FindUserByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash, "stored hash must be untouched")
}

func TestChangePasswordStrandsRefreshTokens(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessionFixture()

	reg, err := sessions.Register(ctx, "user@example.com", validPassword, "")
	require.NoError(t, err)
	login, err := sessions.Login(ctx, "user@example.com", validPassword)
	require.NoError(t, err)

	require.NoError(t, sessions.ChangePassword(ctx, reg.User.ID, validPassword, "N3w$ecret!"))

	_, err = sessions.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)

	// Old password no longer logs in, the new one does.
	_, err = sessions.Login(ctx, "user@example.com", validPassword)
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, err = sessions.Login(ctx, "user@example.com", "N3w$ecret!")
	assert.NoError(t, err)
}

func TestChangePasswordRejectsWeakNew(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessionFixture()

	reg, err := sessions.Register(ctx, "user@example.com", validPassword, "")
	require.NoError(t, err)

	err = sessions.ChangePassword(ctx, reg.User.ID, validPassword, "weak")
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)
}
