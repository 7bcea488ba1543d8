package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/internal/store"
	"github.com/inkwell-app/inkwell-backend/pkg/utils"
)

// AuthResult is the outcome of an identity-establishing operation.
// RefreshToken is empty for operations that do not authenticate (register).
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         models.UserView
}

// SessionManager orchestrates registration, login, refresh rotation, logout
// and password changes. It owns when tokens are minted and invalidated; the
// cookie transport is the handlers' job.
type SessionManager struct {
	store    store.Store
	tokens   *TokenIssuer
	versions RefreshVersionStore
}

func NewSessionManager(s store.Store, tokens *TokenIssuer, versions RefreshVersionStore) *SessionManager {
	return &SessionManager{store: s, tokens: tokens, versions: versions}
}

// Register validates the email and password policy, creates the user with
// role defaulting to USER, and returns an access token. Registration is not
// an authenticating action: no refresh token is minted and no cookies are
// implied. An immediate login is the caller's choice.
func (m *SessionManager) Register(ctx context.Context, email, password string, role models.Role) (*AuthResult, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, err
	}
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, &apperr.ValidationError{Field: "role", Rules: []string{"must be one of USER, ADMIN, SUPERADMIN"}}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	// The unique constraint on email is the authority here: a concurrent
	// duplicate registration loses at the database and maps to AlreadyExists.
	user, err := m.store.CreateUser(ctx, utils.NormalizeEmail(email), hash, role)
	if err != nil {
		return nil, err
	}

	access, err := m.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{AccessToken: access, User: user.View()}, nil
}

// Login verifies credentials and mints a fresh access/refresh pair. Unknown
// email and wrong password are indistinguishable to the caller.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := m.store.FindUserByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.VerifyPassword(password, user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}

	return m.issuePair(ctx, user)
}

// Refresh exchanges a valid refresh token for a brand-new access/refresh
// pair. The old token's version is retired in the process, so replaying it
// fails with InvalidRefreshToken.
func (m *SessionManager) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, apperr.ErrMissingToken
	}

	claims, err := m.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.ErrInvalidRefreshToken
	}

	current, err := m.versions.Current(ctx, userID)
	if err != nil {
		log.Printf("refresh version lookup failed for user %s: %v", userID, err)
		return nil, apperr.ErrInternal
	}
	if current == "" || current != claims.Version {
		return nil, apperr.ErrInvalidRefreshToken
	}

	user, err := m.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidRefreshToken
		}
		return nil, err
	}

	return m.issuePair(ctx, user)
}

// Logout invalidates the user's refresh generation. Outstanding access
// tokens die at their natural ~15-minute expiry.
func (m *SessionManager) Logout(ctx context.Context, userID uuid.UUID) error {
	return m.versions.Invalidate(ctx, userID)
}

// ChangePassword re-verifies the current password before accepting the new
// one. A wrong current password leaves the stored hash untouched.
func (m *SessionManager) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := m.store.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.VerifyPassword(currentPassword, user.PasswordHash) {
		return apperr.ErrForbidden
	}

	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := m.store.UpdateUserPassword(ctx, userID, hash); err != nil {
		return err
	}

	// Strand outstanding refresh tokens; the user re-authenticates with the
	// new password.
	if err := m.versions.Invalidate(ctx, userID); err != nil {
		log.Printf("failed to invalidate refresh version for user %s: %v", userID, err)
	}
	return nil
}

func (m *SessionManager) issuePair(ctx context.Context, user *models.User) (*AuthResult, error) {
	access, err := m.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	version, err := m.versions.Rotate(ctx, user.ID, m.tokens.RefreshTTL())
	if err != nil {
		log.Printf("refresh version rotation failed for user %s: %v", user.ID, err)
		return nil, apperr.ErrInternal
	}

	refresh, err := m.tokens.GenerateRefreshToken(user.ID, version)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.View(),
	}, nil
}
