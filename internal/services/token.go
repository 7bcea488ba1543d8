package services

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
	"github.com/inkwell-app/inkwell-backend/internal/models"
)

// AccessClaims are the claims carried by a short-lived access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// RefreshClaims are the claims carried by a refresh token. Version ties the
// token to the user's current refresh generation; rotation bumps the version
// and strands every previously issued refresh token.
type RefreshClaims struct {
	jwt.RegisteredClaims
	Version string `json:"ver"`
}

// TokenIssuer mints and validates signed HS256 tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the access token lifetime (drives the cookie Max-Age).
func (i *TokenIssuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL returns the refresh token lifetime.
func (i *TokenIssuer) RefreshTTL() time.Duration { return i.refreshTTL }

// GenerateAccessToken mints an access token with sub, email and role claims.
func (i *TokenIssuer) GenerateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
		Email: user.Email,
		Role:  user.Role,
	})
	return token.SignedString(i.secret)
}

// ParseAccessToken validates signature and expiry and returns the claims.
// Any failure is apperr.ErrInvalidToken; callers never see parser internals.
func (i *TokenIssuer) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, i.keyFunc)
	if err != nil || !token.Valid {
		return nil, apperr.ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, apperr.ErrInvalidToken
	}
	return claims, nil
}

// GenerateRefreshToken mints a refresh token bound to the given version.
func (i *TokenIssuer) GenerateRefreshToken(userID uuid.UUID, version string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.refreshTTL)),
		},
		Version: version,
	})
	return token.SignedString(i.secret)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (i *TokenIssuer) ParseRefreshToken(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, i.keyFunc)
	if err != nil || !token.Valid {
		return nil, apperr.ErrInvalidRefreshToken
	}
	if claims.Subject == "" || claims.Version == "" {
		return nil, apperr.ErrInvalidRefreshToken
	}
	return claims, nil
}

func (i *TokenIssuer) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, errors.New("unexpected signing method")
	}
	return i.secret, nil
}
