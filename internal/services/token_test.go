package services

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
	"github.com/inkwell-app/inkwell-backend/internal/models"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func testUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Email: "user@example.com",
		Role:  models.RoleUser,
	}
}

func TestAccessTokenRoundtrip(t *testing.T) {
	issuer := testIssuer()
	user := testUser()

	tokenStr, err := issuer.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := issuer.ParseAccessToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	user := testUser()
	tokenStr, err := NewTokenIssuer("other-secret", time.Minute, time.Hour).GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = testIssuer().ParseAccessToken(tokenStr)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute, time.Hour)
	tokenStr, err := issuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = issuer.ParseAccessToken(tokenStr)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	_, err := testIssuer().ParseAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestParseAccessTokenRejectsUnsignedAlg(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "user@example.com",
		Role:  models.RoleUser,
	})
	tokenStr, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = testIssuer().ParseAccessToken(tokenStr)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestRefreshTokenRoundtrip(t *testing.T) {
	issuer := testIssuer()
	userID := uuid.New()

	tokenStr, err := issuer.GenerateRefreshToken(userID, "version-1")
	require.NoError(t, err)

	claims, err := issuer.ParseRefreshToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "version-1", claims.Version)
}

func TestParseRefreshTokenRejectsAccessToken(t *testing.T) {
	issuer := testIssuer()
	tokenStr, err := issuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	// An access token has no version claim, so it never refreshes.
	_, err = issuer.ParseRefreshToken(tokenStr)
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)
}
