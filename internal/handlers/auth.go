package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell-backend/internal/middleware"
	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/internal/services"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Register creates a new account with role USER and returns an access token.
// Registration does not authenticate: no cookies are set here, an immediate
// login is the client's choice.
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := Sessions.Register(r.Context(), req.Email, req.Password, models.RoleUser)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"message":      "Account created",
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// Login verifies credentials and transports the token pair as cookies.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	setAuthCookies(w, result)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Logged in",
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          result.User,
	})
}

// Refresh exchanges the refresh cookie for a rotated token pair. Validation
// failures are a clean 401, never a 500.
func Refresh(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	result, err := Sessions.Refresh(r.Context(), refreshToken)
	if err != nil {
		respondError(w, r, err)
		return
	}

	setAuthCookies(w, result)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Token refreshed",
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          result.User,
	})
}

// Logout clears both auth cookies and invalidates the caller's refresh
// generation when a refresh cookie identifies them.
func Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		if claims, err := Tokens.ParseRefreshToken(cookie.Value); err == nil {
			if userID, err := uuid.Parse(claims.Subject); err == nil {
				if err := Sessions.Logout(r.Context(), userID); err != nil {
					respondError(w, r, err)
					return
				}
			}
		}
	}

	clearAuthCookies(w)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out",
	})
}

// Me returns the current user view ("whoAmI").
func Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := Store.FindUserByID(r.Context(), principal.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user.View(),
	})
}

// ChangePassword re-verifies the current password before storing a new one.
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := Sessions.ChangePassword(r.Context(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, r, err)
		return
	}

	// Password changes strand outstanding refresh tokens; the browser's
	// cookies are cleared so the client re-authenticates.
	clearAuthCookies(w)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password changed",
	})
}

// setAuthCookies transports the token pair: access token on "/", refresh
// token restricted to the auth endpoints. Both HttpOnly, SameSite=Lax,
// Secure in production.
func setAuthCookies(w http.ResponseWriter, result *services.AuthResult) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    result.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(Cookies.AccessTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    result.RefreshToken,
		Path:     RefreshCookiePath,
		HttpOnly: true,
		Secure:   Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(Cookies.RefreshTTL.Seconds()),
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		Path:     RefreshCookiePath,
		HttpOnly: true,
		MaxAge:   -1,
	})
}
