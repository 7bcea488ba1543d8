// Package handlers contains the HTTP surface. Handlers decode input, call
// into services/store, and translate the apperr taxonomy into status codes;
// business decisions live below this package.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
	"github.com/inkwell-app/inkwell-backend/internal/middleware"
	"github.com/inkwell-app/inkwell-backend/internal/services"
	"github.com/inkwell-app/inkwell-backend/internal/store"
)

const (
	// RefreshTokenCookie is the refresh token cookie, scoped to the auth
	// endpoints only.
	RefreshTokenCookie = "refresh_token"
	// RefreshCookiePath keeps the refresh token off non-auth routes while
	// still reaching both the refresh and logout endpoints; a browser only
	// sends a cookie to paths under its Path attribute.
	RefreshCookiePath = "/api/auth"
)

// CookieConfig drives cookie attributes set by the auth handlers.
type CookieConfig struct {
	Secure     bool // true when served over TLS (production)
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

var (
	Store     store.Store
	Sessions  *services.SessionManager
	Tokens    *services.TokenIssuer
	Audit     *services.AuditService
	Summaries services.Summarizer
	Cookies   CookieConfig
)

// Init wires the handler package dependencies at startup.
func Init(s store.Store, sessions *services.SessionManager, tokens *services.TokenIssuer, audit *services.AuditService, summaries services.Summarizer, cookies CookieConfig) {
	Store = s
	Sessions = sessions
	Tokens = tokens
	Audit = audit
	Summaries = summaries
	Cookies = cookies
}

// currentUser returns the guard-injected principal. Guarded routes always
// have one; a miss means a route was wired without its RouteSpec.
func currentUser(w http.ResponseWriter, r *http.Request) (*middleware.Principal, bool) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return principal, true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// respondError translates the error taxonomy into a status code. Internal
// failures are logged with context and surfaced generically.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Validation failed",
			"field":   ve.Field,
			"rules":   ve.Rules,
		})
		return
	}

	switch {
	case errors.Is(err, apperr.ErrAlreadyExists):
		respondMessage(w, http.StatusConflict, "Email is already registered")
	case errors.Is(err, apperr.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, apperr.ErrMissingToken):
		respondMessage(w, http.StatusUnauthorized, "Missing refresh token")
	case errors.Is(err, apperr.ErrInvalidRefreshToken):
		respondMessage(w, http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, apperr.ErrUnauthenticated), errors.Is(err, apperr.ErrInvalidToken):
		respondMessage(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, apperr.ErrInsufficientRole):
		respondMessage(w, http.StatusForbidden, "Insufficient role")
	case errors.Is(err, apperr.ErrForbidden):
		respondMessage(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, apperr.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "Not found")
	default:
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		respondMessage(w, http.StatusInternalServerError, "Something went wrong")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// parsePaging reads page/limit query params, defaulting to page 1, limit 20.
func parsePaging(r *http.Request) (page, limit int) {
	page, limit = 1, 20
	if s := r.URL.Query().Get("page"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return page, limit
}
