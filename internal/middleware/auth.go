package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/internal/services"
)

// AccessTokenCookie is the cookie carrying the access token, scoped to "/".
const AccessTokenCookie = "token"

// Principal is the authenticated caller decoded from the access token.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  models.Role
}

type principalKey struct{}

// WithPrincipal stores the principal in the request context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext retrieves the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

// RouteSpec declares the access requirement of one operation. Every route in
// the system carries one: either explicitly public, or authenticated with an
// optional role set (empty = any authenticated user). There is no third,
// undefined state.
type RouteSpec struct {
	Public bool
	Roles  []models.Role
}

// Guard makes the per-request access decision, independent of any handler's
// business logic.
type Guard struct {
	tokens *services.TokenIssuer
}

func NewGuard(tokens *services.TokenIssuer) *Guard {
	return &Guard{tokens: tokens}
}

// Require wraps a handler with the access decision for spec:
//  1. public operations pass unconditionally, token never inspected
//  2. no token -> 401 unauthenticated
//  3. bad signature/expiry -> 401 invalid token
//  4. role not in the required set -> 403
//  5. otherwise the decoded principal is injected into the context
func (g *Guard) Require(spec RouteSpec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if spec.Public {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := extractAccessToken(r)
			if tokenStr == "" {
				rejectJSON(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			claims, err := g.tokens.ParseAccessToken(tokenStr)
			if err != nil {
				rejectJSON(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if !claims.Role.In(spec.Roles) {
				rejectJSON(w, http.StatusForbidden, "Insufficient role")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				rejectJSON(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			principal := &Principal{ID: userID, Email: claims.Email, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// extractAccessToken reads the access token from the auth cookie, falling
// back to an Authorization: Bearer header.
func extractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func rejectJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
