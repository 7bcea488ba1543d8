package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-backend/internal/handlers"
	"github.com/inkwell-app/inkwell-backend/internal/middleware"
	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/internal/routes"
	"github.com/inkwell-app/inkwell-backend/internal/services"
	"github.com/inkwell-app/inkwell-backend/internal/store"
)

const testPassword = "Sup3r$ecret"

type testApp struct {
	router   http.Handler
	store    *store.MemStore
	sessions *services.SessionManager
}

// newTestApp builds the full router over an in-memory store, so tests cover
// the guard, the route table and the handlers together.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	memStore := store.NewMemStore()
	tokens := services.NewTokenIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)
	sessions := services.NewSessionManager(memStore, tokens, services.NewMemRefreshVersions())

	handlers.Init(memStore, sessions, tokens, nil, nil, handlers.CookieConfig{
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})

	r := chi.NewRouter()
	routes.SetupRoutes(r, middleware.NewGuard(tokens))
	return &testApp{router: r, store: memStore, sessions: sessions}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// signup registers an account with the given role and returns the stored
// user together with its auth cookies from a fresh login.
func (a *testApp) signup(t *testing.T, email string, role models.Role) (*models.User, []*http.Cookie) {
	t.Helper()
	ctx := context.Background()

	rec := a.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	user, err := a.store.FindUserByEmail(ctx, email)
	require.NoError(t, err)

	if role != models.RoleUser {
		user, err = a.store.UpdateUserRole(ctx, user.ID, role)
		require.NoError(t, err)
	}

	login := a.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, login.Code)
	return user, login.Result().Cookies()
}

// createEntry creates a journal entry through the API on behalf of cookies'
// owner and returns its id.
func (a *testApp) createEntry(t *testing.T, cookies []*http.Cookie, title, content, category string, tags []string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/journals/", map[string]interface{}{
		"title":    title,
		"content":  content,
		"category": category,
		"tags":     tags,
	}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	entry, ok := body["entry"].(map[string]interface{})
	require.True(t, ok)
	id, ok := entry["id"].(string)
	require.True(t, ok)
	return id
}
