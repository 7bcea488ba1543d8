package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJournalEntry(t *testing.T) {
	app := newTestApp(t)
	user, cookies := app.signup(t, "writer@example.com", "USER")

	rec := app.do(t, http.MethodPost, "/api/journals/", map[string]interface{}{
		"title":    "Morning pages",
		"content":  "Slept well, long walk before work.",
		"category": "personal",
		"tags":     []string{" Walking ", "walking", "MORNING"},
	}, cookies...)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	entry, ok := body["entry"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Morning pages", entry["title"])
	assert.Equal(t, "PERSONAL", entry["category"])
	assert.Equal(t, user.ID.String(), entry["owner_id"])
	assert.ElementsMatch(t, []interface{}{"walking", "morning"}, entry["tags"])
}

func TestCreateJournalEntryDefaultsCategory(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "writer@example.com", "USER")

	rec := app.do(t, http.MethodPost, "/api/journals/", map[string]interface{}{
		"title":   "Untitled thoughts",
		"content": "Just writing things down.",
	}, cookies...)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	entry := body["entry"].(map[string]interface{})
	assert.Equal(t, "OTHER", entry["category"])
}

func TestCreateJournalEntryValidation(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "writer@example.com", "USER")

	blankTitle := app.do(t, http.MethodPost, "/api/journals/", map[string]interface{}{
		"title":   "   ",
		"content": "body",
	}, cookies...)
	assert.Equal(t, http.StatusBadRequest, blankTitle.Code)

	badCategory := app.do(t, http.MethodPost, "/api/journals/", map[string]interface{}{
		"title":    "Title",
		"content":  "body",
		"category": "MOOD",
	}, cookies...)
	assert.Equal(t, http.StatusBadRequest, badCategory.Code)
}

func TestJournalRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/journals/", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListJournalEntriesScopedToOwner(t *testing.T) {
	app := newTestApp(t)
	_, aliceCookies := app.signup(t, "alice@example.com", "USER")
	_, bobCookies := app.signup(t, "bob@example.com", "USER")

	app.createEntry(t, aliceCookies, "Alice one", "content", "WORK", nil)
	app.createEntry(t, aliceCookies, "Alice two", "content", "TRAVEL", nil)
	app.createEntry(t, bobCookies, "Bob one", "content", "WORK", nil)

	rec := app.do(t, http.MethodGet, "/api/journals/", nil, aliceCookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	entries, ok := body["entries"].([]interface{})
	require.True(t, ok)
	assert.Len(t, entries, 2)
	for _, raw := range entries {
		entry := raw.(map[string]interface{})
		assert.Contains(t, entry["title"], "Alice")
	}
}

func TestListJournalEntriesTagFilter(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "writer@example.com", "USER")

	app.createEntry(t, cookies, "Tagged", "content", "WORK", []string{"focus"})
	app.createEntry(t, cookies, "Untagged", "content", "WORK", nil)

	rec := app.do(t, http.MethodGet, "/api/journals/?tag=Focus", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	entries := body["entries"].([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, "Tagged", entries[0].(map[string]interface{})["title"])
}

func TestGetForeignEntryIsNotFound(t *testing.T) {
	app := newTestApp(t)
	_, aliceCookies := app.signup(t, "alice@example.com", "USER")
	_, bobCookies := app.signup(t, "bob@example.com", "USER")

	id := app.createEntry(t, aliceCookies, "Private", "content", "PERSONAL", nil)

	rec := app.do(t, http.MethodGet, "/api/journals/"+id, nil, bobCookies...)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	own := app.do(t, http.MethodGet, "/api/journals/"+id, nil, aliceCookies...)
	assert.Equal(t, http.StatusOK, own.Code)
}

func TestUpdateJournalEntryPartial(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "writer@example.com", "USER")
	id := app.createEntry(t, cookies, "Draft", "original content", "WORK", []string{"draft"})

	rec := app.do(t, http.MethodPut, "/api/journals/"+id, map[string]interface{}{
		"title": "Final",
	}, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	entry := body["entry"].(map[string]interface{})
	assert.Equal(t, "Final", entry["title"])
	assert.Equal(t, "original content", entry["content"])
	assert.Equal(t, "WORK", entry["category"])

	badCategory := app.do(t, http.MethodPut, "/api/journals/"+id, map[string]interface{}{
		"category": "MOOD",
	}, cookies...)
	assert.Equal(t, http.StatusBadRequest, badCategory.Code)
}

func TestUpdateForeignEntryIsNotFound(t *testing.T) {
	app := newTestApp(t)
	_, aliceCookies := app.signup(t, "alice@example.com", "USER")
	_, bobCookies := app.signup(t, "bob@example.com", "USER")

	id := app.createEntry(t, aliceCookies, "Private", "content", "PERSONAL", nil)

	rec := app.do(t, http.MethodPut, "/api/journals/"+id, map[string]interface{}{
		"title": "Hijacked",
	}, bobCookies...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteJournalEntryKeepsSharedTags(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "writer@example.com", "USER")

	first := app.createEntry(t, cookies, "First", "content", "WORK", []string{"shared"})
	app.createEntry(t, cookies, "Second", "content", "WORK", []string{"shared"})
	require.Equal(t, 1, app.store.TagCount())

	rec := app.do(t, http.MethodDelete, "/api/journals/"+first, nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	gone := app.do(t, http.MethodGet, "/api/journals/"+first, nil, cookies...)
	assert.Equal(t, http.StatusNotFound, gone.Code)
	assert.Equal(t, 1, app.store.TagCount(), "shared tag must survive entry deletion")
}

func TestAdminJournalListIsStillOwnerScoped(t *testing.T) {
	app := newTestApp(t)
	_, userCookies := app.signup(t, "user@example.com", "USER")
	_, adminCookies := app.signup(t, "admin@example.com", "ADMIN")

	app.createEntry(t, userCookies, "Private", "content", "PERSONAL", nil)

	rec := app.do(t, http.MethodGet, "/api/journals/", nil, adminCookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	entries, ok := body["entries"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, entries, "admins read other users' entries via /api/admin, never here")
}
