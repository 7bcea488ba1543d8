package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/internal/store"
)

type CreateJournalRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type UpdateJournalRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
}

type SummarizeRequest struct {
	Question string `json:"question"`
}

// CreateJournalEntry creates a new journal entry for the authenticated user.
// The owner always comes from the session, never from the body.
func CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateJournalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := validateEntryInput(req.Title, req.Content, req.Category)
	if err != nil {
		respondError(w, r, err)
		return
	}

	entry, err := Store.CreateEntry(r.Context(), principal.ID, strings.TrimSpace(req.Title), strings.TrimSpace(req.Content), category, req.Tags)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Journal entry created",
		"entry":   entry,
	})
}

// GetJournalEntries lists the caller's entries, newest first, with optional
// ?tag= filter and page/limit paging.
func GetJournalEntries(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentUser(w, r)
	if !ok {
		return
	}

	page, limit := parsePaging(r)
	tagFilter := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("tag")))

	entries, err := Store.ListEntries(r.Context(), principal.ID, page, limit, tagFilter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entries": entries,
		"count":   len(entries),
	})
}

// GetJournalEntry returns a single entry. Foreign ownership is folded into
// NotFound so entry existence never leaks.
func GetJournalEntry(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentUser(w, r)
	if !ok {
		return
	}

	entry, ok := findOwnedEntry(w, r, principal.ID)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entry":   entry,
	})
}

// UpdateJournalEntry updates content/category/tags in place. The owner is
// immutable.
func UpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentUser(w, r)
	if !ok {
		return
	}

	entry, ok := findOwnedEntry(w, r, principal.ID)
	if !ok {
		return
	}

	var req UpdateJournalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fields := store.EntryFields{Tags: req.Tags}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			respondError(w, r, &apperr.ValidationError{Field: "title", Rules: []string{"must not be empty"}})
			return
		}
		fields.Title = &title
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			respondError(w, r, &apperr.ValidationError{Field: "content", Rules: []string{"must not be empty"}})
			return
		}
		fields.Content = &content
	}
	if req.Category != nil {
		category := models.Category(strings.ToUpper(strings.TrimSpace(*req.Category)))
		if !category.Valid() {
			respondError(w, r, &apperr.ValidationError{Field: "category", Rules: []string{"must be a known category"}})
			return
		}
		fields.Category = &category
	}

	updated, err := Store.UpdateEntry(r.Context(), entry.ID, fields)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Journal entry updated",
		"entry":   updated,
	})
}

// DeleteJournalEntry deletes an owned entry. Tag links go with it; shared
// tags never do.
func DeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentUser(w, r)
	if !ok {
		return
	}

	entry, ok := findOwnedEntry(w, r, principal.ID)
	if !ok {
		return
	}

	if err := Store.DeleteEntry(r.Context(), entry.ID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Journal entry deleted",
	})
}

// SummarizeJournal asks the AI collaborator for a summary over the caller's
// full entry set.
func SummarizeJournal(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentUser(w, r)
	if !ok {
		return
	}

	if Summaries == nil {
		respondMessage(w, http.StatusServiceUnavailable, "AI summaries are not available")
		return
	}

	var req SummarizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entries, err := Store.ListEntries(r.Context(), principal.ID, 0, 0, "")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(entries) == 0 {
		respondMessage(w, http.StatusBadRequest, "No journal entries to summarize")
		return
	}

	summary, err := Summaries.Summarize(r.Context(), entries, req.Question)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
	})
}

// findOwnedEntry loads the {id} entry and enforces owner scoping.
func findOwnedEntry(w http.ResponseWriter, r *http.Request, ownerID uuid.UUID) (*models.JournalEntry, bool) {
	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusNotFound, "Not found")
		return nil, false
	}

	entry, err := Store.GetEntry(r.Context(), entryID)
	if err != nil {
		respondError(w, r, err)
		return nil, false
	}
	if entry.OwnerID != ownerID {
		// Same shape as a missing entry: ownership must not leak.
		respondMessage(w, http.StatusNotFound, "Not found")
		return nil, false
	}
	return entry, true
}

func validateEntryInput(title, content, category string) (models.Category, error) {
	if strings.TrimSpace(title) == "" {
		return "", &apperr.ValidationError{Field: "title", Rules: []string{"must not be empty"}}
	}
	if strings.TrimSpace(content) == "" {
		return "", &apperr.ValidationError{Field: "content", Rules: []string{"must not be empty"}}
	}
	c := models.Category(strings.ToUpper(strings.TrimSpace(category)))
	if c == "" {
		c = models.CategoryOther
	}
	if !c.Valid() {
		return "", &apperr.ValidationError{Field: "category", Rules: []string{"must be a known category"}}
	}
	return c, nil
}
