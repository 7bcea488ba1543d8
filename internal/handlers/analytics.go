package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/inkwell-app/inkwell-backend/internal/analytics"
	"github.com/inkwell-app/inkwell-backend/internal/models"
)

// Analytics endpoints aggregate over the caller's full entry set. The
// computation is pure; handlers only fetch and shape the response.

func GetHeatmap(w http.ResponseWriter, r *http.Request) {
	entries, ok := ownEntries(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"heatmap": analytics.Heatmap(entries),
	})
}

func GetCategoryDistribution(w http.ResponseWriter, r *http.Request) {
	entries, ok := ownEntries(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": analytics.CategoryDistribution(entries),
	})
}

func GetWordTrends(w http.ResponseWriter, r *http.Request) {
	entries, ok := ownEntries(w, r)
	if !ok {
		return
	}

	limit := analytics.DefaultTrendLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"trends":  analytics.WordTrends(entries, limit),
	})
}

func GetEntryLengthStats(w http.ResponseWriter, r *http.Request) {
	entries, ok := ownEntries(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   analytics.EntryLengthStats(entries),
	})
}

func GetTimeOfDay(w http.ResponseWriter, r *http.Request) {
	entries, ok := ownEntries(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"hours":   analytics.TimeOfDay(entries),
	})
}

// ownEntries fetches the caller's complete entry set, honoring an optional
// ?tag= filter so analytics can be scoped the same way listings are.
func ownEntries(w http.ResponseWriter, r *http.Request) ([]models.JournalEntry, bool) {
	principal, ok := currentUser(w, r)
	if !ok {
		return nil, false
	}

	tagFilter := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("tag")))
	entries, err := Store.ListEntries(r.Context(), principal.ID, 0, 0, tagFilter)
	if err != nil {
		respondError(w, r, err)
		return nil, false
	}
	return entries, true
}
