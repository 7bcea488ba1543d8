package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/internal/services"
	"github.com/inkwell-app/inkwell-backend/internal/store"
)

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// GetAllUsers lists every account for the admin dashboard.
func GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePaging(r)
	users, err := Store.ListUsers(r.Context(), page, limit, false)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}

// GetUsersWithJournals lists only users owning at least one entry, with
// their entry counts.
func GetUsersWithJournals(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePaging(r)
	users, err := Store.ListUsers(r.Context(), page, limit, true)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}

// UpdateUserRole changes a user's role. Only a SUPERADMIN may grant or
// revoke roles, and nobody changes their own.
func UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	if actor.Role != models.RoleSuperAdmin {
		respondError(w, r, apperr.ErrInsufficientRole)
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusNotFound, "Not found")
		return
	}
	if targetID == actor.ID {
		respondError(w, r, &apperr.ValidationError{Field: "id", Rules: []string{"cannot change own role"}})
		return
	}

	var req UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	role := models.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		respondError(w, r, &apperr.ValidationError{Field: "role", Rules: []string{"must be USER, ADMIN or SUPERADMIN"}})
		return
	}

	user, err := Store.UpdateUserRole(r.Context(), targetID, role)
	if err != nil {
		respondError(w, r, err)
		return
	}

	Audit.Record(r.Context(), services.AuditEvent{
		ActorID:    actor.ID.String(),
		ActorEmail: actor.Email,
		Action:     "user.role.update",
		Target:     targetID.String(),
		Detail:     fmt.Sprintf("role set to %s", role),
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User role updated",
		"user":    user.View(),
	})
}

// RemoveUser deletes an account and all its entries. Self-removal through
// the admin surface is rejected.
func RemoveUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusNotFound, "Not found")
		return
	}
	if targetID == actor.ID {
		respondError(w, r, &apperr.ValidationError{Field: "id", Rules: []string{"cannot remove own account"}})
		return
	}

	target, err := Store.FindUserByID(r.Context(), targetID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	// Admins cannot remove other admins; that stays with SUPERADMIN.
	if target.Role != models.RoleUser && actor.Role != models.RoleSuperAdmin {
		respondError(w, r, apperr.ErrInsufficientRole)
		return
	}

	if err := Store.DeleteUser(r.Context(), targetID); err != nil {
		respondError(w, r, err)
		return
	}
	if err := Sessions.Logout(r.Context(), targetID); err != nil {
		log.Printf("failed to revoke sessions for removed user %s: %v", targetID, err)
	}

	Audit.Record(r.Context(), services.AuditEvent{
		ActorID:    actor.ID.String(),
		ActorEmail: actor.Email,
		Action:     "user.remove",
		Target:     targetID.String(),
		Detail:     target.Email,
	})

	respondMessage(w, http.StatusOK, "User removed")
}

// GetAllJournalEntries lists entries across all owners with optional
// ?owner= and ?category= filters.
func GetAllJournalEntries(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePaging(r)
	filter := store.EntryFilter{Page: page, Limit: limit}

	if raw := strings.TrimSpace(r.URL.Query().Get("owner")); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, r, &apperr.ValidationError{Field: "owner", Rules: []string{"must be a valid user id"}})
			return
		}
		filter.OwnerID = &ownerID
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category := models.Category(strings.ToUpper(raw))
		if !category.Valid() {
			respondError(w, r, &apperr.ValidationError{Field: "category", Rules: []string{"must be a known category"}})
			return
		}
		filter.Category = &category
	}

	entries, err := Store.ListAllEntries(r.Context(), filter)
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

// AdminDeleteJournalEntry removes any user's entry, bypassing owner scoping.
func AdminDeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusNotFound, "Not found")
		return
	}

	entry, err := Store.GetEntry(r.Context(), entryID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := Store.DeleteEntry(r.Context(), entryID); err != nil {
		respondError(w, r, err)
		return
	}

	Audit.Record(r.Context(), services.AuditEvent{
		ActorID:    actor.ID.String(),
		ActorEmail: actor.Email,
		Action:     "entry.remove",
		Target:     entryID.String(),
		Detail:     fmt.Sprintf("owner %s", entry.OwnerID),
	})

	respondMessage(w, http.StatusOK, "Journal entry deleted")
}

// GetAuditEvents returns the recent admin audit trail.
func GetAuditEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	events, err := Audit.ListRecent(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"events":  events,
		"count":   len(events),
	})
}
