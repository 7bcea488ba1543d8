// Package store is the repository boundary over the backing data store.
// The session manager, handlers and analytics fetch paths only ever see this
// interface; the Postgres implementation (lib/pq) is the production backend
// and MemStore backs the tests.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell-backend/internal/models"
)

// EntryFields carries the mutable fields of a journal entry. On update, nil
// pointers mean "leave unchanged".
type EntryFields struct {
	Title    *string
	Content  *string
	Category *models.Category
	Tags     *[]string
}

// EntryFilter narrows admin-scope entry listings.
type EntryFilter struct {
	OwnerID  *uuid.UUID
	Category *models.Category
	Page     int
	Limit    int
}

// Store defines all persistence operations.
type Store interface {
	// Users
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// CreateUser returns apperr.ErrAlreadyExists when the email is taken; the
	// database unique constraint is the authority, so a concurrent duplicate
	// registration still surfaces correctly.
	CreateUser(ctx context.Context, email, passwordHash string, role models.Role) (*models.User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	// DeleteUser removes the user and cascades to owned entries.
	DeleteUser(ctx context.Context, id uuid.UUID) error
	// ListUsers returns user views, optionally only users owning at least one
	// entry (entry counts populated in that case).
	ListUsers(ctx context.Context, page, limit int, withJournalsOnly bool) ([]models.UserView, error)

	// Entries
	CreateEntry(ctx context.Context, ownerID uuid.UUID, title, content string, category models.Category, tags []string) (*models.JournalEntry, error)
	// ListEntries returns the owner's entries newest first. limit <= 0 means
	// no paging (the analytics fetch path needs the full set).
	ListEntries(ctx context.Context, ownerID uuid.UUID, page, limit int, tagFilter string) ([]models.JournalEntry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, fields EntryFields) (*models.JournalEntry, error)
	// DeleteEntry removes the entry and its tag links; shared tags survive.
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	ListAllEntries(ctx context.Context, filter EntryFilter) ([]models.JournalEntry, error)
}
