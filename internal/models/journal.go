package models

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a journal entry.
type Category string

const (
	CategoryPersonal  Category = "PERSONAL"
	CategoryWork      Category = "WORK"
	CategoryTravel    Category = "TRAVEL"
	CategoryHealth    Category = "HEALTH"
	CategoryFinance   Category = "FINANCE"
	CategoryEducation Category = "EDUCATION"
	CategoryOther     Category = "OTHER"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryTravel, CategoryHealth,
		CategoryFinance, CategoryEducation, CategoryOther:
		return true
	}
	return false
}

// JournalEntry represents a private journal entry owned by exactly one user.
// Tags are shared labels (many-to-many); the entry never owns them.
type JournalEntry struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
