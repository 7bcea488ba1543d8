package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
	"github.com/inkwell-app/inkwell-backend/internal/models"
)

// MemStore is an in-memory Store used by tests. It mirrors the Postgres
// implementation's semantics: unique email surfaces ErrAlreadyExists, user
// deletion cascades to entries, tag names are deduplicated case-insensitively
// and shared across entries.
type MemStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*models.User
	entries map[uuid.UUID]*models.JournalEntry
	tags    map[string]struct{}
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:   make(map[uuid.UUID]*models.User),
		entries: make(map[uuid.UUID]*models.JournalEntry),
		tags:    make(map[string]struct{}),
	}
}

func (s *MemStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *MemStore) FindUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *MemStore) CreateUser(_ context.Context, email, passwordHash string, role models.Role) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, apperr.ErrAlreadyExists
		}
	}
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	s.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (s *MemStore) UpdateUserRole(_ context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	u.Role = role
	copied := *u
	return &copied, nil
}

func (s *MemStore) UpdateUserPassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperr.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *MemStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.users, id)
	for entryID, entry := range s.entries {
		if entry.OwnerID == id {
			delete(s.entries, entryID)
		}
	}
	return nil
}

func (s *MemStore) ListUsers(_ context.Context, page, limit int, withJournalsOnly bool) ([]models.UserView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, limit = normalizePage(page, limit)

	views := make([]models.UserView, 0, len(s.users))
	for _, u := range s.users {
		v := u.View()
		for _, entry := range s.entries {
			if entry.OwnerID == u.ID {
				v.EntryCount++
			}
		}
		if withJournalsOnly && v.EntryCount == 0 {
			continue
		}
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.After(views[j].CreatedAt) })
	return paginate(views, page, limit), nil
}

func (s *MemStore) CreateEntry(_ context.Context, ownerID uuid.UUID, title, content string, category models.Category, tags []string) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	entry := &models.JournalEntry{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		Category:  category,
		Tags:      s.connectTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.entries[entry.ID] = entry
	copied := *entry
	return &copied, nil
}

func (s *MemStore) GetEntry(_ context.Context, id uuid.UUID) (*models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (s *MemStore) ListEntries(_ context.Context, ownerID uuid.UUID, page, limit int, tagFilter string) ([]models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.JournalEntry, 0)
	for _, entry := range s.entries {
		if entry.OwnerID != ownerID {
			continue
		}
		if tagFilter != "" && !containsTag(entry.Tags, tagFilter) {
			continue
		}
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })

	if limit <= 0 {
		return entries, nil
	}
	if page < 1 {
		page = 1
	}
	return paginate(entries, page, limit), nil
}

func (s *MemStore) UpdateEntry(_ context.Context, id uuid.UUID, fields EntryFields) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if fields.Title != nil {
		entry.Title = *fields.Title
	}
	if fields.Content != nil {
		entry.Content = *fields.Content
	}
	if fields.Category != nil {
		entry.Category = *fields.Category
	}
	if fields.Tags != nil {
		entry.Tags = s.connectTags(*fields.Tags)
	}
	entry.UpdatedAt = time.Now()
	copied := *entry
	return &copied, nil
}

func (s *MemStore) DeleteEntry(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *MemStore) ListAllEntries(_ context.Context, filter EntryFilter) ([]models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.JournalEntry, 0)
	for _, entry := range s.entries {
		if filter.OwnerID != nil && entry.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Category != nil && entry.Category != *filter.Category {
			continue
		}
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })

	page, limit := normalizePage(filter.Page, filter.Limit)
	return paginate(entries, page, limit), nil
}

// TagCount reports the number of distinct tag names ever connected. Used by
// tests to check that deleting entries never drops shared tags.
func (s *MemStore) TagCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tags)
}

func (s *MemStore) connectTags(tags []string) []string {
	linked := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, raw := range tags {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		s.tags[name] = struct{}{}
		linked = append(linked, name)
	}
	return linked
}

func containsTag(tags []string, name string) bool {
	for _, t := range tags {
		if t == name {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

var _ Store = (*MemStore)(nil)
