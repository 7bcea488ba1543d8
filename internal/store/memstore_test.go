package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
	"github.com/inkwell-app/inkwell-backend/internal/models"
)

func TestCreateUserUniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	_, err := s.CreateUser(ctx, "user@example.com", "hash", models.RoleUser)
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "user@example.com", "hash", models.RoleUser)
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestConnectTagsDeduplicates(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	user, err := s.CreateUser(ctx, "user@example.com", "hash", models.RoleUser)
	require.NoError(t, err)

	entry, err := s.CreateEntry(ctx, user.ID, "t", "c", models.CategoryWork,
		[]string{" Focus ", "focus", "FOCUS", "", "deep-work"})
	require.NoError(t, err)

	assert.Equal(t, []string{"focus", "deep-work"}, entry.Tags)
	assert.Equal(t, 2, s.TagCount())
}

func TestListEntriesPaging(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	user, err := s.CreateUser(ctx, "user@example.com", "hash", models.RoleUser)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := s.CreateEntry(ctx, user.ID, "t", "c", models.CategoryWork, nil)
		require.NoError(t, err)
	}

	firstPage, err := s.ListEntries(ctx, user.ID, 1, 2, "")
	require.NoError(t, err)
	assert.Len(t, firstPage, 2)

	lastPage, err := s.ListEntries(ctx, user.ID, 3, 2, "")
	require.NoError(t, err)
	assert.Len(t, lastPage, 1)

	beyond, err := s.ListEntries(ctx, user.ID, 4, 2, "")
	require.NoError(t, err)
	assert.Empty(t, beyond)

	all, err := s.ListEntries(ctx, user.ID, 0, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestDeleteUserCascadesEntries(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	user, err := s.CreateUser(ctx, "user@example.com", "hash", models.RoleUser)
	require.NoError(t, err)
	entry, err := s.CreateEntry(ctx, user.ID, "t", "c", models.CategoryWork, nil)
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, user.ID))

	_, err = s.GetEntry(ctx, entry.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
