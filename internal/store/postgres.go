package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
	"github.com/inkwell-app/inkwell-backend/internal/models"
)

const defaultPageLimit = 20

// PostgresStore implements Store on top of PostgreSQL via database/sql.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users WHERE email = $1
	`, email))
}

func (s *PostgresStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users WHERE id = $1
	`, id))
}

func (s *PostgresStore) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, email, passwordHash string, role models.Role) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, role, created_at
	`, email, passwordHash, role).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrAlreadyExists
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		UPDATE users SET role = $2 WHERE id = $1
		RETURNING id, email, password_hash, role, created_at
	`, id, role).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $2 WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	// Owned entries go with the user via ON DELETE CASCADE; tag rows stay.
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *PostgresStore) ListUsers(ctx context.Context, page, limit int, withJournalsOnly bool) ([]models.UserView, error) {
	page, limit = normalizePage(page, limit)

	query := `
		SELECT u.id, u.email, u.role, u.created_at, COUNT(e.id) AS entry_count
		FROM users u
		LEFT JOIN journal_entries e ON e.owner_id = u.id
		GROUP BY u.id, u.email, u.role, u.created_at
	`
	if withJournalsOnly {
		query += ` HAVING COUNT(e.id) > 0`
	}
	query += ` ORDER BY u.created_at DESC LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.UserView, 0)
	for rows.Next() {
		var v models.UserView
		if err := rows.Scan(&v.ID, &v.Email, &v.Role, &v.CreatedAt, &v.EntryCount); err != nil {
			return nil, err
		}
		users = append(users, v)
	}
	return users, rows.Err()
}

func (s *PostgresStore) CreateEntry(ctx context.Context, ownerID uuid.UUID, title, content string, category models.Category, tags []string) (*models.JournalEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var entry models.JournalEntry
	err = tx.QueryRowContext(ctx, `
		INSERT INTO journal_entries (owner_id, title, content, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, title, content, category, created_at, updated_at
	`, ownerID, title, content, category).Scan(
		&entry.ID, &entry.OwnerID, &entry.Title, &entry.Content,
		&entry.Category, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Tags, err = linkTags(ctx, tx, entry.ID, tags)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *PostgresStore) GetEntry(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, content, category, created_at, updated_at
		FROM journal_entries WHERE id = $1
	`, id).Scan(
		&entry.ID, &entry.OwnerID, &entry.Title, &entry.Content,
		&entry.Category, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	tagsByEntry, err := s.loadTags(ctx, []uuid.UUID{entry.ID})
	if err != nil {
		return nil, err
	}
	entry.Tags = tagsByEntry[entry.ID]
	return &entry, nil
}

func (s *PostgresStore) ListEntries(ctx context.Context, ownerID uuid.UUID, page, limit int, tagFilter string) ([]models.JournalEntry, error) {
	query := `
		SELECT DISTINCT e.id, e.owner_id, e.title, e.content, e.category, e.created_at, e.updated_at
		FROM journal_entries e
	`
	args := []interface{}{ownerID}
	if tagFilter != "" {
		query += `
		JOIN entry_tags et ON et.entry_id = e.id
		JOIN tags t ON t.id = et.tag_id AND t.name = $2
		`
		args = append(args, tagFilter)
	}
	query += ` WHERE e.owner_id = $1 ORDER BY e.created_at DESC`

	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, (page-1)*limit)
	}

	return s.queryEntries(ctx, query, args...)
}

func (s *PostgresStore) ListAllEntries(ctx context.Context, filter EntryFilter) ([]models.JournalEntry, error) {
	var conditions []string
	var args []interface{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		conditions = append(conditions, fmt.Sprintf("e.owner_id = $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("e.category = $%d", len(args)))
	}

	query := `
		SELECT e.id, e.owner_id, e.title, e.content, e.category, e.created_at, e.updated_at
		FROM journal_entries e
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.created_at DESC"

	page, limit := normalizePage(filter.Page, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	return s.queryEntries(ctx, query, args...)
}

func (s *PostgresStore) UpdateEntry(ctx context.Context, id uuid.UUID, fields EntryFields) (*models.JournalEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var entry models.JournalEntry
	err = tx.QueryRowContext(ctx, `
		UPDATE journal_entries SET
			title = COALESCE($2, title),
			content = COALESCE($3, content),
			category = COALESCE($4, category),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, owner_id, title, content, category, created_at, updated_at
	`, id, fields.Title, fields.Content, (*string)(fields.Category)).Scan(
		&entry.ID, &entry.OwnerID, &entry.Title, &entry.Content,
		&entry.Category, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if fields.Tags != nil {
		// Replace the link set; tag rows themselves are shared and stay.
		if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id = $1`, id); err != nil {
			return nil, err
		}
		entry.Tags, err = linkTags(ctx, tx, id, *fields.Tags)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if fields.Tags == nil {
		tagsByEntry, err := s.loadTags(ctx, []uuid.UUID{id})
		if err != nil {
			return nil, err
		}
		entry.Tags = tagsByEntry[id]
	}
	return &entry, nil
}

func (s *PostgresStore) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	// entry_tags links go via ON DELETE CASCADE; shared tags are never dropped.
	result, err := s.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// linkTags implements connect-or-create inside the caller's transaction:
// look up each tag by name, create it if absent, then link by id. Names are
// deduplicated case-insensitively before linking.
func linkTags(ctx context.Context, tx *sql.Tx, entryID uuid.UUID, tags []string) ([]string, error) {
	linked := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))

	for _, raw := range tags {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tagID uuid.UUID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name).Scan(&tagID)
		if err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entry_tags (entry_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, entryID, tagID); err != nil {
			return nil, err
		}
		linked = append(linked, name)
	}
	return linked, nil
}

func (s *PostgresStore) queryEntries(ctx context.Context, query string, args ...interface{}) ([]models.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.JournalEntry, 0)
	var ids []uuid.UUID
	for rows.Next() {
		var entry models.JournalEntry
		if err := rows.Scan(
			&entry.ID, &entry.OwnerID, &entry.Title, &entry.Content,
			&entry.Category, &entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		ids = append(ids, entry.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tagsByEntry, err := s.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Tags = tagsByEntry[entries[i].ID]
	}
	return entries, nil
}

// loadTags fetches tag names for a batch of entries in one query.
func (s *PostgresStore) loadTags(ctx context.Context, entryIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	tagsByEntry := make(map[uuid.UUID][]string, len(entryIDs))
	if len(entryIDs) == 0 {
		return tagsByEntry, nil
	}

	ids := make([]string, len(entryIDs))
	for i, id := range entryIDs {
		ids[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT et.entry_id, t.name
		FROM entry_tags et
		JOIN tags t ON t.id = et.tag_id
		WHERE et.entry_id = ANY($1)
		ORDER BY t.name
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entryID uuid.UUID
		var name string
		if err := rows.Scan(&entryID, &name); err != nil {
			return nil, err
		}
		tagsByEntry[entryID] = append(tagsByEntry[entryID], name)
	}
	return tagsByEntry, rows.Err()
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return page, limit
}

var _ Store = (*PostgresStore)(nil)
