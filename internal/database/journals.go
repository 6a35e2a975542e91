package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/scoratis/scoratis-backend/internal/models"
)

// JournalFilter narrows GetJournals. Zero values mean "no filter".
type JournalFilter struct {
	FolderID *int64
	Search   string // matches title, content or tags
	Tag      string // matches a single tag
}

// JournalUpdate carries partial updates; nil fields are left untouched.
type JournalUpdate struct {
	Title    *string
	Content  *string
	Tags     []string // nil means unchanged, empty slice clears
	FolderID *int64
}

func encodeTags(tags []string) (interface{}, error) {
	if tags == nil {
		return nil, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeTags(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw.String), &tags); err != nil {
		return []string{}
	}
	return tags
}

func (s *Store) CreateJournal(ctx context.Context, title, content string, tags []string, folderID *int64) (int64, error) {
	tagsJSON, err := encodeTags(tags)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
        INSERT INTO journals (title, content, tags, folder_id, user_id, updated_at)
        VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
        RETURNING id`,
		title, content, tagsJSON, folderID, models.DefaultUserID).Scan(&id)
	return id, err
}

func (s *Store) GetJournals(ctx context.Context, filter JournalFilter) ([]models.Journal, error) {
	query := `
        SELECT j.id, j.title, j.content, j.tags, j.folder_id, f.name,
               j.user_id, j.is_shared, j.share_token, j.created_at, j.updated_at
        FROM journals j
        LEFT JOIN folders f ON j.folder_id = f.id
        WHERE j.user_id = ?`
	args := []interface{}{models.DefaultUserID}

	if filter.FolderID != nil {
		query += ` AND j.folder_id = ?`
		args = append(args, *filter.FolderID)
	}
	if filter.Search != "" {
		query += ` AND (j.title LIKE ? OR j.content LIKE ? OR j.tags LIKE ?)`
		like := "%" + filter.Search + "%"
		args = append(args, like, like, like)
	}
	if filter.Tag != "" {
		// Tags are a JSON array of strings, so an exact tag is quoted.
		query += ` AND j.tags LIKE ?`
		args = append(args, `%"`+filter.Tag+`"%`)
	}
	query += ` ORDER BY j.updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	journals := make([]models.Journal, 0)
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		journals = append(journals, j)
	}
	return journals, rows.Err()
}

func (s *Store) GetJournal(ctx context.Context, id int64) (*models.Journal, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT j.id, j.title, j.content, j.tags, j.folder_id, f.name,
               j.user_id, j.is_shared, j.share_token, j.created_at, j.updated_at
        FROM journals j
        LEFT JOIN folders f ON j.folder_id = f.id
        WHERE j.id = ? AND j.user_id = ?`, id, models.DefaultUserID)

	j, err := scanJournal(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// GetSharedJournal resolves a share token. Only journals with sharing
// currently enabled are reachable this way.
func (s *Store) GetSharedJournal(ctx context.Context, token string) (*models.Journal, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT j.id, j.title, j.content, j.tags, j.folder_id, f.name,
               j.user_id, j.is_shared, j.share_token, j.created_at, j.updated_at
        FROM journals j
        LEFT JOIN folders f ON j.folder_id = f.id
        WHERE j.share_token = ? AND j.is_shared = TRUE`, token)

	j, err := scanJournal(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *Store) UpdateJournal(ctx context.Context, id int64, upd JournalUpdate) error {
	sets := []string{}
	args := []interface{}{}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *upd.Content)
	}
	if upd.Tags != nil {
		tagsJSON, err := encodeTags(upd.Tags)
		if err != nil {
			return err
		}
		sets = append(sets, "tags = ?")
		args = append(args, tagsJSON)
	}
	if upd.FolderID != nil {
		sets = append(sets, "folder_id = ?")
		args = append(args, *upd.FolderID)
	}
	if len(sets) == 0 {
		return ErrNoFields
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, models.DefaultUserID)

	query := "UPDATE journals SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (s *Store) DeleteJournal(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM journals WHERE id = ? AND user_id = ?`, id, models.DefaultUserID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// ToggleJournalShare flips the sharing flag. Enabling mints a fresh opaque
// token; disabling clears it so previously issued links stop resolving.
func (s *Store) ToggleJournalShare(ctx context.Context, id int64) (shared bool, token string, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, "", err
	}
	defer tx.Rollback()

	var isShared bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_shared FROM journals WHERE id = ? AND user_id = ?`,
		id, models.DefaultUserID).Scan(&isShared)
	if err == sql.ErrNoRows {
		return false, "", ErrNotFound
	}
	if err != nil {
		return false, "", err
	}

	if isShared {
		_, err = tx.ExecContext(ctx, `
            UPDATE journals
            SET is_shared = FALSE, share_token = NULL, updated_at = CURRENT_TIMESTAMP
            WHERE id = ?`, id)
		if err != nil {
			return false, "", err
		}
		return false, "", tx.Commit()
	}

	token = uuid.NewString()
	_, err = tx.ExecContext(ctx, `
        UPDATE journals
        SET is_shared = TRUE, share_token = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`, token, id)
	if err != nil {
		return false, "", err
	}
	return true, token, tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJournal(row rowScanner) (models.Journal, error) {
	var j models.Journal
	var tags sql.NullString
	var folderName sql.NullString
	var shareToken sql.NullString

	err := row.Scan(&j.ID, &j.Title, &j.Content, &tags, &j.FolderID, &folderName,
		&j.UserID, &j.IsShared, &shareToken, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return j, err
	}

	j.Tags = decodeTags(tags)
	if folderName.Valid {
		j.FolderName = &folderName.String
	}
	if shareToken.Valid {
		j.ShareToken = &shareToken.String
	}
	return j, nil
}
