package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/scoratis/scoratis-backend/internal/models"
)

// FolderUpdate carries partial updates; nil fields are left untouched.
type FolderUpdate struct {
	Name        *string
	Description *string
	Color       *string
}

func (s *Store) CreateFolder(ctx context.Context, name, description, color string) (int64, error) {
	if color == "" {
		color = "#8A2BE2"
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO folders (name, description, color, user_id, updated_at)
        VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
        RETURNING id`,
		name, description, color, models.DefaultUserID).Scan(&id)
	return id, err
}

func (s *Store) GetFolders(ctx context.Context) ([]models.Folder, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT f.id, f.name, f.description, f.color, f.user_id,
               COUNT(j.id) as journal_count, f.created_at, f.updated_at
        FROM folders f
        LEFT JOIN journals j ON f.id = j.folder_id
        WHERE f.user_id = ?
        GROUP BY f.id
        ORDER BY f.updated_at DESC`, models.DefaultUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := make([]models.Folder, 0)
	for rows.Next() {
		var f models.Folder
		var description sql.NullString
		err := rows.Scan(&f.ID, &f.Name, &description, &f.Color, &f.UserID,
			&f.JournalCount, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, err
		}
		f.Description = description.String
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// FolderExists reports whether a folder id refers to a real folder.
func (s *Store) FolderExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM folders WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

func (s *Store) UpdateFolder(ctx context.Context, id int64, upd FolderUpdate) error {
	sets := []string{}
	args := []interface{}{}

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *upd.Color)
	}
	if len(sets) == 0 {
		return ErrNoFields
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, models.DefaultUserID)

	query := "UPDATE folders SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// DeleteFolder removes a folder. Its journals are kept and moved to
// uncategorized by clearing their folder reference first.
func (s *Store) DeleteFolder(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE journals SET folder_id = NULL WHERE folder_id = ?`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM folders WHERE id = ? AND user_id = ?`, id, models.DefaultUserID)
	if err != nil {
		return err
	}
	if err := requireRows(res); err != nil {
		return err
	}
	return tx.Commit()
}
