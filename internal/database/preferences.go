package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/scoratis/scoratis-backend/internal/models"
)

// PreferenceUpdate carries partial updates; nil fields are left untouched.
type PreferenceUpdate struct {
	Theme                *string
	Language             *string
	AutoSave             *bool
	NotificationSettings *string // JSON object
}

func (s *Store) GetPreferences(ctx context.Context) (*models.UserPreference, error) {
	var p models.UserPreference
	var notifications sql.NullString
	err := s.db.QueryRowContext(ctx, `
        SELECT id, user_id, theme, language, auto_save, notification_settings, created_at, updated_at
        FROM user_preferences
        WHERE user_id = ?`, models.DefaultUserID).
		Scan(&p.ID, &p.UserID, &p.Theme, &p.Language, &p.AutoSave, &notifications,
			&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if notifications.Valid {
		p.NotificationSettings = &notifications.String
	}
	return &p, nil
}

func (s *Store) UpdatePreferences(ctx context.Context, upd PreferenceUpdate) error {
	sets := []string{}
	args := []interface{}{}

	if upd.Theme != nil {
		sets = append(sets, "theme = ?")
		args = append(args, *upd.Theme)
	}
	if upd.Language != nil {
		sets = append(sets, "language = ?")
		args = append(args, *upd.Language)
	}
	if upd.AutoSave != nil {
		sets = append(sets, "auto_save = ?")
		args = append(args, *upd.AutoSave)
	}
	if upd.NotificationSettings != nil {
		sets = append(sets, "notification_settings = ?")
		args = append(args, *upd.NotificationSettings)
	}
	if len(sets) == 0 {
		return ErrNoFields
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, models.DefaultUserID)

	query := "UPDATE user_preferences SET " + strings.Join(sets, ", ") + " WHERE user_id = ?"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRows(res)
}
