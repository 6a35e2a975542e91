package database

import (
	"context"
	"database/sql"

	"github.com/scoratis/scoratis-backend/internal/models"
)

// AddVideoToHistory records a watched video. Re-watching the same video
// refreshes the existing row rather than duplicating it.
func (s *Store) AddVideoToHistory(ctx context.Context, e models.VideoHistoryEntry) (int64, error) {
	// There is no uniqueness constraint on video_id, so emulate the
	// refresh-on-rewatch behavior with a delete-then-insert.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM video_history WHERE video_id = ? AND user_id = ?`,
		e.VideoID, models.DefaultUserID); err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
        INSERT INTO video_history (video_id, title, channel, thumbnail_url, search_query, user_id, watched_at)
        VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
        RETURNING id`,
		e.VideoID, e.Title, e.Channel, e.ThumbnailURL, e.SearchQuery, models.DefaultUserID).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

func (s *Store) GetVideoHistory(ctx context.Context, limit int) ([]models.VideoHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, video_id, title, channel, thumbnail_url, search_query, user_id, watched_at
        FROM video_history
        WHERE user_id = ?
        ORDER BY watched_at DESC, id DESC
        LIMIT ?`, models.DefaultUserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]models.VideoHistoryEntry, 0)
	for rows.Next() {
		var e models.VideoHistoryEntry
		var channel, thumbnail, query sql.NullString
		err := rows.Scan(&e.ID, &e.VideoID, &e.Title, &channel, &thumbnail, &query,
			&e.UserID, &e.WatchedAt)
		if err != nil {
			return nil, err
		}
		e.Channel = channel.String
		e.ThumbnailURL = thumbnail.String
		e.SearchQuery = query.String
		history = append(history, e)
	}
	return history, rows.Err()
}
