package database

import (
	"context"

	"github.com/scoratis/scoratis-backend/internal/models"
)

// Stats are the read-only aggregate counts exposed on /stats and /health.
type Stats struct {
	TotalJournals      int64 `json:"total_journals"`
	TotalFolders       int64 `json:"total_folders"`
	TotalConversations int64 `json:"total_conversations"`
	VideosWatched      int64 `json:"videos_watched"`
	JournalsThisWeek   int64 `json:"journals_this_week"`
}

func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	queries := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM journals WHERE user_id = ?`, &stats.TotalJournals},
		{`SELECT COUNT(*) FROM folders WHERE user_id = ?`, &stats.TotalFolders},
		{`SELECT COUNT(*) FROM conversations WHERE user_id = ?`, &stats.TotalConversations},
		{`SELECT COUNT(*) FROM video_history WHERE user_id = ?`, &stats.VideosWatched},
		{`SELECT COUNT(*) FROM journals WHERE user_id = ? AND created_at >= datetime('now', '-7 days')`, &stats.JournalsThisWeek},
	}

	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query, models.DefaultUserID).Scan(q.dest); err != nil {
			return nil, err
		}
	}
	return stats, nil
}
