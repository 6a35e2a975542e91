package models

import "time"

// Video is a single result returned from the video search API.
type Video struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
	Duration    string `json:"duration"`
	ViewCount   string `json:"view_count"`
}

// VideoHistoryEntry records a video the user actually watched.
type VideoHistoryEntry struct {
	ID           int64     `json:"id"`
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	Channel      string    `json:"channel"`
	ThumbnailURL string    `json:"thumbnail_url"`
	SearchQuery  string    `json:"search_query"`
	UserID       int64     `json:"user_id"`
	WatchedAt    time.Time `json:"watched_at"`
}
