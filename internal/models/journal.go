package models

import "time"

// Journal represents a single journaling entry. Tags are stored in SQLite as
// a JSON array and decoded by the database layer.
type Journal struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	FolderID   *int64    `json:"folder_id"`
	FolderName *string   `json:"folder_name,omitempty"`
	UserID     int64     `json:"user_id"`
	IsShared   bool      `json:"is_shared"`
	ShareToken *string   `json:"share_token,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
