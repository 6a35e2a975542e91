package models

import "time"

// Folder groups journals. JournalCount is computed on list queries.
type Folder struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Color        string    `json:"color"`
	UserID       int64     `json:"user_id"`
	JournalCount int64     `json:"journal_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
