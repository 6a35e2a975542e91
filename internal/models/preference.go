package models

import "time"

// UserPreference holds the singleton per-user settings row.
type UserPreference struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	Theme                string    `json:"theme"`
	Language             string    `json:"language"`
	AutoSave             bool      `json:"auto_save"`
	NotificationSettings *string   `json:"notification_settings"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
