package models

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is a named thread of chat messages keyed by a session id.
// IsDeleted marks it as trashed; trashed conversations stay restorable
// until the trash is emptied.
type Conversation struct {
	ID              int64      `json:"id"`
	SessionID       string     `json:"session_id"`
	Title           *string    `json:"title"`
	UserID          int64      `json:"user_id"`
	IsDeleted       bool       `json:"is_deleted"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
	MessageCount    int64      `json:"message_count"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ChatMessage is a single message inside a conversation. Messages are
// append-only; they are never updated once written.
type ChatMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SessionID      string    `json:"session_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
