package database

import (
	"context"
	"database/sql"

	"github.com/scoratis/scoratis-backend/internal/models"
)

// GetOrCreateConversation looks up the conversation for a session id,
// creating it on first contact.
func (s *Store) GetOrCreateConversation(ctx context.Context, sessionID string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM conversations WHERE session_id = ? AND user_id = ?`,
		sessionID, models.DefaultUserID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	err = s.db.QueryRowContext(ctx, `
        INSERT INTO conversations (session_id, user_id, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        RETURNING id`,
		sessionID, models.DefaultUserID).Scan(&id)
	return id, err
}

// AddChatMessage appends a message to the session's conversation, creating
// the conversation if needed. The conversation's title is derived from its
// first user message. Returns the conversation id.
func (s *Store) AddChatMessage(ctx context.Context, sessionID, role, content string) (int64, error) {
	convID, err := s.GetOrCreateConversation(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO chat_messages (conversation_id, session_id, role, content)
        VALUES (?, ?, ?, ?)`,
		convID, sessionID, role, content)
	if err != nil {
		return 0, err
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, convID); err != nil {
		return 0, err
	}

	if role == models.RoleUser {
		if err := s.maybeSetTitle(ctx, convID, content); err != nil {
			return 0, err
		}
	}
	return convID, nil
}

func (s *Store) maybeSetTitle(ctx context.Context, convID int64, userMessage string) error {
	var title sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT title FROM conversations WHERE id = ?`, convID).Scan(&title)
	if err != nil {
		return err
	}
	if title.Valid && title.String != "" {
		return nil
	}

	t := []rune(userMessage)
	if len(t) > 50 {
		t = append(t[:50], []rune("...")...)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE conversations SET title = ? WHERE id = ?`, string(t), convID)
	return err
}

// GetConversationMessages returns the full message history for a session in
// insertion order.
func (s *Store) GetConversationMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT cm.id, cm.conversation_id, cm.session_id, cm.role, cm.content, cm.created_at
        FROM chat_messages cm
        JOIN conversations c ON cm.conversation_id = c.id
        WHERE cm.session_id = ? AND c.user_id = ?
        ORDER BY cm.id ASC`, sessionID, models.DefaultUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0)
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ListConversations returns recent conversations with message counts.
// trashed selects between the default listing and the trash view.
func (s *Store) ListConversations(ctx context.Context, limit int, trashed bool) ([]models.Conversation, error) {
	where := `WHERE c.user_id = ? AND (c.is_deleted = FALSE OR c.is_deleted IS NULL)`
	if trashed {
		where = `WHERE c.user_id = ? AND c.is_deleted = TRUE`
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT c.id, c.session_id, c.title, c.user_id, c.is_deleted, c.deleted_at,
               c.created_at, c.updated_at,
               COUNT(cm.id) as message_count,
               MAX(cm.created_at) as last_message_time
        FROM conversations c
        LEFT JOIN chat_messages cm ON c.id = cm.conversation_id
        `+where+`
        GROUP BY c.id
        ORDER BY c.updated_at DESC
        LIMIT ?`, models.DefaultUserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var c models.Conversation
		var title sql.NullString
		var deletedAt sql.NullTime
		var lastMessage sql.NullString
		err := rows.Scan(&c.ID, &c.SessionID, &title, &c.UserID, &c.IsDeleted, &deletedAt,
			&c.CreatedAt, &c.UpdatedAt, &c.MessageCount, &lastMessage)
		if err != nil {
			return nil, err
		}
		if title.Valid {
			c.Title = &title.String
		}
		if deletedAt.Valid {
			c.DeletedAt = &deletedAt.Time
		}
		if lastMessage.Valid {
			// MAX() loses the column's declared type, so the driver hands the
			// timestamp back as text.
			if t, err := parseSQLiteTime(lastMessage.String); err == nil {
				c.LastMessageTime = &t
			}
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// TrashConversation soft-deletes a conversation. Its messages are kept.
func (s *Store) TrashConversation(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE conversations
        SET is_deleted = TRUE, deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? AND user_id = ?`, id, models.DefaultUserID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// RestoreConversation brings a trashed conversation back into the default
// listing with its history intact.
func (s *Store) RestoreConversation(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE conversations
        SET is_deleted = FALSE, deleted_at = NULL, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? AND user_id = ?`, id, models.DefaultUserID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// DeleteConversationPermanently hard-deletes a conversation and its messages.
func (s *Store) DeleteConversationPermanently(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM chat_messages WHERE conversation_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM conversations WHERE id = ? AND user_id = ?`, id, models.DefaultUserID)
	if err != nil {
		return err
	}
	if err := requireRows(res); err != nil {
		return err
	}
	return tx.Commit()
}

// EmptyTrash hard-deletes every trashed conversation together with its
// messages. Returns the number of conversations removed.
func (s *Store) EmptyTrash(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
        DELETE FROM chat_messages
        WHERE conversation_id IN (
            SELECT id FROM conversations WHERE user_id = ? AND is_deleted = TRUE
        )`, models.DefaultUserID); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM conversations WHERE user_id = ? AND is_deleted = TRUE`, models.DefaultUserID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}
