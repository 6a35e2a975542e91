package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/scoratis/scoratis-backend/internal/database"
	"github.com/scoratis/scoratis-backend/internal/models"
	"github.com/scoratis/scoratis-backend/internal/services"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

type clearChatRequest struct {
	SessionID string `json:"session_id"`
}

type deleteConversationRequest struct {
	Permanent bool `json:"permanent"`
}

// Chat is the tutor endpoint. The user message is persisted before the model
// call; the assistant reply is only persisted when the call succeeds, so a
// failed call leaves no partial reply behind.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "No message provided")
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	if _, err := h.store.AddChatMessage(r.Context(), req.SessionID, models.RoleUser, req.Message); err != nil {
		h.logger.Error("failed to save user message", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to save message")
		return
	}

	reply, err := h.chat.Reply(r.Context(), req.SessionID, req.Message)
	if errors.Is(err, services.ErrChatNotConfigured) {
		respondError(w, http.StatusServiceUnavailable, "Tutor is not configured")
		return
	}
	if err != nil {
		h.logger.Error("tutor reply failed",
			zap.Error(err),
			zap.String("session_id", req.SessionID))
		respondError(w, http.StatusBadGateway, "Tutor is unavailable right now")
		return
	}

	if _, err := h.store.AddChatMessage(r.Context(), req.SessionID, models.RoleAssistant, reply); err != nil {
		h.logger.Error("failed to save assistant message", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to save message")
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{Reply: reply, SessionID: req.SessionID})
}

// ClearChat resets the session's context window. Message history stays in
// the database.
func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	var req clearChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	h.chat.ClearMemory(r.Context(), req.SessionID)
	respondJSON(w, http.StatusOK, map[string]string{
		"message":    "Conversation memory cleared",
		"session_id": req.SessionID,
	})
}

// GetChatHistory lists recent conversations, trashed ones excluded.
func (h *Handler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20, 50)

	conversations, err := h.store.ListConversations(r.Context(), limit, false)
	if err != nil {
		h.logger.Error("failed to list conversations", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch conversations")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}

// GetConversationMessages returns the full ordered history for a session.
func (h *Handler) GetConversationMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.store.GetConversationMessages(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to fetch messages", zap.Error(err), zap.String("session_id", sessionID))
		respondError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"messages":   messages,
		"session_id": sessionID,
	})
}

// DeleteConversation moves a conversation to the trash, or hard-deletes it
// together with its messages when the body asks for a permanent delete.
func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req deleteConversationRequest
	// The body is optional; absent means a soft delete.
	_ = json.NewDecoder(r.Body).Decode(&req)

	var err error
	if req.Permanent {
		err = h.store.DeleteConversationPermanently(r.Context(), id)
	} else {
		err = h.store.TrashConversation(r.Context(), id)
	}
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete conversation", zap.Error(err), zap.Int64("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}

	if req.Permanent {
		respondJSON(w, http.StatusOK, messageResponse{"Conversation permanently deleted"})
	} else {
		respondJSON(w, http.StatusOK, messageResponse{"Conversation moved to trash"})
	}
}

func (h *Handler) RestoreConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	err := h.store.RestoreConversation(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to restore conversation", zap.Error(err), zap.Int64("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to restore conversation")
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{"Conversation restored successfully"})
}

func (h *Handler) GetTrash(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50, 100)

	conversations, err := h.store.ListConversations(r.Context(), limit, true)
	if err != nil {
		h.logger.Error("failed to list trash", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch trash")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}

func (h *Handler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.EmptyTrash(r.Context())
	if err != nil {
		h.logger.Error("failed to empty trash", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to empty trash")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Trash emptied successfully",
		"deleted": deleted,
	})
}
