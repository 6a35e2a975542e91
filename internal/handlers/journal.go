package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/scoratis/scoratis-backend/internal/database"
)

type createJournalRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	FolderID *int64   `json:"folder_id"`
}

type updateJournalRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	FolderID *int64    `json:"folder_id"`
}

// GetJournals lists journals, optionally filtered by folder, tag or a free
// text search across title/content/tags.
func (h *Handler) GetJournals(w http.ResponseWriter, r *http.Request) {
	filter := database.JournalFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Tag:    strings.TrimSpace(r.URL.Query().Get("tag")),
	}
	if s := r.URL.Query().Get("folder_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid folder_id")
			return
		}
		filter.FolderID = &id
	}

	journals, err := h.store.GetJournals(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list journals", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch journals")
		return
	}
	respondJSON(w, http.StatusOK, journals)
}

func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	journal, err := h.store.GetJournal(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Journal not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch journal", zap.Error(err), zap.Int64("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to fetch journal")
		return
	}
	respondJSON(w, http.StatusOK, journal)
}

func (h *Handler) CreateJournal(w http.ResponseWriter, r *http.Request) {
	var req createJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		respondError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	if req.FolderID != nil {
		exists, err := h.store.FolderExists(r.Context(), *req.FolderID)
		if err != nil {
			h.logger.Error("failed to check folder", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to create journal")
			return
		}
		if !exists {
			respondError(w, http.StatusBadRequest, "Folder does not exist")
			return
		}
	}

	id, err := h.store.CreateJournal(r.Context(), req.Title, req.Content, req.Tags, req.FolderID)
	if err != nil {
		h.logger.Error("failed to create journal", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create journal")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"message": "Journal created successfully",
	})
}

func (h *Handler) UpdateJournal(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req updateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FolderID != nil {
		exists, err := h.store.FolderExists(r.Context(), *req.FolderID)
		if err != nil {
			h.logger.Error("failed to check folder", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to update journal")
			return
		}
		if !exists {
			respondError(w, http.StatusBadRequest, "Folder does not exist")
			return
		}
	}

	upd := database.JournalUpdate{
		Title:    req.Title,
		Content:  req.Content,
		FolderID: req.FolderID,
	}
	if req.Tags != nil {
		upd.Tags = *req.Tags
	}

	err := h.store.UpdateJournal(r.Context(), id, upd)
	switch {
	case errors.Is(err, database.ErrNoFields):
		respondError(w, http.StatusBadRequest, "No changes made")
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "Journal not found")
	case err != nil:
		h.logger.Error("failed to update journal", zap.Error(err), zap.Int64("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to update journal")
	default:
		respondJSON(w, http.StatusOK, messageResponse{"Journal updated successfully"})
	}
}

func (h *Handler) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	err := h.store.DeleteJournal(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Journal not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete journal", zap.Error(err), zap.Int64("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to delete journal")
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{"Journal deleted successfully"})
}

// ToggleJournalShare flips sharing on or off. Enabling returns a fresh share
// token and the public URL for it; disabling revokes the previous token.
func (h *Handler) ToggleJournalShare(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	shared, token, err := h.store.ToggleJournalShare(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Journal not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to toggle sharing", zap.Error(err), zap.Int64("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to toggle sharing")
		return
	}

	resp := map[string]interface{}{
		"message":   "Journal sharing toggled successfully",
		"is_shared": shared,
	}
	if shared {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		resp["share_token"] = token
		resp["share_url"] = scheme + "://" + r.Host + "/shared/" + token
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetSharedJournal is the unauthenticated read-only view behind a share
// token.
func (h *Handler) GetSharedJournal(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	journal, err := h.store.GetSharedJournal(r.Context(), token)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Shared journal not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch shared journal", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch shared journal")
		return
	}
	respondJSON(w, http.StatusOK, journal)
}
