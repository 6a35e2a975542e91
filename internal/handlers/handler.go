package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/scoratis/scoratis-backend/internal/database"
	"github.com/scoratis/scoratis-backend/internal/models"
)

// ChatService produces tutor replies and manages the per-session context
// window.
type ChatService interface {
	Reply(ctx context.Context, sessionID, message string) (string, error)
	ClearMemory(ctx context.Context, sessionID string)
}

// VideoSearcher proxies a search query to the external video API.
type VideoSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.Video, error)
}

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	store  *database.Store
	chat   ChatService
	videos VideoSearcher
	logger *zap.Logger
}

func New(store *database.Store, chat ChatService, videos VideoSearcher, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		chat:   chat,
		videos: videos,
		logger: logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// urlID parses the {id} route parameter. Writes a 400 and returns false on
// garbage input.
func urlID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// queryLimit reads a ?limit= parameter clamped to [1, max].
func queryLimit(r *http.Request, def, max int) int {
	limit := def
	if s := r.URL.Query().Get("limit"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > max {
		limit = max
	}
	return limit
}
