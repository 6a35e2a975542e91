package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/scoratis/scoratis-backend/internal/models"
	"github.com/scoratis/scoratis-backend/internal/services"
)

type watchVideoRequest struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	Thumbnail   string `json:"thumbnail"`
	SearchQuery string `json:"search_query"`
}

// SearchVideos proxies a search query to the video API.
func (h *Handler) SearchVideos(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	maxResults := 12
	if s := r.URL.Query().Get("max_results"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			maxResults = parsed
		}
	}
	if maxResults > 25 {
		maxResults = 25
	}

	videos, err := h.videos.Search(r.Context(), query, maxResults)
	switch {
	case errors.Is(err, services.ErrNotConfigured):
		respondError(w, http.StatusServiceUnavailable, "Video search is not configured")
	case errors.Is(err, services.ErrQuotaExceeded):
		respondError(w, http.StatusTooManyRequests, "Video API quota exceeded. Please try again later.")
	case err != nil:
		h.logger.Error("video search failed", zap.Error(err), zap.String("query", query))
		respondError(w, http.StatusBadGateway, "Failed to fetch videos")
	default:
		respondJSON(w, http.StatusOK, map[string]interface{}{"videos": videos})
	}
}

// WatchVideo records that the user watched a video.
func (h *Handler) WatchVideo(w http.ResponseWriter, r *http.Request) {
	var req watchVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.VideoID) == "" || strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "video_id and title are required")
		return
	}

	id, err := h.store.AddVideoToHistory(r.Context(), models.VideoHistoryEntry{
		VideoID:      req.VideoID,
		Title:        req.Title,
		Channel:      req.Channel,
		ThumbnailURL: req.Thumbnail,
		SearchQuery:  req.SearchQuery,
	})
	if err != nil {
		h.logger.Error("failed to record watch", zap.Error(err), zap.String("video_id", req.VideoID))
		respondError(w, http.StatusInternalServerError, "Failed to record watch")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"message": "Video added to history",
	})
}

func (h *Handler) GetVideoHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50, 100)

	history, err := h.store.GetVideoHistory(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to fetch video history", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch video history")
		return
	}
	respondJSON(w, http.StatusOK, history)
}
