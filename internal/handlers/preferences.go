package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/scoratis/scoratis-backend/internal/database"
)

type updatePreferencesRequest struct {
	Theme                *string `json:"theme"`
	Language             *string `json:"language"`
	AutoSave             *bool   `json:"auto_save"`
	NotificationSettings *string `json:"notification_settings"`
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.store.GetPreferences(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch preferences", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch preferences")
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req updatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.store.UpdatePreferences(r.Context(), database.PreferenceUpdate{
		Theme:                req.Theme,
		Language:             req.Language,
		AutoSave:             req.AutoSave,
		NotificationSettings: req.NotificationSettings,
	})
	switch {
	case errors.Is(err, database.ErrNoFields):
		respondError(w, http.StatusBadRequest, "No changes made")
	case err != nil:
		h.logger.Error("failed to update preferences", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update preferences")
	default:
		respondJSON(w, http.StatusOK, messageResponse{"Preferences updated successfully"})
	}
}
