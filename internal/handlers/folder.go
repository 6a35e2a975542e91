package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/scoratis/scoratis-backend/internal/database"
)

type createFolderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type updateFolderRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (h *Handler) GetFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.store.GetFolders(r.Context())
	if err != nil {
		h.logger.Error("failed to list folders", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch folders")
		return
	}
	respondJSON(w, http.StatusOK, folders)
}

func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Folder name is required")
		return
	}

	id, err := h.store.CreateFolder(r.Context(), req.Name, strings.TrimSpace(req.Description), req.Color)
	if err != nil {
		h.logger.Error("failed to create folder", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create folder")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"message": "Folder created successfully",
	})
}

func (h *Handler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req updateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.store.UpdateFolder(r.Context(), id, database.FolderUpdate{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	switch {
	case errors.Is(err, database.ErrNoFields):
		respondError(w, http.StatusBadRequest, "No changes made")
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "Folder not found")
	case err != nil:
		h.logger.Error("failed to update folder", zap.Error(err), zap.Int64("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to update folder")
	default:
		respondJSON(w, http.StatusOK, messageResponse{"Folder updated successfully"})
	}
}

// DeleteFolder removes a folder; its journals survive with the folder
// reference cleared.
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	err := h.store.DeleteFolder(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Folder not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete folder", zap.Error(err), zap.Int64("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to delete folder")
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{"Folder deleted successfully"})
}
