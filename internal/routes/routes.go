package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/scoratis/scoratis-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux, h *handlers.Handler) {
	// Journaling routes
	r.Get("/journals", h.GetJournals)
	r.Post("/journals", h.CreateJournal)
	r.Get("/journals/{id}", h.GetJournal)
	r.Put("/journals/{id}", h.UpdateJournal)
	r.Delete("/journals/{id}", h.DeleteJournal)
	r.Post("/journals/{id}/share", h.ToggleJournalShare)

	// Public read-only view of a shared journal
	r.Get("/shared/{token}", h.GetSharedJournal)

	// Folder routes
	r.Get("/folders", h.GetFolders)
	r.Post("/folders", h.CreateFolder)
	r.Put("/folders/{id}", h.UpdateFolder)
	r.Delete("/folders/{id}", h.DeleteFolder)

	// Chat tutor routes
	r.Post("/chat", h.Chat)
	r.Post("/chat/clear", h.ClearChat)
	r.Get("/chat/history", h.GetChatHistory)
	r.Get("/chat/conversation/{sessionID}", h.GetConversationMessages)
	r.Delete("/chat/conversation/{id}", h.DeleteConversation)
	r.Post("/chat/conversation/{id}/restore", h.RestoreConversation)
	r.Get("/chat/trash", h.GetTrash)
	r.Post("/chat/trash/empty", h.EmptyTrash)

	// Video routes
	r.Get("/videos/search", h.SearchVideos)
	r.Post("/videos/watch", h.WatchVideo)
	r.Get("/videos/history", h.GetVideoHistory)

	// Preferences
	r.Get("/preferences", h.GetPreferences)
	r.Put("/preferences", h.UpdatePreferences)

	// Meta
	r.Get("/stats", h.GetStats)
	r.Get("/health", h.HealthCheck)
}
