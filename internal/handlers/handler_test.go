package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scoratis/scoratis-backend/internal/database"
	"github.com/scoratis/scoratis-backend/internal/handlers"
	"github.com/scoratis/scoratis-backend/internal/models"
	"github.com/scoratis/scoratis-backend/internal/routes"
	"github.com/scoratis/scoratis-backend/internal/services"
)

var errMockLLM = errors.New("model unavailable")

// mockChat implements handlers.ChatService.
type mockChat struct {
	ReplyFunc   func(ctx context.Context, sessionID, message string) (string, error)
	ClearedWith []string
}

func (m *mockChat) Reply(ctx context.Context, sessionID, message string) (string, error) {
	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, sessionID, message)
	}
	return "What do you already know about that?", nil
}

func (m *mockChat) ClearMemory(ctx context.Context, sessionID string) {
	m.ClearedWith = append(m.ClearedWith, sessionID)
}

// mockVideos implements handlers.VideoSearcher.
type mockVideos struct {
	SearchFunc func(ctx context.Context, query string, maxResults int) ([]models.Video, error)
}

func (m *mockVideos) Search(ctx context.Context, query string, maxResults int) ([]models.Video, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, maxResults)
	}
	return []models.Video{}, nil
}

type testServer struct {
	store  *database.Store
	chat   *mockChat
	videos *mockVideos
	router *chi.Mux
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	chat := &mockChat{}
	videos := &mockVideos{}
	h := handlers.New(store, chat, videos, zap.NewNop())

	router := chi.NewRouter()
	routes.SetupRoutes(router, h)

	return &testServer{store: store, chat: chat, videos: videos, router: router}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestJournalCreateFetchRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/journals", map[string]interface{}{
		"title":   "My first entry",
		"content": "Learned about torque today.",
		"tags":    []string{"physics", "notes"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &created)
	require.NotZero(t, created.ID)

	rec = ts.do(t, http.MethodGet, "/journals", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var journals []models.Journal
	decode(t, rec, &journals)
	require.Len(t, journals, 1)
	assert.Equal(t, "My first entry", journals[0].Title)
	assert.Equal(t, "Learned about torque today.", journals[0].Content)
	assert.Equal(t, []string{"physics", "notes"}, journals[0].Tags)
}

func TestJournalValidation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/journals", map[string]interface{}{"title": "No content"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown folder reference is a validation error, not a 500.
	folderID := int64(999)
	rec = ts.do(t, http.MethodPost, "/journals", map[string]interface{}{
		"title": "t", "content": "c", "folder_id": folderID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/journals/12345", map[string]interface{}{"title": "t"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/journals/12345", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShareToggleControlsPublicAccess(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/journals", map[string]interface{}{
		"title": "Shared entry", "content": "visible",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &created)

	rec = ts.do(t, http.MethodPost, "/journals/1/share", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var share struct {
		IsShared   bool   `json:"is_shared"`
		ShareToken string `json:"share_token"`
		ShareURL   string `json:"share_url"`
	}
	decode(t, rec, &share)
	require.True(t, share.IsShared)
	require.NotEmpty(t, share.ShareToken)
	assert.Contains(t, share.ShareURL, "/shared/"+share.ShareToken)

	rec = ts.do(t, http.MethodGet, "/shared/"+share.ShareToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Toggle off: the public link dies.
	rec = ts.do(t, http.MethodPost, "/journals/1/share", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/shared/"+share.ShareToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatPersistsBothSides(t *testing.T) {
	ts := newTestServer(t)
	ts.chat.ReplyFunc = func(ctx context.Context, sessionID, message string) (string, error) {
		return "Which part of rotation puzzles you most?", nil
	}

	rec := ts.do(t, http.MethodPost, "/chat", map[string]interface{}{
		"message":    "I don't understand rotation",
		"session_id": "sess-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Reply     string `json:"reply"`
		SessionID string `json:"session_id"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "Which part of rotation puzzles you most?", resp.Reply)
	assert.Equal(t, "sess-1", resp.SessionID)

	msgs, err := ts.store.GetConversationMessages(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
}

func TestChatLLMFailureLeavesNoPartialReply(t *testing.T) {
	ts := newTestServer(t)
	ts.chat.ReplyFunc = func(ctx context.Context, sessionID, message string) (string, error) {
		return "", errMockLLM
	}

	rec := ts.do(t, http.MethodPost, "/chat", map[string]interface{}{
		"message":    "hello",
		"session_id": "sess-err",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// The user message is kept; no assistant row was written.
	msgs, err := ts.store.GetConversationMessages(context.Background(), "sess-err")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
}

func TestChatWithoutConfiguredTutor(t *testing.T) {
	ts := newTestServer(t)
	ts.chat.ReplyFunc = func(ctx context.Context, sessionID, message string) (string, error) {
		return "", services.ErrChatNotConfigured
	}

	rec := ts.do(t, http.MethodPost, "/chat", map[string]interface{}{
		"message":    "hello",
		"session_id": "sess-unconf",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// The user message is still recorded for when the tutor comes online.
	msgs, err := ts.store.GetConversationMessages(context.Background(), "sess-unconf")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
}

func TestChatValidation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/chat", map[string]interface{}{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearChatKeepsHistory(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/chat", map[string]interface{}{
		"message": "remember this", "session_id": "sess-clear",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/chat/clear", map[string]interface{}{"session_id": "sess-clear"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sess-clear"}, ts.chat.ClearedWith)

	// History survives a memory clear.
	msgs, err := ts.store.GetConversationMessages(context.Background(), "sess-clear")
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestTrashFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/chat", map[string]interface{}{
		"message": "hello", "session_id": "sess-t",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		Conversations []models.Conversation `json:"conversations"`
	}
	rec = ts.do(t, http.MethodGet, "/chat/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &history)
	require.Len(t, history.Conversations, 1)
	convID := history.Conversations[0].ID

	// Soft delete: gone from history, present in trash.
	rec = ts.do(t, http.MethodDelete, "/chat/conversation/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/chat/history", nil)
	decode(t, rec, &history)
	assert.Empty(t, history.Conversations)

	rec = ts.do(t, http.MethodGet, "/chat/trash", nil)
	decode(t, rec, &history)
	require.Len(t, history.Conversations, 1)
	assert.Equal(t, convID, history.Conversations[0].ID)

	// Restore: back in history with messages intact.
	rec = ts.do(t, http.MethodPost, "/chat/conversation/1/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/chat/history", nil)
	decode(t, rec, &history)
	require.Len(t, history.Conversations, 1)
	assert.Equal(t, int64(2), history.Conversations[0].MessageCount)

	// Trash again, empty, and the conversation is unrecoverable.
	rec = ts.do(t, http.MethodDelete, "/chat/conversation/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, "/chat/trash/empty", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/chat/conversation/1/restore", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVideoSearchAndWatch(t *testing.T) {
	ts := newTestServer(t)
	ts.videos.SearchFunc = func(ctx context.Context, query string, maxResults int) ([]models.Video, error) {
		assert.Equal(t, "torque", query)
		assert.Equal(t, 12, maxResults)
		return []models.Video{{VideoID: "vid1", Title: "Intro to torque"}}, nil
	}

	rec := ts.do(t, http.MethodGet, "/videos/search?q=torque", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var searchResp struct {
		Videos []models.Video `json:"videos"`
	}
	decode(t, rec, &searchResp)
	require.Len(t, searchResp.Videos, 1)

	rec = ts.do(t, http.MethodPost, "/videos/watch", map[string]interface{}{
		"video_id":     "vid1",
		"title":        "Intro to torque",
		"channel":      "Physics Channel",
		"search_query": "torque",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/videos/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []models.VideoHistoryEntry
	decode(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "vid1", entries[0].VideoID)
}

func TestVideoSearchErrors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/videos/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.videos.SearchFunc = func(ctx context.Context, query string, maxResults int) ([]models.Video, error) {
		return nil, errors.New("upstream broke")
	}
	rec = ts.do(t, http.MethodGet, "/videos/search?q=x", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestStatsAndHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/journals", map[string]interface{}{"title": "t", "content": "c"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats database.Stats
	decode(t, rec, &stats)
	assert.Equal(t, int64(1), stats.TotalJournals)

	rec = ts.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health struct {
		Status string `json:"status"`
	}
	decode(t, rec, &health)
	assert.Equal(t, "running", health.Status)
}

func TestPreferencesOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/preferences", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var prefs models.UserPreference
	decode(t, rec, &prefs)
	assert.Equal(t, "dark", prefs.Theme)

	rec = ts.do(t, http.MethodPut, "/preferences", map[string]interface{}{"theme": "light"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/preferences", nil)
	decode(t, rec, &prefs)
	assert.Equal(t, "light", prefs.Theme)
}
