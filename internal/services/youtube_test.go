package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const searchBody = `{
  "items": [
    {
      "id": {"videoId": "vid1"},
      "snippet": {
        "title": "Intro to torque",
        "channelTitle": "Physics Channel",
        "description": "Twist-force basics.",
        "publishedAt": "2024-01-01T00:00:00Z",
        "thumbnails": {"medium": {"url": "https://img.example/vid1.jpg"}}
      }
    },
    {
      "id": {"videoId": "vid2"},
      "snippet": {
        "title": "Advanced rotation",
        "channelTitle": "Science Academy",
        "description": "",
        "publishedAt": "2024-01-02T00:00:00Z",
        "thumbnails": {"medium": {"url": "https://img.example/vid2.jpg"}}
      }
    }
  ]
}`

const videosBody = `{
  "items": [
    {
      "id": "vid1",
      "statistics": {"viewCount": "1234567"},
      "contentDetails": {"duration": "PT1H2M3S"}
    },
    {
      "id": "vid2",
      "statistics": {"viewCount": "850000"},
      "contentDetails": {"duration": "PT10M30S"}
    }
  ]
}`

func newTestYouTubeClient(t *testing.T, handler http.HandlerFunc) *YouTubeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewYouTubeClient("test-key", zap.NewNop())
	c.baseURL = srv.URL
	return c
}

func TestYouTubeSearch(t *testing.T) {
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "torque", r.URL.Query().Get("q"))
			w.Write([]byte(searchBody))
		case "/videos":
			assert.Equal(t, "vid1,vid2", r.URL.Query().Get("id"))
			w.Write([]byte(videosBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	videos, err := c.Search(context.Background(), "torque", 12)
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, "vid1", videos[0].VideoID)
	assert.Equal(t, "Intro to torque", videos[0].Title)
	assert.Equal(t, "Physics Channel", videos[0].Channel)
	assert.Equal(t, "1:02:03", videos[0].Duration)
	assert.Equal(t, "1.2M", videos[0].ViewCount)

	assert.Equal(t, "10:30", videos[1].Duration)
	assert.Equal(t, "850.0K", videos[1].ViewCount)
}

func TestYouTubeSearchQuotaExceeded(t *testing.T) {
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded"}]}}`))
	})

	_, err := c.Search(context.Background(), "torque", 12)
	assert.True(t, errors.Is(err, ErrQuotaExceeded), "got %v", err)
}

func TestYouTubeSearchNotConfigured(t *testing.T) {
	c := NewYouTubeClient("", zap.NewNop())
	_, err := c.Search(context.Background(), "torque", 12)
	assert.True(t, errors.Is(err, ErrNotConfigured), "got %v", err)
}

func TestYouTubeSearchNoResults(t *testing.T) {
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	})

	videos, err := c.Search(context.Background(), "nothing", 12)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestFormatDuration(t *testing.T) {
	cases := map[string]string{
		"PT1H2M3S": "1:02:03",
		"PT10M30S": "10:30",
		"PT45S":    "0:45",
		"PT2H":     "2:00:00",
		"PT0S":     "0:00",
		"garbage":  "0:00",
	}
	for iso, want := range cases {
		assert.Equal(t, want, FormatDuration(iso), "duration %q", iso)
	}
}

func TestFormatViewCount(t *testing.T) {
	assert.Equal(t, "42", FormatViewCount(42))
	assert.Equal(t, "1.5K", FormatViewCount(1500))
	assert.Equal(t, "2.3M", FormatViewCount(2_300_000))
}
