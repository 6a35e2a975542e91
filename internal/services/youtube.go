package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scoratis/scoratis-backend/internal/models"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

var (
	// ErrQuotaExceeded is returned when the API key's daily quota is spent.
	ErrQuotaExceeded = errors.New("youtube: quota exceeded")
	// ErrNotConfigured is returned when no API key was provided.
	ErrNotConfigured = errors.New("youtube: api key not configured")
)

// YouTubeClient searches the YouTube Data API and decorates results with
// duration and view-count details.
type YouTubeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewYouTubeClient(apiKey string, logger *zap.Logger) *YouTubeClient {
	return &YouTubeClient{
		apiKey:  apiKey,
		baseURL: defaultYouTubeBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Description  string `json:"description"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// Search runs a video search and returns formatted results. Ranking and
// deduplication are left entirely to the API.
func (c *YouTubeClient) Search(ctx context.Context, query string, maxResults int) ([]models.Video, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("order", "relevance")
	params.Set("safeSearch", "moderate")
	params.Set("videoEmbeddable", "true")
	params.Set("key", c.apiKey)

	var search searchResponse
	if err := c.get(ctx, "/search", params, &search); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return []models.Video{}, nil
	}

	params = url.Values{}
	params.Set("part", "statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", c.apiKey)

	var details videosResponse
	if err := c.get(ctx, "/videos", params, &details); err != nil {
		return nil, err
	}

	type detail struct {
		duration  string
		viewCount string
	}
	byID := make(map[string]detail, len(details.Items))
	for _, item := range details.Items {
		byID[item.ID] = detail{item.ContentDetails.Duration, item.Statistics.ViewCount}
	}

	videos := make([]models.Video, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID == "" {
			continue
		}
		d := byID[item.ID.VideoID]
		views, _ := strconv.ParseInt(d.viewCount, 10, 64)

		description := item.Snippet.Description
		if len(description) > 200 {
			description = description[:200] + "..."
		}

		videos = append(videos, models.Video{
			VideoID:     item.ID.VideoID,
			Title:       item.Snippet.Title,
			Channel:     item.Snippet.ChannelTitle,
			Thumbnail:   item.Snippet.Thumbnails.Medium.URL,
			Description: description,
			PublishedAt: item.Snippet.PublishedAt,
			Duration:    FormatDuration(d.duration),
			ViewCount:   FormatViewCount(views),
		})
	}

	c.logger.Debug("video search completed",
		zap.String("query", query),
		zap.Int("results", len(videos)))
	return videos, nil
}

func (c *YouTubeClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("youtube: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
			for _, e := range apiErr.Error.Errors {
				if e.Reason == "quotaExceeded" {
					return ErrQuotaExceeded
				}
			}
			if apiErr.Error.Message != "" {
				return fmt.Errorf("youtube: %s (status %d)", apiErr.Error.Message, resp.StatusCode)
			}
		}
		return fmt.Errorf("youtube: unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatDuration renders an ISO-8601 video duration (PT1H2M3S) as H:MM:SS,
// or M:SS when under an hour.
func FormatDuration(iso string) string {
	m := durationPattern.FindStringSubmatch(iso)
	if m == nil {
		return "0:00"
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatViewCount renders a view count as 1.2M / 850.0K / 42.
func FormatViewCount(count int64) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK", float64(count)/1_000)
	default:
		return strconv.FormatInt(count, 10)
	}
}
