package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	memoryKeyPrefix = "chat:session:"
	memoryKeySuffix = ":window"
	// MemoryWindowSize bounds the context sent to the model per session.
	MemoryWindowSize = 10
	memoryTTL        = 1 * time.Hour
	memoryOpTimeout  = 2 * time.Second
)

func memoryKey(sessionID string) string {
	return memoryKeyPrefix + sessionID + memoryKeySuffix
}

// Memory holds the bounded per-session conversation window used as LLM
// context. It is backed by Redis when a client is provided and falls back to
// an in-process map otherwise. Clearing a session drops the window only;
// persisted chat history is untouched.
type Memory struct {
	rdb *redis.Client

	mu       sync.Mutex
	sessions map[string][]string
}

func NewMemory(rdb *redis.Client) *Memory {
	return &Memory{
		rdb:      rdb,
		sessions: make(map[string][]string),
	}
}

// NewRedisClient connects to Redis with the pool and timeout settings used
// for short-lived cache operations. Returns an error when the server is
// unreachable so the caller can fall back to in-process memory.
func NewRedisClient(redisURI string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, err
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Append adds a line to the session window, trimming it to the last
// MemoryWindowSize entries.
func (m *Memory) Append(ctx context.Context, sessionID, line string) {
	if m.rdb != nil {
		ctx, cancel := context.WithTimeout(ctx, memoryOpTimeout)
		defer cancel()

		key := memoryKey(sessionID)
		pipe := m.rdb.Pipeline()
		pipe.LPush(ctx, key, line)
		pipe.LTrim(ctx, key, 0, MemoryWindowSize-1)
		pipe.Expire(ctx, key, memoryTTL)
		if _, err := pipe.Exec(ctx); err == nil {
			return
		}
		// Redis hiccup: keep the session usable via the local window.
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	window := append(m.sessions[sessionID], line)
	if len(window) > MemoryWindowSize {
		window = window[len(window)-MemoryWindowSize:]
	}
	m.sessions[sessionID] = window
}

// Window returns the session's context lines, oldest first.
func (m *Memory) Window(ctx context.Context, sessionID string) []string {
	if m.rdb != nil {
		ctx, cancel := context.WithTimeout(ctx, memoryOpTimeout)
		defer cancel()

		raw, err := m.rdb.LRange(ctx, memoryKey(sessionID), 0, -1).Result()
		if err == nil && len(raw) > 0 {
			out := make([]string, 0, len(raw))
			for i := len(raw) - 1; i >= 0; i-- {
				out = append(out, raw[i])
			}
			return out
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	window := m.sessions[sessionID]
	out := make([]string, len(window))
	copy(out, window)
	return out
}

// Clear drops the session's context window.
func (m *Memory) Clear(ctx context.Context, sessionID string) {
	if m.rdb != nil {
		ctx, cancel := context.WithTimeout(ctx, memoryOpTimeout)
		defer cancel()
		m.rdb.Del(ctx, memoryKey(sessionID))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
