package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChatServiceWithoutAPIKey(t *testing.T) {
	svc, err := NewChatService("https://api.openai.com/v1", "", "gpt-4o-mini", NewMemory(nil), zap.NewNop())
	require.NoError(t, err, "an empty key must not prevent construction")

	_, err = svc.Reply(context.Background(), "s1", "hello")
	assert.True(t, errors.Is(err, ErrChatNotConfigured), "got %v", err)

	// The failed call must not pollute the session window.
	assert.Empty(t, svc.memory.Window(context.Background(), "s1"))
}
