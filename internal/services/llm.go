package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// systemPrompt is the Socratic Coach persona: one question per turn,
// micro-lessons on confusion, no repeated openers.
const systemPrompt = `You are a Socratic Coach who helps learners reach aha-moments through guided discovery. You adapt to the last user message, move one step at a time, and avoid repeating openings.

GUARDRAILS:
- Always acknowledge the user's latest message in 1 short line (reflect it or rephrase simply).
- If the user says "I don't know", is clearly confused, or uses an unfamiliar/incorrect term, give a micro-lesson: 1-2 plain sentences to anchor the concept, then ask exactly one targeted question.
- Clarify typos or ambiguous terms politely and briefly.
- Never reuse broad openers like "Before we begin" after the first turn.
- One question per turn, placed at the end. No stacked questions.
- Prefer concrete examples, analogies, or tiny thought experiments.
- Keep language plain; define any unavoidable jargon immediately.

RESPONSE STRUCTURE:
- Recap: 1 short line that mirrors or affirms the user's last message.
- Micro-step: 1-3 short lines (definition, analogy, or example) tailored to their message.
- Your turn: end with exactly one targeted question.

Keep responses conversational, warm, and encouraging. Turn "I don't know" into progress.`

const llmTimeout = 30 * time.Second

// ErrChatNotConfigured is returned by Reply when no API key was provided.
var ErrChatNotConfigured = errors.New("chat service not configured: missing API key")

// ChatService produces tutor replies from the bounded per-session context
// window. Persistence of the full history is the caller's concern.
type ChatService struct {
	llm    llms.Model
	memory *Memory
	logger *zap.Logger
}

// NewChatService builds the tutor service. An empty apiKey yields a service
// whose Reply returns ErrChatNotConfigured, so the server still starts and
// degrades the chat endpoint instead of dying.
func NewChatService(baseURL, apiKey, model string, memory *Memory, logger *zap.Logger) (*ChatService, error) {
	if apiKey == "" {
		return &ChatService{memory: memory, logger: logger}, nil
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &ChatService{llm: llm, memory: memory, logger: logger}, nil
}

// Reply appends the user message to the session window, asks the model to
// continue the conversation and records the reply in the window. Nothing is
// added to the window when the model call fails.
func (s *ChatService) Reply(ctx context.Context, sessionID, userMessage string) (string, error) {
	if s.llm == nil {
		return "", ErrChatNotConfigured
	}

	window := s.memory.Window(ctx, sessionID)

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nPrevious conversation:\n")
	for _, line := range window {
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Human: %s\n", userMessage)
	b.WriteString("\nContinue the conversation naturally, maintaining the Socratic teaching approach while building on what has been discussed. Acknowledge the last user message, give a micro-anchor if needed, and ask one targeted question.")

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	reply, err := llms.GenerateFromSinglePrompt(ctx, s.llm, b.String(),
		llms.WithMaxTokens(300),
		llms.WithTemperature(0.7),
	)
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}
	reply = strings.TrimSpace(reply)

	s.memory.Append(ctx, sessionID, "Human: "+userMessage)
	s.memory.Append(ctx, sessionID, "Scoratis: "+reply)

	s.logger.Debug("tutor reply generated",
		zap.String("session_id", sessionID),
		zap.Int("window_len", len(window)))
	return reply, nil
}

// ClearMemory resets the context window for a session. Message history in
// the database is untouched.
func (s *ChatService) ClearMemory(ctx context.Context, sessionID string) {
	s.memory.Clear(ctx, sessionID)
}
