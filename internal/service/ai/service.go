// Package ai wraps the Gemini chat session used for live assistant replies.
package ai

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nightwavefest/backend/internal/config"
)

// ErrUnavailable reports that no live chat session can be constructed. The
// caller is expected to degrade to the canned responder, never to surface
// this to end users.
var ErrUnavailable = errors.New("live chat session unavailable")

// Service owns the process-wide Gemini chat session. The session is created
// lazily on first use and reused for every subsequent reply; a failed
// creation is cached and the service stays unavailable for the rest of the
// process lifetime.
type Service struct {
	client *genai.Client
	cfg    config.AIConfig

	mu          sync.Mutex
	chat        *genai.Chat
	unavailable bool

	// sendMu serializes turns on the shared chat session, which keeps an
	// ordered server-side history and is not safe for concurrent sends.
	sendMu sync.Mutex
}

// NewService creates the AI service around an already constructed client.
func NewService(client *genai.Client, cfg config.AIConfig) *Service {
	return &Service{client: client, cfg: cfg}
}

// StreamingEnabled indicates whether SSE chunked output is configured.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// session returns the memoized chat session, creating it on first call.
// Creation happens at most once: both success and failure are cached.
func (s *Service) session(ctx context.Context) (*genai.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chat != nil {
		return s.chat, nil
	}
	if s.unavailable {
		return nil, ErrUnavailable
	}

	chat, err := s.client.Chats.Create(ctx, s.cfg.Model, s.generateConfig(), nil)
	if err != nil {
		s.unavailable = true
		log.Printf("[ai] failed to create chat session, staying in fallback mode: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.chat = chat
	log.Printf("[ai] chat session ready, model=%s", s.cfg.Model)
	return s.chat, nil
}

// Ready reports whether a live chat session exists or can be created. The
// first call may construct the session; the outcome is memoized either way,
// so repeated calls are cheap and idempotent.
func (s *Service) Ready(ctx context.Context) bool {
	_, err := s.session(ctx)
	return err == nil
}

func (s *Service) generateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	if s.cfg.Temperature != nil {
		temp := float32(*s.cfg.Temperature)
		cfg.Temperature = &temp
	}
	if s.cfg.MaxTokens != nil {
		cfg.MaxOutputTokens = int32(*s.cfg.MaxTokens)
	}

	return cfg
}

// Reply submits the user message to the remote session and returns the model
// text. The text may be empty when the model returns no usable candidate;
// deciding what to show for that case is the router's concern.
func (s *Service) Reply(ctx context.Context, message string) (string, error) {
	chat, err := s.session(ctx)
	if err != nil {
		return "", err
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}

// ReplyStream submits the user message and yields reply text chunks as the
// model produces them. The returned sequence ends with a non-nil error when
// the stream breaks mid-reply.
func (s *Service) ReplyStream(ctx context.Context, message string) (iter.Seq2[string, error], error) {
	chat, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	return func(yield func(string, error) bool) {
		s.sendMu.Lock()
		defer s.sendMu.Unlock()

		for resp, err := range chat.SendMessageStream(ctx, genai.Part{Text: message}) {
			if err != nil {
				yield("", fmt.Errorf("stream message: %w", err))
				return
			}
			if chunk := resp.Text(); chunk != "" {
				if !yield(chunk, nil) {
					return
				}
			}
		}
	}, nil
}
