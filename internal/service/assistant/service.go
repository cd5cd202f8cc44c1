// Package assistant routes each incoming message to the live Gemini session
// or the canned keyword responder and normalizes every failure of the live
// path into a fallback reply. Respond is total: callers always get a usable
// string, never an error.
package assistant

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/nightwavefest/backend/internal/analysis/canned"
	"github.com/nightwavefest/backend/internal/service/ai"
)

// InterruptedResponse is shown when the live model answers with empty text.
const InterruptedResponse = "Transmission interrupted. The signal was lost in the static. Try again."

// Source tells which path produced a reply.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Reply is the routing result.
type Reply struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// Model is the live reply path. *ai.Service implements it; tests substitute
// a fake.
type Model interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Service decides per message between the live and fallback paths.
type Service struct {
	model   Model
	latency time.Duration
}

// NewService creates the router. A nil model puts the service permanently in
// demo mode, answering from canned rules only.
func NewService(model Model, mockLatency time.Duration) *Service {
	return &Service{model: model, latency: mockLatency}
}

// LiveEnabled reports whether a live model was configured at startup.
func (s *Service) LiveEnabled() bool {
	return s.model != nil
}

// Respond implements the routing algorithm: no model or no session means a
// canned reply after the simulated round-trip delay; a failed remote call
// means an immediate canned reply; an empty live reply becomes the fixed
// interruption placeholder. No path returns an empty string.
func (s *Service) Respond(ctx context.Context, message string) Reply {
	if s.model == nil {
		s.wait(ctx)
		return Reply{Text: canned.Match(message), Source: SourceFallback}
	}

	text, err := s.model.Reply(ctx, message)
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			s.wait(ctx)
		} else {
			log.Printf("[assistant] live reply failed, using canned response: %v", err)
		}
		return Reply{Text: canned.Match(message), Source: SourceFallback}
	}

	if strings.TrimSpace(text) == "" {
		return Reply{Text: InterruptedResponse, Source: SourceLive}
	}
	return Reply{Text: text, Source: SourceLive}
}

// wait simulates the network round trip of the live path so the demo mode
// feels the same in the frontend. It returns early when the caller gives up.
func (s *Service) wait(ctx context.Context) {
	if s.latency <= 0 {
		return
	}

	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
