// Package stream delivers assistant replies over Server-Sent Events. Live
// replies are forwarded chunk by chunk as the model produces them; fallback
// replies arrive as a single chunk after the simulated latency. Lifecycle
// frames (start, end, error) carry a typed SSE event name; reply chunks go
// out as default data frames so EventSource onmessage receives them.
package stream

import (
	"context"
	"fmt"
	"iter"
	"log"
	"net/http"
	"strings"

	"github.com/nightwavefest/backend/internal/model/chat"
	assistantservice "github.com/nightwavefest/backend/internal/service/assistant"
	chatservice "github.com/nightwavefest/backend/internal/service/chat"
	"github.com/nightwavefest/backend/pkg/utils"
)

// StreamModel is the live streaming path. *ai.Service implements it; tests
// substitute a fake sequence.
type StreamModel interface {
	StreamingEnabled() bool
	ReplyStream(ctx context.Context, message string) (iter.Seq2[string, error], error)
}

// Handler manages streaming assistant responses.
type Handler struct {
	assistantSvc *assistantservice.Service
	model        StreamModel
	chatSvc      *chatservice.Service
}

// New creates a stream handler. model may be nil when no credential is
// configured; every request is then served from the fallback path.
func New(assistantSvc *assistantservice.Service, model StreamModel, chatSvc *chatservice.Service) *Handler {
	return &Handler{
		assistantSvc: assistantSvc,
		model:        model,
		chatSvc:      chatSvc,
	}
}

// StreamResponse is a single SSE frame.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	Source    string `json:"source,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest answers one user message over an SSE stream.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	if _, err := h.chatSvc.GetSession(ctx, sessionID); err != nil {
		h.sendControl(w, flusher, StreamResponse{Event: "error", Error: "session not found"})
		return err
	}

	userMsg := chat.Message{
		SessionID: sessionID,
		Sender:    "user",
		Content:   userMessage,
	}
	if err := h.chatSvc.SaveMessage(ctx, userMsg); err != nil {
		log.Printf("[stream] failed to save user message: %v", err)
	}

	h.sendControl(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
	})

	reply := h.dispatchReply(ctx, w, flusher, sessionID, userMessage)

	assistantMsg := chat.Message{
		SessionID: sessionID,
		Sender:    "assistant",
		Content:   reply.Text,
		Source:    string(reply.Source),
	}
	if err := h.chatSvc.SaveMessage(ctx, assistantMsg); err != nil {
		log.Printf("[stream] failed to save assistant message: %v", err)
	}

	h.sendControl(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Source:    string(reply.Source),
		Finished:  true,
	})

	log.Printf("[stream] completed response for session=%s source=%s", sessionID, reply.Source)
	return nil
}

// dispatchReply streams the live reply when possible and otherwise emits a
// single fallback chunk. It always returns the full reply for persistence.
func (h *Handler) dispatchReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID, userMessage string) assistantservice.Reply {
	if h.model == nil || !h.model.StreamingEnabled() {
		reply := h.assistantSvc.Respond(ctx, userMessage)
		h.sendChunk(w, flusher, sessionID, reply.Text, reply.Source)
		return reply
	}

	seq, err := h.model.ReplyStream(ctx, userMessage)
	if err != nil {
		// No live session; Respond applies the simulated latency and the
		// canned rules without re-attempting the remote call.
		reply := h.assistantSvc.Respond(ctx, userMessage)
		h.sendChunk(w, flusher, sessionID, reply.Text, reply.Source)
		return reply
	}

	var full strings.Builder
	for chunk, err := range seq {
		if err != nil {
			log.Printf("[stream] live stream broke: %v", err)
			break
		}
		full.WriteString(chunk)
		h.sendChunk(w, flusher, sessionID, chunk, assistantservice.SourceLive)
	}

	if full.Len() == 0 {
		// Nothing usable arrived before the stream ended or broke.
		reply := assistantservice.Reply{
			Text:   assistantservice.InterruptedResponse,
			Source: assistantservice.SourceLive,
		}
		h.sendChunk(w, flusher, sessionID, reply.Text, reply.Source)
		return reply
	}

	return assistantservice.Reply{Text: full.String(), Source: assistantservice.SourceLive}
}

func (h *Handler) sendChunk(w http.ResponseWriter, flusher http.Flusher, sessionID, content string, source assistantservice.Source) {
	utils.SendSSEChunk(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   content,
		Source:    string(source),
	})
}

func (h *Handler) sendControl(w http.ResponseWriter, flusher http.Flusher, resp StreamResponse) {
	utils.SendSSEEvent(w, flusher, resp.Event, resp)
}
