package stream

import (
	"context"
	"errors"
	"iter"
	"net/http/httptest"
	"strings"
	"testing"

	assistantservice "github.com/nightwavefest/backend/internal/service/assistant"
	chatservice "github.com/nightwavefest/backend/internal/service/chat"
)

type fakeStreamModel struct {
	enabled bool
	chunks  []string
	breakAt error
	err     error
}

func (f *fakeStreamModel) StreamingEnabled() bool { return f.enabled }

func (f *fakeStreamModel) ReplyStream(context.Context, string) (iter.Seq2[string, error], error) {
	if f.err != nil {
		return nil, f.err
	}
	return func(yield func(string, error) bool) {
		for _, chunk := range f.chunks {
			if !yield(chunk, nil) {
				return
			}
		}
		if f.breakAt != nil {
			yield("", f.breakAt)
		}
	}, nil
}

func setupStreamSession(t *testing.T, model StreamModel) (*Handler, *chatservice.Service, string) {
	t.Helper()

	chatSvc := chatservice.NewService()
	assistantSvc := assistantservice.NewService(nil, 0)
	handler := New(assistantSvc, model, chatSvc)

	session, err := chatSvc.CreateSession(context.Background(), "pulsar")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	return handler, chatSvc, session.ID
}

func lastAssistantTurn(t *testing.T, chatSvc *chatservice.Service, sessionID string) (string, string) {
	t.Helper()

	transcript, err := chatSvc.LoadTranscript(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(transcript) == 0 {
		t.Fatal("empty transcript")
	}
	last := transcript[len(transcript)-1]
	if last.Sender != "assistant" {
		t.Fatalf("expected assistant turn last, got %+v", last)
	}
	return last.Content, last.Source
}

func TestHandleStreamRequestLiveChunks(t *testing.T) {
	model := &fakeStreamModel{enabled: true, chunks: []string{"Gates open ", "at 1400 hours."}}
	handler, chatSvc, sessionID := setupStreamSession(t, model)

	resp := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(context.Background(), resp, sessionID, "when do gates open?"); err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}

	body := resp.Body.String()
	if !strings.Contains(body, "Gates open ") || !strings.Contains(body, "at 1400 hours.") {
		t.Fatalf("missing live chunks in %q", body)
	}

	content, source := lastAssistantTurn(t, chatSvc, sessionID)
	if content != "Gates open at 1400 hours." {
		t.Fatalf("expected assembled reply, got %q", content)
	}
	if source != string(assistantservice.SourceLive) {
		t.Fatalf("expected live source, got %q", source)
	}
}

func TestHandleStreamRequestBreakBeforeAnyChunk(t *testing.T) {
	model := &fakeStreamModel{enabled: true, breakAt: errors.New("connection reset")}
	handler, chatSvc, sessionID := setupStreamSession(t, model)

	resp := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(context.Background(), resp, sessionID, "hello?"); err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}

	if !strings.Contains(resp.Body.String(), assistantservice.InterruptedResponse) {
		t.Fatalf("expected interruption placeholder in %q", resp.Body.String())
	}

	content, source := lastAssistantTurn(t, chatSvc, sessionID)
	if content != assistantservice.InterruptedResponse {
		t.Fatalf("expected placeholder persisted, got %q", content)
	}
	if source != string(assistantservice.SourceLive) {
		t.Fatalf("expected live source, got %q", source)
	}
}

func TestHandleStreamRequestBreakKeepsDeliveredChunks(t *testing.T) {
	model := &fakeStreamModel{enabled: true, chunks: []string{"Partial answer"}, breakAt: errors.New("timeout")}
	handler, chatSvc, sessionID := setupStreamSession(t, model)

	resp := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(context.Background(), resp, sessionID, "tell me more"); err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}

	body := resp.Body.String()
	if !strings.Contains(body, "Partial answer") {
		t.Fatalf("missing delivered chunk in %q", body)
	}
	if strings.Contains(body, assistantservice.InterruptedResponse) {
		t.Fatalf("placeholder must not replace delivered chunks: %q", body)
	}

	content, _ := lastAssistantTurn(t, chatSvc, sessionID)
	if content != "Partial answer" {
		t.Fatalf("expected partial reply persisted, got %q", content)
	}
}

func TestHandleStreamRequestStartErrorFallsBack(t *testing.T) {
	model := &fakeStreamModel{enabled: true, err: errors.New("no live session")}
	handler, chatSvc, sessionID := setupStreamSession(t, model)

	resp := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(context.Background(), resp, sessionID, "what's the lineup?"); err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}

	if !strings.Contains(resp.Body.String(), "Stellar Drift") {
		t.Fatalf("expected canned fallback in %q", resp.Body.String())
	}

	_, source := lastAssistantTurn(t, chatSvc, sessionID)
	if source != string(assistantservice.SourceFallback) {
		t.Fatalf("expected fallback source, got %q", source)
	}
}

func TestHandleStreamRequestDemoMode(t *testing.T) {
	chatSvc := chatservice.NewService()
	assistantSvc := assistantservice.NewService(nil, 0)
	handler := New(assistantSvc, nil, chatSvc)

	ctx := context.Background()
	session, err := chatSvc.CreateSession(ctx, "pulsar")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	resp := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(ctx, resp, session.ID, "what's the lineup?"); err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}

	body := resp.Body.String()
	if !strings.Contains(body, `"event":"start"`) {
		t.Fatalf("missing start event in %q", body)
	}
	if !strings.Contains(body, "Stellar Drift") {
		t.Fatalf("missing canned lineup reply in %q", body)
	}
	if !strings.Contains(body, `"event":"end"`) {
		t.Fatalf("missing end event in %q", body)
	}
	if resp.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("unexpected content type %q", resp.Header().Get("Content-Type"))
	}

	transcript, err := chatSvc.LoadTranscript(ctx, session.ID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("expected both turns persisted, got %d", len(transcript))
	}
	if transcript[1].Source != string(assistantservice.SourceFallback) {
		t.Fatalf("expected fallback source on assistant turn, got %q", transcript[1].Source)
	}
}

func TestHandleStreamRequestUnknownSession(t *testing.T) {
	chatSvc := chatservice.NewService()
	assistantSvc := assistantservice.NewService(nil, 0)
	handler := New(assistantSvc, nil, chatSvc)

	resp := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(context.Background(), resp, "missing", "hello"); err == nil {
		t.Fatal("expected error for unknown session")
	}

	if !strings.Contains(resp.Body.String(), `"event":"error"`) {
		t.Fatalf("expected error event, got %q", resp.Body.String())
	}
}
