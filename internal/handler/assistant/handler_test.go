package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	assistantservice "github.com/nightwavefest/backend/internal/service/assistant"
	chatservice "github.com/nightwavefest/backend/internal/service/chat"
)

type fakeModel struct {
	text string
	err  error
}

func (f *fakeModel) Reply(context.Context, string) (string, error) {
	return f.text, f.err
}

func setupRouter(model assistantservice.Model) (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService()
	assistantSvc := assistantservice.NewService(model, 0)
	handler := New(assistantSvc, chatSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func postMessage(t *testing.T, r *chi.Mux, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/assistant/message", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHandleMessageDemoMode(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := postMessage(t, r, map[string]string{"message": "ticket price?"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var out messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Source != assistantservice.SourceFallback {
		t.Fatalf("expected fallback source, got %s", out.Source)
	}
	if !strings.Contains(out.Reply, "Orbit Passes") {
		t.Fatalf("expected ticket response, got %q", out.Reply)
	}
}

func TestHandleMessageLiveMode(t *testing.T) {
	r, _ := setupRouter(&fakeModel{text: "Gates open at 1400 hours."})

	resp := postMessage(t, r, map[string]string{"message": "when do gates open?"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var out messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Source != assistantservice.SourceLive {
		t.Fatalf("expected live source, got %s", out.Source)
	}
	if out.Reply != "Gates open at 1400 hours." {
		t.Fatalf("unexpected reply %q", out.Reply)
	}
}

func TestHandleMessageRequiresText(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := postMessage(t, r, map[string]string{"message": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandleMessagePersistsTurn(t *testing.T) {
	r, chatSvc := setupRouter(nil)

	session, err := chatSvc.CreateSession(context.Background(), "pulsar")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	resp := postMessage(t, r, map[string]string{"message": "hello", "sessionId": session.ID})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	transcript, err := chatSvc.LoadTranscript(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("expected user and assistant turns, got %d messages", len(transcript))
	}
	if transcript[1].Sender != "assistant" || transcript[1].Source != string(assistantservice.SourceFallback) {
		t.Fatalf("unexpected assistant turn: %+v", transcript[1])
	}
}

func TestHandleMessageUnknownSessionStillReplies(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := postMessage(t, r, map[string]string{"message": "hello", "sessionId": "missing"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 despite failed persistence, got %d", resp.Code)
	}
}
