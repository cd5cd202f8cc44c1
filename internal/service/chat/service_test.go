package chat_test

import (
	"context"
	"errors"
	"testing"

	model "github.com/nightwavefest/backend/internal/model/chat"
	chat "github.com/nightwavefest/backend/internal/service/chat"
)

func TestServiceGetSession(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "pulsar")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}

	if got.ID != session.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, session.ID)
	}
	if got.StageID != "pulsar" {
		t.Fatalf("unexpected stage ID: got %s", got.StageID)
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	if _, err := svc.GetSession(ctx, "missing"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceCreateSessionRequiresStage(t *testing.T) {
	svc := chat.NewService()

	if _, err := svc.CreateSession(context.Background(), ""); !errors.Is(err, chat.ErrStageRequired) {
		t.Fatalf("expected ErrStageRequired, got %v", err)
	}
}

func TestServiceTranscriptRoundTrip(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "driftwood")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	msg := model.Message{
		SessionID: session.ID,
		Sender:    "user",
		Content:   "when does the hollow open?",
	}
	if err := svc.SaveMessage(ctx, msg); err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}

	transcript, err := svc.LoadTranscript(ctx, session.ID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(transcript) != 1 {
		t.Fatalf("expected 1 message, got %d", len(transcript))
	}
	if transcript[0].ID == "" || transcript[0].CreatedAt.IsZero() {
		t.Fatal("expected message id and timestamp to be assigned")
	}
	if transcript[0].Content != msg.Content {
		t.Fatalf("unexpected content %q", transcript[0].Content)
	}
}
