package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nightwavefest/backend/internal/config"
	"github.com/nightwavefest/backend/internal/handler"
	"github.com/nightwavefest/backend/internal/model/lineup"
	aiservice "github.com/nightwavefest/backend/internal/service/ai"
	assistantservice "github.com/nightwavefest/backend/internal/service/assistant"
	chatservice "github.com/nightwavefest/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	stages := lineup.NewMemoryStore(lineup.Seed())
	chatSvc := chatservice.NewService()

	// The Gemini credential selects the mode for the whole process: with a
	// key the assistant answers live and falls back on failure, without one
	// it answers from canned rules only.
	var aiSvc *aiservice.Service
	if cfg.AI.Enabled() {
		client, err := cfg.AI.NewClient(ctx)
		if err != nil {
			log.Printf("warning: failed to initialize Gemini client: %v", err)
			log.Println("continuing in demo mode - check GEMINI_API_KEY")
		} else {
			aiSvc = aiservice.NewService(client, cfg.AI)
			log.Printf("Gemini client initialized, model=%s", cfg.AI.Model)
		}
	} else {
		log.Println("GEMINI_API_KEY not configured, assistant runs in demo mode")
	}

	var model assistantservice.Model
	if aiSvc != nil {
		model = aiSvc
	}
	assistantSvc := assistantservice.NewService(model, cfg.Assistant.MockLatency)

	router := handler.NewRouter(stages, chatSvc, assistantSvc, aiSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Nightwave assistant backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
