// futurewindow-server exposes the survey chat engine over HTTP.
//
// Environment variables:
//
//	PORT                 — listen port (default 8080)
//	DB_PATH              — SQLite database path (default ./data/futurewindow.db)
//	OPENAI_API_KEY       — required
//	OPENAI_MODEL         — chat model (default gpt-4.1)
//	SESSION_TTL_MINUTES  — idle session expiry (default 60)
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecofutures/futurewindow"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	engine, err := futurewindow.Init(futurewindow.Config{
		DBPath:       cfg.DBPath,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		Model:        cfg.Model,
		SessionTTL:   cfg.SessionTTL,
	})
	if err != nil {
		slog.Error("Failed to initialize engine", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			slog.Error("Failed to close engine", "error", closeErr)
		}
	}()

	h := newHandler(engine)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(90 * time.Second))

	r.Get("/healthz", h.health)
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Get("/{id}", h.getSession)
		r.Post("/{id}/messages", h.postMessage)
		r.Get("/{id}/transcript.csv", h.transcriptCSV)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}
