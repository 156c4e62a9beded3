package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"journal-ai/internal/app"
	"journal-ai/internal/config"
	"journal-ai/internal/http"
	"journal-ai/internal/logging"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API answers questions about a personal journal using adaptive retrieval over daily records.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Journal AI API
//   description: |
//     Store daily journal records and ask questions about them.
//     Answers are grounded in the owner's records, with evidence and a confidence level.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, logCloser, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	defer func() {
		_ = logCloser.Close()
	}()
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("Failed to close backends", "error", err)
		}
	}()

	// Validate embedding client vector size (fail-fast)
	if err := a.ValidateEmbeddings(ctx); err != nil {
		slog.Error("Embedding validation failed", "error", err)
		return
	}
	slog.Info("Embedding client validated", "vector_size", cfg.VectorSize)

	router := http.NewRouter(&http.Deps{
		Service:        a.Service,
		HealthChecks:   a.HealthChecks(),
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	addr := ":" + cfg.APIPort
	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", addr)
		slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			slog.Error("API server failed", "error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}
