package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhilbhutani/voicedeck/internal/api"
	"github.com/nikhilbhutani/voicedeck/internal/app"
	"github.com/nikhilbhutani/voicedeck/internal/config"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	app.SetupLogging(os.Stdout, cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	// Setup router
	router := api.NewRouter(cfg, a.Service, a.Gateway, a.STT.Name(), a.Metrics)
	handler := router.Setup()

	// one deck request may run every stage in turn
	writeTimeout := cfg.STT.Timeout + cfg.LLM.Timeout + cfg.Publish.Timeout + 30*time.Second
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("starting API server",
			"addr", cfg.Addr(),
			"stt_backend", a.STT.Name(),
			"llm_provider", cfg.LLM.DefaultProvider,
			"llm_model", cfg.LLM.DefaultModel,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
