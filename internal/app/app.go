// Package app assembles the pipeline from configuration for both binaries.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nikhilbhutani/voicedeck/internal/config"
	"github.com/nikhilbhutani/voicedeck/internal/deck"
	"github.com/nikhilbhutani/voicedeck/internal/llm"
	"github.com/nikhilbhutani/voicedeck/internal/metrics"
	"github.com/nikhilbhutani/voicedeck/internal/stt"
)

type App struct {
	STT       stt.STTProvider
	Gateway   llm.Gateway
	Publisher *deck.Publisher
	Service   *deck.Service
	Metrics   *metrics.Recorder
}

func New(cfg *config.Config) (*App, error) {
	sttProvider, err := stt.NewProvider(cfg.STT)
	if err != nil {
		return nil, fmt.Errorf("init stt: %w", err)
	}

	gw := llm.NewGateway(cfg.LLM)
	if _, err := gw.Provider(cfg.LLM.DefaultProvider); err != nil {
		return nil, fmt.Errorf("init llm: %w", err)
	}

	synth := deck.NewSynthesizer(gw, deck.SynthesizerConfig{
		Provider:    cfg.LLM.DefaultProvider,
		Model:       cfg.LLM.DefaultModel,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	publisher := deck.NewPublisher(cfg.Publish.URL, &http.Client{Timeout: cfg.Publish.Timeout})
	rec := metrics.NewRecorder()

	return &App{
		STT:       sttProvider,
		Gateway:   gw,
		Publisher: publisher,
		Service:   deck.NewService(sttProvider, synth, publisher, deck.WithObserver(rec)),
		Metrics:   rec,
	}, nil
}

// SetupLogging installs a JSON slog handler writing to w as the default.
func SetupLogging(w io.Writer, cfg config.LogConfig) {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
}
