package stt

import "net/http"

// LocalSTTConfig holds configuration for the local whisper.cpp STT backend.
type LocalSTTConfig struct {
	BaseURL    string // default: "http://localhost:8178"
	HTTPClient *http.Client
}

// LocalSTT wraps OpenAISTT pointing at a local whisper.cpp server.
// Start the server with: ./server -m models/ggml-base.en.bin --port 8178
type LocalSTT struct {
	*OpenAISTT
}

// NewLocalSTT creates a LocalSTT backed by a local whisper.cpp HTTP server.
func NewLocalSTT(cfg LocalSTTConfig) *LocalSTT {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8178"
	}
	inner := NewOpenAISTT(OpenAISTTConfig{
		BaseURL:    baseURL,
		HTTPClient: cfg.HTTPClient,
	})
	inner.service = "local-whisper"
	return &LocalSTT{OpenAISTT: inner}
}
