package stt

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nikhilbhutani/voicedeck/internal/config"
)

// TranscriptionRequest carries one uploaded recording.
type TranscriptionRequest struct {
	Audio       []byte `json:"-"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	Language    string `json:"language,omitempty"`
}

// TranscriptionResponse holds the transcription result.
type TranscriptionResponse struct {
	Text     string  `json:"text"`
	Summary  string  `json:"summary,omitempty"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// STTProvider is the interface for speech-to-text backends.
type STTProvider interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
	Name() string
}

// NewProvider builds the backend selected by cfg.Backend.
func NewProvider(cfg config.STTConfig) (STTProvider, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Backend {
	case "", "deepgram":
		return NewDeepgramSTT(DeepgramConfig{
			APIKey:     cfg.DeepgramKey,
			BaseURL:    cfg.DeepgramBaseURL,
			HTTPClient: client,
		}), nil
	case "openai":
		return NewOpenAISTT(OpenAISTTConfig{
			APIKey:     cfg.OpenAIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			HTTPClient: client,
		}), nil
	case "local":
		return NewLocalSTT(LocalSTTConfig{BaseURL: cfg.LocalBaseURL, HTTPClient: client}), nil
	default:
		return nil, fmt.Errorf("unknown stt backend %q", cfg.Backend)
	}
}
