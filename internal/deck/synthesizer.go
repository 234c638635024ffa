package deck

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
	"github.com/nikhilbhutani/voicedeck/internal/llm"
	"github.com/nikhilbhutani/voicedeck/internal/prompt"
	"github.com/nikhilbhutani/voicedeck/pkg/tokenizer"
)

// SynthesizerConfig fixes the model used for every synthesis.
type SynthesizerConfig struct {
	Provider    string   // empty routes to the gateway default
	Model       string
	Temperature *float64 // nil keeps the provider default
	MaxTokens   int      // 0 keeps the provider default
}

type Synthesizer struct {
	gw  llm.Gateway
	cfg SynthesizerConfig
}

func NewSynthesizer(gw llm.Gateway, cfg SynthesizerConfig) *Synthesizer {
	return &Synthesizer{gw: gw, cfg: cfg}
}

// Synthesize sends one chat request and returns the reply text unmodified.
// A blank transcript fails with apperr.ErrEmptyInput before any call is made.
func (s *Synthesizer) Synthesize(ctx context.Context, transcript string) (Definition, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("synthesize: %w", apperr.ErrEmptyInput)
	}

	if score, flags := prompt.InjectionScore(transcript); score >= 0.7 {
		// the transcript is still sent; its delimiter tags are neutralized
		slog.Warn("transcript looks like a prompt injection", "score", score, "flags", flags)
	}

	msgs, err := prompt.BuildDeckMessages(transcript)
	if err != nil {
		return "", err
	}
	slog.Debug("synthesizing deck", "model", s.cfg.Model,
		"estimated_prompt_tokens", tokenizer.EstimateAll(msgs[0].Content, msgs[1].Content))

	resp, err := s.gw.Chat(ctx, llm.ChatRequest{
		Provider:    s.cfg.Provider,
		Model:       s.cfg.Model,
		Messages:    msgs,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("synthesize: %w", err)
	}
	if resp.Content == "" {
		return "", fmt.Errorf("synthesize: %s: %w", resp.Provider, apperr.ErrEmptyReply)
	}

	slog.Debug("deck synthesized", "provider", resp.Provider, "model", resp.Model, "chars", len(resp.Content))
	return Definition(resp.Content), nil
}
