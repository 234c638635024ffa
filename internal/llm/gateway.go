package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/nikhilbhutani/voicedeck/internal/config"
)

type gateway struct {
	providers       map[string]Provider
	defaultProvider string
}

// NewGateway registers every provider that has credentials in cfg.
// A failed call is returned as is; there is no retry and no fallback.
func NewGateway(cfg config.LLMConfig) Gateway {
	client := &http.Client{Timeout: cfg.Timeout}
	g := newGateway(cfg.DefaultProvider)

	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(OpenAIConfig{
			APIKey:     cfg.OpenAIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			HTTPClient: client,
		})
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(AnthropicConfig{
			APIKey:     cfg.AnthropicKey,
			BaseURL:    cfg.AnthropicBaseURL,
			HTTPClient: client,
		})
	}
	if cfg.OllamaURL != "" {
		g.providers["ollama"] = NewOllamaProvider(cfg.OllamaURL, client)
	}

	return g
}

// NewGatewayWithProviders builds a gateway over explicit providers.
func NewGatewayWithProviders(defaultProvider string, providers ...Provider) Gateway {
	g := newGateway(defaultProvider)
	for _, p := range providers {
		g.providers[p.Name()] = p
	}
	return g
}

func newGateway(defaultProvider string) *gateway {
	return &gateway{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

func (g *gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	providerName := req.Provider
	if providerName == "" {
		providerName = g.defaultProvider
	}

	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}

	resp, err := p.ChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s chat: %w", providerName, err)
	}

	slog.Debug("llm call finished",
		"provider", resp.Provider,
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"cost_usd", resp.CostUSD,
		"latency_ms", resp.LatencyMs,
	)
	return resp, nil
}

func (g *gateway) ListModels() []ModelInfo {
	names := make([]string, 0, len(g.providers))
	for name := range g.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	var models []ModelInfo
	for _, name := range names {
		p := g.providers[name]
		for _, m := range p.Models() {
			models = append(models, ModelInfo{
				Provider: p.Name(),
				Model:    m,
				Type:     "chat",
			})
		}
	}
	return models
}
