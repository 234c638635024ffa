package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/voicedeck/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		STT:     config.STTConfig{Backend: "deepgram", DeepgramKey: "dg", Timeout: time.Second},
		LLM:     config.LLMConfig{OpenAIKey: "oa", DefaultProvider: "openai", DefaultModel: "gpt-4-0613", Timeout: time.Second},
		Publish: config.PublishConfig{URL: "https://slides.com/decks/define", Timeout: time.Second},
	}
}

func TestNew(t *testing.T) {
	a, err := New(testConfig())

	require.NoError(t, err)
	assert.Equal(t, "deepgram", a.STT.Name())
	assert.Equal(t, "https://slides.com/decks/define", a.Publisher.Endpoint())
	assert.NotNil(t, a.Service)
	assert.NotNil(t, a.Metrics)
}

func TestNew_SynthesizerUsesLLMSettings(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_ = json.NewDecoder(req.Body).Decode(&body)
		rw.Header().Set("Content-Type", "application/json")
		rw.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{}"}}]}`))
	}))
	t.Cleanup(server.Close)
	cfg := testConfig()
	cfg.LLM.OpenAIBaseURL = server.URL
	cfg.LLM.MaxTokens = 700

	a, err := New(cfg)
	require.NoError(t, err)
	_, err = a.Service.Synthesize(context.Background(), "owls")

	require.NoError(t, err)
	assert.Equal(t, 700.0, body["max_tokens"])
	assert.Equal(t, "gpt-4-0613", body["model"])
}

func TestNew_ProviderWithoutKey(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.DefaultProvider = "anthropic"

	_, err := New(cfg)

	assert.ErrorContains(t, err, "init llm")
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.STT.Backend = "fax"

	_, err := New(cfg)

	assert.ErrorContains(t, err, "init stt")
}

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer

	SetupLogging(&buf, config.LogConfig{Level: "warn"})
	slog.Info("hidden")
	slog.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
