package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "dg")
	t.Setenv("OPENAI_API_KEY", "oa")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "deepgram", cfg.STT.Backend)
	assert.Equal(t, "https://api.deepgram.com/v1", cfg.STT.DeepgramBaseURL)
	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.Equal(t, "gpt-4-0613", cfg.LLM.DefaultModel)
	assert.Nil(t, cfg.LLM.Temperature)
	assert.Zero(t, cfg.LLM.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.Publish.Timeout)
	assert.Equal(t, "https://slides.com/decks/define", cfg.Publish.URL)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int64(200<<20), cfg.MaxUploadBytes())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LLM_TEMPERATURE", "0")
	t.Setenv("PUBLISH_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("STT_BACKEND", "LOCAL")
	t.Setenv("LLM_MAX_TOKENS", "2048")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2048, cfg.LLM.MaxTokens)

	assert.Equal(t, 9000, cfg.Server.Port)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, 0.0, *cfg.LLM.Temperature)
	assert.Equal(t, 5*time.Second, cfg.Publish.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "local", cfg.STT.Backend)
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")

	_, err := Load()
	assert.ErrorContains(t, err, "SERVER_PORT")
}

func TestLoad_InvalidMaxTokens(t *testing.T) {
	for _, v := range []string{"many", "-1"} {
		t.Setenv("LLM_MAX_TOKENS", v)

		_, err := Load()
		assert.ErrorContains(t, err, "LLM_MAX_TOKENS", v)
	}
}

func TestValidate_MissingKeys(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEEPGRAM_API_KEY")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestValidate_OpenAIKeyListedOnce(t *testing.T) {
	t.Setenv("STT_BACKEND", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, "missing required env vars: OPENAI_API_KEY", err.Error())
}

func TestValidate_UnknownBackend(t *testing.T) {
	t.Setenv("STT_BACKEND", "carrier-pigeon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.ErrorContains(t, cfg.Validate(), "STT_BACKEND")
}

func TestValidate_PublishURL(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "dg")
	t.Setenv("OPENAI_API_KEY", "oa")
	t.Setenv("PUBLISH_URL", "slides.com/decks/define")

	cfg, err := Load()
	require.NoError(t, err)

	assert.ErrorContains(t, cfg.Validate(), "PUBLISH_URL")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("VOICEDECK_TEST_KEY=from-file\nVOICEDECK_TEST_SET=from-file\n"), 0o600))
	t.Setenv("VOICEDECK_TEST_SET", "from-env")
	t.Setenv("VOICEDECK_TEST_KEY", "")
	os.Unsetenv("VOICEDECK_TEST_KEY")

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "from-file", os.Getenv("VOICEDECK_TEST_KEY"))
	assert.Equal(t, "from-env", os.Getenv("VOICEDECK_TEST_SET"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "warning"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LogConfig{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "verbose"}.SlogLevel())
}
