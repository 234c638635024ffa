package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Log     LogConfig
	STT     STTConfig
	LLM     LLMConfig
	Publish PublishConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	RateLimitRPM   int
	MaxUploadMB    int
}

type LogConfig struct {
	Level string
}

type STTConfig struct {
	Backend         string // "deepgram", "openai" or "local"
	DeepgramKey     string
	DeepgramBaseURL string
	OpenAIKey       string
	OpenAIBaseURL   string
	OpenAIModel     string
	LocalBaseURL    string
	Timeout         time.Duration
}

type LLMConfig struct {
	OpenAIKey        string
	OpenAIBaseURL    string
	AnthropicKey     string
	AnthropicBaseURL string
	OllamaURL        string
	DefaultProvider  string
	DefaultModel     string
	Temperature      *float64 // nil leaves sampling to the provider
	MaxTokens        int      // 0 keeps the provider default
	Timeout          time.Duration
}

type PublishConfig struct {
	URL     string
	Timeout time.Duration
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	rpm, err := getEnvInt("RATE_LIMIT_RPM", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPM: %w", err)
	}

	maxUpload, err := getEnvInt("MAX_UPLOAD_MB", 200)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	sttTimeout, err := getEnvDuration("STT_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid STT_TIMEOUT: %w", err)
	}

	llmTimeout, err := getEnvDuration("LLM_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
	}

	publishTimeout, err := getEnvDuration("PUBLISH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid PUBLISH_TIMEOUT: %w", err)
	}

	temperature, err := getEnvFloatPtr("LLM_TEMPERATURE")
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}

	maxTokens, err := getEnvInt("LLM_MAX_TOKENS", 0)
	if err != nil || maxTokens < 0 {
		return nil, fmt.Errorf("invalid LLM_MAX_TOKENS %q", os.Getenv("LLM_MAX_TOKENS"))
	}

	openAIKey := getEnv("OPENAI_API_KEY", "")

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			RateLimitRPM:   rpm,
			MaxUploadMB:    maxUpload,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		STT: STTConfig{
			Backend:         strings.ToLower(getEnv("STT_BACKEND", "deepgram")),
			DeepgramKey:     getEnv("DEEPGRAM_API_KEY", ""),
			DeepgramBaseURL: getEnv("DEEPGRAM_BASE_URL", "https://api.deepgram.com/v1"),
			OpenAIKey:       openAIKey,
			OpenAIBaseURL:   getEnv("STT_OPENAI_BASE_URL", ""),
			OpenAIModel:     getEnv("STT_OPENAI_MODEL", ""),
			LocalBaseURL:    getEnv("STT_LOCAL_BASE_URL", "http://localhost:8178"),
			Timeout:         sttTimeout,
		},
		LLM: LLMConfig{
			OpenAIKey:        openAIKey,
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
			OllamaURL:        getEnv("OLLAMA_URL", ""),
			DefaultProvider:  strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			DefaultModel:     getEnv("LLM_MODEL", "gpt-4-0613"),
			Temperature:      temperature,
			MaxTokens:        maxTokens,
			Timeout:          llmTimeout,
		},
		Publish: PublishConfig{
			URL:     getEnv("PUBLISH_URL", "https://slides.com/decks/define"),
			Timeout: publishTimeout,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxUploadBytes is the request body limit for multipart uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

func (c *Config) Validate() error {
	var missing []string

	switch c.STT.Backend {
	case "deepgram":
		if c.STT.DeepgramKey == "" {
			missing = append(missing, "DEEPGRAM_API_KEY")
		}
	case "openai":
		if c.STT.OpenAIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "local":
	default:
		return fmt.Errorf("unknown STT_BACKEND %q", c.STT.Backend)
	}

	switch c.LLM.DefaultProvider {
	case "openai":
		if c.LLM.OpenAIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "anthropic":
		if c.LLM.AnthropicKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	case "ollama":
		if c.LLM.OllamaURL == "" {
			missing = append(missing, "OLLAMA_URL")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.DefaultProvider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(dedupe(missing), ", "))
	}

	u, err := url.Parse(c.Publish.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid PUBLISH_URL %q", c.Publish.URL)
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

func getEnvFloatPtr(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
