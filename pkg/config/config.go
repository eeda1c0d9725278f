package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	Port             string `yaml:"port"`
	LogLevel         string `yaml:"logLevel"`
	CORSAllowOrigins string `yaml:"corsAllowOrigins"`
	// BodyLimitBytes caps the whole HTTP request body; Fiber needs a finite value.
	BodyLimitBytes int `yaml:"bodyLimitBytes"`

	ScratchDir string `yaml:"scratchDir"`
	// Zero disables the bound.
	MaxUploadBytes  int64 `yaml:"maxUploadBytes"`
	MaxContentChars int   `yaml:"maxContentChars"`

	LLM LLMConfig `yaml:"llm"`
}

type LLMConfig struct {
	Provider       string  `yaml:"provider"`
	Model          string  `yaml:"model"`
	Temperature    float32 `yaml:"temperature"`
	MaxTokens      int     `yaml:"maxTokens"`
	TimeoutSeconds int     `yaml:"timeoutSeconds"`

	OpenAIAPIKey  string `yaml:"openaiApiKey"`
	OpenAIBaseURL string `yaml:"openaiBaseUrl"`

	OpenRouterAPIKey   string `yaml:"openrouterApiKey"`
	OpenRouterBaseURL  string `yaml:"openrouterBaseUrl"`
	OpenRouterAppTitle string `yaml:"openrouterAppTitle"`
	OpenRouterReferer  string `yaml:"openrouterReferer"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:             "8000",
		LogLevel:         "info",
		CORSAllowOrigins: "*",
		BodyLimitBytes:   32 << 20,
		LLM: LLMConfig{
			Provider:       ProviderOpenAI,
			Model:          "gpt-4",
			Temperature:    0.7,
			MaxTokens:      500,
			TimeoutSeconds: 60,
		},
	}
}

// Load reads environment variables, optionally from a .env file if present.
// When CONFIG_FILE points to a YAML file it is applied first; env vars win over it.
func Load() (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.CORSAllowOrigins = getEnv("CORS_ALLOW_ORIGINS", cfg.CORSAllowOrigins)
	cfg.BodyLimitBytes = getEnvInt("BODY_LIMIT_BYTES", cfg.BodyLimitBytes)
	cfg.ScratchDir = getEnv("SCRATCH_DIR", cfg.ScratchDir)
	cfg.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))
	cfg.MaxContentChars = getEnvInt("MAX_CONTENT_CHARS", cfg.MaxContentChars)

	l := &cfg.LLM
	l.Provider = strings.ToLower(getEnv("LLM_PROVIDER", l.Provider))
	l.Model = getEnv("LLM_MODEL", l.Model)
	l.Temperature = getEnvFloat("LLM_TEMPERATURE", l.Temperature)
	l.MaxTokens = getEnvInt("LLM_MAX_TOKENS", l.MaxTokens)
	l.TimeoutSeconds = getEnvInt("LLM_TIMEOUT_SECONDS", l.TimeoutSeconds)
	l.OpenAIAPIKey = getEnv("OPENAI_API_KEY", l.OpenAIAPIKey)
	l.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", l.OpenAIBaseURL)
	l.OpenRouterAPIKey = getEnv("OPENROUTER_API_KEY", l.OpenRouterAPIKey)
	l.OpenRouterBaseURL = getEnv("OPENROUTER_BASE_URL", l.OpenRouterBaseURL)
	l.OpenRouterAppTitle = getEnv("OPENROUTER_APP_TITLE", l.OpenRouterAppTitle)
	l.OpenRouterReferer = getEnv("OPENROUTER_REFERER", l.OpenRouterReferer)
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderOpenRouter:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q: expected %q or %q", c.LLM.Provider, ProviderOpenAI, ProviderOpenRouter)
	}
	if c.BodyLimitBytes <= 0 {
		return fmt.Errorf("BODY_LIMIT_BYTES must be positive, got %d", c.BodyLimitBytes)
	}
	if c.LLM.Temperature < 0 {
		return fmt.Errorf("LLM_TEMPERATURE must not be negative, got %v", c.LLM.Temperature)
	}
	if c.MaxUploadBytes < 0 || c.MaxContentChars < 0 {
		return fmt.Errorf("size limits must not be negative")
	}
	return nil
}

// APIKey returns the key of the selected provider.
func (l LLMConfig) APIKey() string {
	if l.Provider == ProviderOpenRouter {
		return l.OpenRouterAPIKey
	}
	return l.OpenAIAPIKey
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return def
}
