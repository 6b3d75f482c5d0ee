package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	CacheBackendMemory   = "memory"
	CacheBackendPostgres = "postgres"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	TranslationProvider string        `envconfig:"TRANSLATION_PROVIDER" default:"openai"`
	ProviderTimeout     time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"60s"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`

	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`

	CacheTTLSeconds int    `envconfig:"TRANSLATE_CACHE_TTL" default:"3600"`
	RetryAttempts   uint   `envconfig:"TRANSLATE_RETRY_ATTEMPTS" default:"1"`
	CacheBackend    string `envconfig:"CACHE_BACKEND" default:"memory"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"4"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.TranslationProvider)) {
	case "openai", "gemini":
	default:
		return fmt.Errorf("TRANSLATION_PROVIDER must be one of openai, gemini (got %q)", c.TranslationProvider)
	}
	if c.CacheTTLSeconds < 1 {
		return fmt.Errorf("TRANSLATE_CACHE_TTL must be >= 1")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("TRANSLATE_RETRY_ATTEMPTS must be >= 1")
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be > 0")
	}
	switch c.NormalizedCacheBackend() {
	case CacheBackendMemory:
	case CacheBackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when CACHE_BACKEND=postgres")
		}
		if c.DBMaxConns < 1 {
			return fmt.Errorf("DB_MAX_CONNS must be >= 1")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of memory, postgres (got %q)", c.CacheBackend)
	}
	return nil
}

// CacheTTL returns the translation cache time-to-live.
func (c *Config) CacheTTL() time.Duration {
	if c == nil || c.CacheTTLSeconds < 1 {
		return time.Hour
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) NormalizedCacheBackend() string {
	if c == nil {
		return CacheBackendMemory
	}
	backend := strings.ToLower(strings.TrimSpace(c.CacheBackend))
	if backend == "" {
		return CacheBackendMemory
	}
	return backend
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
