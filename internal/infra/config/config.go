package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http" envPrefix:"HTTP_"`
	LLM      LLMConfig      `yaml:"llm" envPrefix:"LLM_"`
	Pipeline PipelineConfig `yaml:"pipeline" envPrefix:"PIPELINE_"`
	Web      WebConfig      `yaml:"web" envPrefix:"WEB_"`
	Document DocumentConfig `yaml:"document" envPrefix:"DOCUMENT_"`
	Video    VideoConfig    `yaml:"video" envPrefix:"VIDEO_"`
	Trust    TrustConfig    `yaml:"trust" envPrefix:"TRUST_"`
	Chat     ChatConfig     `yaml:"chat" envPrefix:"CHAT_"`
	Cache    CacheConfig    `yaml:"cache" envPrefix:"CACHE_"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address" env:"ADDRESS"`
	ReadTimeout     time.Duration   `yaml:"readTimeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout" env:"SHUTDOWN_TIMEOUT"`
	AllowedOrigins  []string        `yaml:"allowedOrigins" env:"ALLOWED_ORIGINS" envSeparator:","`
	RateLimit       RateLimitConfig `yaml:"rateLimit" envPrefix:"RATE_LIMIT_"`
	Retry           RetryConfig     `yaml:"retry" envPrefix:"RETRY_"`
}

// RateLimitConfig drives the per-client request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" env:"ENABLED"`
	RequestsPerMinute int  `yaml:"requestsPerMinute" env:"RPM"`
	Burst             int  `yaml:"burst" env:"BURST"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled" env:"ENABLED"`
	MaxAttempts int           `yaml:"maxAttempts" env:"MAX_ATTEMPTS"`
	BaseBackoff time.Duration `yaml:"baseBackoff" env:"BASE_BACKOFF"`
	Exclude     []string      `yaml:"exclude" env:"EXCLUDE" envSeparator:","`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey" env:"API_KEY"`
	BaseURL     string        `yaml:"baseUrl" env:"BASE_URL"`
	Model       string        `yaml:"model" env:"MODEL"`
	Temperature float32       `yaml:"temperature" env:"TEMPERATURE"`
	Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// PipelineConfig selects and bounds the summarization strategy.
type PipelineConfig struct {
	Strategy       string        `yaml:"strategy" env:"STRATEGY"`
	MaxWords       int           `yaml:"maxWords" env:"MAX_WORDS"`
	MaxDepth       int           `yaml:"maxDepth" env:"MAX_DEPTH"`
	CallsPerSecond float64       `yaml:"callsPerSecond" env:"CALLS_PER_SECOND"`
	CallTimeout    time.Duration `yaml:"callTimeout" env:"CALL_TIMEOUT"`
	SummaryPrompt  string        `yaml:"summaryPrompt" env:"SUMMARY_PROMPT"`
}

// WebConfig tunes the web page fetcher.
type WebConfig struct {
	Timeout       time.Duration `yaml:"timeout" env:"TIMEOUT"`
	MaxBytes      int64         `yaml:"maxBytes" env:"MAX_BYTES"`
	UserAgent     string        `yaml:"userAgent" env:"USER_AGENT"`
	RespectRobots bool          `yaml:"respectRobots" env:"RESPECT_ROBOTS"`
}

// DocumentConfig caps uploaded documents.
type DocumentConfig struct {
	MaxBytes int64 `yaml:"maxBytes" env:"MAX_BYTES"`
}

// VideoConfig holds the video catalog credentials. An empty API key disables lookups.
type VideoConfig struct {
	APIKey   string        `yaml:"apiKey" env:"API_KEY"`
	Endpoint string        `yaml:"endpoint" env:"ENDPOINT"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// TrustConfig controls the trust classifier.
type TrustConfig struct {
	Mode         string        `yaml:"mode" env:"MODE"`
	ExtraSources []string      `yaml:"extraSources" env:"EXTRA_SOURCES" envSeparator:","`
	Prompt       string        `yaml:"prompt" env:"PROMPT"`
	Timeout      time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// ChatConfig controls the conversational pass-through.
type ChatConfig struct {
	SystemPrompt string        `yaml:"systemPrompt" env:"SYSTEM_PROMPT"`
	Timeout      time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// CacheConfig controls summary result caching.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" env:"ENABLED"`
	TTL     time.Duration `yaml:"ttl" env:"TTL"`
	Valkey  ValkeyConfig  `yaml:"valkey" envPrefix:"VALKEY_"`
}

// ValkeyConfig contains connection information for the shared cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Addr    string `yaml:"addr" env:"ADDR"`
	Prefix  string `yaml:"prefix" env:"PREFIX"`
}

// Load reads configuration from .env, a YAML file and environment variables,
// in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, defaultConfigPath); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    3 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     false,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/chat",
				},
			},
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			Timeout:     60 * time.Second,
		},
		Pipeline: PipelineConfig{
			Strategy:    "remote",
			MaxWords:    500,
			MaxDepth:    3,
			CallTimeout: 60 * time.Second,
		},
		Web: WebConfig{
			Timeout:  15 * time.Second,
			MaxBytes: 5 << 20,
		},
		Document: DocumentConfig{
			MaxBytes: 20 << 20,
		},
		Video: VideoConfig{
			Timeout: 10 * time.Second,
		},
		Trust: TrustConfig{
			Mode:    "heuristic",
			Timeout: 30 * time.Second,
		},
		Chat: ChatConfig{
			Timeout: 60 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     6 * time.Hour,
			Valkey: ValkeyConfig{
				Prefix: "digest",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Address) == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return errors.New("http.shutdownTimeout must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be within [0, 2]")
	}
	switch c.Pipeline.Strategy {
	case "remote", "extractive":
	default:
		return fmt.Errorf("pipeline.strategy must be remote or extractive, got %q", c.Pipeline.Strategy)
	}
	if c.Pipeline.MaxWords <= 0 {
		return errors.New("pipeline.maxWords must be positive")
	}
	if c.Pipeline.MaxDepth <= 0 {
		return errors.New("pipeline.maxDepth must be positive")
	}
	if c.Pipeline.CallsPerSecond < 0 {
		return errors.New("pipeline.callsPerSecond cannot be negative")
	}
	if c.Web.MaxBytes <= 0 {
		return errors.New("web.maxBytes must be positive")
	}
	if c.Document.MaxBytes <= 0 {
		return errors.New("document.maxBytes must be positive")
	}
	switch c.Trust.Mode {
	case "heuristic", "remote":
	default:
		return fmt.Errorf("trust.mode must be heuristic or remote, got %q", c.Trust.Mode)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	return nil
}

// RemoteEnabled reports whether an LLM key is configured.
func (c *Config) RemoteEnabled() bool {
	return strings.TrimSpace(c.LLM.APIKey) != ""
}
