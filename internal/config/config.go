// Package config provides configuration for the giftwise service:
// compiled defaults, an optional YAML settings file, then environment
// overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/giftwise/giftwise/pkg/models"
)

// Store backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

const (
	// DefaultPort is the default HTTP port for the service.
	DefaultPort = 38600

	// DefaultAITimeout bounds a single LLM call.
	DefaultAITimeout = 30 * time.Second

	// DefaultCacheTTL bounds similarity-cache staleness.
	DefaultCacheTTL = 15 * time.Minute
)

// Duration wraps time.Duration so YAML settings can use strings like
// "30s" or "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the application configuration.
type Config struct {
	// HTTP settings
	Port        int  `yaml:"port"`
	AuthEnabled bool `yaml:"auth_enabled"`

	// Rate limiting (requests per second per client, bucket size)
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	// Storage settings
	StoreBackend string `yaml:"store_backend"` // postgres | memory
	DatabaseDSN  string `yaml:"database_dsn"`
	MaxConns     int    `yaml:"max_conns"`

	// Redis similarity cache; empty address disables it
	RedisAddr string   `yaml:"redis_addr"`
	CacheTTL  Duration `yaml:"cache_ttl"`

	// OpenAI-compatible LLM settings; empty key disables the AI
	// scorer and the auto-tagger
	OpenAIBaseURL string   `yaml:"openai_base_url"`
	OpenAIKey     string   `yaml:"openai_key"`
	OpenAIModel   string   `yaml:"openai_model"`
	AITimeout     Duration `yaml:"ai_timeout"`

	// Content scorer point values
	ScoringWeights models.ScoringWeights `yaml:"scoring_weights"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Default returns a Config with default values. The memory backend is
// the out-of-the-box default so the service runs without any
// infrastructure.
func Default() *Config {
	return &Config{
		Port:           DefaultPort,
		AuthEnabled:    true,
		RateLimitRPS:   20,
		RateLimitBurst: 40,
		StoreBackend:   BackendMemory,
		MaxConns:       10,
		CacheTTL:       Duration(DefaultCacheTTL),
		AITimeout:      Duration(DefaultAITimeout),
		ScoringWeights: models.DefaultScoringWeights(),
		LogLevel:       "info",
	}
}

// Load reads the YAML settings file at path (skipped when empty or
// absent), then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read settings %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse settings %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GIFTWISE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Port = p
		}
	}
	if v := os.Getenv("GIFTWISE_STORE_BACKEND"); v != "" {
		c.StoreBackend = v
	}
	if v := os.Getenv("GIFTWISE_DATABASE_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	if v := os.Getenv("GIFTWISE_REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("GIFTWISE_OPENAI_BASE_URL"); v != "" {
		c.OpenAIBaseURL = v
	}
	if v := os.Getenv("GIFTWISE_OPENAI_KEY"); v != "" {
		c.OpenAIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.OpenAIKey == "" {
		c.OpenAIKey = v
	}
	if v := os.Getenv("GIFTWISE_OPENAI_MODEL"); v != "" {
		c.OpenAIModel = v
	}
	if v := os.Getenv("GIFTWISE_AI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.AITimeout = Duration(d)
		}
	}
	if v := os.Getenv("GIFTWISE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("GIFTWISE_AUTH_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AuthEnabled = b
		}
	}
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("store backend %q requires a database DSN", c.StoreBackend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// AIEnabled reports whether the AI scorer and auto-tagger can run.
func (c *Config) AIEnabled() bool {
	return c.OpenAIKey != ""
}
