package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"

	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)

var (
	validBackends  = []string{BackendMemory, BackendMongo, BackendPostgres, BackendSQLite}
	validProviders = []string{ProviderClaude, ProviderGemini}
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port           string
	GinMode        string
	AllowedOrigins []string

	StoreBackend  string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
	SQLitePath    string

	LLM LLMConfig

	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	RateLimitPerMinute int
}

// LLMConfig configures the text generation service used for extraction.
type LLMConfig struct {
	Provider          string
	GeminiAPIKey      string
	GeminiModel       string
	AnthropicAPIKey   string
	ClaudeModel       string
	ExtractionTimeout time.Duration
}

// APIKey returns the credential of the selected provider.
func (c LLMConfig) APIKey() string {
	if c.Provider == ProviderClaude {
		return c.AnthropicAPIKey
	}
	return c.GeminiAPIKey
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	timeout, err := durationEnv("EXTRACTION_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	rateLimit, err := intEnv("RATE_LIMIT_PER_MINUTE", 100)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		GinMode:        os.Getenv("GIN_MODE"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "expenses"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    getEnv("SQLITE_PATH", "./data/expenses.db"),

		LLM: LLMConfig{
			Provider:          strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
			GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
			ClaudeModel:       getEnv("CLAUDE_MODEL", "claude-3-haiku-20240307"),
			ExtractionTimeout: timeout,
		},

		AMQPURL:        os.Getenv("AMQP_URL"),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "expenses"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "expense.added"),

		RateLimitPerMinute: rateLimit,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port '%s': must be a number", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}

	if !slices.Contains(validBackends, c.StoreBackend) {
		return fmt.Errorf("invalid store backend '%s': must be one of %v", c.StoreBackend, validBackends)
	}
	switch c.StoreBackend {
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI environment variable is required for the mongo backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required for the postgres backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH cannot be empty when using the sqlite backend")
		}
	}

	if !slices.Contains(validProviders, c.LLM.Provider) {
		return fmt.Errorf("invalid LLM provider '%s': must be one of %v", c.LLM.Provider, validProviders)
	}
	if c.LLM.ExtractionTimeout <= 0 {
		return fmt.Errorf("extraction timeout must be positive, got %s", c.LLM.ExtractionTimeout)
	}

	if c.AMQPURL != "" {
		u, err := url.Parse(c.AMQPURL)
		if err != nil {
			return fmt.Errorf("invalid AMQP URL: %w", err)
		}
		if u.Scheme != "amqp" && u.Scheme != "amqps" {
			return fmt.Errorf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme)
		}
		if c.AMQPExchange == "" {
			return fmt.Errorf("AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate limit cannot be negative, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// IsProduction mirrors the release switch of gin.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': must be a number", key, raw)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
