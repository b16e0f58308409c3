package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Matcher   MatcherConfig
	Reconcile ReconcileConfig
	Highlight HighlightConfig
	Ingest    IngestConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
	Mode string // gin mode: debug, release, test
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// MatcherConfig holds the semantic fee-matcher (LLM) configuration.
// When APIKey is empty the deterministic label matcher is used instead.
type MatcherConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// ReconcileConfig holds tunables for the reconciliation engine.
type ReconcileConfig struct {
	FuzzyThreshold int // 0-100 token-set similarity floor for label fallback
}

// HighlightConfig holds tunables for the spatial re-anchoring pass.
// The scores are empirically chosen; keep them configurable.
type HighlightConfig struct {
	MinScore         float64 // primary line-match threshold
	FallbackMinScore float64 // amount-digits-only retry threshold
	LineClusterTol   float64 // vertical distance for tokens joining a line
	AmountLineTol    float64 // mid-y distance for companion amount lines
	Padding          float64 // box expansion on all sides
}

// IngestConfig holds drop-folder watcher configuration.
type IngestConfig struct {
	WatchDir string
	Debounce time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
			Mode: getEnv("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Matcher: MatcherConfig{
			BaseURL:     getEnv("MATCHER_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("MATCHER_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("MATCHER_API_KEY", ""),
			Temperature: getEnvAsFloat32("MATCHER_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("MATCHER_TIMEOUT", 60*time.Second),
		},
		Reconcile: ReconcileConfig{
			FuzzyThreshold: getEnvAsInt("RECONCILE_FUZZY_THRESHOLD", 80),
		},
		Highlight: HighlightConfig{
			MinScore:         getEnvAsFloat64("HIGHLIGHT_MIN_SCORE", 60),
			FallbackMinScore: getEnvAsFloat64("HIGHLIGHT_FALLBACK_MIN_SCORE", 35),
			LineClusterTol:   getEnvAsFloat64("HIGHLIGHT_LINE_CLUSTER_TOL", 3.0),
			AmountLineTol:    getEnvAsFloat64("HIGHLIGHT_AMOUNT_LINE_TOL", 3.5),
			Padding:          getEnvAsFloat64("HIGHLIGHT_PADDING", 2.5),
		},
		Ingest: IngestConfig{
			WatchDir: getEnv("INGEST_WATCH_DIR", ""),
			Debounce: getEnvAsDuration("INGEST_DEBOUNCE", 500*time.Millisecond),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Reconcile.FuzzyThreshold < 0 || c.Reconcile.FuzzyThreshold > 100 {
		return NewAppError("CONFIG_ERROR", "RECONCILE_FUZZY_THRESHOLD must be in [0,100]", ErrInvalidInput)
	}
	if c.Highlight.MinScore < c.Highlight.FallbackMinScore {
		return NewAppError("CONFIG_ERROR", "HIGHLIGHT_MIN_SCORE must be >= HIGHLIGHT_FALLBACK_MIN_SCORE", ErrInvalidInput)
	}
	return nil
}
