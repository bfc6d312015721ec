package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime settings of the CLI: logging, HTTP behaviour towards the
// archive and where the archive credentials come from.
type Config struct {
	Environment  string
	LogLevel     slog.Level
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetrySleep   time.Duration
	PollInterval time.Duration
	CDSURL       string
	CDSKey       string
	CDSRCFile    string
}

// Option modifies a Config.
type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(level)); err != nil {
			parsed = slog.LevelInfo
		}
		c.LogLevel = parsed
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

// WithMaxRetries sets how often a transient archive failure is retried
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithPollInterval sets the delay between two task status requests
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		c.PollInterval = d
	}
}

// WithRetrySleep sets the delay before retrying a transient archive failure
func WithRetrySleep(d time.Duration) Option {
	return func(c *Config) {
		c.RetrySleep = d
	}
}

// WithCDS sets the archive URL, API key and credentials file. Empty values keep the
// current ones.
func WithCDS(url, key, rcFile string) Option {
	return func(c *Config) {
		if url != "" {
			c.CDSURL = url
		}
		if key != "" {
			c.CDSKey = key
		}
		if rcFile != "" {
			c.CDSRCFile = rcFile
		}
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:  "production",
		LogLevel:     slog.LevelInfo,
		HTTPTimeout:  60 * time.Second,
		MaxRetries:   5,
		RetrySleep:   30 * time.Second,
		PollInterval: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Logger builds the logger for the configured environment: text output for local and
// development, JSON otherwise.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.Environment == "local" || c.Environment == "development" {
		return slog.New(slog.NewTextHandler(w, hopts))
	}
	return slog.New(slog.NewJSONHandler(w, hopts))
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 60*time.Second)),
		WithPollInterval(getDurationEnvOrDefault("CDS_POLL_INTERVAL", 10*time.Second)),
		WithMaxRetries(getIntEnvOrDefault("CDS_MAX_RETRIES", 5)),
		WithRetrySleep(getDurationEnvOrDefault("CDS_RETRY_SLEEP", 30*time.Second)),
		WithCDS(os.Getenv("CDSAPI_URL"), os.Getenv("CDSAPI_KEY"), os.Getenv("CDSAPI_RC")),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
