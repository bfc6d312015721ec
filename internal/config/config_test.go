package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigWithDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.RetrySleep)
	assert.Empty(t, cfg.CDSURL)
	assert.Empty(t, cfg.CDSKey)
}

func TestWithLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, New(WithLogLevel("debug")).LogLevel)
	assert.Equal(t, slog.LevelWarn, New(WithLogLevel("WARN")).LogLevel)
	assert.Equal(t, slog.LevelInfo, New(WithLogLevel("loud")).LogLevel)
}

func TestWithRetrySleep(t *testing.T) {
	cfg := New(WithRetrySleep(time.Second), WithMaxRetries(1), WithPollInterval(3*time.Second))

	assert.Equal(t, time.Second, cfg.RetrySleep)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
}

func TestWithCDS(t *testing.T) {
	cfg := New(WithCDS("https://cds.example.org/api", "1:a", ""), WithCDS("", "", "/tmp/rc"))

	assert.Equal(t, "https://cds.example.org/api", cfg.CDSURL)
	assert.Equal(t, "1:a", cfg.CDSKey)
	assert.Equal(t, "/tmp/rc", cfg.CDSRCFile)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	New(WithEnvironment("local")).Logger(&buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello k=v")

	buf.Reset()
	New().Logger(&buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello","k":"v"`)

	buf.Reset()
	New(WithLogLevel("warn")).Logger(&buf).Info("hidden")
	assert.Empty(t, buf.String())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("CDS_POLL_INTERVAL", "2s")
	t.Setenv("CDS_MAX_RETRIES", "7")
	t.Setenv("CDS_RETRY_SLEEP", "90s")
	t.Setenv("CDSAPI_URL", "https://cds.example.org/api")
	t.Setenv("CDSAPI_KEY", "1:a")
	t.Setenv("CDSAPI_RC", "/tmp/rc")

	cfg := LoadFromEnv()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, 90*time.Second, cfg.RetrySleep)
	assert.Equal(t, "https://cds.example.org/api", cfg.CDSURL)
	assert.Equal(t, "1:a", cfg.CDSKey)
	assert.Equal(t, "/tmp/rc", cfg.CDSRCFile)
}

func TestLoadFromEnvIgnoresMalformed(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	t.Setenv("CDS_MAX_RETRIES", "many")
	t.Setenv("CDS_RETRY_SLEEP", "later")

	cfg := LoadFromEnv()

	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.RetrySleep)
}
