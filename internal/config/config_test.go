package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	logger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, resolved, err := Load(&logger, path)
	require.NoError(t, err)
	require.Equal(t, path, resolved)

	require.Empty(t, cfg.AllowedOrigins)
	cfg.AllowedOrigins = nil
	require.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "addr: \":9000\"\nshutdown_timeout: 2s\nmessages_per_minute: 10\nallowed_origins:\n  - example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PAIRCHAT_MESSAGES_PER_MINUTE", "25")
	t.Setenv("PAIRCHAT_LOG_LEVEL", "debug")

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, 25, cfg.MessagesPerMinute)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"example.com"}, cfg.AllowedOrigins)
	require.Equal(t, Default().ClientBuffer, cfg.ClientBuffer)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unterminated"), 0o600))

	_, _, err := Load(nil, path)
	require.Error(t, err)
}

func TestLoadValidatesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_format: xml\n"), 0o600))

	_, _, err := Load(nil, path)
	require.ErrorContains(t, err, "invalid config")

	t.Setenv("PAIRCHAT_CLIENT_BUFFER", "0")
	require.NoError(t, os.WriteFile(path, []byte("log_format: json\n"), 0o600))
	_, _, err = Load(nil, path)
	require.ErrorContains(t, err, "invalid config")
}

func TestUpdateFromOverridesNonZero(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Addr: ":7000", LogLevel: "warn"})

	require.Equal(t, ":7000", cfg.Addr)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, Default().ShutdownTimeout, cfg.ShutdownTimeout)
	require.Equal(t, Default().MessagesPerMinute, cfg.MessagesPerMinute)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty addr", mutate: func(c *Config) { c.Addr = "" }},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.ShutdownTimeout = 0 }},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "verbose" }},
		{name: "unknown log format", mutate: func(c *Config) { c.LogFormat = "xml" }},
		{name: "tiny read limit", mutate: func(c *Config) { c.MaxMessageBytes = 10 }},
		{name: "zero client buffer", mutate: func(c *Config) { c.ClientBuffer = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.MessagesPerMinute = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
