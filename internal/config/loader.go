package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix            = "PAIRCHAT"
	envConfigDefaultPath = "PAIRCHAT_CONFIG_DEFAULT_PATH"
	defaultConfigName    = "config.yaml"
)

// Load resolves the config path, reads it and returns a validated Config.
// Precedence: defaults < config file < PAIRCHAT_* env vars. A missing file is
// created with the defaults. Flag overrides are applied by the caller.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	cfg := Default()
	configPath := resolveConfigPath(explicitPath)

	v := newViper(cfg, configPath)
	if err := readConfig(v, logger, configPath, cfg); err != nil {
		return cfg, configPath, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, configPath, err
	}
	return cfg, configPath, nil
}

func newViper(defaults Config, path string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	for key, value := range map[string]any{
		"addr":                defaults.Addr,
		"read_header_timeout": defaults.ReadHeaderTimeout,
		"shutdown_timeout":    defaults.ShutdownTimeout,
		"log_level":           defaults.LogLevel,
		"log_format":          defaults.LogFormat,
		"max_message_bytes":   defaults.MaxMessageBytes,
		"client_buffer":       defaults.ClientBuffer,
		"messages_per_minute": defaults.MessagesPerMinute,
		"allowed_origins":     defaults.AllowedOrigins,
	} {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// readConfig reads the file behind v. A missing file is replaced by the
// defaults; failing to write it is logged and the defaults still apply.
func readConfig(v *viper.Viper, logger *zerolog.Logger, path string, defaults Config) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config: %w", err)
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if err := writeDefaultConfig(path, defaults); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("default config not written")
		return nil
	}
	logger.Info().Str("path", path).Msg("created default config")
	if err := v.ReadInConfig(); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("default config not readable")
	}
	return nil
}

func resolveConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if base := os.Getenv(envConfigDefaultPath); base != "" {
		if err := os.MkdirAll(base, 0o755); err == nil {
			return filepath.Join(base, defaultConfigName)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(cwd, defaultConfigName)
}

func writeDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
