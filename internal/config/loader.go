package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. AICHAT_LOGGER_LEVEL.
const EnvPrefix = "AICHAT"

// ErrValidation is returned when the loaded configuration fails validation.
var ErrValidation = errors.New("configuration validation failed")

// LoadConfig loads and validates configuration from, in increasing priority:
//  1. Default values
//  2. The YAML file at path (optional, skipped when missing or empty)
//  3. Variables from a .env file in the working directory (optional)
//  4. Environment variables
func LoadConfig(path string) (*Config, error) {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("telegram.token", EnvPrefix+"_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind telegram token env: %w", err)
	}
	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "TOGETHER_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind ai api key env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Info("Configuration file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	slog.Debug("Configuration loaded",
		"ai_provider", cfg.AI.Provider,
		"ai_model", cfg.AI.Model,
		"health_addr", cfg.Health.Addr,
		"journal_enabled", cfg.Journal.Enabled,
		"duration_ms", time.Since(startTime).Milliseconds())

	return cfg, nil
}
