// Package config provides configuration loading, validation, and management
// for the aichat bot. It reads an optional YAML file, a .env file and
// environment variables, applies defaults and validates the result.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config defines the application configuration parameters for all components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	AI        AIConfig        `mapstructure:"ai"`
	Health    HealthConfig    `mapstructure:"health"`
	Prompt    PromptConfig    `mapstructure:"prompt"`
	Context   ContextConfig   `mapstructure:"context"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log level, format and the optional rotating log file.
type LoggerConfig struct {
	Level      string `mapstructure:"level"        validate:"oneof=debug info warn error"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"  validate:"gt=0"`
	MaxBackups int    `mapstructure:"max_backups"  validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// TelegramConfig holds the bot token, command prefix and the bot identity
// retrieved at startup.
type TelegramConfig struct {
	Token         string `mapstructure:"token"          validate:"required"`
	CommandPrefix string `mapstructure:"command_prefix" validate:"required"`

	// BotInfo is filled from GetMe after the bot is created.
	BotInfo *models.User `mapstructure:"-"`
}

// AIConfig configures the completion backend. Model, temperature and output
// length are fixed per process.
type AIConfig struct {
	Provider    string  `mapstructure:"provider"    validate:"oneof=openai gemini"`
	APIKey      string  `mapstructure:"api_key"     validate:"required"`
	BaseURL     string  `mapstructure:"base_url"    validate:"omitempty,url"`
	Model       string  `mapstructure:"model"       validate:"required"`
	Temperature float32 `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxTokens   int     `mapstructure:"max_tokens"  validate:"gt=0"`
}

// HealthConfig holds the listen address of the liveness endpoint.
type HealthConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

// PromptConfig points at the system prompt file.
type PromptConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ContextConfig bounds the reply-context tracker.
type ContextConfig struct {
	Capacity int           `mapstructure:"capacity" validate:"gt=0"`
	TTL      time.Duration `mapstructure:"ttl"      validate:"min=1m"`
}

// JournalConfig controls the sqlite exchange journal.
type JournalConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Path      string        `mapstructure:"path"      validate:"required_if=Enabled true"`
	Retention time.Duration `mapstructure:"retention" validate:"min=1h"`
}

// SchedulerConfig lists scheduled tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a task and gives its cron schedule (seconds field included).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds every user-visible string. The channel templates take
// the channel mention as their only %s argument.
type MessagesConfig struct {
	ChannelEnabled        string `mapstructure:"channel_enabled"         validate:"required"`
	ChannelAlreadyEnabled string `mapstructure:"channel_already_enabled" validate:"required"`
	ChannelDisabled       string `mapstructure:"channel_disabled"        validate:"required"`
	ChannelNotEnabled     string `mapstructure:"channel_not_enabled"     validate:"required"`
	CompletionFallback    string `mapstructure:"completion_fallback"     validate:"required"`
}
