package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration
const (
	DefaultLogLevel      = "info"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 5
	DefaultLogMaxAgeDays = 10

	DefaultCommandPrefix = "."

	DefaultAIProvider    = "openai"
	DefaultAIBaseURL     = "https://api.together.xyz/v1"
	DefaultAIModel       = "meta-llama/Llama-3-70b-chat-hf"
	DefaultAITemperature = 0.7
	DefaultAIMaxTokens   = 100

	DefaultHealthAddr = "0.0.0.0:8080"
	DefaultPromptPath = "evelyn.txt"

	DefaultContextCapacity = 4096
	DefaultContextTTL      = 24 * time.Hour

	DefaultJournalPath      = "aichat.db"
	DefaultJournalRetention = 30 * 24 * time.Hour
)

// Default bot messages
const (
	DefaultMsgChannelEnabled        = "aichat enabled in %s"
	DefaultMsgChannelAlreadyEnabled = "aichat already enabled in %s"
	DefaultMsgChannelDisabled       = "aichat disabled in %s"
	DefaultMsgChannelNotEnabled     = "aichat not enabled in %s"
	DefaultMsgCompletionFallback    = "oops something broke lol"
)

// Scheduled task names, shared with the task registry.
const (
	TaskContextSweep   = "context_sweep"
	TaskJournalPrune   = "journal_prune"
	TaskSQLMaintenance = "sql_maintenance"
)

// setDefaults sets default values for optional configuration parameters
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", DefaultLogMaxSizeMB)
	v.SetDefault("logger.max_backups", DefaultLogMaxBackups)
	v.SetDefault("logger.max_age_days", DefaultLogMaxAgeDays)
	v.SetDefault("logger.compress", true)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.command_prefix", DefaultCommandPrefix)

	v.SetDefault("ai.provider", DefaultAIProvider)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", DefaultAIBaseURL)
	v.SetDefault("ai.model", DefaultAIModel)
	v.SetDefault("ai.temperature", DefaultAITemperature)
	v.SetDefault("ai.max_tokens", DefaultAIMaxTokens)

	v.SetDefault("health.addr", DefaultHealthAddr)
	v.SetDefault("prompt.path", DefaultPromptPath)

	v.SetDefault("context.capacity", DefaultContextCapacity)
	v.SetDefault("context.ttl", DefaultContextTTL)

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", DefaultJournalPath)
	v.SetDefault("journal.retention", DefaultJournalRetention)

	v.SetDefault("scheduler.tasks."+TaskContextSweep+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskContextSweep+".schedule", "0 */10 * * * *")
	v.SetDefault("scheduler.tasks."+TaskJournalPrune+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskJournalPrune+".schedule", "0 30 3 * * *")
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".schedule", "0 0 4 * * *")

	v.SetDefault("messages.channel_enabled", DefaultMsgChannelEnabled)
	v.SetDefault("messages.channel_already_enabled", DefaultMsgChannelAlreadyEnabled)
	v.SetDefault("messages.channel_disabled", DefaultMsgChannelDisabled)
	v.SetDefault("messages.channel_not_enabled", DefaultMsgChannelNotEnabled)
	v.SetDefault("messages.completion_fallback", DefaultMsgCompletionFallback)
}
