// Package logger provides structured logging for aichat.
// It uses Go's slog package with configurable level and format, and can
// mirror output to a rotating log file.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/edgard/aichat/internal/config"
)

// NewLogger creates a new slog Logger from the logger configuration and sets
// it as the default. The returned closer releases the log file, if any.
func NewLogger(cfg config.LoggerConfig) (*slog.Logger, io.Closer) {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg config.LoggerConfig, stdout io.Writer) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	out := stdout
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		out = io.MultiWriter(stdout, rotating)
		closer = rotating
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closer
}

// ParseLevel maps a configured level name to a slog level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Middleware creates a logging middleware for the Telegram bot.
// It logs every incoming update and how long its handler took.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()

			logEntry := log.With("update_id", update.ID)

			updateType := "other"
			if msg := update.Message; msg != nil {
				updateType = "message"
				var userID int64
				if msg.From != nil {
					userID = msg.From.ID
				}
				logEntry = logEntry.With(
					"message_id", msg.ID,
					"chat_id", msg.Chat.ID,
					"user_id", userID,
					"text_preview", truncateString(msg.Text, 50),
				)
			} else if update.EditedMessage != nil {
				updateType = "edited_message"
			}
			logEntry = logEntry.With("update_type", updateType)

			logEntry.DebugContext(ctx, "Processing update")

			next(ctx, b, update)

			logEntry.DebugContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(r[:maxLen-3]) + "..."
}
