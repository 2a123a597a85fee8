// Package main contains the entrypoint for the aichat Telegram bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/edgard/aichat/internal/bot"
	"github.com/edgard/aichat/internal/bot/handlers"
	"github.com/edgard/aichat/internal/bot/tasks"
	"github.com/edgard/aichat/internal/completion"
	"github.com/edgard/aichat/internal/config"
	"github.com/edgard/aichat/internal/database"
	"github.com/edgard/aichat/internal/gate"
	"github.com/edgard/aichat/internal/health"
	"github.com/edgard/aichat/internal/logger"
	"github.com/edgard/aichat/internal/prompt"
	"github.com/edgard/aichat/internal/telegram"
)

var errRunFailed = errors.New("aichat stopped with an error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "aichat",
		Short: "Telegram bot that answers mentions and replies with an LLM",
		Long: `aichat listens in Telegram chats where it was enabled with .set, answers
messages that mention it or reply to it using a hosted completion API, and
serves a liveness endpoint on /health.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if code := run(cmd.Context(), configPath); code != 0 {
				return errRunFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "./config.yaml", "Path to configuration file")
	return cmd
}

// run initializes and starts all application components, handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context, configPath string) int {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return 1
	}

	log, logCloser := logger.NewLogger(cfg.Logger)
	defer func() {
		if err := logCloser.Close(); err != nil {
			slog.Error("Failed to close log file", "error", err)
		}
	}()
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON, "file", cfg.Logger.File)

	var store database.Store
	if cfg.Journal.Enabled {
		db, err := database.NewDB(cfg.Journal.Path)
		if err != nil {
			log.Error("Failed to open journal database", "path", cfg.Journal.Path, "error", err)
			return 1
		}
		defer database.CloseDB(db)
		store = database.NewStore(db, log)
	}

	completer, err := completion.New(ctx, cfg.AI, cfg.Messages.CompletionFallback, log)
	if err != nil {
		log.Error("Failed to initialize completion client", "provider", cfg.AI.Provider, "error", err)
		return 1
	}

	tracker, err := gate.NewTracker(cfg.Context.Capacity, cfg.Context.TTL)
	if err != nil {
		log.Error("Failed to create context tracker", "error", err)
		return 1
	}

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log,
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithErrorsHandler(func(err error) {
			log.Error("Telegram client error", "error", err)
		}),
	)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	var journal gate.Journal
	if store != nil {
		journal = store
	}
	g := gate.New(gate.Deps{
		Logger:    log,
		Messenger: telegram.NewMessenger(tg, log),
		Completer: completer,
		Prompts:   prompt.NewLoader(cfg.Prompt.Path, log),
		Tracker:   tracker,
		Journal:   journal,
	}, gate.Options{
		BotID:         cfg.Telegram.BotInfo.ID,
		CommandPrefix: cfg.Telegram.CommandPrefix,
		Messages: gate.Messages{
			ChannelEnabled:        cfg.Messages.ChannelEnabled,
			ChannelAlreadyEnabled: cfg.Messages.ChannelAlreadyEnabled,
			ChannelDisabled:       cfg.Messages.ChannelDisabled,
			ChannelNotEnabled:     cfg.Messages.ChannelNotEnabled,
		},
	})

	hDeps := handlers.HandlerDeps{Logger: log, Config: cfg, Gate: g}
	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{Logger: log, Config: cfg, Tracker: tracker, Store: store}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, tg, health.NewServer(cfg.Health.Addr, log), sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
