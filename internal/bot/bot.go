// Package bot wires the Telegram listener, the health endpoint and the task
// scheduler together and manages their lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/aichat/internal/health"
)

// Bot represents the running application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	tgBot     *tgbot.Bot
	health    *health.Server
	scheduler *Scheduler
}

// NewBot creates a new instance of the bot. The Telegram handlers must be
// registered on tgBot before Run.
func NewBot(logger *slog.Logger, tgBot *tgbot.Bot, healthServer *health.Server, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		tgBot:     tgBot,
		health:    healthServer,
		scheduler: scheduler,
	}
}

// Run starts all components and blocks until ctx is cancelled or one of them
// fails. The first failure stops the others and is returned.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := b.health.ListenAndServe(gCtx); err != nil {
			b.logger.Error("Health endpoint failed", "error", err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")
		b.tgBot.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
