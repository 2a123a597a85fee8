// Package handlers contains the Telegram command and message handlers, along
// with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HumanOnly creates a middleware that drops updates without a message and
// messages sent by bots, so automated accounts cannot toggle channels.
func HumanOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			msg := update.Message
			if msg == nil {
				return
			}
			if msg.From != nil && msg.From.IsBot {
				deps.Logger.DebugContext(ctx, "Ignoring command from bot account",
					"middleware", "HumanOnly", "user_id", msg.From.ID, "chat_id", msg.Chat.ID)
				return
			}
			next(ctx, bot, update)
		}
	}
}
