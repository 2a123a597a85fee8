package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type messageHandler struct {
	deps HandlerDeps
}

// NewMessageHandler creates the handler for ordinary chat messages. The gate
// decides whether a message gets an AI reply.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

func (h messageHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	msg := toGateMessage(update.Message, h.deps.Config.Telegram.BotInfo)

	outcome := h.deps.Gate.HandleMessage(ctx, msg)
	h.deps.Logger.DebugContext(ctx, "Message handled",
		"handler", "message",
		"chat_id", msg.ChannelID,
		"message_id", msg.ID,
		"outcome", outcome.String())
}
