package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSetHandler returns a handler for the .set command, which enables AI
// replies in the current chat.
func NewSetHandler(deps HandlerDeps) bot.HandlerFunc {
	return channelHandler{deps: deps, enable: true}.Handle
}

// NewUnsetHandler returns a handler for the .unset command, which disables AI
// replies in the current chat.
func NewUnsetHandler(deps HandlerDeps) bot.HandlerFunc {
	return channelHandler{deps: deps, enable: false}.Handle
}

type channelHandler struct {
	deps   HandlerDeps
	enable bool
}

func (h channelHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "channel")

	if update.Message == nil {
		log.WarnContext(ctx, "Channel handler received update with nil message", "update_id", update.ID)
		return
	}
	msg := toGateMessage(update.Message, h.deps.Config.Telegram.BotInfo)

	var err error
	if h.enable {
		err = h.deps.Gate.EnableChannel(ctx, msg)
	} else {
		err = h.deps.Gate.DisableChannel(ctx, msg)
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to handle channel command", "error", err, "chat_id", msg.ChannelID, "enable", h.enable)
	}
}
