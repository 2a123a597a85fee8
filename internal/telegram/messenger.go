package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/aichat/internal/gate"
)

// Messenger implements gate.Messenger with the Telegram Bot API.
type Messenger struct {
	bot    *bot.Bot
	logger *slog.Logger
}

// NewMessenger wraps b.
func NewMessenger(b *bot.Bot, logger *slog.Logger) *Messenger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Messenger{bot: b, logger: logger.With("component", "telegram_messenger")}
}

var _ gate.Messenger = (*Messenger)(nil)

// FetchMessage always fails: the Bot API cannot fetch messages by id. Updates
// carry the replied-to message inline instead.
func (m *Messenger) FetchMessage(_ context.Context, channelID, messageID int64) (*gate.Message, error) {
	return nil, fmt.Errorf("%w: chat %d message %d", gate.ErrReferenceUnavailable, channelID, messageID)
}

// Reply sends text as a reply to msg, which keeps it in msg's forum topic.
// The message is still sent when the original was deleted in the meantime.
func (m *Messenger) Reply(ctx context.Context, msg *gate.Message, text string) (int64, error) {
	sent, err := m.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.ChannelID,
		Text:   text,
		ReplyParameters: &models.ReplyParameters{
			MessageID:                int(msg.ID),
			AllowSendingWithoutReply: true,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send reply to message %d in chat %d: %w", msg.ID, msg.ChannelID, err)
	}
	return int64(sent.ID), nil
}

// Typing shows the typing indicator in the chat.
func (m *Messenger) Typing(ctx context.Context, channelID int64) error {
	if _, err := m.bot.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: channelID, Action: models.ChatActionTyping}); err != nil {
		return fmt.Errorf("failed to send typing action to chat %d: %w", channelID, err)
	}
	return nil
}
