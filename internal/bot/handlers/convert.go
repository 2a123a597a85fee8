package handlers

import (
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/aichat/internal/gate"
)

// toGateMessage converts a Telegram message into the gate's view of it. The
// replied-to message, which Telegram ships inline, becomes the reference.
func toGateMessage(msg *models.Message, me *models.User) *gate.Message {
	out := convertMessage(msg, me)
	if reply := msg.ReplyToMessage; reply != nil {
		out.Reference = &gate.Reference{
			MessageID: int64(reply.ID),
			Message:   convertMessage(reply, me),
		}
	}
	return out
}

func convertMessage(msg *models.Message, me *models.User) *gate.Message {
	text, entities := messageContent(msg)
	out := &gate.Message{
		ID:             int64(msg.ID),
		ChannelID:      msg.Chat.ID,
		ChannelMention: channelMention(msg.Chat),
		Text:           text,
		MentionsBot:    mentionsBot(text, entities, me),
	}
	switch {
	case msg.From != nil:
		out.AuthorID = msg.From.ID
		out.AuthorIsBot = msg.From.IsBot
	case msg.SenderChat != nil:
		out.AuthorID = msg.SenderChat.ID
	}
	return out
}

// messageContent returns the text of msg, falling back to the caption of
// media messages, with its entities.
func messageContent(msg *models.Message) (string, []models.MessageEntity) {
	if msg.Text != "" {
		return msg.Text, msg.Entities
	}
	return msg.Caption, msg.CaptionEntities
}

// channelMention renders a chat the way users refer to it: @username for
// public chats, otherwise the title or, in private chats, the first name.
func channelMention(chat models.Chat) string {
	switch {
	case chat.Username != "":
		return "@" + chat.Username
	case chat.Title != "":
		return chat.Title
	case chat.FirstName != "":
		return chat.FirstName
	default:
		return "this chat"
	}
}

// mentionsBot reports whether text mentions me. Entity offsets are in UTF-16
// code units.
func mentionsBot(text string, entities []models.MessageEntity, me *models.User) bool {
	if me == nil {
		return false
	}
	username := strings.ToLower(me.Username)
	mention := "@" + username

	var encoded []uint16
	for _, e := range entities {
		switch e.Type {
		case models.MessageEntityTypeTextMention:
			if e.User != nil && e.User.ID == me.ID {
				return true
			}
		case models.MessageEntityTypeMention:
			if username == "" {
				continue
			}
			if encoded == nil {
				encoded = utf16.Encode([]rune(text))
			}
			if e.Offset < 0 || e.Length <= 0 || e.Offset+e.Length > len(encoded) {
				continue
			}
			if strings.ToLower(string(utf16.Decode(encoded[e.Offset:e.Offset+e.Length]))) == mention {
				return true
			}
		}
	}

	if username == "" {
		return false
	}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if strings.TrimRightFunc(w, unicode.IsPunct) == mention {
			return true
		}
	}
	return false
}
