// Package gate decides which chat messages get an AI reply, builds the prompt
// from one hop of reply context and sends the completion back.
package gate

import (
	"context"
	"errors"
)

// ErrReferenceUnavailable means a referenced message could not be resolved,
// for example because it was deleted or the platform cannot fetch by id.
var ErrReferenceUnavailable = errors.New("referenced message unavailable")

// Message is the platform-neutral view of an incoming chat message.
type Message struct {
	ID        int64
	ChannelID int64
	// ChannelMention is how the platform renders a reference to the channel.
	ChannelMention string

	AuthorID    int64
	AuthorIsBot bool

	Text        string
	MentionsBot bool

	// Reference is set when the message replies to another message.
	Reference *Reference
}

// Reference points at the message being replied to. Message is nil when the
// platform event did not carry a copy of it.
type Reference struct {
	MessageID int64
	Message   *Message
}

// Messenger is the outbound side of the chat platform.
type Messenger interface {
	// FetchMessage resolves a message by id within a channel.
	FetchMessage(ctx context.Context, channelID, messageID int64) (*Message, error)
	// Reply sends text as a reply to msg and returns the id of the sent message.
	Reply(ctx context.Context, msg *Message, text string) (int64, error)
	// Typing shows a typing indicator in the channel.
	Typing(ctx context.Context, channelID int64) error
}
