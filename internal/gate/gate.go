package gate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/edgard/aichat/internal/completion"
	"github.com/edgard/aichat/internal/database"
	"github.com/edgard/aichat/internal/prompt"
)

const journalSaveTimeout = 5 * time.Second

// ReplySeparator joins the original prompt and a follow-up reply.
const ReplySeparator = "\n\nuser reply: "

// Completer produces reply text. It never fails; degraded results carry the fallback text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) completion.Result
}

// PromptSource supplies the system prompt for each request.
type PromptSource interface {
	Load() prompt.Result
}

// Journal records completed exchanges.
type Journal interface {
	SaveExchange(ctx context.Context, exchange *database.Exchange) error
}

// Outcome describes what HandleMessage did with a message.
type Outcome int

const (
	OutcomeReplied Outcome = iota
	OutcomeIgnoredBot
	OutcomeIgnoredChannel
	OutcomeIgnoredCommand
	OutcomeNotAddressed
	OutcomeSendFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReplied:
		return "replied"
	case OutcomeIgnoredBot:
		return "ignored_bot"
	case OutcomeIgnoredChannel:
		return "ignored_channel"
	case OutcomeIgnoredCommand:
		return "ignored_command"
	case OutcomeNotAddressed:
		return "not_addressed"
	case OutcomeSendFailed:
		return "send_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Messages are the command responses. Each takes the channel mention as %s.
type Messages struct {
	ChannelEnabled        string
	ChannelAlreadyEnabled string
	ChannelDisabled       string
	ChannelNotEnabled     string
}

// Options configure a Gate.
type Options struct {
	// BotID is the platform id of this bot, used to detect replies to it.
	BotID         int64
	CommandPrefix string
	Messages      Messages
}

// Deps are the collaborators of a Gate. Journal is optional.
type Deps struct {
	Logger    *slog.Logger
	Messenger Messenger
	Completer Completer
	Prompts   PromptSource
	Tracker   *Tracker
	Journal   Journal
}

// Gate owns the enabled-channel set and the reply-context tracker. One Gate is
// built at startup and shared by all handlers.
type Gate struct {
	opts      Options
	channels  *ChannelSet
	tracker   *Tracker
	messenger Messenger
	completer Completer
	prompts   PromptSource
	journal   Journal
	logger    *slog.Logger
}

// New creates a Gate with no channels enabled.
func New(deps Deps, opts Options) *Gate {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gate{
		opts:      opts,
		channels:  NewChannelSet(),
		tracker:   deps.Tracker,
		messenger: deps.Messenger,
		completer: deps.Completer,
		prompts:   deps.Prompts,
		journal:   deps.Journal,
		logger:    logger.With("component", "gate"),
	}
}

// Channels exposes the enabled-channel set.
func (g *Gate) Channels() *ChannelSet {
	return g.channels
}

// Tracker exposes the reply-context tracker.
func (g *Gate) Tracker() *Tracker {
	return g.tracker
}

// EnableChannel turns on AI replies in the channel msg was sent in and
// confirms with a reply to msg.
func (g *Gate) EnableChannel(ctx context.Context, msg *Message) error {
	text := g.opts.Messages.ChannelAlreadyEnabled
	if g.channels.Add(msg.ChannelID) {
		text = g.opts.Messages.ChannelEnabled
		g.logger.InfoContext(ctx, "Channel enabled", "channel_id", msg.ChannelID, "user_id", msg.AuthorID)
	}
	return g.confirm(ctx, msg, fmt.Sprintf(text, msg.ChannelMention))
}

// DisableChannel turns off AI replies in the channel msg was sent in, drops
// the channel's reply context and confirms with a reply to msg.
func (g *Gate) DisableChannel(ctx context.Context, msg *Message) error {
	text := g.opts.Messages.ChannelNotEnabled
	if g.channels.Remove(msg.ChannelID) {
		text = g.opts.Messages.ChannelDisabled
		dropped := g.tracker.ForgetChannel(msg.ChannelID)
		g.logger.InfoContext(ctx, "Channel disabled", "channel_id", msg.ChannelID, "user_id", msg.AuthorID, "context_dropped", dropped)
	}
	return g.confirm(ctx, msg, fmt.Sprintf(text, msg.ChannelMention))
}

func (g *Gate) confirm(ctx context.Context, msg *Message, text string) error {
	if _, err := g.messenger.Reply(ctx, msg, text); err != nil {
		g.logger.ErrorContext(ctx, "Failed to send command response", "error", err, "channel_id", msg.ChannelID)
		return fmt.Errorf("failed to send command response: %w", err)
	}
	return nil
}

// HandleMessage runs one message through the gate and, when it qualifies,
// answers it with a completion.
func (g *Gate) HandleMessage(ctx context.Context, msg *Message) Outcome {
	log := g.logger.With("channel_id", msg.ChannelID, "message_id", msg.ID)

	if msg.AuthorIsBot {
		return OutcomeIgnoredBot
	}
	if !g.channels.Contains(msg.ChannelID) {
		return OutcomeIgnoredChannel
	}
	if strings.HasPrefix(msg.Text, g.opts.CommandPrefix) {
		return OutcomeIgnoredCommand
	}

	referenced := g.resolveReference(ctx, msg)
	replyToBot := referenced != nil && referenced.AuthorID == g.opts.BotID
	if !replyToBot && !msg.MentionsBot {
		return OutcomeNotAddressed
	}

	var original string
	if replyToBot {
		if p, ok := g.tracker.Recall(Key{ChannelID: msg.ChannelID, MessageID: msg.Reference.MessageID}); ok {
			original = p
		}
	}
	effective := BuildPrompt(original, msg.Text)

	if err := g.messenger.Typing(ctx, msg.ChannelID); err != nil {
		log.DebugContext(ctx, "Failed to send typing indicator", "error", err)
	}

	system := g.prompts.Load()
	startTime := time.Now()
	res := g.completer.Complete(ctx, system.Text, effective)
	latency := time.Since(startTime)

	sentID, err := g.messenger.Reply(ctx, msg, res.Text)
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err)
		return OutcomeSendFailed
	}

	topic := original
	if topic == "" {
		topic = msg.Text
	}
	// The channel may have been unset while the completion was in flight.
	if g.channels.Contains(msg.ChannelID) {
		g.tracker.Remember(Key{ChannelID: msg.ChannelID, MessageID: sentID}, topic)
	}

	log.InfoContext(ctx, "Sent reply",
		"reply_id", sentID,
		"has_context", original != "",
		"completion", res.Kind(),
		"prompt_degraded", system.Degraded(),
		"latency", latency)

	g.recordExchange(ctx, msg, sentID, effective, res, latency)
	return OutcomeReplied
}

// resolveReference returns the message msg replies to, or nil when there is
// none or it cannot be resolved.
func (g *Gate) resolveReference(ctx context.Context, msg *Message) *Message {
	ref := msg.Reference
	if ref == nil || ref.MessageID == 0 {
		return nil
	}
	if ref.Message != nil {
		return ref.Message
	}

	fetched, err := g.messenger.FetchMessage(ctx, msg.ChannelID, ref.MessageID)
	if err != nil || fetched == nil {
		if err == nil {
			err = ErrReferenceUnavailable
		}
		if !errors.Is(err, ErrReferenceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrReferenceUnavailable, err)
		}
		g.logger.DebugContext(ctx, "Referenced message not resolved", "error", err,
			"channel_id", msg.ChannelID, "reference_id", ref.MessageID)
		return nil
	}
	return fetched
}

func (g *Gate) recordExchange(ctx context.Context, msg *Message, replyID int64, effective string, res completion.Result, latency time.Duration) {
	if g.journal == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(ctx, journalSaveTimeout)
	defer cancel()

	err := g.journal.SaveExchange(saveCtx, &database.Exchange{
		ChannelID:        msg.ChannelID,
		TriggerMessageID: msg.ID,
		ReplyMessageID:   replyID,
		AuthorID:         msg.AuthorID,
		Prompt:           effective,
		Reply:            res.Text,
		Outcome:          res.Kind(),
		LatencyMS:        latency.Milliseconds(),
	})
	if err != nil {
		g.logger.WarnContext(ctx, "Failed to journal exchange", "error", err, "channel_id", msg.ChannelID)
	}
}

// BuildPrompt returns the prompt sent for text, prefixed with the original
// prompt of the conversation when there is one.
func BuildPrompt(original, text string) string {
	if original == "" {
		return text
	}
	return original + ReplySeparator + text
}
