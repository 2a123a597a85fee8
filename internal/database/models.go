package database

import "time"

// Exchange is one answered message: the prompt sent to the completion
// backend and the reply posted back.
type Exchange struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChannelID        int64 `db:"channel_id"`
	TriggerMessageID int64 `db:"trigger_message_id"`
	ReplyMessageID   int64 `db:"reply_message_id"`
	AuthorID         int64 `db:"author_id"`

	Prompt string `db:"prompt"`
	Reply  string `db:"reply"`
	// Outcome is "ok" or the completion error kind.
	Outcome   string `db:"outcome"`
	LatencyMS int64  `db:"latency_ms"`
}
