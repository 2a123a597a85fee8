package gate

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Key identifies a message. Message ids are only unique within a channel.
type Key struct {
	ChannelID int64
	MessageID int64
}

type trackedPrompt struct {
	prompt   string
	storedAt time.Time
}

// Tracker maps the id of each reply the bot sent to the original prompt that
// started the conversation. It holds at most capacity entries, evicting the
// least recently used, and treats entries older than ttl as absent.
type Tracker struct {
	cache *lru.Cache[Key, trackedPrompt]
	ttl   time.Duration
	now   func() time.Time
}

// NewTracker creates a tracker. A zero ttl disables expiry.
func NewTracker(capacity int, ttl time.Duration) (*Tracker, error) {
	cache, err := lru.New[Key, trackedPrompt](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create context cache: %w", err)
	}
	return &Tracker{cache: cache, ttl: ttl, now: time.Now}, nil
}

// Remember records prompt as the context of the sent reply key.
func (t *Tracker) Remember(key Key, prompt string) {
	t.cache.Add(key, trackedPrompt{prompt: prompt, storedAt: t.now()})
}

// Recall returns the original prompt for key, if present and not expired.
func (t *Tracker) Recall(key Key) (string, bool) {
	entry, ok := t.cache.Get(key)
	if !ok {
		return "", false
	}
	if t.expired(entry) {
		t.cache.Remove(key)
		return "", false
	}
	return entry.prompt, true
}

// Sweep removes every expired entry and returns how many were removed.
func (t *Tracker) Sweep() int {
	if t.ttl <= 0 {
		return 0
	}
	removed := 0
	for _, key := range t.cache.Keys() {
		entry, ok := t.cache.Peek(key)
		if ok && t.expired(entry) && t.cache.Remove(key) {
			removed++
		}
	}
	return removed
}

// ForgetChannel drops every entry belonging to channelID.
func (t *Tracker) ForgetChannel(channelID int64) int {
	removed := 0
	for _, key := range t.cache.Keys() {
		if key.ChannelID == channelID && t.cache.Remove(key) {
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (t *Tracker) Len() int {
	return t.cache.Len()
}

func (t *Tracker) expired(entry trackedPrompt) bool {
	return t.ttl > 0 && t.now().Sub(entry.storedAt) >= t.ttl
}
