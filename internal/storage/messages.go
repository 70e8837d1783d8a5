package storage

import (
	"sync"
	"time"
)

// TrackedMessage is a bot message that is later edited or replaced.
type TrackedMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// MessageTracker remembers the last message of one kind per chat,
// e.g. the player panel or the last reminder.
type MessageTracker struct {
	mu       sync.RWMutex
	messages map[int64]TrackedMessage
}

func NewMessageTracker() *MessageTracker {
	return &MessageTracker{
		messages: make(map[int64]TrackedMessage),
	}
}

func (t *MessageTracker) Get(chatID int64) (TrackedMessage, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	msg, ok := t.messages[chatID]
	return msg, ok
}

func (t *MessageTracker) Delete(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.messages, chatID)
}

// Swap stores messageID as the chat's message and returns the previous one.
func (t *MessageTracker) Swap(chatID int64, messageID int) (prev TrackedMessage, hadPrev bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, hadPrev = t.messages[chatID]

	t.messages[chatID] = TrackedMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    time.Now(),
	}

	return prev, hadPrev
}
