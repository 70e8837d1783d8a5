package service

import (
	"context"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
)

// KeyValueStore is the persistence capability used by the settings and progress stores.
// Get returns storage.ErrKeyNotFound for missing keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ContentFetcher loads a chapter's verses and recitation audio.
type ContentFetcher interface {
	LoadChapter(ctx context.Context, chapterNumber int, reciterID string) (*entities.ChapterContent, error)
}

// CommentaryFetcher loads the commentary of a single verse.
type CommentaryFetcher interface {
	LoadCommentary(ctx context.Context, chapterNumber, verseIndex int) (string, error)
}

// AudioTransport plays verse audio. The transport reports the end of the
// current track through the callback registered with OnEnded.
type AudioTransport interface {
	Load(ctx context.Context, url string) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, fraction float64) error
	OnEnded(fn func(ctx context.Context))
}

// UserRepository stores the users known to the bot.
// Save reports whether the user was created.
type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	ListActive(ctx context.Context) ([]*entities.User, error)
	Deactivate(ctx context.Context, userID int64) error
}

// ReminderNotifier sends reading reminders to users.
// It returns ErrRecipientUnavailable when the chat can no longer be reached.
type ReminderNotifier interface {
	SendReminder(ctx context.Context, chatID int64, payload entities.ReminderPayload) error
}

// UserStoreFactory returns the key-value namespace of a user.
type UserStoreFactory func(userID int64) KeyValueStore

// ChapterDirectory is the read-only chapter metadata source.
type ChapterDirectory interface {
	GetByNumber(number int) (*entities.Chapter, error)
}
