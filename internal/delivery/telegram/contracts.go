package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/service"
)

// BotAPI is the subset of *tgbotapi.BotAPI used by the handler.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) error
}

type ChapterService interface {
	GetByNumber(number int) (*entities.Chapter, error)
	GetAll() []*entities.Chapter
	Search(query string) []*entities.Chapter
}

type CommentaryService interface {
	Get(ctx context.Context, chapterNumber, verseIndex int) (string, error)
}

// ReaderFactory builds the reader of a user playing through transport.
type ReaderFactory func(userID int64, transport service.AudioTransport) *service.Reader
