package telegram

import (
	"context"
	"fmt"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/repository"
	"github.com/aliskhannn/quran-reader-bot/internal/service"
	"github.com/aliskhannn/quran-reader-bot/internal/storage"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
	nextID   int
	updates  chan tgbotapi.Update
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sendErr != nil {
		return tgbotapi.Message{}, b.sendErr
	}
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) audios() []tgbotapi.AudioConfig {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []tgbotapi.AudioConfig
	for _, c := range b.sent {
		if a, ok := c.(tgbotapi.AudioConfig); ok {
			out = append(out, a)
		}
	}
	return out
}

func (b *fakeBot) messages() []tgbotapi.MessageConfig {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []tgbotapi.MessageConfig
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (b *fakeBot) answers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []string
	for _, c := range b.requests {
		if a, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, a.Text)
		}
	}
	return out
}

type fakeFetcher struct {
	err error
}

func (f *fakeFetcher) LoadChapter(_ context.Context, chapterNumber int, reciterID string) (*entities.ChapterContent, error) {
	if f.err != nil {
		return nil, f.err
	}

	content := &entities.ChapterContent{
		Chapter:   entities.Chapter{Number: chapterNumber, Transliteration: fmt.Sprintf("Chapter %d", chapterNumber), VerseCount: 5},
		ReciterID: reciterID,
	}
	if entities.HasOpeningFormula(chapterNumber) {
		content.Verses = append(content.Verses, entities.Verse{
			Text:     entities.OpeningFormula,
			AudioURL: "https://audio.test/" + reciterID + "/1.mp3",
		})
	}
	for i := 1; i <= 5; i++ {
		content.Verses = append(content.Verses, entities.Verse{
			Text:            fmt.Sprintf("verse %d", i),
			NumberInChapter: i,
			AudioURL:        fmt.Sprintf("https://audio.test/%s/%d/%d.mp3", reciterID, chapterNumber, i),
		})
	}
	return content, nil
}

type fakeUsers struct{}

func (fakeUsers) EnsureUser(context.Context, int64, int64) error { return nil }

type fakeCommentary struct {
	calls int
}

func (f *fakeCommentary) Get(_ context.Context, chapterNumber, verseIndex int) (string, error) {
	f.calls++
	return fmt.Sprintf("tafsir %d:%d", chapterNumber, verseIndex), nil
}

type handlerFixture struct {
	handler    *Handler
	bot        *fakeBot
	fetcher    *fakeFetcher
	commentary *fakeCommentary
	kv         *storage.MemoryStore
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	chapters, err := repository.NewChapterRepository("../../../assets/data/chapters.json")
	require.NoError(t, err)

	logger := zap.NewNop()
	f := &handlerFixture{
		bot:        &fakeBot{updates: make(chan tgbotapi.Update)},
		fetcher:    &fakeFetcher{},
		commentary: &fakeCommentary{},
		kv:         storage.NewMemoryStore(),
	}

	newReader := func(userID int64, transport service.AudioTransport) *service.Reader {
		store := storage.NewNamespaced(f.kv, entities.UserNamespace(userID))
		return service.NewReader(
			f.fetcher,
			transport,
			service.NewSettingsStore(store, logger),
			service.NewProgressStore(store, logger),
			logger,
		)
	}

	f.handler = NewHandler(f.bot, logger, chapters, fakeUsers{}, f.commentary, newReader)
	return f
}

func commandUpdate(userID int64, text, command string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: userID},
			Chat:      &tgbotapi.Chat{ID: userID},
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command) + 1}},
		},
	}
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: userID},
			Chat:      &tgbotapi.Chat{ID: userID},
			Text:      text,
		},
	}
}

func callbackUpdate(userID int64, messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			From:    &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: userID}},
			Data:    data,
		},
	}
}
