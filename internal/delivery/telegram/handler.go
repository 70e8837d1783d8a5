package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/storage"
)

type Handler struct {
	bot        BotAPI
	logger     *zap.Logger
	chapters   ChapterService
	users      UserService
	commentary CommentaryService
	newReader  ReaderFactory

	sessionsMu sync.Mutex
	sessions   map[int64]*session

	panels       *storage.MessageTracker
	commentaries *storage.MessageTracker
	reminders    *storage.MessageTracker
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	chapters ChapterService,
	users UserService,
	commentary CommentaryService,
	newReader ReaderFactory,
) *Handler {
	return &Handler{
		bot:          bot,
		logger:       logger,
		chapters:     chapters,
		users:        users,
		commentary:   commentary,
		newReader:    newReader,
		sessions:     make(map[int64]*session),
		panels:       storage.NewMessageTracker(),
		commentaries: storage.NewMessageTracker(),
		reminders:    storage.NewMessageTracker(),
	}
}

// Run processes updates until ctx is done. Every update is handled in its own goroutine.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.handleUpdate(ctx, update)
			}()
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if err := h.users.EnsureUser(ctx, userID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	s := h.session(ctx, userID, chatID)

	if !update.Message.IsCommand() {
		_ = h.withErrorHandling(h.handleText(s, update.Message.Text))(ctx, chatID)
		return
	}

	args := update.Message.CommandArguments()

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.handleStart(s)
	case "help":
		fn = h.handleHelp()
	case "surahs":
		fn = h.handleChapters(s)
	case "surah":
		fn = h.handleText(s, args)
	case "play":
		fn = h.handlePlay(s)
	case "pause":
		fn = h.handlePause(s)
	case "next":
		fn = h.handleNext(s)
	case "prev":
		fn = h.handlePrev(s)
	case "goto":
		fn = h.handleGoto(s, args)
	case "tafsir":
		fn = h.handleTafsir(s)
	case "reciter":
		fn = h.handleReciters(s)
	case "settings":
		fn = h.handleSettings(s)
	case "progress":
		fn = h.handleProgress(s)
	case "reset":
		fn = h.handleResetAsk()
	default:
		fn = func(ctx context.Context, chatID int64) error {
			return h.send(newPlainMessage(chatID, msgUnknownCommand))
		}
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

// send sends c and logs failures.
func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// answer answers a callback query, removing the user's "clock".
func (h *Handler) answer(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
