package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/infra/alquran"
	"github.com/aliskhannn/quran-reader-bot/internal/service"
)

func (h *Handler) handleStart(s *session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.send(newMessage(chatID, welcomeText())); err != nil {
			return err
		}

		if !s.reader.Settings().Current().HasSeenPrayerModal {
			msg := newMessage(chatID, prayerText())
			msg.ReplyMarkup = buildOnboardingKeyboard()
			if err := h.send(msg); err != nil {
				return err
			}
		}

		if _, ok := s.reader.Progress().Current(); ok {
			return h.handleProgress(s)(ctx, chatID)
		}
		return nil
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, helpText()))
	}
}

// handleText opens a chapter by number or searches chapters by name.
func (h *Handler) handleText(s *session, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text = strings.TrimSpace(text)
		if text == "" {
			return h.send(newPlainMessage(chatID, msgIncorrectChapterNumber))
		}

		if n, err := strconv.Atoi(text); err == nil {
			return h.openChapter(ctx, s, n)
		}

		found := h.chapters.Search(text)
		if len(found) == 0 {
			return h.send(newPlainMessage(chatID, msgNothingFound))
		}

		msg := newMessage(chatID, md(fmt.Sprintf("🔎 Найдено сур: %d", len(found))))
		msg.ReplyMarkup = buildSearchKeyboard(found)
		return h.send(msg)
	}
}

func (h *Handler) handleChapters(s *session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		all := h.chapters.GetAll()
		text, totalPages := renderChapterList(all, 0)

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = buildChaptersKeyboard(all, 0, totalPages, lastReadChapter(s))
		return h.send(msg)
	}
}

func (h *Handler) handlePlay(s *session) HandlerFunc {
	return h.playerCommand(s, s.reader.Play)
}

func (h *Handler) handlePause(s *session) HandlerFunc {
	return h.playerCommand(s, s.reader.Pause)
}

func (h *Handler) handleNext(s *session) HandlerFunc {
	return h.playerCommand(s, s.reader.SkipNext)
}

func (h *Handler) handlePrev(s *session) HandlerFunc {
	return h.playerCommand(s, s.reader.SkipPrevious)
}

func (h *Handler) handleGoto(s *session, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		n, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUseGoto))
		}

		return h.playerCommand(s, func(ctx context.Context) error {
			return s.reader.Seek(ctx, n)
		})(ctx, chatID)
	}
}

func (h *Handler) handleTafsir(s *session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.toggleCommentary(ctx, s)
		return nil
	}
}

func (h *Handler) handleReciters(s *session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgChooseReciter)
		msg.ReplyMarkup = buildReciterKeyboard(s.reader.Settings().Current().ReciterID)
		return h.send(msg)
	}
}

func (h *Handler) handleSettings(s *session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, renderSettings(s.reader.Settings().Current()))
		msg.ReplyMarkup = buildSettingsKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleProgress(s *session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, ok := h.progressText(s)
		if !ok {
			return h.send(newPlainMessage(chatID, msgNoProgress))
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = buildProgressKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleResetAsk() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

// playerCommand runs a playback action and makes sure the chat has a player panel.
func (h *Handler) playerCommand(s *session, action func(ctx context.Context) error) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := action(ctx); err != nil {
			if text, ok := playbackErrorText(err); ok {
				return h.send(newPlainMessage(chatID, text))
			}
			return err
		}

		if _, ok := h.panels.Get(chatID); !ok {
			return h.sendPlayer(s)
		}
		return nil
	}
}

// openChapter selects a chapter and sends a new player panel for it.
func (h *Handler) openChapter(ctx context.Context, s *session, number int) error {
	if !entities.ValidChapterNumber(number) {
		return h.send(newPlainMessage(s.chatID, msgIncorrectChapterNumber))
	}

	_, err := s.reader.SelectChapter(ctx, number)
	switch {
	case errors.Is(err, service.ErrStaleResult):
		return nil
	case errors.Is(err, alquran.ErrFetchFailed):
		h.logger.Warn("chapter fetch failed",
			zap.Int64("user_id", s.userID),
			zap.Int("chapter", number),
			zap.Error(err),
		)
		return h.send(newPlainMessage(s.chatID, msgFetchFailed))
	case err != nil:
		return err
	}

	return h.sendPlayer(s)
}

// sendPlayer sends a new player panel and makes it the one kept in sync with playback.
func (h *Handler) sendPlayer(s *session) error {
	content := s.reader.Content()
	state := s.reader.State()

	msg := newMessage(s.chatID, renderPlayer(content, state, s.reader.Settings().Current()))
	if content != nil {
		msg.ReplyMarkup = buildPlayerKeyboard(state, s.isCommentaryOpen())
	}

	sent, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send player: %w", err)
	}

	if content != nil {
		h.panels.Swap(s.chatID, sent.MessageID)
	}
	return nil
}

// refreshPlayer re-renders the tracked player panel with the current state.
func (h *Handler) refreshPlayer(s *session) {
	panel, ok := h.panels.Get(s.chatID)
	if !ok {
		return
	}

	state := s.reader.State()
	h.editPlayer(s, panel.MessageID, service.ReaderEvent{
		Playback: entities.PlaybackEvent{State: state, PrevIndex: state.VerseIndex},
		Content:  s.reader.Content(),
	})
}

// toggleCommentary opens or closes the commentary of the current verse.
func (h *Handler) toggleCommentary(ctx context.Context, s *session) {
	open := s.toggleCommentary()

	if !open {
		if msg, ok := h.commentaries.Get(s.chatID); ok {
			h.deleteMessage(s.chatID, msg.MessageID)
			h.commentaries.Delete(s.chatID)
		}
		h.refreshPlayer(s)
		return
	}

	content := s.reader.Content()
	if content == nil {
		s.toggleCommentary()
		_ = h.send(newPlainMessage(s.chatID, msgNoChapter))
		return
	}

	h.refreshPlayer(s)
	h.showCommentary(ctx, s, content.Chapter, s.reader.State().VerseIndex)
}

// showCommentary loads the commentary of a verse into the chat's commentary message.
func (h *Handler) showCommentary(ctx context.Context, s *session, chapter entities.Chapter, verseIndex int) {
	var text string

	commentary, err := h.commentary.Get(ctx, chapter.Number, verseIndex)
	switch {
	case errors.Is(err, alquran.ErrNotFound):
		text = renderCommentary(chapter, verseIndex, msgCommentaryNotFound)
	case err != nil:
		h.logger.Warn("failed to load commentary",
			zap.Int64("user_id", s.userID),
			zap.Error(err),
		)
		text = renderCommentary(chapter, verseIndex, msgCommentaryFailed)
	default:
		text = renderCommentary(chapter, verseIndex, commentary)
	}

	if msg, ok := h.commentaries.Get(s.chatID); ok {
		_ = h.send(newEdit(s.chatID, msg.MessageID, text))
		return
	}

	sent, err := h.bot.Send(newMessage(s.chatID, text))
	if err != nil {
		h.logger.Error("failed to send commentary", zap.Error(err))
		return
	}
	h.commentaries.Swap(s.chatID, sent.MessageID)
}

func (h *Handler) progressText(s *session) (string, bool) {
	p, ok := s.reader.Progress().Current()
	if !ok {
		return "", false
	}

	chapter, err := h.chapters.GetByNumber(p.ChapterNumber)
	if err != nil {
		return "", false
	}

	return renderProgress(*chapter, p, time.Now()), true
}

func lastReadChapter(s *session) int {
	if p, ok := s.reader.Progress().Current(); ok {
		return p.ChapterNumber
	}
	return 0
}

// playbackErrorText maps playback errors that users can fix to a message.
func playbackErrorText(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrNoChapter):
		return msgNoChapter, true
	case errors.Is(err, service.ErrNoAudio):
		return msgNoAudio, true
	default:
		return "", false
	}
}
