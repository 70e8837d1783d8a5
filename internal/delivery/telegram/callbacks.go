package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/infra/alquran"
	"github.com/aliskhannn/quran-reader-bot/internal/service"
)

// callbackFunc handles a callback and returns the text to answer it with.
type callbackFunc func(ctx context.Context, cb *tgbotapi.CallbackQuery, s *session, data callbackData) (string, error)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.From == nil {
		h.answer(cb, "")
		return
	}

	data := decodeCallback(cb.Data)

	var fn callbackFunc
	switch data.Action {
	case actionChapters:
		fn = h.onChaptersPage
	case actionChapter:
		fn = h.onChapter
	case actionPlayer:
		fn = h.onPlayer
	case actionEnded:
		fn = h.onEnded
	case actionTafsir:
		fn = h.onTafsir
	case actionReciter:
		fn = h.onReciter
	case actionSettings:
		fn = h.onSettings
	case actionReset:
		fn = h.onReset
	case actionResume:
		fn = h.onResume
	case actionOnboarding:
		fn = h.onOnboarding
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answer(cb, "")
		return
	}

	s := h.session(ctx, cb.From.ID, cb.Message.Chat.ID)

	text, err := fn(ctx, cb, s, data)
	if err != nil {
		h.logger.Error("handle callback error",
			zap.Int64("user_id", cb.From.ID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		text = msgInternalError
	}

	h.answer(cb, text)
}

func (h *Handler) onChaptersPage(_ context.Context, cb *tgbotapi.CallbackQuery, s *session, data callbackData) (string, error) {
	page, ok := data.intParam(0)
	all := h.chapters.GetAll()
	text, totalPages := renderChapterList(all, page)
	if !ok || page < 0 || page >= totalPages {
		h.logger.Warn("invalid chapter page", zap.String("data", data.Raw))
		return "", nil
	}

	kb := buildChaptersKeyboard(all, page, totalPages, lastReadChapter(s))
	h.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, text, &kb)
	return "", nil
}

func (h *Handler) onChapter(ctx context.Context, _ *tgbotapi.CallbackQuery, s *session, data callbackData) (string, error) {
	number, ok := data.intParam(0)
	if !ok {
		return msgIncorrectChapterNumber, nil
	}
	return "", h.openChapter(ctx, s, number)
}

func (h *Handler) onPlayer(ctx context.Context, cb *tgbotapi.CallbackQuery, s *session, data callbackData) (string, error) {
	// Controls pressed on an older panel take it over.
	if panel, ok := h.panels.Get(s.chatID); !ok || panel.MessageID != cb.Message.MessageID {
		h.panels.Swap(s.chatID, cb.Message.MessageID)
	}

	var err error
	switch data.param(0) {
	case playerPlay:
		err = s.reader.Play(ctx)
	case playerPause:
		err = s.reader.Pause(ctx)
	case playerNext:
		err = s.reader.SkipNext(ctx)
	case playerPrev:
		err = s.reader.SkipPrevious(ctx)
	case playerFirst:
		err = s.reader.Seek(ctx, 0)
	default:
		return "", nil
	}

	if err != nil {
		if text, ok := playbackErrorText(err); ok {
			return text, nil
		}
		return "", err
	}

	return "", nil
}

func (h *Handler) onEnded(ctx context.Context, cb *tgbotapi.CallbackQuery, s *session, data callbackData) (string, error) {
	track, err := strconv.ParseUint(data.param(0), 10, 64)
	if err != nil || !s.audio.Ended(ctx, track) {
		return answerOutdatedTrack, nil
	}

	h.clearKeyboard(cb.Message.Chat.ID, cb.Message.MessageID)
	return "", nil
}

func (h *Handler) onTafsir(ctx context.Context, _ *tgbotapi.CallbackQuery, s *session, _ callbackData) (string, error) {
	h.toggleCommentary(ctx, s)
	return "", nil
}

func (h *Handler) onReciter(ctx context.Context, cb *tgbotapi.CallbackQuery, s *session, data callbackData) (string, error) {
	id := data.param(0)

	_, err := s.reader.ChangeReciter(ctx, id)
	switch {
	case errors.Is(err, service.ErrUnknownReciter):
		return msgUnknownReciter, nil
	case errors.Is(err, service.ErrStaleResult):
	case errors.Is(err, alquran.ErrFetchFailed):
		return msgFetchFailed, nil
	case err != nil:
		return "", err
	}

	kb := buildReciterKeyboard(s.reader.Settings().Current().ReciterID)
	h.editMarkup(cb.Message.Chat.ID, cb.Message.MessageID, kb)
	return answerReciterSaved, nil
}

func (h *Handler) onSettings(ctx context.Context, cb *tgbotapi.CallbackQuery, s *session, data callbackData) (string, error) {
	chatID, msgID := cb.Message.Chat.ID, cb.Message.MessageID
	current := s.reader.Settings().Current()

	var patch entities.SettingsPatch
	switch data.param(0) {
	case settingsMenu:
	case settingsReciters:
		h.editMessage(chatID, msgID, md(msgChooseReciter), ptr(buildReciterKeyboard(current.ReciterID)))
		return "", nil
	case settingsFontUp:
		patch.FontSize = ptr(current.FontSize + entities.FontSizeStep)
	case settingsFontDown:
		patch.FontSize = ptr(current.FontSize - entities.FontSizeStep)
	case settingsResetFont:
		patch.FontSize = ptr(entities.DefaultFontSize)
	case settingsTheme:
		patch.IsDarkMode = ptr(!current.IsDarkMode)
	default:
		return "", nil
	}

	updated := s.reader.UpdateSettings(ctx, patch)
	if updated == current && data.param(0) != settingsMenu {
		// Nothing changed, e.g. the font size is already at its limit.
		return "", nil
	}

	h.editMessage(chatID, msgID, renderSettings(updated), ptr(buildSettingsKeyboard()))
	return "", nil
}

func (h *Handler) onReset(ctx context.Context, cb *tgbotapi.CallbackQuery, s *session, data callbackData) (string, error) {
	chatID, msgID := cb.Message.Chat.ID, cb.Message.MessageID

	switch data.param(0) {
	case "":
		h.editMessage(chatID, msgID, md(msgResetConfirm), ptr(buildResetKeyboard()))
		return "", nil
	case resetConfirm:
		if err := s.reader.ClearProgress(ctx); err != nil {
			return "", err
		}
		h.editMessage(chatID, msgID, md(msgResetDone), nil)
		return answerProgressReset, nil
	default:
		h.deleteMessage(chatID, msgID)
		return answerCancelled, nil
	}
}

func (h *Handler) onResume(ctx context.Context, _ *tgbotapi.CallbackQuery, s *session, _ callbackData) (string, error) {
	resumed, err := s.reader.Resume(ctx)
	switch {
	case errors.Is(err, service.ErrStaleResult):
		return "", nil
	case errors.Is(err, alquran.ErrFetchFailed):
		return msgFetchFailed, nil
	case err != nil:
		return "", err
	case !resumed:
		return msgNoProgress, nil
	}

	return "", h.sendPlayer(s)
}

func (h *Handler) onOnboarding(ctx context.Context, cb *tgbotapi.CallbackQuery, s *session, data callbackData) (string, error) {
	if data.param(0) != onboardingDone {
		return "", nil
	}

	s.reader.UpdateSettings(ctx, entities.SettingsPatch{HasSeenPrayerModal: ptr(true)})
	h.clearKeyboard(cb.Message.Chat.ID, cb.Message.MessageID)
	return "", nil
}

func ptr[T any](v T) *T {
	return &v
}
