package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/service"
)

// SendReminder sends a "continue reading" reminder and removes the previous one.
func (h *Handler) SendReminder(_ context.Context, chatID int64, payload entities.ReminderPayload) error {
	msg := newMessage(chatID, renderReminder(payload, time.Now()))
	msg.ReplyMarkup = buildReminderKeyboard()

	sent, err := h.bot.Send(msg)
	if err != nil {
		if isRecipientUnavailable(err) {
			return fmt.Errorf("send reminder: %w: %w", service.ErrRecipientUnavailable, err)
		}
		return fmt.Errorf("send reminder: %w", err)
	}

	if prev, ok := h.reminders.Swap(chatID, sent.MessageID); ok {
		h.deleteMessage(prev.ChatID, prev.MessageID)
	}

	return nil
}

// isRecipientUnavailable reports whether the bot was blocked or the chat no longer exists.
func isRecipientUnavailable(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.Code {
	case http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		return apiErr.Message == "Bad Request: chat not found"
	default:
		return false
	}
}
