package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// editMessage replaces the text and keyboard of a message. A nil keyboard removes it.
func (h *Handler) editMessage(chatID int64, msgID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	edit := newEdit(chatID, msgID, text)
	edit.ReplyMarkup = kb
	_ = h.send(edit)
}

func (h *Handler) editMarkup(chatID int64, msgID int, kb tgbotapi.InlineKeyboardMarkup) {
	_ = h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, kb))
}

func (h *Handler) clearKeyboard(chatID int64, msgID int) {
	h.editMarkup(chatID, msgID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
}

func (h *Handler) deleteMessage(chatID int64, msgID int) {
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, msgID)); err != nil {
		h.logger.Debug("failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", msgID),
			zap.Error(err),
		)
	}
}
