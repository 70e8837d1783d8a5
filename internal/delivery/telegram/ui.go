package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
)

// buildChaptersKeyboard builds the chapter buttons of a list page with pagination.
// lastRead marks the chapter of the saved reading position, 0 for none.
func buildChaptersKeyboard(chapters []*entities.Chapter, page, totalPages, lastRead int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range chaptersPage(chapters, page) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(chapterButtonText(c, c.Number == lastRead), buildChapterCallback(c.Number)),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️ Назад", buildChaptersPageCallback(page-1)))
	}
	if page < totalPages-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Вперёд ▶️", buildChaptersPageCallback(page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildSearchKeyboard builds one button per found chapter.
func buildSearchKeyboard(chapters []*entities.Chapter) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, c := range chapters {
		if i == searchResultsMax {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(chapterButtonText(c, false), buildChapterCallback(c.Number)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildPlayerKeyboard builds the player panel controls.
func buildPlayerKeyboard(state entities.PlaybackState, commentaryOpen bool) tgbotapi.InlineKeyboardMarkup {
	toggle := tgbotapi.NewInlineKeyboardButtonData("▶️", buildPlayerCallback(playerPlay))
	if state.Status == entities.StatusPlaying {
		toggle = tgbotapi.NewInlineKeyboardButtonData("⏸", buildPlayerCallback(playerPause))
	}

	tafsir := "📖 Тафсир"
	if commentaryOpen {
		tafsir = "📖 Скрыть тафсир"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏮", buildPlayerCallback(playerFirst)),
			tgbotapi.NewInlineKeyboardButtonData("◀️", buildPlayerCallback(playerPrev)),
			toggle,
			tgbotapi.NewInlineKeyboardButtonData("▶️▶️", buildPlayerCallback(playerNext)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(tafsir, buildTafsirCallback()),
			tgbotapi.NewInlineKeyboardButtonData("🎙 Чтец", buildSettingsCallback(settingsReciters)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Суры", buildChaptersPageCallback(0)),
		),
	)
}

// buildAudioKeyboard builds the "verse finished" button attached to a played verse.
func buildAudioKeyboard(track uint64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Аят прослушан", buildEndedCallback(track)),
		),
	)
}

// buildSettingsKeyboard builds main settings keyboard.
func buildSettingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎙 Чтец", buildSettingsCallback(settingsReciters)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("A−", buildSettingsCallback(settingsFontDown)),
			tgbotapi.NewInlineKeyboardButtonData("A", buildSettingsCallback(settingsResetFont)),
			tgbotapi.NewInlineKeyboardButtonData("A+", buildSettingsCallback(settingsFontUp)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌙 Тёмная тема", buildSettingsCallback(settingsTheme)),
		),
	)
}

// buildReciterKeyboard lists the reciters, marking the current one.
func buildReciterKeyboard(current string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range entities.Reciters {
		label := r.Name
		if r.ID == current {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildReciterCallback(r.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Настройки", buildSettingsCallback(settingsMenu)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 Продолжить", buildResumeCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Сбросить", buildResetAskCallback()),
		),
	)
}

func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да, сбросить", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", buildResetCancelCallback()),
		),
	)
}

func buildReminderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 Продолжить чтение", buildResumeCallback()),
		),
	)
}

func buildOnboardingKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤲 Аминь", buildOnboardingDoneCallback()),
		),
	)
}
