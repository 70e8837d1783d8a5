// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
)

// Error messages.
const (
	msgIncorrectChapterNumber = "Некорректный номер суры. Введите число от 1 до 114."
	msgUseGoto                = "Используйте: /goto N, где N — номер аята."
	msgFetchFailed            = "Не удалось загрузить суру. Проверьте соединение и выберите суру ещё раз."
	msgNoChapter              = "Сначала выберите суру: /surahs или /surah N."
	msgNoAudio                = "Для этого аята нет аудио."
	msgCommentaryNotFound     = "Для этого аята нет тафсира."
	msgCommentaryFailed       = "Не удалось загрузить тафсир. Попробуйте позже."
	msgUnknownReciter         = "Неизвестный чтец."
	msgNothingFound           = "Ничего не найдено. Введите номер суры или часть её названия."
	msgNoProgress             = "Вы ещё ничего не читали. Откройте список сур: /surahs"
	msgInternalError          = "Что‑то пошло не так. Попробуйте позже."
	msgUnknownCommand         = "Неизвестная команда. Список команд: /help"
)

// Short callback answers.
const (
	answerOutdatedTrack = "Это аудио уже неактуально"
	answerReciterSaved  = "Чтец сохранён"
	answerProgressReset = "Прогресс сброшен"
	answerCancelled     = "Отменено"
)

const (
	msgResetConfirm  = "Сбросить сохранённую позицию чтения?"
	msgResetDone     = "Прогресс чтения сброшен."
	msgChooseReciter = "Выберите чтеца:"
)

const (
	lrm              = "\u200E"
	chaptersPerPage  = 10
	searchResultsMax = 10
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func welcomeText() string {
	var sb strings.Builder

	sb.WriteString(md("السلام عليكم ورحمة الله وبركاته"))
	sb.WriteString("\n\n")
	sb.WriteString(bold("Quran Reader Bot"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Читайте Коран по сурам и слушайте чтение аят за аятом. Бот запоминает, где вы остановились."))
	sb.WriteString("\n\n")
	sb.WriteString(helpText())

	return sb.String()
}

func helpText() string {
	lines := []string{
		"/surahs — список сур",
		"/surah N — открыть суру N",
		"/play, /pause — воспроизведение",
		"/next, /prev — следующий / предыдущий аят",
		"/goto N — перейти к аяту N",
		"/tafsir — показать или скрыть тафсир",
		"/reciter — выбрать чтеца",
		"/settings — настройки",
		"/progress — где я остановился",
		"/reset — сбросить прогресс",
	}

	var sb strings.Builder
	sb.WriteString(bold("Команды"))
	sb.WriteString("\n")
	for _, l := range lines {
		sb.WriteString(md(l))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(md("Можно просто отправить номер суры или часть её названия."))

	return sb.String()
}

// prayerText is the dua shown once before the first reading.
func prayerText() string {
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s",
		bold("Дуа перед чтением Корана"),
		md("اللَّهُمَّ افْتَحْ عَلَيَّ حِكْمَتَكَ، وَانْشُرْ عَلَيَّ رَحْمَتَكَ، وَذَكِّرْنِي مَا نَسِيتُ يَا ذَا الْجَلَالِ وَالْإِكْرَامِ"),
		italic("О Аллах, открой мне Твою мудрость, распространи на меня Твою милость и напомни мне то, что я забыл, о Обладатель величия и щедрости."),
	)
}

func formatRevelationPlace(p entities.RevelationPlace) string {
	switch p {
	case entities.Meccan:
		return "Мекканская"
	case entities.Medinan:
		return "Мединская"
	default:
		return string(p)
	}
}

func formatStatus(s entities.PlaybackStatus) string {
	switch s {
	case entities.StatusPlaying:
		return "▶️ Воспроизведение"
	case entities.StatusReady:
		return "⏸ Пауза"
	default:
		return "⏹ Остановлено"
	}
}

func formatBool(b bool) string {
	if b {
		return "Включено ✅"
	}
	return "Выключено ❌"
}

func formatVerseLabel(index int) string {
	if index == 0 {
		return "Басмала"
	}
	return fmt.Sprintf("Аят %d", index)
}

// chapterButtonText is the label of a chapter in lists. marked chapters get a last-read pin.
func chapterButtonText(c *entities.Chapter, marked bool) string {
	prefix := ""
	if marked {
		prefix = "📍 "
	}
	return fmt.Sprintf("%s%d. %s · %s%s", prefix, c.Number, c.Transliteration, c.Name, lrm)
}

// renderChapterHeader renders the chapter title block.
func renderChapterHeader(c entities.Chapter) string {
	return fmt.Sprintf(
		"%s %s\n%s",
		bold(fmt.Sprintf("%d. %s", c.Number, c.Transliteration)),
		md(c.Name),
		italic(fmt.Sprintf("%s · %s · аятов: %d", c.Translation, formatRevelationPlace(c.RevelationPlace), c.VerseCount)),
	)
}

// renderPlayer renders the player panel for the current verse.
func renderPlayer(content *entities.ChapterContent, state entities.PlaybackState, settings entities.Settings) string {
	if content == nil {
		return md(msgNoChapter)
	}

	var sb strings.Builder
	sb.WriteString(renderChapterHeader(content.Chapter))
	sb.WriteString("\n\n")

	verse, ok := content.VerseAt(state.VerseIndex)
	if ok {
		sb.WriteString(md(verse.Text))
		if verse.NumberInChapter > 0 {
			sb.WriteString(md(fmt.Sprintf(" ﴿%d﴾", verse.NumberInChapter)))
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString(md(fmt.Sprintf("%s из %d · %s", formatVerseLabel(state.VerseIndex), content.Chapter.VerseCount, formatStatus(state.Status))))
	sb.WriteString("\n")

	reciter := settings.ReciterID
	if r, ok := entities.FindReciter(settings.ReciterID); ok {
		reciter = r.Name
	}
	sb.WriteString(md("🎙 " + reciter))

	return sb.String()
}

// renderCommentary renders the tafsir of a verse.
func renderCommentary(c entities.Chapter, verseIndex int, text string) string {
	return fmt.Sprintf(
		"%s\n\n%s",
		bold(fmt.Sprintf("📖 Тафсир %d:%d (%s)", c.Number, verseIndex, c.Transliteration)),
		md(text),
	)
}

// renderChapterList renders one page of the chapter list. It returns the text and the total number of pages.
func renderChapterList(chapters []*entities.Chapter, page int) (string, int) {
	totalPages := (len(chapters) + chaptersPerPage - 1) / chaptersPerPage
	return fmt.Sprintf(
		"%s\n%s",
		bold("📚 Суры Корана"),
		md(fmt.Sprintf("Страница %d из %d", page+1, totalPages)),
	), totalPages
}

// chaptersPage returns the chapters of a list page.
func chaptersPage(chapters []*entities.Chapter, page int) []*entities.Chapter {
	start := page * chaptersPerPage
	if page < 0 || start >= len(chapters) {
		return nil
	}
	end := min(start+chaptersPerPage, len(chapters))
	return chapters[start:end]
}

// renderProgress renders the saved reading position.
func renderProgress(c entities.Chapter, p entities.ReadingProgress, now time.Time) string {
	return fmt.Sprintf(
		"%s\n\n%s\n%s\n%s",
		bold("📍 Где вы остановились"),
		renderChapterHeader(c),
		md(formatVerseLabel(p.VerseIndex)),
		md("Последнее чтение: "+formatAgo(now.Sub(p.ReadAt()))),
	)
}

// renderSettings renders the settings screen.
func renderSettings(s entities.Settings) string {
	reciter := s.ReciterID
	if r, ok := entities.FindReciter(s.ReciterID); ok {
		reciter = r.Name
	}

	return fmt.Sprintf(
		"%s\n\n%s\n%s\n%s",
		bold("⚙️ Настройки"),
		md("🎙 Чтец: "+reciter),
		md(fmt.Sprintf("🔠 Размер шрифта: %d", s.FontSize)),
		md("🌙 Тёмная тема: "+formatBool(s.IsDarkMode)),
	)
}

// renderReminder renders a "continue reading" reminder.
func renderReminder(p entities.ReminderPayload, now time.Time) string {
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s",
		bold("🔔 Продолжите чтение"),
		md(fmt.Sprintf("Вы остановились на суре %d «%s», %s.", p.Chapter.Number, p.Chapter.Transliteration, strings.ToLower(formatVerseLabel(p.VerseIndex)))),
		md("Последнее чтение: "+formatAgo(now.Sub(p.LastReadAt))),
	)
}

// formatAgo formats an elapsed duration in a coarse human form.
func formatAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "только что"
	case d < time.Hour:
		return fmt.Sprintf("%d мин. назад", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d ч. назад", int(d.Hours()))
	default:
		return fmt.Sprintf("%d дн. назад", int(d.Hours()/24))
	}
}
