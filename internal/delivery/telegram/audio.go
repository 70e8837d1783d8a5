package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var errNoTrack = errors.New("no audio loaded")

// chatAudio plays verse audio in a chat: every played verse is sent as an
// audio message with a "verse finished" button that reports the end of the track.
// Pause and seek only change local state; playback itself is controlled by the Telegram client.
type chatAudio struct {
	mu       sync.Mutex
	bot      BotAPI
	chatID   int64
	logger   *zap.Logger
	url      string
	track    uint64
	playing  bool
	position float64
	onEnded  func(ctx context.Context)
}

func newChatAudio(bot BotAPI, chatID int64, logger *zap.Logger) *chatAudio {
	return &chatAudio{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}
}

func (a *chatAudio) Load(_ context.Context, url string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.url = url
	a.position = 0
	return nil
}

func (a *chatAudio) Play(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.url == "" {
		return errNoTrack
	}

	a.track++
	audio := tgbotapi.NewAudio(a.chatID, tgbotapi.FileURL(a.url))
	audio.ReplyMarkup = buildAudioKeyboard(a.track)

	if _, err := a.bot.Send(audio); err != nil {
		return fmt.Errorf("send audio: %w", err)
	}

	a.playing = true
	return nil
}

func (a *chatAudio) Pause(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.playing = false
	return nil
}

func (a *chatAudio) Seek(_ context.Context, fraction float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.position = fraction
	a.logger.Debug("audio seek recorded",
		zap.Int64("chat_id", a.chatID),
		zap.Float64("fraction", fraction),
	)
	return nil
}

func (a *chatAudio) OnEnded(fn func(ctx context.Context)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.onEnded = fn
}

// Ended reports the end of track. Presses on outdated tracks or while paused are ignored.
func (a *chatAudio) Ended(ctx context.Context, track uint64) bool {
	a.mu.Lock()
	if !a.playing || track != a.track || a.onEnded == nil {
		a.mu.Unlock()
		return false
	}
	fn := a.onEnded
	a.mu.Unlock()

	fn(ctx)
	return true
}
