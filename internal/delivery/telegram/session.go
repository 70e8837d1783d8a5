package telegram

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/service"
)

// session is the reader of one user together with its chat state.
type session struct {
	userID int64
	chatID int64
	reader *service.Reader
	audio  *chatAudio

	init           sync.Once
	mu             sync.Mutex
	commentaryOpen bool
}

func (s *session) isCommentaryOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commentaryOpen
}

// toggleCommentary flips the commentary panel and returns the new state.
func (s *session) toggleCommentary() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commentaryOpen = !s.commentaryOpen
	return s.commentaryOpen
}

// session returns the session of a user, creating and resuming it on first use.
func (h *Handler) session(ctx context.Context, userID, chatID int64) *session {
	h.sessionsMu.Lock()
	s, ok := h.sessions[userID]
	if !ok {
		audio := newChatAudio(h.bot, chatID, h.logger)
		s = &session{
			userID: userID,
			chatID: chatID,
			audio:  audio,
			reader: h.newReader(userID, audio),
		}
		h.sessions[userID] = s
	}
	h.sessionsMu.Unlock()

	s.init.Do(func() {
		s.reader.Settings().Load(ctx)
		s.reader.Subscribe(func(ctx context.Context, e service.ReaderEvent) {
			h.onReaderEvent(ctx, s, e)
		})

		resumed, err := s.reader.Resume(ctx)
		if err != nil {
			h.logger.Warn("failed to resume reading",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return
		}
		if resumed {
			h.logger.Debug("reading resumed", zap.Int64("user_id", userID))
		}
	})

	return s
}

// onReaderEvent keeps the player panel and the commentary of a chat in sync with playback.
func (h *Handler) onReaderEvent(ctx context.Context, s *session, e service.ReaderEvent) {
	if panel, ok := h.panels.Get(s.chatID); ok {
		h.editPlayer(s, panel.MessageID, e)
	}

	if e.Content == nil || !e.Playback.IndexChanged() || !s.isCommentaryOpen() {
		return
	}

	h.showCommentary(ctx, s, e.Content.Chapter, e.Playback.State.VerseIndex)
}

func (h *Handler) editPlayer(s *session, messageID int, e service.ReaderEvent) {
	settings := s.reader.Settings().Current()

	edit := newEdit(s.chatID, messageID, renderPlayer(e.Content, e.Playback.State, settings))
	if e.Content != nil {
		kb := buildPlayerKeyboard(e.Playback.State, s.isCommentaryOpen())
		edit.ReplyMarkup = &kb
	}

	_ = h.send(edit)
}
