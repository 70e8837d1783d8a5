package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
)

// Sequencer owns the current verse and the play/pause state of a loaded chapter
// and drives an AudioTransport accordingly.
//
// Sequencer is not safe for concurrent use; Reader serializes access to it.
// Listeners are called synchronously after every change.
type Sequencer struct {
	transport AudioTransport
	content   *entities.ChapterContent
	status    entities.PlaybackStatus
	index     int
	listeners []func(context.Context, entities.PlaybackEvent)
}

func NewSequencer(transport AudioTransport) *Sequencer {
	return &Sequencer{
		transport: transport,
		status:    entities.StatusIdle,
	}
}

// Subscribe registers fn to be called after every state change.
func (s *Sequencer) Subscribe(fn func(context.Context, entities.PlaybackEvent)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Sequencer) State() entities.PlaybackState {
	state := entities.PlaybackState{
		Status:     s.status,
		VerseIndex: s.index,
	}
	if s.content != nil {
		state.ChapterNumber = s.content.Chapter.Number
		state.FirstIndex = s.content.FirstIndex()
		state.LastIndex = s.content.LastIndex()
	}
	return state
}

// Content returns the loaded chapter or nil when idle.
func (s *Sequencer) Content() *entities.ChapterContent {
	return s.content
}

// Reset unloads the chapter and stops playback.
func (s *Sequencer) Reset(ctx context.Context) error {
	if s.status == entities.StatusIdle {
		return nil
	}

	var err error
	if s.status == entities.StatusPlaying {
		err = s.transport.Pause(ctx)
	}

	prev := s.index
	s.content = nil
	s.status = entities.StatusIdle
	s.index = 0
	s.emit(ctx, prev, false)

	if err != nil {
		return fmt.Errorf("pause audio: %w", err)
	}
	return nil
}

// SelectChapter loads content and moves to its first verse in the Ready state.
func (s *Sequencer) SelectChapter(ctx context.Context, content *entities.ChapterContent) error {
	var err error
	if s.status == entities.StatusPlaying {
		err = s.transport.Pause(ctx)
	}

	prev := s.index
	s.content = content
	s.status = entities.StatusReady
	s.index = content.FirstIndex()
	s.emit(ctx, prev, true)

	if err != nil {
		return fmt.Errorf("pause audio: %w", err)
	}
	return nil
}

// Play starts the current verse. It is a no-op while already playing.
func (s *Sequencer) Play(ctx context.Context) error {
	switch s.status {
	case entities.StatusIdle:
		return ErrNoChapter
	case entities.StatusPlaying:
		return nil
	}

	if err := s.start(ctx); err != nil {
		return err
	}

	s.status = entities.StatusPlaying
	s.emit(ctx, s.index, false)
	return nil
}

// Pause stops playback and keeps the current verse.
func (s *Sequencer) Pause(ctx context.Context) error {
	if s.status != entities.StatusPlaying {
		return nil
	}

	s.status = entities.StatusReady
	err := s.transport.Pause(ctx)
	s.emit(ctx, s.index, false)

	if err != nil {
		return fmt.Errorf("pause audio: %w", err)
	}
	return nil
}

// VerseCompleted advances playback after the current verse audio ended.
// On the last verse playback stops. Outside of Playing it does nothing.
func (s *Sequencer) VerseCompleted(ctx context.Context) error {
	if s.status != entities.StatusPlaying {
		return nil
	}

	if s.index >= s.content.LastIndex() {
		s.status = entities.StatusReady
		s.emit(ctx, s.index, false)
		return nil
	}

	return s.moveTo(ctx, s.index+1)
}

// Seek moves to index clamped to the chapter's range without changing play/pause state.
func (s *Sequencer) Seek(ctx context.Context, index int) error {
	if s.status == entities.StatusIdle {
		return ErrNoChapter
	}

	index = s.content.Clamp(index)
	if index == s.index {
		return nil
	}

	return s.moveTo(ctx, index)
}

// SkipNext moves to the next verse. It is a no-op on the last verse.
func (s *Sequencer) SkipNext(ctx context.Context) error {
	if s.status == entities.StatusIdle {
		return ErrNoChapter
	}
	if s.index >= s.content.LastIndex() {
		return nil
	}

	return s.moveTo(ctx, s.index+1)
}

// SkipPrevious moves to the previous verse. It is a no-op on the first verse.
func (s *Sequencer) SkipPrevious(ctx context.Context) error {
	if s.status == entities.StatusIdle {
		return ErrNoChapter
	}
	if s.index <= s.content.FirstIndex() {
		return nil
	}

	return s.moveTo(ctx, s.index-1)
}

// SeekAudio seeks within the current verse audio. fraction is clamped to [0, 1].
func (s *Sequencer) SeekAudio(ctx context.Context, fraction float64) error {
	if s.status == entities.StatusIdle {
		return ErrNoChapter
	}

	fraction = min(max(fraction, 0), 1)
	if err := s.transport.Seek(ctx, fraction); err != nil {
		return fmt.Errorf("seek audio: %w", err)
	}
	return nil
}

// moveTo changes the current verse. While playing, the new verse starts
// immediately; a verse without audio pauses playback.
func (s *Sequencer) moveTo(ctx context.Context, index int) error {
	prev := s.index
	s.index = index

	if s.status != entities.StatusPlaying {
		s.emit(ctx, prev, false)
		return nil
	}

	err := s.start(ctx)
	if err != nil {
		s.status = entities.StatusReady
		if pauseErr := s.transport.Pause(ctx); pauseErr != nil {
			err = errors.Join(err, fmt.Errorf("pause audio: %w", pauseErr))
		}
		// Reaching a verse without audio is an implicit pause, not a failure.
		if errors.Is(err, ErrNoAudio) {
			err = nil
		}
	}
	s.emit(ctx, prev, false)

	return err
}

// start loads the current verse audio into the transport and plays it.
func (s *Sequencer) start(ctx context.Context) error {
	verse, ok := s.content.VerseAt(s.index)
	if !ok || !verse.HasAudio() {
		return ErrNoAudio
	}

	if err := s.transport.Load(ctx, verse.AudioURL); err != nil {
		return fmt.Errorf("load audio: %w", err)
	}
	if err := s.transport.Play(ctx); err != nil {
		return fmt.Errorf("play audio: %w", err)
	}
	return nil
}

func (s *Sequencer) emit(ctx context.Context, prevIndex int, chapterLoaded bool) {
	event := entities.PlaybackEvent{
		State:         s.State(),
		PrevIndex:     prevIndex,
		ChapterLoaded: chapterLoaded,
	}
	for _, fn := range s.listeners {
		fn(ctx, event)
	}
}
