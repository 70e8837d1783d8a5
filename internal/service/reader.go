package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
)

// ReaderEvent is emitted to reader listeners after every playback change.
type ReaderEvent struct {
	Playback entities.PlaybackEvent
	Content  *entities.ChapterContent
}

type pendingEvent struct {
	ctx   context.Context
	event ReaderEvent
}

// Reader coordinates chapter selection, content loading and playback of one user.
// It persists the reading progress on every verse change.
//
// Only the most recently requested chapter load is applied: each load is tagged
// with a generation and a chapter number, and outdated results are discarded
// with ErrStaleResult.
type Reader struct {
	mu         sync.Mutex
	fetcher    ContentFetcher
	sequencer  *Sequencer
	settings   *SettingsStore
	progress   *ProgressStore
	logger     *zap.Logger
	generation uint64
	requested  int
	inFlight   uint64 // generation of the load being fetched, 0 when none
	pending    []pendingEvent

	listenersMu sync.RWMutex
	listeners   []func(context.Context, ReaderEvent)
}

func NewReader(
	fetcher ContentFetcher,
	transport AudioTransport,
	settings *SettingsStore,
	progress *ProgressStore,
	logger *zap.Logger,
) *Reader {
	r := &Reader{
		fetcher:   fetcher,
		sequencer: NewSequencer(transport),
		settings:  settings,
		progress:  progress,
		logger:    logger,
	}

	r.sequencer.Subscribe(r.onPlayback)
	transport.OnEnded(func(ctx context.Context) {
		if err := r.VerseCompleted(ctx); err != nil {
			r.logger.Error("failed to advance after verse end", zap.Error(err))
		}
	})

	return r
}

// Subscribe registers fn to be called after every playback change.
// Listeners run outside of the reader lock and may call back into the reader.
func (r *Reader) Subscribe(fn func(context.Context, ReaderEvent)) {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()

	r.listeners = append(r.listeners, fn)
}

func (r *Reader) Settings() *SettingsStore {
	return r.settings
}

func (r *Reader) Progress() *ProgressStore {
	return r.progress
}

func (r *Reader) State() entities.PlaybackState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sequencer.State()
}

// Content returns the loaded chapter or nil.
func (r *Reader) Content() *entities.ChapterContent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sequencer.Content()
}

// SelectChapter loads a chapter with the current reciter and moves to its first verse.
// On failure the previously loaded content and position are kept.
func (r *Reader) SelectChapter(ctx context.Context, chapterNumber int) (*entities.ChapterContent, error) {
	reciterID := r.settings.Current().ReciterID

	return r.load(ctx, chapterNumber, reciterID, func(ctx context.Context, content *entities.ChapterContent, _ entities.PlaybackState) error {
		if err := r.sequencer.Reset(ctx); err != nil {
			r.logger.Warn("failed to stop playback", zap.Error(err))
		}
		return r.sequencer.SelectChapter(ctx, content)
	})
}

// ChangeReciter stores the new reciter and re-fetches the chapter with it.
// While a chapter load is in flight, the requested chapter is re-fetched instead of the loaded one.
// When the reloaded chapter is the current one, the verse is kept and playback resumes if it was playing.
func (r *Reader) ChangeReciter(ctx context.Context, reciterID string) (*entities.ChapterContent, error) {
	if _, ok := entities.FindReciter(reciterID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReciter, reciterID)
	}

	r.settings.Update(ctx, entities.SettingsPatch{ReciterID: &reciterID})

	target, ok := r.reloadTarget()
	if !ok {
		return nil, nil
	}

	return r.load(ctx, target, reciterID, func(ctx context.Context, content *entities.ChapterContent, prev entities.PlaybackState) error {
		if prev.Status == entities.StatusIdle || prev.ChapterNumber != content.Chapter.Number {
			if err := r.sequencer.Reset(ctx); err != nil {
				r.logger.Warn("failed to stop playback", zap.Error(err))
			}
			return r.sequencer.SelectChapter(ctx, content)
		}

		if err := r.sequencer.SelectChapter(ctx, content); err != nil {
			r.logger.Warn("failed to stop playback", zap.Error(err))
		}
		if err := r.sequencer.Seek(ctx, prev.VerseIndex); err != nil {
			return err
		}
		if prev.Status != entities.StatusPlaying {
			return nil
		}
		if err := r.sequencer.Play(ctx); err != nil && !errors.Is(err, ErrNoAudio) {
			return err
		}
		return nil
	})
}

// reloadTarget returns the chapter a reciter change applies to: the one being
// fetched if any, otherwise the loaded one. It reports false when there is neither.
func (r *Reader) reloadTarget() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFlight != 0 {
		return r.requested, true
	}

	state := r.sequencer.State()
	if state.Status == entities.StatusIdle {
		return 0, false
	}
	return state.ChapterNumber, true
}

// Resume selects the chapter of the persisted reading progress and seeks to its verse.
// It returns false when there is nothing to resume.
func (r *Reader) Resume(ctx context.Context) (bool, error) {
	saved, ok := r.progress.Load(ctx)
	if !ok {
		return false, nil
	}

	reciterID := r.settings.Current().ReciterID
	_, err := r.load(ctx, saved.ChapterNumber, reciterID, func(ctx context.Context, content *entities.ChapterContent, _ entities.PlaybackState) error {
		if err := r.sequencer.Reset(ctx); err != nil {
			r.logger.Warn("failed to stop playback", zap.Error(err))
		}
		if err := r.sequencer.SelectChapter(ctx, content); err != nil {
			return err
		}
		return r.sequencer.Seek(ctx, saved.VerseIndex)
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *Reader) Play(ctx context.Context) error {
	return r.do(ctx, r.sequencer.Play)
}

func (r *Reader) Pause(ctx context.Context) error {
	return r.do(ctx, r.sequencer.Pause)
}

// VerseCompleted is called when the current verse audio finished.
func (r *Reader) VerseCompleted(ctx context.Context) error {
	return r.do(ctx, r.sequencer.VerseCompleted)
}

func (r *Reader) Seek(ctx context.Context, verseIndex int) error {
	return r.do(ctx, func(ctx context.Context) error {
		return r.sequencer.Seek(ctx, verseIndex)
	})
}

func (r *Reader) SkipNext(ctx context.Context) error {
	return r.do(ctx, r.sequencer.SkipNext)
}

func (r *Reader) SkipPrevious(ctx context.Context) error {
	return r.do(ctx, r.sequencer.SkipPrevious)
}

// SeekAudio seeks within the current verse audio.
func (r *Reader) SeekAudio(ctx context.Context, fraction float64) error {
	return r.do(ctx, func(ctx context.Context) error {
		return r.sequencer.SeekAudio(ctx, fraction)
	})
}

func (r *Reader) UpdateSettings(ctx context.Context, patch entities.SettingsPatch) entities.Settings {
	return r.settings.Update(ctx, patch)
}

// ClearProgress removes the persisted reading position.
func (r *Reader) ClearProgress(ctx context.Context) error {
	return r.progress.Clear(ctx)
}

// load fetches a chapter and applies it with apply unless a newer load was requested meanwhile.
// Playback is paused while the fetch is in flight.
func (r *Reader) load(
	ctx context.Context,
	chapterNumber int,
	reciterID string,
	apply func(ctx context.Context, content *entities.ChapterContent, prev entities.PlaybackState) error,
) (*entities.ChapterContent, error) {
	var (
		generation uint64
		prev       entities.PlaybackState
	)
	r.locked(ctx, func(ctx context.Context) {
		r.generation++
		generation = r.generation
		r.requested = chapterNumber
		r.inFlight = generation
		prev = r.sequencer.State()

		if err := r.sequencer.Pause(ctx); err != nil {
			r.logger.Warn("failed to pause before loading chapter", zap.Error(err))
		}
	})

	content, err := r.fetcher.LoadChapter(ctx, chapterNumber, reciterID)

	err = r.do(ctx, func(ctx context.Context) error {
		if generation != r.generation || chapterNumber != r.requested {
			return ErrStaleResult
		}
		r.inFlight = 0
		if err != nil {
			return err
		}
		return apply(ctx, content, prev)
	})
	if err != nil {
		return nil, fmt.Errorf("load chapter %d: %w", chapterNumber, err)
	}

	r.logger.Debug("chapter loaded",
		zap.Int("chapter", chapterNumber),
		zap.String("reciter", reciterID),
		zap.Int("verses", len(content.Verses)),
	)

	return content, nil
}

// do runs fn under the reader lock and dispatches the events it produced afterwards.
func (r *Reader) do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	r.locked(ctx, func(ctx context.Context) {
		err = fn(ctx)
	})
	return err
}

// locked runs fn under the reader lock, then calls listeners with the buffered events.
func (r *Reader) locked(ctx context.Context, fn func(ctx context.Context)) {
	r.mu.Lock()
	fn(ctx)
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	r.listenersMu.RLock()
	listeners := append([]func(context.Context, ReaderEvent){}, r.listeners...)
	r.listenersMu.RUnlock()

	for _, p := range pending {
		for _, l := range listeners {
			l(p.ctx, p.event)
		}
	}
}

// onPlayback runs under the reader lock.
func (r *Reader) onPlayback(ctx context.Context, event entities.PlaybackEvent) {
	if event.State.Status != entities.StatusIdle && event.IndexChanged() {
		r.progress.Save(ctx, event.State.ChapterNumber, event.State.VerseIndex)
	}

	r.pending = append(r.pending, pendingEvent{
		ctx: ctx,
		event: ReaderEvent{
			Playback: event,
			Content:  r.sequencer.Content(),
		},
	})
}
