package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/storage"
)

type fakeTransport struct {
	loaded  []string
	playing bool
	seeks   []float64
	onEnded func(ctx context.Context)
	loadErr error
}

func (t *fakeTransport) Load(_ context.Context, url string) error {
	if t.loadErr != nil {
		return t.loadErr
	}
	t.loaded = append(t.loaded, url)
	return nil
}

func (t *fakeTransport) Play(context.Context) error {
	t.playing = true
	return nil
}

func (t *fakeTransport) Pause(context.Context) error {
	t.playing = false
	return nil
}

func (t *fakeTransport) Seek(_ context.Context, fraction float64) error {
	t.seeks = append(t.seeks, fraction)
	return nil
}

func (t *fakeTransport) OnEnded(fn func(ctx context.Context)) {
	t.onEnded = fn
}

func (t *fakeTransport) end(ctx context.Context) {
	t.onEnded(ctx)
}

func (t *fakeTransport) lastLoaded() string {
	if len(t.loaded) == 0 {
		return ""
	}
	return t.loaded[len(t.loaded)-1]
}

// buildContent returns chapter content with verseCount verses, an opening
// formula when the chapter has one, and audio for every verse.
func buildContent(chapterNumber, verseCount int, reciterID string) *entities.ChapterContent {
	content := &entities.ChapterContent{
		Chapter:   entities.Chapter{Number: chapterNumber, VerseCount: verseCount},
		ReciterID: reciterID,
	}
	if entities.HasOpeningFormula(chapterNumber) {
		content.Verses = append(content.Verses, entities.Verse{
			Text:     entities.OpeningFormula,
			AudioURL: fmt.Sprintf("https://audio.test/%s/1.mp3", reciterID),
		})
	}
	for i := 1; i <= verseCount; i++ {
		content.Verses = append(content.Verses, entities.Verse{
			Number:          chapterNumber*1000 + i,
			Text:            fmt.Sprintf("verse %d:%d", chapterNumber, i),
			NumberInChapter: i,
			AudioURL:        fmt.Sprintf("https://audio.test/%s/%d/%d.mp3", reciterID, chapterNumber, i),
		})
	}
	return content
}

var verseCounts = map[int]int{1: 7, 2: 286, 9: 129, 36: 83, 112: 4, 114: 6}

type fetchCall struct {
	chapter int
	reciter string
}

// fakeFetcher serves synthetic content. A call blocks on gate when set.
type fakeFetcher struct {
	mu    sync.Mutex
	calls []fetchCall
	err   error
	gates map[int]chan struct{}
}

func (f *fakeFetcher) LoadChapter(ctx context.Context, chapterNumber int, reciterID string) (*entities.ChapterContent, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{chapter: chapterNumber, reciter: reciterID})
	err := f.err
	gate := f.gates[chapterNumber]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}

	count, ok := verseCounts[chapterNumber]
	if !ok {
		return nil, errors.New("unknown chapter")
	}
	return buildContent(chapterNumber, count, reciterID), nil
}

func (f *fakeFetcher) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// failingStore fails every operation.
type failingStore struct{}

var errDiskFull = errors.New("disk full")

func (failingStore) Get(context.Context, string) (string, error) { return "", errDiskFull }
func (failingStore) Set(context.Context, string, string) error   { return errDiskFull }
func (failingStore) Remove(context.Context, string) error        { return errDiskFull }

var _ KeyValueStore = (*storage.MemoryStore)(nil)
