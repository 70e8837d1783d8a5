package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/storage"
)

type readerFixture struct {
	reader    *Reader
	fetcher   *fakeFetcher
	transport *fakeTransport
	store     *storage.MemoryStore
}

func newReaderFixture(t *testing.T) *readerFixture {
	t.Helper()

	store := storage.NewMemoryStore()
	return newReaderFixtureWithStore(t, store)
}

func newReaderFixtureWithStore(t *testing.T, store *storage.MemoryStore) *readerFixture {
	t.Helper()

	logger := zap.NewNop()
	settings := NewSettingsStore(store, logger)
	settings.Load(context.Background())

	f := &readerFixture{
		fetcher:   &fakeFetcher{gates: map[int]chan struct{}{}},
		transport: &fakeTransport{},
		store:     store,
	}
	f.reader = NewReader(f.fetcher, f.transport, settings, NewProgressStore(store, logger), logger)
	return f
}

func (f *readerFixture) savedProgress(t *testing.T) entities.ReadingProgress {
	t.Helper()

	raw, err := f.store.Get(context.Background(), progressKey)
	require.NoError(t, err)

	var p entities.ReadingProgress
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestReaderPlaysChapterTwo(t *testing.T) {
	ctx := context.Background()
	f := newReaderFixture(t)

	content, err := f.reader.SelectChapter(ctx, 2)
	require.NoError(t, err)
	require.Len(t, content.Verses, 287)
	assert.Equal(t, 0, f.reader.State().VerseIndex)

	var timestamps []int64
	f.reader.Subscribe(func(_ context.Context, e ReaderEvent) {
		if e.Playback.IndexChanged() {
			p, ok := f.reader.Progress().Current()
			require.True(t, ok)
			timestamps = append(timestamps, p.Timestamp)
		}
	})

	require.NoError(t, f.reader.Play(ctx))
	for i := 0; i < 287; i++ {
		f.transport.end(ctx)
	}

	state := f.reader.State()
	assert.Equal(t, entities.StatusReady, state.Status)
	assert.Equal(t, 286, state.VerseIndex)

	saved := f.savedProgress(t)
	assert.Equal(t, 2, saved.ChapterNumber)
	assert.Equal(t, 286, saved.VerseIndex)

	require.Len(t, timestamps, 286)
	for i := 1; i < len(timestamps); i++ {
		assert.Greater(t, timestamps[i], timestamps[i-1])
	}
}

func TestReaderFetchFailureKeepsContent(t *testing.T) {
	ctx := context.Background()
	f := newReaderFixture(t)

	_, err := f.reader.SelectChapter(ctx, 36)
	require.NoError(t, err)
	require.NoError(t, f.reader.Seek(ctx, 12))

	fetchErr := errors.New("fetch failed: status 503")
	f.fetcher.setErr(fetchErr)

	_, err = f.reader.SelectChapter(ctx, 2)
	require.ErrorIs(t, err, fetchErr)

	content := f.reader.Content()
	require.NotNil(t, content)
	assert.Equal(t, 36, content.Chapter.Number)
	assert.Equal(t, 12, f.reader.State().VerseIndex)
	assert.Equal(t, 12, f.savedProgress(t).VerseIndex)
}

func TestReaderChangeReciter(t *testing.T) {
	ctx := context.Background()
	f := newReaderFixture(t)

	before, err := f.reader.SelectChapter(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, f.reader.Seek(ctx, 5))
	require.NoError(t, f.reader.Play(ctx))

	after, err := f.reader.ChangeReciter(ctx, "ar.husary")
	require.NoError(t, err)

	last := f.fetcher.calls[len(f.fetcher.calls)-1]
	assert.Equal(t, fetchCall{chapter: 2, reciter: "ar.husary"}, last)

	require.Len(t, after.Verses, len(before.Verses))
	for i := range before.Verses {
		assert.Equal(t, before.Verses[i].Text, after.Verses[i].Text)
		assert.NotEqual(t, before.Verses[i].AudioURL, after.Verses[i].AudioURL)
	}

	state := f.reader.State()
	assert.Equal(t, 5, state.VerseIndex)
	assert.Equal(t, entities.StatusPlaying, state.Status)
	assert.Equal(t, "https://audio.test/ar.husary/2/5.mp3", f.transport.lastLoaded())
	assert.Equal(t, "ar.husary", f.reader.Settings().Current().ReciterID)
}

func TestReaderChangeReciterUnknown(t *testing.T) {
	f := newReaderFixture(t)

	_, err := f.reader.ChangeReciter(context.Background(), "xx.nobody")
	assert.ErrorIs(t, err, ErrUnknownReciter)
	assert.Equal(t, entities.DefaultReciterID, f.reader.Settings().Current().ReciterID)
}

func TestReaderChangeReciterWithoutChapter(t *testing.T) {
	f := newReaderFixture(t)

	content, err := f.reader.ChangeReciter(context.Background(), "ar.minshawi")
	require.NoError(t, err)
	assert.Nil(t, content)
	assert.Zero(t, f.fetcher.callCount())
	assert.Equal(t, "ar.minshawi", f.reader.Settings().Current().ReciterID)
}

func TestReaderDiscardsStaleResult(t *testing.T) {
	ctx := context.Background()
	f := newReaderFixture(t)

	gate := make(chan struct{})
	f.fetcher.gates[2] = gate

	staleErr := make(chan error, 1)
	go func() {
		_, err := f.reader.SelectChapter(ctx, 2)
		staleErr <- err
	}()

	require.Eventually(t, func() bool { return f.fetcher.callCount() == 1 }, time.Second, time.Millisecond)

	_, err := f.reader.SelectChapter(ctx, 36)
	require.NoError(t, err)

	close(gate)
	assert.ErrorIs(t, <-staleErr, ErrStaleResult)

	content := f.reader.Content()
	require.NotNil(t, content)
	assert.Equal(t, 36, content.Chapter.Number)
}

func TestReaderChangeReciterDuringChapterLoad(t *testing.T) {
	ctx := context.Background()
	f := newReaderFixture(t)

	_, err := f.reader.SelectChapter(ctx, 36)
	require.NoError(t, err)

	gate := make(chan struct{})
	f.fetcher.gates[2] = gate

	selectErr := make(chan error, 1)
	go func() {
		_, err := f.reader.SelectChapter(ctx, 2)
		selectErr <- err
	}()
	require.Eventually(t, func() bool { return f.fetcher.callCount() == 2 }, time.Second, time.Millisecond)

	type result struct {
		content *entities.ChapterContent
		err     error
	}
	reciterResult := make(chan result, 1)
	go func() {
		content, err := f.reader.ChangeReciter(ctx, "ar.minshawi")
		reciterResult <- result{content: content, err: err}
	}()
	require.Eventually(t, func() bool { return f.fetcher.callCount() == 3 }, time.Second, time.Millisecond)

	close(gate)

	assert.ErrorIs(t, <-selectErr, ErrStaleResult)
	res := <-reciterResult
	require.NoError(t, res.err)
	require.NotNil(t, res.content)
	assert.Equal(t, 2, res.content.Chapter.Number)

	assert.Equal(t, fetchCall{chapter: 2, reciter: "ar.minshawi"}, f.fetcher.calls[2])

	content := f.reader.Content()
	require.NotNil(t, content)
	assert.Equal(t, 2, content.Chapter.Number)

	state := f.reader.State()
	assert.Equal(t, entities.StatusReady, state.Status)
	assert.Equal(t, content.FirstIndex(), state.VerseIndex)
}

func TestReaderResume(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, progressKey, `{"surahNumber":36,"ayahNumber":40,"timestamp":1700000000000}`))

	f := newReaderFixtureWithStore(t, store)

	ok, err := f.reader.Resume(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	state := f.reader.State()
	assert.Equal(t, 36, state.ChapterNumber)
	assert.Equal(t, 40, state.VerseIndex)
	assert.Equal(t, entities.StatusReady, state.Status)

	saved := f.savedProgress(t)
	assert.Equal(t, 40, saved.VerseIndex)
	assert.Greater(t, saved.Timestamp, int64(1700000000000))
}

func TestReaderResumeWithoutProgress(t *testing.T) {
	f := newReaderFixture(t)

	ok, err := f.reader.Resume(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, f.fetcher.callCount())
}

func TestReaderClearProgress(t *testing.T) {
	ctx := context.Background()
	f := newReaderFixture(t)

	_, err := f.reader.SelectChapter(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, f.reader.ClearProgress(ctx))
	_, err = f.store.Get(ctx, progressKey)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	_, ok := f.reader.Progress().Current()
	assert.False(t, ok)
}

func TestReaderListenersMayCallBack(t *testing.T) {
	ctx := context.Background()
	f := newReaderFixture(t)

	var seen []int
	f.reader.Subscribe(func(ctx context.Context, e ReaderEvent) {
		seen = append(seen, f.reader.State().VerseIndex)
	})

	_, err := f.reader.SelectChapter(ctx, 112)
	require.NoError(t, err)
	require.NoError(t, f.reader.SkipNext(ctx))

	assert.Equal(t, 1, seen[len(seen)-1])
}
