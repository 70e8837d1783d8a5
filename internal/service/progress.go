package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/storage"
)

const progressKey = "quran_reading_progress"

// ProgressStore persists the last read position of one user.
type ProgressStore struct {
	mu     sync.Mutex
	store  KeyValueStore
	logger *zap.Logger
	now    func() time.Time
	last   *entities.ReadingProgress
}

func NewProgressStore(store KeyValueStore, logger *zap.Logger) *ProgressStore {
	return &ProgressStore{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Load reads the persisted progress. It returns false when there is
// no usable record.
func (s *ProgressStore) Load(ctx context.Context) (entities.ReadingProgress, bool) {
	raw, err := s.store.Get(ctx, progressKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn("failed to read reading progress",
				zap.Error(fmt.Errorf("%w: %w", ErrStorageUnavailable, err)))
		}
		return entities.ReadingProgress{}, false
	}

	var progress entities.ReadingProgress
	if err := json.Unmarshal([]byte(raw), &progress); err != nil || !progress.Valid() {
		s.logger.Warn("malformed reading progress record ignored", zap.String("value", raw))
		return entities.ReadingProgress{}, false
	}

	s.mu.Lock()
	s.last = &progress
	s.mu.Unlock()

	return progress, true
}

// Current returns the last loaded or saved progress.
func (s *ProgressStore) Current() (entities.ReadingProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return entities.ReadingProgress{}, false
	}
	return *s.last, true
}

// Save records the position with a timestamp that is strictly greater than the previous one.
func (s *ProgressStore) Save(ctx context.Context, chapterNumber, verseIndex int) entities.ReadingProgress {
	s.mu.Lock()
	ts := s.now().UnixMilli()
	if s.last != nil && ts <= s.last.Timestamp {
		ts = s.last.Timestamp + 1
	}
	progress := entities.ReadingProgress{
		ChapterNumber: chapterNumber,
		VerseIndex:    verseIndex,
		Timestamp:     ts,
	}
	s.last = &progress
	s.mu.Unlock()

	data, err := json.Marshal(progress)
	if err != nil {
		s.logger.Error("failed to encode reading progress", zap.Error(err))
		return progress
	}

	if err := s.store.Set(ctx, progressKey, string(data)); err != nil {
		s.logger.Warn("failed to persist reading progress",
			zap.Int("chapter", chapterNumber),
			zap.Int("verse", verseIndex),
			zap.Error(fmt.Errorf("%w: %w", ErrStorageUnavailable, err)))
	}

	return progress
}

// Clear removes the persisted progress.
func (s *ProgressStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()

	if err := s.store.Remove(ctx, progressKey); err != nil {
		return fmt.Errorf("remove reading progress: %w", err)
	}
	return nil
}
