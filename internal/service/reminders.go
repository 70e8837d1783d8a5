package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/storage"
)

const (
	reminderStateKey = "quran_last_reminder"

	DefaultReminderSchedule = "0 * * * *"
)

// ReminderService reminds idle readers to continue where they stopped.
type ReminderService struct {
	users    UserRepository
	stores   UserStoreFactory
	chapters ChapterDirectory
	notifier ReminderNotifier
	policy   entities.ReminderPolicy
	schedule string
	now      func() time.Time
	logger   *zap.Logger
}

// NewReminderService creates a new reminder service. An empty schedule means hourly.
func NewReminderService(
	users UserRepository,
	stores UserStoreFactory,
	chapters ChapterDirectory,
	policy entities.ReminderPolicy,
	schedule string,
	logger *zap.Logger,
) *ReminderService {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}

	return &ReminderService{
		users:    users,
		stores:   stores,
		chapters: chapters,
		policy:   policy,
		schedule: schedule,
		now:      time.Now,
		logger:   logger,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the reminder schedule until ctx is done.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		sent, err := s.SendDue(ctx)
		if err != nil {
			s.logger.Error("failed to send reminders", zap.Error(err))
			return
		}
		s.logger.Info("reminders processed", zap.Int("total_sent", sent))
	})
	if err != nil {
		return fmt.Errorf("add reminder job %q: %w", s.schedule, err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")

	return nil
}

// SendDue notifies every active user whose reminder is due and returns the number of sent reminders.
func (s *ReminderService) SendDue(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, errors.New("notifier not initialized")
	}

	users, err := s.users.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active users: %w", err)
	}

	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0
	now := s.now().UTC()

	for _, user := range users {
		wg.Add(1)
		sem <- struct{}{} // Acquire

		go func() {
			defer wg.Done()
			defer func() { <-sem }() // Release

			ok, err := s.processUser(ctx, user, now)
			if err != nil {
				s.logger.Error("failed to process reminder",
					zap.Int64("user_id", user.ID),
					zap.Error(err))
				return
			}
			if ok {
				mu.Lock()
				sent++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return sent, nil
}

// processUser sends a reminder to user when it is due. It reports whether a reminder was sent.
func (s *ReminderService) processUser(ctx context.Context, user *entities.User, now time.Time) (bool, error) {
	store := s.stores(user.ID)

	progress, ok := NewProgressStore(store, s.logger).Load(ctx)
	if !ok {
		return false, nil
	}

	state, err := s.loadReminderState(ctx, store, user.ID)
	if err != nil {
		return false, err
	}

	if !s.policy.Due(progress, state, now) {
		return false, nil
	}

	chapter, err := s.chapters.GetByNumber(progress.ChapterNumber)
	if err != nil {
		return false, fmt.Errorf("get chapter: %w", err)
	}

	payload := entities.ReminderPayload{
		Chapter:    *chapter,
		VerseIndex: progress.VerseIndex,
		LastReadAt: progress.ReadAt(),
	}

	if err := s.notifier.SendReminder(ctx, user.ChatID, payload); err != nil {
		if errors.Is(err, ErrRecipientUnavailable) {
			s.logger.Info("deactivating unreachable user", zap.Int64("user_id", user.ID))
			if err := s.users.Deactivate(ctx, user.ID); err != nil {
				return false, fmt.Errorf("deactivate user: %w", err)
			}
			return false, nil
		}
		return false, fmt.Errorf("send reminder: %w", err)
	}

	state.LastSentAt = now.UnixMilli()
	if err := saveReminderState(ctx, store, state); err != nil {
		return true, err
	}

	s.logger.Info("reminder sent",
		zap.Int64("user_id", user.ID),
		zap.Int("chapter", progress.ChapterNumber),
		zap.Int("verse", progress.VerseIndex),
	)

	return true, nil
}

func (s *ReminderService) loadReminderState(ctx context.Context, store KeyValueStore, userID int64) (entities.ReminderState, error) {
	var state entities.ReminderState

	raw, err := store.Get(ctx, reminderStateKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return state, nil
		}
		return state, fmt.Errorf("get reminder state: %w", err)
	}

	// A malformed record is treated as "never reminded".
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Warn("malformed reminder state, ignoring",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return entities.ReminderState{}, nil
	}
	return state, nil
}

func saveReminderState(ctx context.Context, store KeyValueStore, state entities.ReminderState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode reminder state: %w", err)
	}

	if err := store.Set(ctx, reminderStateKey, string(data)); err != nil {
		return fmt.Errorf("set reminder state: %w", err)
	}
	return nil
}
