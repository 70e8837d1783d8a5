package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/storage"
)

const settingsKey = "quran_settings"

// SettingsStore owns the reader settings of one user and persists every change.
type SettingsStore struct {
	mu        sync.RWMutex
	store     KeyValueStore
	logger    *zap.Logger
	current   entities.Settings
	listeners []func(entities.Settings)
}

func NewSettingsStore(store KeyValueStore, logger *zap.Logger) *SettingsStore {
	return &SettingsStore{
		store:   store,
		logger:  logger,
		current: entities.DefaultSettings(),
	}
}

// Load reads the persisted settings. Missing, partial or malformed records fall back to defaults.
func (s *SettingsStore) Load(ctx context.Context) entities.Settings {
	settings := entities.DefaultSettings()

	raw, err := s.store.Get(ctx, settingsKey)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
	case err != nil:
		s.logger.Warn("failed to read settings, using defaults",
			zap.Error(fmt.Errorf("%w: %w", ErrStorageUnavailable, err)))
	default:
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			s.logger.Warn("malformed settings record, using defaults", zap.Error(err))
			settings = entities.DefaultSettings()
		}
	}

	settings = settings.Normalize()

	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()

	return settings
}

func (s *SettingsStore) Current() entities.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Update applies patch, persists the result and notifies listeners.
// Persistence failures are logged; the in-memory settings are updated regardless.
func (s *SettingsStore) Update(ctx context.Context, patch entities.SettingsPatch) entities.Settings {
	s.mu.Lock()
	s.current = patch.Apply(s.current)
	settings := s.current
	listeners := append([]func(entities.Settings){}, s.listeners...)
	s.mu.Unlock()

	s.persist(ctx, settings)

	for _, fn := range listeners {
		fn(settings)
	}

	return settings
}

// Subscribe registers fn to be called after every settings change.
func (s *SettingsStore) Subscribe(fn func(entities.Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

func (s *SettingsStore) persist(ctx context.Context, settings entities.Settings) {
	data, err := json.Marshal(settings)
	if err != nil {
		s.logger.Error("failed to encode settings", zap.Error(err))
		return
	}

	if err := s.store.Set(ctx, settingsKey, string(data)); err != nil {
		s.logger.Warn("failed to persist settings",
			zap.Error(fmt.Errorf("%w: %w", ErrStorageUnavailable, err)))
	}
}
