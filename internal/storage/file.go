package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all values in a single JSON file.
// Every write rewrites the file.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	values map[string]string
}

// NewFileStore creates or loads a store at path.
// A missing or malformed file starts the store empty.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &FileStore{
		path:   path,
		values: make(map[string]string),
	}
	if err := s.load(); err != nil {
		// Non-fatal - start with empty state
		s.values = make(map[string]string)
	}
	return s, nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.save()
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if values != nil {
		s.values = values
	}
	return nil
}

func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp, s.path)
}
