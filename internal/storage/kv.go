package storage

import (
	"context"
	"errors"
	"sync"
)

var ErrKeyNotFound = errors.New("key not found")

// KeyValue is a string key-value persistence capability.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Namespaced prefixes every key of the underlying store,
// so that several users can share one store.
type Namespaced struct {
	store  KeyValue
	prefix string
}

func NewNamespaced(store KeyValue, prefix string) *Namespaced {
	return &Namespaced{store: store, prefix: prefix}
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Remove(ctx context.Context, key string) error {
	return n.store.Remove(ctx, n.prefix+key)
}
