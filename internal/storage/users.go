package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
)

// UserRegistry keeps known users in memory. It is used when no database is configured.
type UserRegistry struct {
	mu    sync.RWMutex
	users map[int64]entities.User
}

func NewUserRegistry() *UserRegistry {
	return &UserRegistry{
		users: make(map[int64]entities.User),
	}
}

// Save stores user and reports whether it was not known before.
func (r *UserRegistry) Save(_ context.Context, user *entities.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if ok {
		existing.ChatID = user.ChatID
		existing.IsActive = user.IsActive
		r.users[user.ID] = existing
		return false, nil
	}

	r.users[user.ID] = *user
	return true, nil
}

// ListActive returns active users ordered by id.
func (r *UserRegistry) ListActive(_ context.Context) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entities.User, 0, len(r.users))
	for _, u := range r.users {
		if !u.IsActive {
			continue
		}
		users = append(users, &u)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UserRegistry) Deactivate(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[userID]; ok {
		u.IsActive = false
		r.users[userID] = u
	}
	return nil
}
