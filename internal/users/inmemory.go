package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository is a simple in-process user store for local/dev use.
type InMemoryRepository struct {
	mu         sync.RWMutex
	byUsername map[string]User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byUsername: make(map[string]User)}
}

func (r *InMemoryRepository) FindByUsername(_ context.Context, username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byUsername[normalize(username)]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *InMemoryRepository) Create(_ context.Context, username, passwordHash string) (User, error) {
	key := normalize(username)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUsername[key]; ok {
		return User{}, ErrUsernameTaken
	}
	u := User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.byUsername[key] = u
	return u, nil
}

func (r *InMemoryRepository) Close() error { return nil }

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
