package repo

import (
	"context"
	"sort"
	"sync"

	"server/internal/domain"
)

// UserRepositoryMem is an in-memory domain.UserRepository, used when no
// database is configured and in tests. Records live for the process lifetime
// only. The duplicate check and the insert happen under one lock, so two
// concurrent signups for the same address cannot both pass.
type UserRepositoryMem struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
}

// NewUserRepositoryMem creates an empty in-memory repository.
func NewUserRepositoryMem() *UserRepositoryMem {
	return &UserRepositoryMem{byEmail: make(map[string]domain.User)}
}

func (r *UserRepositoryMem) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	stored := *user
	r.byEmail[user.Email] = stored
	return &stored, nil
}

func (r *UserRepositoryMem) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepositoryMem) List(_ context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 100
	}
	r.mu.RLock()
	users := make([]domain.User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		users = append(users, u)
	}
	r.mu.RUnlock()
	sort.Slice(users, func(i, j int) bool {
		return users[i].RegisteredAt.After(users[j].RegisteredAt)
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *UserRepositoryMem) Stats(_ context.Context) (*domain.UserStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &domain.UserStats{TotalUsers: int64(len(r.byEmail))}, nil
}

var _ domain.UserRepository = (*UserRepositoryMem)(nil)
