package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository stores users in an in-process map, ideal for local
// development or tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewInMemoryRepository constructs a repository seeded with optional users.
func NewInMemoryRepository(initial []User) *InMemoryRepository {
	users := make(map[uuid.UUID]User, len(initial))
	for _, u := range initial {
		users[u.ID] = u
	}
	return &InMemoryRepository{users: users}
}

// FindByEmail returns the user with the given normalized email, or nil.
func (r *InMemoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			copy := u
			return &copy, nil
		}
	}
	return nil, nil
}

// FindByID returns the user with the given ID, or nil.
func (r *InMemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copy := u
	return &copy, nil
}

// FindByOAuth returns the user linked to the provider identity, or nil.
func (r *InMemoryRepository) FindByOAuth(_ context.Context, provider, providerID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.OAuthProvider == provider && u.OAuthProviderID == providerID {
			copy := u
			return &copy, nil
		}
	}
	return nil, nil
}

// Create stores a new user.
func (r *InMemoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = user
	return user, nil
}

// UpdateLogin refreshes the login timestamp and profile image.
func (r *InMemoryRepository) UpdateLogin(_ context.Context, id uuid.UUID, imageURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil
	}
	if imageURL != "" {
		u.ImageURL = imageURL
	}
	now := time.Now()
	u.LastLoginAt = now
	u.UpdatedAt = now
	r.users[id] = u
	return nil
}

// ListUsers returns all stored users.
func (r *InMemoryRepository) ListUsers(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}
