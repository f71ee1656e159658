package auth

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user persistence. Lookups by email
// operate on the normalized (lower-cased) form and include the password
// hash; it is the caller's job never to serialize it outward.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByOAuth(ctx context.Context, provider, providerID string) (*User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdateLogin(ctx context.Context, id uuid.UUID, imageURL string) error
	ListUsers(ctx context.Context) ([]User, error)
}
