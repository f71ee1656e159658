package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is the single error for every authentication
// failure on login: unknown email and wrong password are indistinguishable
// to the caller, so a response can't be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken is returned when a signup email already has an account.
var ErrEmailTaken = errors.New("user already exists with this email")

// ErrUserNotFound is returned when a token's subject no longer exists.
var ErrUserNotFound = errors.New("user not found")

// ValidationError wraps an input validation message so callers can map it
// to a 400 instead of a 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SignupInput carries the fields submitted on the signup form.
type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Service provides credential authentication, token issuance, and session
// resolution over a user Repository.
type Service struct {
	repo   Repository
	hasher *PasswordHasher
	tokens *TokenService
}

// NewService creates a new auth Service.
func NewService(repo Repository, hasher *PasswordHasher, tokens *TokenService) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// TokenTTL exposes the session validity window for cookie sizing.
func (s *Service) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Signup validates the input, hashes the password, and creates the account.
// The password is hashed here and only here.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*User, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, &ValidationError{Message: "All fields are required"}
	}
	if input.Password != input.ConfirmPassword {
		return nil, &ValidationError{Message: "Passwords do not match"}
	}

	email := NormalizeEmail(input.Email)
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := User{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         RoleUser,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &created, nil
}

// Login verifies the credentials and mints a session token. A missing
// account, a missing hash, and a wrong password all collapse into
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// LoginWithGoogle maps an already-verified Google identity onto the same
// user and token contract as credential logins. First login creates the
// account with no password hash.
func (s *Service) LoginWithGoogle(ctx context.Context, claims *GoogleClaims) (*User, string, error) {
	user, err := s.repo.FindByOAuth(ctx, "google", claims.Sub)
	if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		now := time.Now()
		firstName, lastName := splitName(claims)
		created, err := s.repo.Create(ctx, User{
			ID:              uuid.New(),
			Email:           NormalizeEmail(claims.Email),
			FirstName:       firstName,
			LastName:        lastName,
			ImageURL:        claims.Picture,
			Role:            RoleUser,
			OAuthProvider:   "google",
			OAuthProviderID: claims.Sub,
			CreatedAt:       now,
			UpdatedAt:       now,
			LastLoginAt:     now,
		})
		if err != nil {
			return nil, "", fmt.Errorf("create user: %w", err)
		}
		user = &created
	} else if err := s.repo.UpdateLogin(ctx, user.ID, claims.Picture); err != nil {
		return nil, "", fmt.Errorf("update user login: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Session resolves a presented token to the current user. Claims prove
// identity, but the role and profile come from the store so changes take
// effect without waiting for token expiry.
func (s *Service) Session(ctx context.Context, token string) (*User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers returns every account, for the admin surface.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

func splitName(claims *GoogleClaims) (string, string) {
	if claims.GivenName != "" || claims.FamilyName != "" {
		return claims.GivenName, claims.FamilyName
	}
	first, last, _ := strings.Cut(strings.TrimSpace(claims.Name), " ")
	return first, last
}
