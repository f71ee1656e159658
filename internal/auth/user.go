package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role classifies a user's access level. Comparison is exact-match only.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored role string onto a known Role, defaulting to RoleUser.
func ParseRole(value string) Role {
	if Role(strings.ToLower(strings.TrimSpace(value))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// User represents an account in the credential store. PasswordHash is empty
// for accounts that only ever signed in through an OAuth provider.
type User struct {
	ID              uuid.UUID
	Email           string
	FirstName       string
	LastName        string
	ImageURL        string
	Role            Role
	PasswordHash    string
	OAuthProvider   string
	OAuthProviderID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastLoginAt     time.Time
}

// DisplayName joins the name parts, tolerating either being blank.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Profile is the client-visible projection of a User. The password hash and
// provider internals never appear here.
type Profile struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Image string    `json:"image,omitempty"`
	Role  Role      `json:"role,omitempty"`
}

// NewProfile is the single normalization point between stored users and
// anything serialized outward.
func NewProfile(u *User) Profile {
	return Profile{
		ID:    u.ID,
		Name:  u.DisplayName(),
		Email: u.Email,
		Image: u.ImageURL,
		Role:  u.Role,
	}
}

// NormalizeEmail lower-cases and trims an email for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GoogleClaims contains the relevant claims from a Google ID token.
type GoogleClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}
