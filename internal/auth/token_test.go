package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return tokens
}

func testUser() *User {
	return &User{
		ID:        uuid.New(),
		Email:     "user@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      RoleUser,
	}
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService(""); err == nil {
		t.Fatal("expected an error for an empty signing secret")
	}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	tokens := newTestTokenService(t)
	user := testUser()

	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.UserID != user.ID {
		t.Fatalf("expected user ID %s, got %s", user.ID, claims.UserID)
	}
	if claims.Email != user.Email {
		t.Fatalf("expected email %s, got %s", user.Email, claims.Email)
	}
	if claims.Name != "Ada Lovelace" {
		t.Fatalf("expected display name, got %q", claims.Name)
	}
	if claims.Role != RoleUser {
		t.Fatalf("expected role user, got %q", claims.Role)
	}

	window := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if window != TokenTTL {
		t.Fatalf("expected 7 day validity window, got %s", window)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens := newTestTokenService(t)

	issued := time.Now()
	tokens.now = func() time.Time { return issued }
	token, err := tokens.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	tokens.now = func() time.Time { return issued.Add(TokenTTL - time.Minute) }
	if _, err := tokens.Verify(token); err != nil {
		t.Fatalf("expected token to be valid before expiry, got %v", err)
	}

	tokens.now = func() time.Time { return issued.Add(TokenTTL + time.Minute) }
	if _, err := tokens.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	tokens := newTestTokenService(t)

	token, err := tokens.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three JWT segments, got %d", len(parts))
	}

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := tokens.Verify(tampered); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for tampered signature, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tokens := newTestTokenService(t)
	token, err := tokens.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	other, err := NewTokenService("different-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken under a different secret, got %v", err)
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	tokens := newTestTokenService(t)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := tokens.Verify(token); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}
