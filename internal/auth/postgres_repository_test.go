package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsEmailConflict(t *testing.T) {
	emailConflict := &pq.Error{Code: "23505", Constraint: "users_email_key"}

	if !isEmailConflict(emailConflict) {
		t.Fatal("expected email unique violation to be detected")
	}
	if !isEmailConflict(fmt.Errorf("insert user: %w", emailConflict)) {
		t.Fatal("expected wrapped email unique violation to be detected")
	}

	for _, err := range []error{
		nil,
		errors.New("connection refused"),
		&pq.Error{Code: "23505", Constraint: "idx_users_oauth_identity"},
		&pq.Error{Code: "23503", Constraint: "users_email_key"},
	} {
		if isEmailConflict(err) {
			t.Fatalf("did not expect %v to be treated as an email conflict", err)
		}
	}
}
