package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the accounts were originally hashed
// with; changing it only affects newly set passwords.
const bcryptCost = 10

// PasswordHasher hashes and verifies plaintext passwords using bcrypt.
// bcrypt generates a fresh random salt per call, so hashing the same
// password twice yields different outputs.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the standard cost factor.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcryptCost}
}

// Hash derives a salted hash from the plaintext password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether the plaintext matches the stored hash. A malformed
// or empty stored hash verifies as false rather than erroring, so
// OAuth-only accounts with no hash can never pass a credential login.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
