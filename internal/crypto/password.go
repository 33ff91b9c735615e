package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// passwordHasher is the bcrypt-backed implementation of [PasswordHasher].
//
// bcrypt embeds the per-call random salt and the cost factor in the hash
// string itself, so the work factor can be tuned per deployment without
// invalidating previously stored hashes.
type passwordHasher struct {
	cost int
}

// NewPasswordHasher constructs a [PasswordHasher] with the given bcrypt
// cost. Costs outside the range supported by bcrypt are clamped to the
// library default.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &passwordHasher{cost: cost}
}

// Hash implements [PasswordHasher]. It returns the bcrypt hash of
// plaintext with a fresh random salt.
func (p *passwordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify implements [PasswordHasher]. The underlying comparison is
// constant-time with respect to the computed hash. A malformed stored hash
// is reported as a mismatch, never as an error.
func (p *passwordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
