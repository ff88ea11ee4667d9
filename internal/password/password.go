// Package password provides one-way salted password hashing and verification.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt. The salt is generated per
// call and embedded in the output, so Hash is never deterministic across calls.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given work factor. A cost of zero
// selects bcrypt's default.
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the salted hash of plaintext. It fails only on internal
// hashing errors, never based on the password's content matching anything.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. The comparison is
// constant-time. A malformed stored hash verifies as false rather than
// erroring, so callers cannot distinguish a corrupt record from a wrong
// password.
func (h *Hasher) Verify(plaintext, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
}
