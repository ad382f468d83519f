// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost factor used for new hashes.
const DefaultCost = 10

// Hasher hashes plaintext passwords into digests safe to persist.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the default cost.
func NewHasher() *Hasher {
	return &Hasher{cost: DefaultCost}
}

// Hash produces a salted one-way digest of the plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. A mismatch is not an
// error; it only returns false.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
