package auth

import (
	"fmt"

	"github.com/avolkov/ipod-store/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Hasher wraps bcrypt with a configurable work factor. The digest is
// self-describing (algorithm, cost and salt are embedded), so Verify
// needs nothing beyond the digest itself.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password must not be empty", domain.ErrInvalidInput)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. Malformed or empty
// inputs and internal comparison failures all read as a mismatch, never
// as an error.
func (h *Hasher) Verify(password, digest string) bool {
	if password == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
