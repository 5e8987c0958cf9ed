// Package security holds the stateless primitives of authentication: password
// hashing and signed bearer tokens. Nothing here touches storage.
package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMalformedHash means the stored hash is not a bcrypt string. It signals
	// corrupt data, never a wrong password.
	ErrMalformedHash = errors.New("security: malformed password hash")
	ErrPasswordEmpty = errors.New("security: password is empty")
	// bcrypt only reads the first 72 bytes; longer input is rejected instead of silently truncated.
	ErrPasswordTooLong = errors.New("security: password exceeds 72 bytes")
)

const maxPasswordBytes = 72

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, hash string) (bool, error)
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into bcrypt's accepted range; zero selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash returns a self-describing bcrypt string ($2a$<cost>$<salt+hash>).
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrPasswordEmpty
	}
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports (false, nil) on a mismatch and wraps ErrMalformedHash when the
// stored value cannot be parsed.
func (h *BcryptHasher) Verify(plaintext string, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
}
