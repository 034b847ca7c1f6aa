// Package password wraps bcrypt hashing so the cost factor and error
// translation live in one place.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"antygravity/pkg/platform/sentinel"
)

const minLength = 8

// Hash derives a bcrypt hash from a plaintext password.
func Hash(plaintext string) (string, error) {
	if len(plaintext) < minLength {
		return "", fmt.Errorf("password must be at least %d characters: %w", minLength, sentinel.ErrInvalidState)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. A mismatch is
// not an error; only unexpected bcrypt failures are.
func Verify(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", err)
}
