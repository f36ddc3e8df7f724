package auth

import (
	"fmt"
	"unicode/utf8"

	"fleet-backend/internal/apperrors"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost = 12

	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordBytes = 72
)

var ErrWeakPassword = apperrors.Invalid(fmt.Sprintf(
	"Password must be at least %d characters and at most %d bytes long", MinPasswordLength, MaxPasswordBytes))

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength || len(password) > MaxPasswordBytes {
		return ErrWeakPassword
	}
	return nil
}

// HashPassword validates and hashes a new secret.
func HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. A malformed hash
// simply does not match.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
