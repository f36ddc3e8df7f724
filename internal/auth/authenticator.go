package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fleet-backend/internal/apperrors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = &apperrors.Error{Kind: apperrors.ErrUnauthenticated, Message: "Invalid credentials"}

// Credential is the part of an admin or driver row needed to log in.
type Credential struct {
	ID           int64  `db:"id"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
}

// CredentialStore looks up an active credential in the table owned by role.
// It returns an error wrapping apperrors.ErrNotFound when no row matches.
type CredentialStore interface {
	FindActiveCredential(ctx context.Context, role Role, email string) (*Credential, error)
}

type Authenticator struct {
	store CredentialStore
}

func NewAuthenticator(store CredentialStore) *Authenticator {
	return &Authenticator{store: store}
}

func (a *Authenticator) Authenticate(ctx context.Context, email, password string, role Role) (Identity, error) {
	if _, ok := ParseRole(string(role)); !ok {
		return Identity{}, apperrors.Invalid("Role must be 'admin' or 'driver'")
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Identity{}, apperrors.Invalid("Email, password and role are required")
	}

	cred, err := a.store.FindActiveCredential(ctx, role, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Burn the same bcrypt time as a real comparison.
			VerifyPassword(password, dummyHash())
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, fmt.Errorf("find credential: %w", err)
	}

	if !VerifyPassword(password, cred.PasswordHash) {
		return Identity{}, ErrInvalidCredentials
	}

	return Identity{
		ID:         cred.ID,
		GivenName:  cred.FirstName,
		FamilyName: cred.LastName,
		Email:      cred.Email,
		Role:       role,
	}, nil
}

var (
	dummyOnce sync.Once
	dummy     string
)

func dummyHash() string {
	dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("fleet-timing-equaliser"), BcryptCost)
		if err == nil {
			dummy = string(h)
		}
	})
	return dummy
}
