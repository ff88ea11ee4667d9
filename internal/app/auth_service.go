// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"

	"authgate/internal/domain"
)

// Hasher is the password hashing port used by the authenticator.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, stored string) bool
}

// AuthService decides whether login and registration attempts are accepted.
type AuthService struct {
	users  domain.UserRepository
	hasher Hasher
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, hasher Hasher) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
	}
}

// Login validates a username/password pair against the credential store.
// An unknown username and a wrong password both return
// domain.ErrInvalidCredentials; callers must not be able to tell them apart.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// Register hashes the password and creates the user. Uniqueness is enforced
// by the store's atomic constraint, not by a lookup here, so two concurrent
// registrations of the same name cannot both succeed. A collision surfaces
// as domain.ErrDuplicateUser.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil, domain.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// GetOrCreate returns the user with the given username, provisioning one with
// an empty password hash if it does not exist. Used by SSO logins; an empty
// hash never verifies, so such users cannot log in with a password.
func (s *AuthService) GetOrCreate(ctx context.Context, username, email string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.Create(ctx, username, email, "")
	if errors.Is(err, domain.ErrDuplicateUser) {
		// Lost a provisioning race; the row exists now.
		return s.users.GetByUsername(ctx, username)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Seed creates the given user if no users exist yet. It is a no-op on a
// populated store.
func (s *AuthService) Seed(ctx context.Context, username, email, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = s.Register(ctx, username, email, password)
	if errors.Is(err, domain.ErrDuplicateUser) {
		return nil
	}
	return err
}
