// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password
	// was incorrect. Login never reveals which of the two it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateUser indicates a username or email collision on registration.
	ErrDuplicateUser = errors.New("user already exists")
)

// User represents a registered user. The record is immutable after creation.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session represents one authenticated browser interaction. Username is a
// denormalized display snapshot taken at login time.
type Session struct {
	ID        string
	UserID    int64
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// UserRepository defines the port for user persistence operations.
// Lookups return (nil, nil) when no record exists.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// Create inserts a new user. Uniqueness of username and email is
	// enforced atomically by the store; a collision returns ErrDuplicateUser.
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
	Count(ctx context.Context) (int, error)
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	// Create persists a session. The session ID is the primary key; replaying
	// a create with the same ID must not produce a second row.
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	// DeleteForUser removes every session belonging to the user. Deleting
	// zero rows is not an error.
	DeleteForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) error
}
