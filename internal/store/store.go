// Package store persists users, login attempts, and playing sessions.
//
// Two backends exist: SQLite for single-host deployments and Redis for
// shared ones. Uniqueness of usernames and of the per-user play slot is
// enforced by the backend itself, never by application checks; a claim
// collision always surfaces as schema.ErrAlreadyPlaying.
package store

import (
	"context"
	"time"

	"pkt.systems/gamelaunch/schema"
)

// Store is the record store behind the launcher.
type Store interface {
	// FindUserByUsername returns schema.ErrUserNotFound on a miss.
	FindUserByUsername(ctx context.Context, username string) (schema.User, error)
	// FindUserByID returns schema.ErrUserNotFound on a miss.
	FindUserByID(ctx context.Context, id schema.UserID) (schema.User, error)
	// CreateUser inserts a new user and returns it with its assigned id.
	// A username conflict returns schema.ErrDuplicateUsername.
	CreateUser(ctx context.Context, user schema.User) (schema.User, error)
	// UpdateUser persists a mutated user record looked up by id.
	UpdateUser(ctx context.Context, user schema.User) error
	// DeleteUser removes the user and any playing row it holds.
	DeleteUser(ctx context.Context, username string) error
	// ListUsers returns all users ordered by username.
	ListUsers(ctx context.Context) ([]schema.User, error)

	// AppendLoginAttempt records one login call, success or failure.
	AppendLoginAttempt(ctx context.Context, attempt schema.LoginAttempt) error

	// ClaimPlaying creates the playing row for the user. A second claim
	// while one exists returns schema.ErrAlreadyPlaying.
	ClaimPlaying(ctx context.Context, userID schema.UserID, since time.Time) error
	// ReleasePlaying deletes the playing row for the user.
	ReleasePlaying(ctx context.Context, userID schema.UserID) error
	// ListPlaying returns all playing sessions joined with their users.
	ListPlaying(ctx context.Context) ([]schema.PlayingUser, error)

	Close() error
}
