package schema

import "time"

// UserID identifies a user record in the store.
type UserID int64

// User is a registered account.
type User struct {
	ID           UserID
	Username     string
	PasswordHash string
	Email        string
}

// LoginAttempt is one row in the append-only login audit trail.
type LoginAttempt struct {
	Username   string
	Success    bool
	ClientAddr string
	At         time.Time
}

// PlayingSession marks a user as currently playing. At most one exists
// per user; the store enforces this with the user id as primary key.
type PlayingSession struct {
	UserID    UserID
	StartedAt time.Time
}

// PlayingUser is a PlayingSession joined with its owning user.
type PlayingUser struct {
	UserID    UserID
	Username  string
	StartedAt time.Time
}

// RecorderAddr locates the session recording sink.
type RecorderAddr struct {
	Host string
	Port string
}

// Addr returns host:port for logging.
func (r RecorderAddr) Addr() string {
	return r.Host + ":" + r.Port
}
