package schema

import "errors"

var (
	// ErrUserNotFound indicates no user record matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername indicates a registration conflict on username.
	ErrDuplicateUsername = errors.New("username already in use")
	// ErrAlreadyPlaying indicates the user already holds the play slot.
	ErrAlreadyPlaying = errors.New("already playing")
	// ErrInvalidUser indicates an authenticated username no longer resolves.
	ErrInvalidUser = errors.New("invalid user")
	// ErrNotLoggedIn indicates an action requires an authenticated user.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrNotPlaying indicates no playing session exists for the user.
	ErrNotPlaying = errors.New("not playing")
	// ErrUnknownAction indicates a menu action verb is not recognized.
	ErrUnknownAction = errors.New("unknown action")
	// ErrUnknownGame indicates a game index outside the configured range.
	ErrUnknownGame = errors.New("unknown game")
)
