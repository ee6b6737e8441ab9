package core

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pkt.systems/gamelaunch/schema"
)

// login verifies credentials and transitions into the authenticated
// state. Every call appends one LoginAttempt row, success or not.
func (s *Session) login(username, password string) {
	ctx := s.Context()
	success := false

	user, err := s.store.FindUserByUsername(ctx, username)
	switch {
	case err == nil:
		success = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
	case errors.Is(err, schema.ErrUserNotFound):
		// Hash something anyway so a missing user costs the same as a
		// wrong password. Skipping this would let callers enumerate
		// usernames by timing.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	default:
		s.log().Warn("login lookup failed", "username", username, "err", err)
	}

	s.recordAttempt(username, success)

	if !success {
		s.log().Info("login rejected", "username", username, "remote", s.remote)
		s.Status("Login failed")
		return
	}

	s.log().Info("login accepted", "username", username, "remote", s.remote)
	s.resetStack()
	s.completeLogin(user)
}

// register creates the account and, like login, lands the new user in
// the authenticated menu. A username conflict leaves no partial state.
func (s *Session) register(values map[string]string) {
	ctx := s.Context()
	hash, err := bcrypt.GenerateFromPassword([]byte(values["password"]), bcrypt.DefaultCost)
	if err != nil {
		s.Status("Registration failed")
		return
	}

	created, err := s.store.CreateUser(ctx, schema.User{
		Username:     values["user"],
		PasswordHash: string(hash),
		Email:        values["email"],
	})
	if err != nil {
		if errors.Is(err, schema.ErrDuplicateUsername) {
			s.log().Info("registration rejected", "username", values["user"], "reason", "duplicate")
			s.Status("Username already in use")
			s.resetStack()
			s.Push(s.menuByName(RootMenuName))
			return
		}
		s.log().Warn("registration failed", "username", values["user"], "err", err)
		s.Status("Registration failed")
		return
	}

	s.log().Info("user registered", "username", created.Username)
	s.Status("Created new user")
	s.resetStack()
	s.completeLogin(created)
	s.runRegisterHook()
}

// completeLogin binds the user into the session and template context and
// pushes the post-login menu.
func (s *Session) completeLogin(user schema.User) {
	s.user = user
	s.loggedIn = true
	s.Push(s.menuByName(LoggedInMenuName))
}

// runRegisterHook executes the configured post-registration command,
// best effort, output discarded.
func (s *Session) runRegisterHook() {
	tmpl, ok := s.cfg.Actions["register"]
	if !ok {
		return
	}
	command, err := s.RenderTemplate(tmpl, nil)
	if err != nil {
		s.log().Warn("register hook template failed", "err", err)
		return
	}
	if err := s.runner.Command(s.Context(), command); err != nil {
		s.log().Warn("register hook failed", "err", err)
	}
}

func (s *Session) recordAttempt(username string, success bool) {
	err := s.store.AppendLoginAttempt(s.Context(), schema.LoginAttempt{
		Username:   username,
		Success:    success,
		ClientAddr: s.remote,
		At:         time.Now().UTC(),
	})
	if err != nil {
		s.log().Warn("login attempt not recorded", "username", username, "err", err)
	}
}

// changePassword re-hashes and persists a new password for the
// authenticated user.
func (s *Session) changePassword(password string) {
	user, err := s.currentRecord()
	if err != nil {
		s.Status("Unknown user")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.Status("Password change failed")
		return
	}
	user.PasswordHash = string(hash)
	if err := s.store.UpdateUser(s.Context(), user); err != nil {
		s.log().Warn("password change failed", "err", err)
		s.Status("Password change failed")
		return
	}
	s.user = user
	s.Status("Password changed")
}

// changeEmail persists a new email for the authenticated user.
func (s *Session) changeEmail(email string) {
	user, err := s.currentRecord()
	if err != nil {
		s.Status("Unknown user")
		return
	}
	user.Email = email
	if err := s.store.UpdateUser(s.Context(), user); err != nil {
		s.log().Warn("email change failed", "err", err)
		s.Status("Email change failed")
		return
	}
	s.user = user
	s.Status("Email changed")
}

// currentRecord re-reads the authenticated user from the store. The
// record disappearing mid-session is schema.ErrInvalidUser, reported,
// never fatal.
func (s *Session) currentRecord() (schema.User, error) {
	if !s.loggedIn {
		return schema.User{}, schema.ErrNotLoggedIn
	}
	user, err := s.store.FindUserByUsername(s.Context(), s.user.Username)
	if err != nil {
		if errors.Is(err, schema.ErrUserNotFound) {
			s.log().Warn("authenticated user vanished", "username", s.user.Username)
			return schema.User{}, schema.ErrInvalidUser
		}
		return schema.User{}, err
	}
	return user, nil
}
