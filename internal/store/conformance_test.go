package store

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"pkt.systems/gamelaunch/schema"
)

// StoreSuite holds the backend-independent contract tests. The backend
// suites embed it and install a fresh store per test.
type StoreSuite struct {
	suite.Suite
	store Store
	ctx   context.Context
}

func (s *StoreSuite) TestCreateAndFindUser() {
	created, err := s.store.CreateUser(s.ctx, schema.User{
		Username:     "alice",
		PasswordHash: "hash",
		Email:        "a@x.com",
	})
	s.Require().NoError(err)
	s.Require().NotZero(created.ID)

	byName, err := s.store.FindUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(created.ID, byName.ID)
	s.Equal("hash", byName.PasswordHash)
	s.Equal("a@x.com", byName.Email)

	byID, err := s.store.FindUserByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)
}

func (s *StoreSuite) TestFindUserMisses() {
	_, err := s.store.FindUserByUsername(s.ctx, "nobody")
	s.Require().ErrorIs(err, schema.ErrUserNotFound)

	_, err = s.store.FindUserByID(s.ctx, 42)
	s.Require().ErrorIs(err, schema.ErrUserNotFound)
}

func (s *StoreSuite) TestDuplicateUsername() {
	_, err := s.store.CreateUser(s.ctx, schema.User{Username: "alice", PasswordHash: "h1"})
	s.Require().NoError(err)

	_, err = s.store.CreateUser(s.ctx, schema.User{Username: "alice", PasswordHash: "h2"})
	s.Require().ErrorIs(err, schema.ErrDuplicateUsername)

	// The first record is untouched.
	user, err := s.store.FindUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("h1", user.PasswordHash)
}

func (s *StoreSuite) TestUpdateUser() {
	user, err := s.store.CreateUser(s.ctx, schema.User{Username: "alice", PasswordHash: "h", Email: "old@x.com"})
	s.Require().NoError(err)

	user.Email = "new@x.com"
	user.PasswordHash = "h2"
	s.Require().NoError(s.store.UpdateUser(s.ctx, user))

	got, err := s.store.FindUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("new@x.com", got.Email)
	s.Equal("h2", got.PasswordHash)
}

func (s *StoreSuite) TestUpdateMissingUser() {
	err := s.store.UpdateUser(s.ctx, schema.User{ID: 99, Username: "ghost"})
	s.Require().ErrorIs(err, schema.ErrUserNotFound)
}

func (s *StoreSuite) TestListUsersOrdersByUsername() {
	users, err := s.store.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)

	_, err = s.store.CreateUser(s.ctx, schema.User{Username: "bob", PasswordHash: "h"})
	s.Require().NoError(err)
	_, err = s.store.CreateUser(s.ctx, schema.User{Username: "alice", PasswordHash: "h"})
	s.Require().NoError(err)

	users, err = s.store.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal("alice", users[0].Username)
	s.Equal("bob", users[1].Username)
}

func (s *StoreSuite) TestDeleteUser() {
	user, err := s.store.CreateUser(s.ctx, schema.User{Username: "alice", PasswordHash: "h"})
	s.Require().NoError(err)
	s.Require().NoError(s.store.ClaimPlaying(s.ctx, user.ID, time.Now().UTC()))

	s.Require().NoError(s.store.DeleteUser(s.ctx, "alice"))

	_, err = s.store.FindUserByUsername(s.ctx, "alice")
	s.Require().ErrorIs(err, schema.ErrUserNotFound)

	// The playing row goes with the user.
	playing, err := s.store.ListPlaying(s.ctx)
	s.Require().NoError(err)
	s.Empty(playing)

	// The username is free again.
	_, err = s.store.CreateUser(s.ctx, schema.User{Username: "alice", PasswordHash: "h2"})
	s.Require().NoError(err)
}

func (s *StoreSuite) TestDeleteMissingUser() {
	s.Require().ErrorIs(s.store.DeleteUser(s.ctx, "nobody"), schema.ErrUserNotFound)
}

func (s *StoreSuite) TestAppendLoginAttempts() {
	now := time.Now().UTC().Truncate(time.Second)
	s.Require().NoError(s.store.AppendLoginAttempt(s.ctx, schema.LoginAttempt{
		Username: "alice", Success: false, ClientAddr: "10.0.0.1:2222", At: now,
	}))
	s.Require().NoError(s.store.AppendLoginAttempt(s.ctx, schema.LoginAttempt{
		Username: "alice", Success: true, ClientAddr: "10.0.0.1:2222", At: now.Add(time.Second),
	}))
}

func (s *StoreSuite) TestClaimAndRelease() {
	user, err := s.store.CreateUser(s.ctx, schema.User{Username: "alice", PasswordHash: "h"})
	s.Require().NoError(err)
	since := time.Now().UTC().Truncate(time.Second)

	s.Require().NoError(s.store.ClaimPlaying(s.ctx, user.ID, since))
	s.Require().ErrorIs(s.store.ClaimPlaying(s.ctx, user.ID, since), schema.ErrAlreadyPlaying)

	playing, err := s.store.ListPlaying(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(playing, 1)
	s.Equal(user.ID, playing[0].UserID)
	s.Equal("alice", playing[0].Username)

	s.Require().NoError(s.store.ReleasePlaying(s.ctx, user.ID))
	s.Require().ErrorIs(s.store.ReleasePlaying(s.ctx, user.ID), schema.ErrNotPlaying)

	playing, err = s.store.ListPlaying(s.ctx)
	s.Require().NoError(err)
	s.Empty(playing)

	// The slot is reusable after release.
	s.Require().NoError(s.store.ClaimPlaying(s.ctx, user.ID, since.Add(time.Minute)))
}

func (s *StoreSuite) TestListPlayingOrdersBySince() {
	alice, err := s.store.CreateUser(s.ctx, schema.User{Username: "alice", PasswordHash: "h"})
	s.Require().NoError(err)
	bob, err := s.store.CreateUser(s.ctx, schema.User{Username: "bob", PasswordHash: "h"})
	s.Require().NoError(err)

	base := time.Now().UTC().Truncate(time.Second)
	s.Require().NoError(s.store.ClaimPlaying(s.ctx, bob.ID, base))
	s.Require().NoError(s.store.ClaimPlaying(s.ctx, alice.ID, base.Add(time.Minute)))

	playing, err := s.store.ListPlaying(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(playing, 2)
	s.Equal("bob", playing[0].Username)
	s.Equal("alice", playing[1].Username)
}
