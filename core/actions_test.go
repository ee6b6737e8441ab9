package core

import (
	"errors"
	"testing"

	"pkt.systems/gamelaunch/schema"
)

func TestParseAction(t *testing.T) {
	cases := []struct {
		command string
		want    action
	}{
		{"login", action{kind: actionLogin}},
		{"register", action{kind: actionRegister}},
		{"game 2", action{kind: actionGame, index: 2}},
		{"play 0", action{kind: actionPlay, index: 0}},
		{"watch", action{kind: actionWatch}},
		{"edit /srv/alice/options", action{kind: actionEdit, path: "/srv/alice/options"}},
		{"changepass", action{kind: actionChangePass}},
		{"changeemail", action{kind: actionChangeEmail}},
		{"quit", action{kind: actionQuit}},
	}
	for _, tc := range cases {
		got, err := parseAction(tc.command)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.command, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q: got %+v, want %+v", tc.command, got, tc.want)
		}
	}
}

func TestParseActionRejectsMalformedCommands(t *testing.T) {
	for _, command := range []string{
		"",
		"frobnicate",
		"game",
		"game one",
		"play 1 2",
		"edit",
	} {
		if _, err := parseAction(command); !errors.Is(err, schema.ErrUnknownAction) {
			t.Fatalf("parse %q: expected ErrUnknownAction, got %v", command, err)
		}
	}
}

func TestGameActionPushesGameMenu(t *testing.T) {
	h := newHarness(t)
	user := seedUser(t, h.store, "alice", "secret")
	h.session.completeLogin(user)

	press(h.session, "1")

	if h.session.Depth() != 2 {
		t.Fatalf("expected game menu pushed, depth %d", h.session.Depth())
	}
	if _, ok := h.session.Top().(*MenuFrame); !ok {
		t.Fatalf("expected menu frame on top, got %T", h.session.Top())
	}
}

func TestGameActionWithUnknownIndexSetsStatus(t *testing.T) {
	h := newHarness(t)
	effect := runChoice(h.session, "game 9", nil)
	if effect.Kind != EffectNone {
		t.Fatalf("expected no transition")
	}
	if h.session.status != "Unknown game" {
		t.Fatalf("expected status, got %q", h.session.status)
	}
}

func TestChangePasswordRequiresLogin(t *testing.T) {
	h := newHarness(t)
	effect := runChoice(h.session, "changepass", nil)
	if effect.Kind != EffectNone {
		t.Fatalf("expected no transition")
	}
	if h.session.status != "You are not logged in" {
		t.Fatalf("expected status, got %q", h.session.status)
	}
}

func TestChangeEmailRequiresLogin(t *testing.T) {
	h := newHarness(t)
	effect := runChoice(h.session, "changeemail", nil)
	if effect.Kind != EffectNone {
		t.Fatalf("expected no transition")
	}
	if h.session.status != "You are not logged in" {
		t.Fatalf("expected status, got %q", h.session.status)
	}
}

func TestQuitPopsMenu(t *testing.T) {
	h := newHarness(t)
	press(h.session, "q")
	if h.session.Depth() != 0 {
		t.Fatalf("expected empty stack, depth %d", h.session.Depth())
	}
}
