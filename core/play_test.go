package core

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"pkt.systems/gamelaunch/internal/handoff"
	"pkt.systems/gamelaunch/schema"
)

func startGame(t *testing.T, h *harness) {
	t.Helper()
	press(h.session, "1")
	press(h.session, "p")
}

func TestPlayLaunchesGameAndReleasesSlot(t *testing.T) {
	h := newHarness(t)
	seedUser(t, h.store, "alice", "secret")
	loginAs(t, h, "alice", "secret")

	startGame(t, h)

	if len(h.runner.runs) != 1 {
		t.Fatalf("expected one launch, got %d", len(h.runner.runs))
	}
	spec := h.runner.runs[0]
	if spec.Binary != "docker" {
		t.Fatalf("expected docker, got %q", spec.Binary)
	}
	if spec.User != "alice" {
		t.Fatalf("expected acting user forwarded, got %q", spec.User)
	}
	want := []string{
		"run", "--rm", "-i",
		"--name", "NetHack-alice",
		"-v", "/srv/alice:/data",
		"gamelaunch/nethack",
		"-u", "alice",
	}
	if !reflect.DeepEqual(spec.Args, want) {
		t.Fatalf("unexpected argv:\n got %v\nwant %v", spec.Args, want)
	}
	if len(h.store.playing) != 0 {
		t.Fatalf("expected play slot released, got %v", h.store.playing)
	}
	if h.screen.suspends == 0 {
		t.Fatalf("expected terminal suspended around handoff")
	}
}

func TestPlayRunsPrelaunchCommands(t *testing.T) {
	h := newHarness(t)
	seedUser(t, h.store, "alice", "secret")
	loginAs(t, h, "alice", "secret")

	startGame(t, h)

	if len(h.runner.commands) != 1 || h.runner.commands[0] != "install -d /srv/alice" {
		t.Fatalf("expected rendered prelaunch command, got %v", h.runner.commands)
	}
}

func TestPlayFailedPrelaunchStillLaunches(t *testing.T) {
	h := newHarness(t)
	h.runner.cmdErr = errors.New("hook broke")
	seedUser(t, h.store, "alice", "secret")
	loginAs(t, h, "alice", "secret")

	startGame(t, h)

	if len(h.runner.runs) != 1 {
		t.Fatalf("expected launch despite failed hook, got %d", len(h.runner.runs))
	}
}

func TestPlayWhileAlreadyPlaying(t *testing.T) {
	h := newHarness(t)
	user := seedUser(t, h.store, "alice", "secret")
	loginAs(t, h, "alice", "secret")
	if err := h.store.ClaimPlaying(h.session.Context(), user.ID, time.Now().UTC()); err != nil {
		t.Fatalf("pre-claim: %v", err)
	}

	startGame(t, h)

	if len(h.runner.runs) != 0 {
		t.Fatalf("expected no launch while already playing")
	}
	if _, ok := h.session.Top().(*InfoFrame); !ok {
		t.Fatalf("expected info frame, got %T", h.session.Top())
	}
	lines := h.session.Top().Render(h.session)
	if !containsLine(lines, "You are already playing!") {
		t.Fatalf("unexpected info lines: %v", lines)
	}
	if len(h.store.playing) != 1 {
		t.Fatalf("pre-existing slot must survive, got %v", h.store.playing)
	}
}

func TestPlayHandoffFailureStillReleases(t *testing.T) {
	h := newHarness(t)
	h.runner.runErr = errors.New("container died")
	seedUser(t, h.store, "alice", "secret")
	loginAs(t, h, "alice", "secret")

	startGame(t, h)

	if h.session.status != "Game exited with an error" {
		t.Fatalf("expected status, got %q", h.session.status)
	}
	if len(h.store.playing) != 0 {
		t.Fatalf("expected slot released after failure, got %v", h.store.playing)
	}
	if h.session.Depth() == 0 {
		t.Fatalf("session must survive a failed handoff")
	}
}

// ctxStore refuses calls on a cancelled context, like the real backends.
type ctxStore struct {
	*memStore
}

func (s *ctxStore) ClaimPlaying(ctx context.Context, userID schema.UserID, since time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.memStore.ClaimPlaying(ctx, userID, since)
}

func (s *ctxStore) ReleasePlaying(ctx context.Context, userID schema.UserID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.memStore.ReleasePlaying(ctx, userID)
}

// disconnectRunner cancels the session context mid-handoff, the way a
// dropped SSH connection does.
type disconnectRunner struct {
	fakeRunner
	cancel context.CancelFunc
}

func (r *disconnectRunner) Run(ctx context.Context, spec handoff.RunSpec) error {
	r.cancel()
	return context.Canceled
}

func TestPlayReleasesSlotAfterClientDisconnect(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.session.ctx = ctx
	h.session.store = &ctxStore{memStore: h.store}
	h.session.runner = &disconnectRunner{cancel: cancel}
	seedUser(t, h.store, "alice", "secret")
	loginAs(t, h, "alice", "secret")

	startGame(t, h)

	if len(h.store.playing) != 0 {
		t.Fatalf("expected slot released after disconnect, got %v", h.store.playing)
	}
}

func TestPlayRequiresLogin(t *testing.T) {
	h := newHarness(t)
	runChoice(h.session, "play 0", nil)

	if len(h.runner.runs) != 0 {
		t.Fatalf("expected no launch without login")
	}
	if h.session.status != "You are not logged in" {
		t.Fatalf("expected status, got %q", h.session.status)
	}
}

func TestEditOptionsRunsEditorContainer(t *testing.T) {
	h := newHarness(t)
	seedUser(t, h.store, "alice", "secret")
	loginAs(t, h, "alice", "secret")

	press(h.session, "1")
	press(h.session, "e")

	if len(h.runner.execs) != 1 {
		t.Fatalf("expected one editor exec, got %d", len(h.runner.execs))
	}
	got := h.runner.execs[0]
	want := []string{
		"docker",
		"run", "--rm", "-i",
		"--name", "edit-alice",
		"-v", "/srv/alice/options:/workdir",
		"gamelaunch/editor",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected editor argv:\n got %v\nwant %v", got, want)
	}
}

func TestEditWithoutConfiguredEditor(t *testing.T) {
	launch := sampleLaunch()
	launch.Editor.Image = ""
	h := newHarnessWith(t, launch)
	seedUser(t, h.store, "alice", "secret")
	loginAs(t, h, "alice", "secret")

	press(h.session, "1")
	press(h.session, "e")

	if len(h.runner.execs) != 0 {
		t.Fatalf("expected no exec without editor image")
	}
	if h.session.status != "No editor configured" {
		t.Fatalf("expected status, got %q", h.session.status)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"NetHack":       "NetHack",
		"dungeon crawl": "dungeon_crawl",
		"a/b:c":         "a_b_c",
		"":              "anon",
	}
	for in, want := range cases {
		if got := sanitizeName(in); got != want {
			t.Fatalf("sanitize %q: got %q, want %q", in, got, want)
		}
	}
}
