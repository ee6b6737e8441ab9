package core

import (
	"errors"
	"testing"
	"time"
)

func claimFor(t *testing.T, h *harness, username string, since time.Time) {
	t.Helper()
	user := seedUser(t, h.store, username, "secret")
	if err := h.store.ClaimPlaying(h.session.Context(), user.ID, since); err != nil {
		t.Fatalf("claim for %s: %v", username, err)
	}
}

func TestWatchListsPlayersInStartOrder(t *testing.T) {
	h := newHarness(t)
	base := time.Now().UTC()
	claimFor(t, h, "bob", base.Add(time.Minute))
	claimFor(t, h, "alice", base)

	press(h.session, "w")

	lines := h.session.Top().Render(h.session)
	if !containsLine(lines, "a) alice") || !containsLine(lines, "b) bob") {
		t.Fatalf("expected players listed in start order, got %v", lines)
	}
}

func TestWatchEmptyState(t *testing.T) {
	h := newHarness(t)
	press(h.session, "w")

	lines := h.session.Top().Render(h.session)
	if !containsLine(lines, "Nobody is playing right now.") {
		t.Fatalf("expected empty state, got %v", lines)
	}
}

func TestWatchSelectionRunsHandoff(t *testing.T) {
	h := newHarness(t)
	claimFor(t, h, "alice", time.Now().UTC())
	press(h.session, "w")

	press(h.session, "a")

	if len(h.runner.watches) != 1 || h.runner.watches[0] != "alice" {
		t.Fatalf("expected watch handoff for alice, got %v", h.runner.watches)
	}
	if h.screen.suspends == 0 {
		t.Fatalf("expected terminal suspended around watch")
	}
	if _, ok := h.session.Top().(*WatchFrame); !ok {
		t.Fatalf("expected to stay on watch frame, got %T", h.session.Top())
	}
}

func TestWatchRefreshesAfterHandoff(t *testing.T) {
	h := newHarness(t)
	user := seedUser(t, h.store, "alice", "secret")
	if err := h.store.ClaimPlaying(h.session.Context(), user.ID, time.Now().UTC()); err != nil {
		t.Fatalf("claim: %v", err)
	}
	press(h.session, "w")

	// The player stops while being watched; the refreshed list is empty.
	if err := h.store.ReleasePlaying(h.session.Context(), user.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	press(h.session, "a")

	lines := h.session.Top().Render(h.session)
	if !containsLine(lines, "Nobody is playing right now.") {
		t.Fatalf("expected refreshed empty list, got %v", lines)
	}
}

func TestWatchHandoffFailureSetsStatus(t *testing.T) {
	h := newHarness(t)
	h.runner.watchErr = errors.New("sink gone")
	claimFor(t, h, "alice", time.Now().UTC())
	press(h.session, "w")

	press(h.session, "a")

	if h.session.status != "Watch ended with an error" {
		t.Fatalf("expected status, got %q", h.session.status)
	}
}

func TestWatchIgnoresOutOfRangeSelection(t *testing.T) {
	h := newHarness(t)
	claimFor(t, h, "alice", time.Now().UTC())
	press(h.session, "w")

	press(h.session, "c")

	if len(h.runner.watches) != 0 {
		t.Fatalf("expected no handoff for unmapped letter")
	}
}

func TestWatchQuitPops(t *testing.T) {
	h := newHarness(t)
	press(h.session, "w")
	press(h.session, "q")

	if h.session.Depth() != 1 {
		t.Fatalf("expected q to pop, depth %d", h.session.Depth())
	}
}
