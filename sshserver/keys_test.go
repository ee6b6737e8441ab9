package sshserver

import (
	"strings"
	"testing"
	"time"

	"pkt.systems/gamelaunch/core"
)

func decode(t *testing.T, input string) []core.Key {
	t.Helper()
	keys := make(chan core.Key, 32)
	go ReadKeys(strings.NewReader(input), keys)
	var out []core.Key
	for k := range keys {
		out = append(out, k)
	}
	return out
}

func TestReadKeysDecodesRunesAndControls(t *testing.T) {
	got := decode(t, "a\rb\x7f\x03\x04")
	want := []core.Key{
		core.RuneKey('a'),
		{Kind: core.KeyEnter},
		core.RuneKey('b'),
		{Kind: core.KeyBackspace},
		{Kind: core.KeyCtrlC},
		{Kind: core.KeyCtrlD},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReadKeysCollapsesCRLF(t *testing.T) {
	got := decode(t, "\r\n")
	if len(got) != 1 || got[0].Kind != core.KeyEnter {
		t.Fatalf("expected single enter, got %v", got)
	}
}

func TestReadKeysTreatsBareLFAsEnter(t *testing.T) {
	got := decode(t, "\n")
	if len(got) != 1 || got[0].Kind != core.KeyEnter {
		t.Fatalf("expected enter, got %v", got)
	}
}

func TestReadKeysDiscardsEscapeSequences(t *testing.T) {
	got := decode(t, "\x1b[A\x1b[5~\x1bOHx")
	if len(got) != 1 || got[0] != core.RuneKey('x') {
		t.Fatalf("expected only the trailing rune, got %v", got)
	}
}

func TestReadKeysDecodesUTF8(t *testing.T) {
	got := decode(t, "å")
	if len(got) != 1 || got[0] != core.RuneKey('å') {
		t.Fatalf("expected å, got %v", got)
	}
}

func TestReadKeysFinishesWhenDrainedAfterConsumerStops(t *testing.T) {
	keys := make(chan core.Key, 1)
	done := make(chan struct{})
	go func() {
		ReadKeys(strings.NewReader("abcdefgh"), keys)
		close(done)
	}()

	// Nothing receives yet, so the reader fills the buffer and blocks on
	// the send. Draining, as the server does after the launcher stops,
	// must unblock it.
	go func() {
		for range keys {
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reader still blocked after drain")
	}
}

func TestReadKeysSkipsOtherControlBytes(t *testing.T) {
	got := decode(t, "\x01\x09a")
	if len(got) != 1 || got[0] != core.RuneKey('a') {
		t.Fatalf("expected control bytes skipped, got %v", got)
	}
}
