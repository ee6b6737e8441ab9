package core

import (
	"fmt"

	"pkt.systems/gamelaunch/schema"
)

// WatchFrame lists who is playing right now and streams a selected
// session through the recording sink. The list is a snapshot taken when
// the frame is built or redrawn after a watch ends.
type WatchFrame struct {
	rows []schema.PlayingUser
}

// NewWatchFrame snapshots the current players.
func NewWatchFrame(s *Session) *WatchFrame {
	frame := &WatchFrame{}
	frame.refresh(s)
	return frame
}

func (f *WatchFrame) refresh(s *Session) {
	rows, err := s.store.ListPlaying(s.Context())
	if err != nil {
		s.log().Warn("playing list failed", "err", err)
		rows = nil
	}
	f.rows = rows
}

func (f *WatchFrame) Render(*Session) []string {
	if len(f.rows) == 0 {
		return []string{
			"Nobody is playing right now.",
			"",
			"q) Back",
		}
	}
	lines := []string{"Who do you want to watch?", ""}
	for i, row := range f.rows {
		lines = append(lines, fmt.Sprintf("%c) %s", 'a'+i, row.Username))
	}
	return append(lines, "", "q) Back")
}

func (f *WatchFrame) OnKey(s *Session, k Key) Effect {
	if k.Kind == KeyCtrlD {
		return Pop()
	}
	if k.Kind != KeyRune {
		return None()
	}
	if k.Rune == 'q' {
		return Pop()
	}
	index := int(k.Rune - 'a')
	if index < 0 || index >= len(f.rows) {
		return None()
	}
	target := f.rows[index]
	s.log().Info("watch start", "target", target.Username)
	err := s.withTerminalSuspended(func() error {
		return s.runner.Watch(s.Context(), target.Username)
	})
	if err != nil {
		s.log().Warn("watch handoff failed", "target", target.Username, "err", err)
		s.Status("Watch ended with an error")
	}
	f.refresh(s)
	return None()
}
