package sshserver

import (
	"io"
	"strings"
)

// screen draws launcher frames on the alternate screen buffer. Suspend
// leaves the alternate screen so a handed-off process paints the normal
// one; Resume takes it back.
type screen struct {
	out io.Writer
}

func newScreen(out io.Writer) *screen {
	return &screen{out: out}
}

func (s *screen) Render(lines []string) error {
	var b strings.Builder
	b.WriteString("\x1b[?25l")
	b.WriteString("\x1b[H\x1b[2J")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(line)
	}
	b.WriteString("\x1b[?25h")
	_, err := io.WriteString(s.out, b.String())
	return err
}

func (s *screen) Suspend() {
	_, _ = io.WriteString(s.out, "\x1b[?1049l\x1b[?25h")
}

func (s *screen) Resume() {
	_, _ = io.WriteString(s.out, "\x1b[?1049h\x1b[H\x1b[2J")
}
