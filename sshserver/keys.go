package sshserver

import (
	"bufio"
	"io"
	"unicode"
	"unicode/utf8"

	"pkt.systems/gamelaunch/core"
)

// ReadKeys decodes the raw terminal byte stream into launcher key
// presses and closes out when the stream ends. Escape sequences are
// consumed and discarded: the launcher has no use for cursor keys, and
// leaking their bytes as runes would trigger random menu choices.
func ReadKeys(r io.Reader, out chan<- core.Key) {
	defer close(out)
	br := bufio.NewReader(r)
	lastWasCR := false
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		if lastWasCR {
			lastWasCR = false
			if b == '\n' {
				continue
			}
		}
		switch b {
		case 0x1b:
			if !discardEscape(br) {
				return
			}
		case '\r':
			out <- core.Key{Kind: core.KeyEnter}
			lastWasCR = true
		case '\n':
			out <- core.Key{Kind: core.KeyEnter}
		case 0x7f, 0x08:
			out <- core.Key{Kind: core.KeyBackspace}
		case 0x03:
			out <- core.Key{Kind: core.KeyCtrlC}
		case 0x04:
			out <- core.Key{Kind: core.KeyCtrlD}
		default:
			if b < 0x20 {
				continue
			}
			if b < utf8.RuneSelf {
				out <- core.RuneKey(rune(b))
				continue
			}
			_ = br.UnreadByte()
			rn, _, err := br.ReadRune()
			if err != nil {
				return
			}
			out <- core.RuneKey(rn)
		}
	}
}

// discardEscape eats one escape sequence. Returns false when the stream
// ended mid-sequence.
func discardEscape(br *bufio.Reader) bool {
	b, err := br.ReadByte()
	if err != nil {
		return false
	}
	switch b {
	case '[':
		for i := 0; i < 8; i++ {
			b, err := br.ReadByte()
			if err != nil {
				return false
			}
			if b == '~' || unicode.IsLetter(rune(b)) {
				return true
			}
		}
		return true
	case 'O':
		_, err := br.ReadByte()
		return err == nil
	default:
		return true
	}
}
