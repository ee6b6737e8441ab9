package core

import "unicode"

// Starter is the next node in an input chain: either another capture
// frame or a terminal action consuming the accumulated values.
type Starter interface {
	Start(s *Session, values map[string]string)
}

// TerminalFunc is a bound terminal action at the end of a chain.
type TerminalFunc func(s *Session, values map[string]string)

type terminalStep struct {
	fn TerminalFunc
}

func (t terminalStep) Start(s *Session, values map[string]string) {
	t.fn(s, values)
}

// Terminal wraps fn as the final chain node.
func Terminal(fn TerminalFunc) Starter {
	return terminalStep{fn: fn}
}

// InputFrame captures one text field and passes control to the next
// node.
type InputFrame struct {
	echo   bool
	field  string
	prompt string
	next   Starter

	values map[string]string
	buffer []rune
}

// NewInputFrame builds a capture node. The prompt is always suffixed
// with the cancel hint.
func NewInputFrame(echo bool, field, prompt string, next Starter) *InputFrame {
	return &InputFrame{
		echo:   echo,
		field:  field,
		prompt: prompt + " Empty input cancels.",
		next:   next,
	}
}

// Start pushes the frame with the values accumulated so far.
func (f *InputFrame) Start(s *Session, values map[string]string) {
	f.values = values
	f.buffer = f.buffer[:0]
	s.Push(f)
}

func (f *InputFrame) Render(*Session) []string {
	echoed := ""
	if f.echo {
		echoed = string(f.buffer)
	}
	return []string{f.prompt, "", "> " + echoed}
}

func (f *InputFrame) OnKey(s *Session, k Key) Effect {
	switch k.Kind {
	case KeyEnter:
		if len(f.buffer) == 0 {
			// Empty input cancels the whole chain.
			return Pop()
		}
		values := make(map[string]string, len(f.values)+1)
		for key, val := range f.values {
			values[key] = val
		}
		values[f.field] = string(f.buffer)
		s.Pop(false)
		f.next.Start(s, values)
		return None()
	case KeyBackspace:
		if len(f.buffer) > 0 {
			f.buffer = f.buffer[:len(f.buffer)-1]
		}
		return None()
	case KeyCtrlC:
		f.buffer = f.buffer[:0]
		return None()
	case KeyCtrlD:
		return Pop()
	case KeyRune:
		if unicode.IsGraphic(k.Rune) && k.Rune != ' ' {
			f.buffer = append(f.buffer, k.Rune)
		}
		return None()
	default:
		return None()
	}
}

// Buffer exposes the captured text so far (used by tests and rendering).
func (f *InputFrame) Buffer() string { return string(f.buffer) }
