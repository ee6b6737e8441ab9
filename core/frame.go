package core

// Key is one decoded key press from the session terminal.
type Key struct {
	Kind KeyKind
	Rune rune
}

// KeyKind discriminates key presses the launcher cares about.
type KeyKind int

const (
	// KeyRune is a printable character.
	KeyRune KeyKind = iota
	// KeyEnter submits input.
	KeyEnter
	// KeyBackspace erases the last input character.
	KeyBackspace
	// KeyCtrlC clears an in-progress input buffer.
	KeyCtrlC
	// KeyCtrlD behaves like quit on the top frame.
	KeyCtrlD
)

// RuneKey builds a printable key press.
func RuneKey(r rune) Key { return Key{Kind: KeyRune, Rune: r} }

// Frame is one entry on the menu stack. Render returns the lines the
// frame draws; OnKey consumes one key press and returns the stack
// transition it wants.
type Frame interface {
	Render(s *Session) []string
	OnKey(s *Session, k Key) Effect
}

// EffectKind is the set of stack transitions a frame can request.
type EffectKind int

const (
	// EffectNone leaves the stack alone (the frame may still have
	// changed its own state, so the session redraws).
	EffectNone EffectKind = iota
	// EffectPush pushes a new frame and renders it.
	EffectPush
	// EffectPop removes the top frame.
	EffectPop
	// EffectPopPush replaces the top frame.
	EffectPopPush
)

// Effect is the result of dispatching a key to a frame.
type Effect struct {
	Kind  EffectKind
	Frame Frame
	// Quiet suppresses the redraw after a pop, used when the popped
	// frame has already arranged the next frame itself.
	Quiet bool
}

// None leaves the stack untouched.
func None() Effect { return Effect{Kind: EffectNone} }

// Push pushes frame onto the stack.
func Push(frame Frame) Effect { return Effect{Kind: EffectPush, Frame: frame} }

// Pop removes the top frame and redraws the one underneath.
func Pop() Effect { return Effect{Kind: EffectPop} }

// PopQuiet removes the top frame without redrawing.
func PopQuiet() Effect { return Effect{Kind: EffectPop, Quiet: true} }

// PopPush replaces the top frame.
func PopPush(frame Frame) Effect { return Effect{Kind: EffectPopPush, Frame: frame} }

// InfoFrame shows static lines until any key is pressed.
type InfoFrame struct {
	Lines []string
}

// NewInfoFrame builds an informational frame.
func NewInfoFrame(lines ...string) *InfoFrame {
	return &InfoFrame{Lines: append(lines, "", "Press any key to continue.")}
}

func (f *InfoFrame) Render(*Session) []string { return f.Lines }

func (f *InfoFrame) OnKey(*Session, Key) Effect { return Pop() }
