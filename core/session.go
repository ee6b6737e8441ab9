// Package core implements the launcher itself: the menu stack, the
// chained input capture, the choice runner, and the login/play/watch
// flows behind them. One Session exists per connected terminal; the only
// state shared between sessions is the record store.
package core

import (
	"context"
	"strings"
	"text/template"

	"pkt.systems/gamelaunch/internal/handoff"
	"pkt.systems/gamelaunch/internal/logx"
	"pkt.systems/gamelaunch/internal/store"
	"pkt.systems/gamelaunch/schema"
	"pkt.systems/pslog"
)

// Screen is the terminal drawing surface. Render clears and draws the
// full frame; Suspend and Resume bracket external process handoffs.
type Screen interface {
	Render(lines []string) error
	Suspend()
	Resume()
}

// Config wires a Session to its collaborators.
type Config struct {
	Launch schema.LaunchConfig
	Store  store.Store
	Runner handoff.Runner
	Screen Screen
	// GameBinary runs containerized games and the editor. Defaults to
	// "docker".
	GameBinary string
	RemoteAddr string
}

// Session drives one connected terminal. It is single-goroutine: one key
// is read and fully processed, including blocking handoffs, before the
// next.
type Session struct {
	ctx        context.Context
	cfg        schema.LaunchConfig
	store      store.Store
	runner     handoff.Runner
	screen     Screen
	gameBinary string
	remote     string

	stack    []Frame
	user     schema.User
	loggedIn bool
	status   string
}

// NewSession builds a session; Run starts it.
func NewSession(cfg Config) *Session {
	binary := cfg.GameBinary
	if binary == "" {
		binary = "docker"
	}
	return &Session{
		cfg:        cfg.Launch,
		store:      cfg.Store,
		runner:     cfg.Runner,
		screen:     cfg.Screen,
		gameBinary: binary,
		remote:     cfg.RemoteAddr,
	}
}

// Run pushes the root menu and processes keys until the stack empties,
// the key source closes, or the context is cancelled. The terminal is
// restored on every exit path.
func (s *Session) Run(ctx context.Context, keys <-chan Key) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx = ctx
	s.screen.Resume()
	defer s.screen.Suspend()

	s.Push(s.menuByName(RootMenuName))
	s.log().Info("launcher session start")

	for {
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				return nil
			}
			s.Dispatch(k)
			if len(s.stack) == 0 {
				s.log().Info("launcher session end", "reason", "stack empty")
				return nil
			}
		}
	}
}

// Root and post-login menu names in the launch document.
const (
	RootMenuName     = "main"
	LoggedInMenuName = "loggedin"
)

func (s *Session) log() pslog.Logger {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	log := logx.Ctx(ctx)
	if s.loggedIn {
		log = log.With("user", s.user.Username)
	}
	return log
}

// Context returns the session context for store and handoff calls.
func (s *Session) Context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// Push appends frame and renders it as the new top.
func (s *Session) Push(frame Frame) {
	s.stack = append(s.stack, frame)
	s.render()
}

// Pop removes the top frame. With redraw, the revealed frame is drawn.
func (s *Session) Pop(redraw bool) {
	if len(s.stack) == 0 {
		return
	}
	s.stack = s.stack[:len(s.stack)-1]
	if redraw && len(s.stack) > 0 {
		s.render()
	}
}

// Depth reports the current stack depth.
func (s *Session) Depth() int { return len(s.stack) }

// Top returns the current top frame, or nil when the stack is empty.
func (s *Session) Top() Frame {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// Dispatch forwards one key to the top frame and applies its effect.
func (s *Session) Dispatch(k Key) {
	top := s.Top()
	if top == nil {
		return
	}
	effect := top.OnKey(s, k)
	s.apply(effect)
}

func (s *Session) apply(effect Effect) {
	switch effect.Kind {
	case EffectNone:
		s.render()
	case EffectPush:
		s.Push(effect.Frame)
	case EffectPop:
		s.Pop(!effect.Quiet)
	case EffectPopPush:
		s.Pop(false)
		s.Push(effect.Frame)
	}
}

// resetStack drops every frame without redrawing. Used when login
// replaces the pre-auth menu tree.
func (s *Session) resetStack() {
	s.stack = s.stack[:0]
}

// Status sets the bottom status line, shown on the next render.
func (s *Session) Status(message string) {
	s.status = message
}

// User returns the authenticated user and whether one is bound.
func (s *Session) User() (schema.User, bool) {
	return s.user, s.loggedIn
}

func (s *Session) render() {
	if len(s.stack) == 0 {
		return
	}
	lines := []string{"gamelaunch", s.loginLine(), ""}
	lines = append(lines, s.Top().Render(s)...)
	if s.status != "" {
		lines = append(lines, "", s.status)
	}
	_ = s.screen.Render(lines)
}

func (s *Session) loginLine() string {
	if s.loggedIn {
		return "Logged in as: " + s.user.Username
	}
	return "Not logged in"
}

// Redraw repaints the current top frame.
func (s *Session) Redraw() {
	s.render()
}

// withTerminalSuspended leaves the alternate screen around fn and always
// restores and repaints afterwards, no matter how fn returns.
func (s *Session) withTerminalSuspended(fn func() error) error {
	s.screen.Suspend()
	defer func() {
		s.screen.Resume()
		s.render()
	}()
	return fn()
}

// RenderTemplate expands text with the session template context: the
// logged-in user, the configured contact, and any extra bindings such as
// the selected game.
func (s *Session) RenderTemplate(text string, extra map[string]any) (string, error) {
	data := map[string]any{
		"user":    s.user.Username,
		"contact": s.cfg.Contact,
	}
	for k, v := range extra {
		data[k] = v
	}
	tmpl, err := template.New("line").Parse(text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderTemplates expands a template list element-wise.
func (s *Session) RenderTemplates(texts []string, extra map[string]any) ([]string, error) {
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		rendered, err := s.RenderTemplate(text, extra)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return out, nil
}

func (s *Session) menuByName(name string) *MenuFrame {
	def := s.cfg.Menus[name]
	return NewMenuFrame(s, def, nil)
}

// Games returns the configured games.
func (s *Session) Games() []schema.GameDefinition {
	return s.cfg.Games
}
