package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"pkt.systems/gamelaunch/internal/handoff"
	"pkt.systems/gamelaunch/schema"
)

// play claims the single play slot, launches the containerized game
// under the recording sidecar, and always releases the slot afterwards,
// whatever the child process did.
func (s *Session) play(index int) {
	user, ok := s.User()
	if !ok {
		s.Status("You are not logged in")
		return
	}
	game, ok := s.gameByIndex(index)
	if !ok {
		s.Status("Unknown game")
		return
	}
	ctx := s.Context()

	args, err := s.gameArgs(game)
	if err != nil {
		s.log().Warn("game template failed", "game", game.Name, "err", err)
		s.Status("Broken game configuration")
		return
	}

	if err := s.store.ClaimPlaying(ctx, user.ID, time.Now().UTC()); err != nil {
		if errors.Is(err, schema.ErrAlreadyPlaying) {
			s.Push(NewInfoFrame("You are already playing!"))
			return
		}
		s.log().Warn("play claim failed", "game", game.Name, "err", err)
		s.Status("Unable to start the game")
		return
	}
	defer func() {
		// A dropped connection cancels the session context and kills the
		// child, but the slot must still be released. Detach so the store
		// call outlives the cancellation.
		releaseCtx := context.WithoutCancel(ctx)
		if err := s.store.ReleasePlaying(releaseCtx, user.ID); err != nil && !errors.Is(err, schema.ErrNotPlaying) {
			s.log().Warn("play release failed", "err", err)
		}
	}()

	s.runPrelaunch(game)

	s.log().Info("game start", "game", game.Name)
	err = s.withTerminalSuspended(func() error {
		return s.runner.Run(ctx, handoff.RunSpec{
			Binary: s.gameBinary,
			Args:   args,
			User:   user.Username,
		})
	})
	if err != nil {
		s.log().Warn("game handoff failed", "game", game.Name, "err", err)
		s.Status("Game exited with an error")
		return
	}
	s.log().Info("game end", "game", game.Name)
}

// gameArgs expands the game's templated mounts and arguments into one
// docker run argument vector.
func (s *Session) gameArgs(game schema.GameDefinition) ([]string, error) {
	user, _ := s.User()
	extra := map[string]any{"game": game}
	args := []string{
		"run", "--rm", "-i",
		"--name", containerName(game.Name, user.Username),
	}
	for _, mount := range game.Volumes {
		source, err := s.RenderTemplate(mount.Source, extra)
		if err != nil {
			return nil, err
		}
		target, err := s.RenderTemplate(mount.Target, extra)
		if err != nil {
			return nil, err
		}
		args = append(args, "-v", source+":"+target)
	}
	args = append(args, game.Image)
	rendered, err := s.RenderTemplates(game.Arguments, extra)
	if err != nil {
		return nil, err
	}
	return append(args, rendered...), nil
}

// runPrelaunch runs the game's setup commands through the shell, best
// effort. A failed hook is logged and the launch continues.
func (s *Session) runPrelaunch(game schema.GameDefinition) {
	extra := map[string]any{"game": game}
	for _, tmpl := range game.Commands {
		command, err := s.RenderTemplate(tmpl, extra)
		if err != nil {
			s.log().Warn("prelaunch template failed", "game", game.Name, "err", err)
			continue
		}
		if err := s.runner.Command(s.Context(), command); err != nil {
			s.log().Warn("prelaunch command failed", "game", game.Name, "err", err)
		}
	}
}

// editOptions opens the configured editor image on the rendered path,
// attached to the session terminal.
func (s *Session) editOptions(path string) {
	user, ok := s.User()
	if !ok {
		s.Status("You are not logged in")
		return
	}
	if s.cfg.Editor.Image == "" {
		s.Status("No editor configured")
		return
	}
	rendered, err := s.RenderTemplate(path, nil)
	if err != nil {
		s.log().Warn("edit path template failed", "path", path, "err", err)
		s.Status("Broken menu action")
		return
	}
	mount := s.cfg.Editor.Mount
	if mount == "" {
		mount = "/workdir"
	}
	args := []string{
		"run", "--rm", "-i",
		"--name", containerName("edit", user.Username),
		"-v", rendered + ":" + mount,
		s.cfg.Editor.Image,
	}
	err = s.withTerminalSuspended(func() error {
		return s.runner.Exec(s.Context(), s.gameBinary, args)
	})
	if err != nil {
		s.log().Warn("editor handoff failed", "err", err)
		s.Status("Editor exited with an error")
	}
}

// containerName builds a docker-safe container name from the game and
// username.
func containerName(game, user string) string {
	return sanitizeName(game) + "-" + sanitizeName(user)
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "anon"
	}
	return b.String()
}
