// Package handoff is the external process boundary: it spawns the
// recording sidecar, the editor, and shell hooks, waits for them, and
// returns their errors. No fork/exec or signal juggling happens anywhere
// else in the program.
package handoff

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"pkt.systems/gamelaunch/schema"
)

// RunSpec describes one recorded game launch.
type RunSpec struct {
	// Binary runs the containerized game (normally the docker CLI).
	Binary string
	// Args is the argument vector passed to Binary.
	Args []string
	// User is the acting username, forwarded to the recording sink.
	User string
}

// Runner spawns external programs attached to the session terminal and
// blocks until they exit.
type Runner interface {
	// Run launches the game under the recording sidecar.
	Run(ctx context.Context, spec RunSpec) error
	// Watch replays the named user's session until the watcher exits or
	// the watched user stops playing.
	Watch(ctx context.Context, user string) error
	// Exec runs a program directly on the session terminal (the editor).
	Exec(ctx context.Context, binary string, args []string) error
	// Command runs a templated hook through the shell, output discarded.
	Command(ctx context.Context, command string) error
}

// ExecRunner implements Runner with spawn-and-wait child processes.
type ExecRunner struct {
	RecordBinary string
	Recorder     schema.RecorderAddr
	Shell        string

	// Session terminal streams.
	Stdin  io.Reader
	Stdout io.Writer
}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, spec RunSpec) error {
	args := RecordSendArgs(r.Recorder, spec)
	cmd := exec.CommandContext(ctx, r.RecordBinary, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stdout
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", spec.Binary, err)
	}
	return nil
}

func (r *ExecRunner) Watch(ctx context.Context, user string) error {
	args := RecordWatchArgs(r.Recorder, user)
	cmd := exec.CommandContext(ctx, r.RecordBinary, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stdout
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("watch %s: %w", user, err)
	}
	return nil
}

func (r *ExecRunner) Exec(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stdout
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("exec %s: %w", binary, err)
	}
	return nil
}

func (r *ExecRunner) Command(ctx context.Context, command string) error {
	shell := r.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("command %q: %w: %s", command, err, out)
	}
	return nil
}

// RecordSendArgs builds the sidecar argv that runs and records a game.
func RecordSendArgs(recorder schema.RecorderAddr, spec RunSpec) []string {
	args := []string{
		"-host", recorder.Host,
		"-port", recorder.Port,
		"-user", spec.User,
		"-send",
		"--",
		spec.Binary,
	}
	return append(args, spec.Args...)
}

// RecordWatchArgs builds the sidecar argv that watches a user's session.
func RecordWatchArgs(recorder schema.RecorderAddr, user string) []string {
	return []string{
		"-host", recorder.Host,
		"-port", recorder.Port,
		"-user", user,
		"-watch",
	}
}
