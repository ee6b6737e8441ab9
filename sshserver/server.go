// Package sshserver serves the launcher over SSH. Connections are
// anonymous at the transport: everyone reaches the menu, accounts live
// behind the in-menu login.
package sshserver

import (
	"context"
	"io"
	"net"

	gliderssh "github.com/gliderlabs/ssh"

	"pkt.systems/gamelaunch/core"
	"pkt.systems/gamelaunch/internal/handoff"
	"pkt.systems/gamelaunch/internal/logx"
	"pkt.systems/gamelaunch/internal/store"
	"pkt.systems/gamelaunch/schema"
	"pkt.systems/pslog"
)

// Server exposes the launcher over SSH.
type Server struct {
	Addr        string
	HostKeyPath string
	// Listener overrides Addr when set, used by tests.
	Listener net.Listener

	Launch schema.LaunchConfig
	Store  store.Store

	GameBinary   string
	RecordBinary string
	Shell        string

	logger pslog.Logger
}

// ListenAndServe starts the SSH server and shuts down on context
// cancellation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.logger == nil {
		s.logger = pslog.Ctx(ctx)
	}

	signer, err := EnsureHostKey(s.HostKeyPath)
	if err != nil {
		return err
	}

	server := &gliderssh.Server{
		Addr:    s.Addr,
		Handler: s.handleSession,
	}
	server.AddHostKey(signer)

	errCh := make(chan error, 1)
	go func() {
		if s.Listener != nil {
			errCh <- server.Serve(s.Listener)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	s.logger.Info("ssh server listening", "addr", s.Addr)

	select {
	case <-ctx.Done():
		_ = server.Close()
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleSession(sess gliderssh.Session) {
	log := s.logger
	if log == nil {
		log = pslog.Ctx(sess.Context())
	}
	remote := sess.RemoteAddr().String()
	log = log.With("remote", remote)
	if id := sess.Context().SessionID(); id != "" {
		log = log.With("ssh_session", id)
	}

	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected", "reason", "pty required")
		_, _ = io.WriteString(sess, "pty required\n")
		_ = sess.Exit(1)
		return
	}
	log.Info("ssh session opened", "term", pty.Term)

	// Frames are full redraws, resizes only need to be drained.
	go func() {
		for range winCh {
		}
	}()

	ctx := logx.ContextWithUserLogger(sess.Context(), log, "")

	keys := make(chan core.Key, 16)
	go ReadKeys(sess, keys)

	runner := &handoff.ExecRunner{
		RecordBinary: s.RecordBinary,
		Recorder: schema.RecorderAddr{
			Host: s.Launch.Recorder.Host,
			Port: s.Launch.Recorder.Port,
		},
		Shell:  s.Shell,
		Stdin:  sess,
		Stdout: sess,
	}
	launcher := core.NewSession(core.Config{
		Launch:     s.Launch,
		Store:      s.Store,
		Runner:     runner,
		Screen:     newScreen(sess),
		GameBinary: s.GameBinary,
		RemoteAddr: remote,
	})
	_ = launcher.Run(ctx, keys)

	// The launcher stopped receiving; drain so the reader goroutine can
	// never block on a full buffer and leak.
	go func() {
		for range keys {
		}
	}()

	log.Info("ssh session closed")
	_ = sess.Exit(0)
}
