//go:build !windows

// Package server lets people train over SSH: every session gets its own
// trainer process running in a pseudo terminal.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/creack/pty"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gliderlabs/ssh"
	gossh "golang.org/x/crypto/ssh"

	"github.com/qnkhuat/chesspuzzle/pkg/config"
)

const DefaultIdleTimeout = 5 * time.Minute

// Server is the SSH front door.
type Server struct {
	ssh    *ssh.Server
	binary string
	env    []string
	log    *slog.Logger

	mu       sync.Mutex
	sessions map[string]string // handle -> remote address
}

// New configures a server from cfg. The host key is read from, or
// generated into, cfg.HostKeyPath; an empty path uses a throwaway key.
func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.PlayBinary == "" {
		return nil, errors.New("server: no trainer binary configured")
	}
	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	s := &Server{
		binary:   cfg.PlayBinary,
		env:      trainerEnv(cfg),
		log:      log,
		sessions: make(map[string]string),
	}
	s.ssh = &ssh.Server{
		Addr:        cfg.SSHAddr,
		IdleTimeout: idle,
		Handler:     s.handle,
		PtyCallback: func(ctx ssh.Context, pty ssh.Pty) bool {
			return true
		},
		PublicKeyHandler: func(ctx ssh.Context, key ssh.PublicKey) bool {
			return true
		},
		PasswordHandler: func(ctx ssh.Context, password string) bool {
			return true
		},
		KeyboardInteractiveHandler: func(ctx ssh.Context, challenger gossh.KeyboardInteractiveChallenge) bool {
			return true
		},
	}

	signer, err := HostSigner(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}
	s.ssh.AddHostKey(signer)
	return s, nil
}

// trainerEnv is the environment every trainer process starts with. The
// trainer's log goes to the server's log file unless set otherwise.
func trainerEnv(cfg *config.Config) []string {
	env := os.Environ()
	env = append(env,
		fmt.Sprintf("CHESSPUZZLE_LOG=%s", cfg.LogPath),
		fmt.Sprintf("CHESSPUZZLE_LOG_LEVEL=%s", cfg.LogLevel),
		fmt.Sprintf("CHESSPUZZLE_THEME=%s", cfg.Theme),
	)
	if cfg.CatalogPath != "" {
		env = append(env, fmt.Sprintf("CHESSPUZZLE_CATALOG=%s", cfg.CatalogPath))
	}
	if cfg.ThemeFile != "" {
		env = append(env, fmt.Sprintf("CHESSPUZZLE_THEME_FILE=%s", cfg.ThemeFile))
	}
	return env
}

// ListenAndServe accepts sessions until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.ssh.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.ssh.Addr, err)
	}
	return s.Serve(ctx, l)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.log.Info("ssh server listening", "addr", l.Addr().String())
	errc := make(chan error, 1)
	go func() {
		errc <- s.ssh.Serve(l)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("ssh server shutting down", "sessions", len(s.Sessions()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.ssh.Shutdown(shutdownCtx)
	l.Close()
	if serr := <-errc; serr != nil && !errors.Is(serr, ssh.ErrServerClosed) {
		return serr
	}
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// Sessions lists the handles of the connected players.
func (s *Server) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	handles := make([]string, 0, len(s.sessions))
	for h := range s.sessions {
		handles = append(handles, h)
	}
	sort.Strings(handles)
	return handles
}

// register hands out a petname not already in use.
func (s *Server) register(remote string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	handle := petname.Generate(2, "-")
	for i := 0; s.sessions[handle] != ""; i++ {
		handle = fmt.Sprintf("%s-%d", petname.Generate(2, "-"), i)
	}
	s.sessions[handle] = remote
	return handle
}

func (s *Server) unregister(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, handle)
}

func (s *Server) handle(sess ssh.Session) {
	ptyReq, winCh, isPty := sess.Pty()
	if !isPty {
		io.WriteString(sess, "non-interactive terminals are not supported\n")
		sess.Exit(1)
		return
	}

	handle := s.register(sess.RemoteAddr().String())
	defer s.unregister(handle)
	log := s.log.With("handle", handle, "user", sess.User(), "remote", sess.RemoteAddr().String())
	log.Info("session started", "term", ptyReq.Term)

	cmdCtx, cancelCmd := context.WithCancel(sess.Context())
	defer cancelCmd()

	cmd := exec.CommandContext(cmdCtx, s.binary, "play")
	cmd.Env = append(append([]string(nil), s.env...), fmt.Sprintf("TERM=%s", ptyReq.Term))

	f, err := pty.StartWithSize(cmd, winsize(ptyReq.Window))
	if err != nil {
		log.Error("starting trainer", "binary", s.binary, "err", err)
		io.WriteString(sess, fmt.Sprintf("failed to initialize pseudo-terminal: %s\n", err))
		sess.Exit(1)
		return
	}
	defer f.Close()

	go func() {
		for win := range winCh {
			if err := pty.Setsize(f, winsize(win)); err != nil {
				log.Warn("resizing pty", "err", err)
			}
		}
	}()

	go func() {
		io.Copy(f, sess)
	}()
	io.Copy(sess, f)

	cancelCmd()
	if err := cmd.Wait(); err != nil && cmdCtx.Err() == nil {
		log.Warn("trainer exited", "err", err)
	}
	log.Info("session ended")
}

func winsize(w ssh.Window) *pty.Winsize {
	return &pty.Winsize{Rows: uint16(w.Height), Cols: uint16(w.Width)}
}
