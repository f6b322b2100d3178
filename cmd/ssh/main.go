package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/draw"
	"github.com/tomz197/starstrike/internal/highscore"
	"github.com/tomz197/starstrike/internal/loop"
	"github.com/tomz197/starstrike/internal/match"
)

// shutdownGrace bounds how long players get to see the shutdown notice.
const shutdownGrace = 15 * time.Second

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	logger := settings.NewLogger(os.Stderr, "ssh")

	difficulty, err := match.ParseDifficulty(settings.Difficulty)
	if err != nil {
		logger.Warn("using default difficulty", "err", err)
	}

	ctx := context.Background()
	store, err := highscore.Open(ctx, settings.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open high score store", "err", err)
	}
	defer store.Close()

	hub := loop.NewHub()
	app := &game{
		hub:        hub,
		store:      store,
		logger:     logger,
		difficulty: difficulty,
	}

	opts := []ssh.Option{
		wish.WithAddress(settings.SSHAddr()),
		wish.WithMiddleware(
			app.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if settings.SSHHostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(settings.SSHHostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", settings.SSHAddr(), "hostKey", settings.SSHHostKey)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "players", hub.Count())

	// Show every player the shutdown notice and wait for them to disconnect
	if !hub.Shutdown(shutdownGrace) {
		logger.Warn("sessions still open after grace period", "players", hub.Names())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

// game runs one terminal session per SSH connection.
type game struct {
	hub        *loop.Hub
	store      highscore.Store
	logger     *log.Logger
	difficulty match.Difficulty
}

// middleware handles SSH sessions and runs the game.
func (g *game) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		g.logger.Info("new game session", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		ctx, _, leave := g.hub.Join(sess.Context(), sess.User())
		defer leave()

		session := loop.NewSession(bufio.NewReader(sess), sess, loop.Options{
			TermSizeFunc: sizeTracker.getSize,
			Store:        g.store,
			Logger:       g.logger,
			Difficulty:   g.difficulty,
			Username:     sess.User(),
			Inactivity:   true,
		})
		if err := session.Run(ctx); err != nil {
			g.logger.Error("game error", "user", sess.User(), "err", err)
		}

		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
