package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/highscore"
	"github.com/tomz197/starstrike/internal/loop"
	"github.com/tomz197/starstrike/internal/netplay"
)

const shutdownGrace = 5 * time.Second

//go:embed index.html
var htmlPage string

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	logger := settings.NewLogger(os.Stderr, "web")

	ctx := context.Background()
	store, err := highscore.Open(ctx, settings.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open high score store", "err", err)
	}
	defer store.Close()

	hub := loop.NewHub()
	srv := &http.Server{
		Addr:              settings.WebAddr(),
		Handler:           newMux(settings, store, hub, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting web server", "addr", "http://"+settings.WebAddr(), "persistent", settings.DatabaseURL != "")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "players", hub.Count())

	// Hijacked websocket connections are not tracked by http.Server
	if !hub.Shutdown(shutdownGrace) {
		logger.Warn("sessions still open after grace period", "players", hub.Count())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

// newMux wires the landing page, health check, high-score API and
// websocket play.
func newMux(settings *config.Settings, store highscore.Store, hub *loop.Hub, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", settings.SSHDisplayHost)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	highscore.NewHandler(store, logger).Register(mux)
	mux.Handle("GET /ws", netplay.NewHandler(hub, store, logger))
	return mux
}
