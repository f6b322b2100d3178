package netplay

import (
	"context"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/starstrike/internal/highscore"
	"github.com/tomz197/starstrike/internal/loop"
)

// Handler upgrades HTTP requests to websocket game sessions.
type Handler struct {
	upgrader websocket.Upgrader
	hub      *loop.Hub
	store    highscore.Store
	logger   *log.Logger
}

// NewHandler creates a handler. Sessions register with hub so the server
// can shut them down; store may be nil to disable score submission.
func NewHandler(hub *loop.Hub, store highscore.Store, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // The web client may be served from another host
			},
		},
		hub:    hub,
		store:  store,
		logger: logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}

	// The request context ends with the handler; sessions live until the
	// peer leaves or the hub shuts down.
	ctx, id, leave := h.hub.Join(context.Background(), r.RemoteAddr)
	s := newSession(id, conn, h.store, h.logger)
	h.logger.Info("websocket session opened", "session", id, "remote", r.RemoteAddr, "active", h.hub.Count())

	go func() {
		defer leave()
		s.Run(ctx)
		h.logger.Info("websocket session closed", "session", id)
	}()
}
