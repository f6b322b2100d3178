package loop

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// hubPollInterval is how often Shutdown checks for remaining sessions.
const hubPollInterval = 50 * time.Millisecond

// Hub tracks live sessions so the server can tell them all to wind down
// and wait for them to disconnect.
type Hub struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]hubEntry
	closed   bool
}

type hubEntry struct {
	name   string
	cancel context.CancelFunc
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[uuid.UUID]hubEntry)}
}

// Join registers a session. The returned context is cancelled when the hub
// shuts down; leave must be called once the session has ended.
func (h *Hub) Join(parent context.Context, name string) (ctx context.Context, id uuid.UUID, leave func()) {
	ctx, cancel := context.WithCancel(parent)
	id = uuid.New()

	h.mu.Lock()
	if h.closed {
		cancel()
	} else {
		h.sessions[id] = hubEntry{name: name, cancel: cancel}
	}
	h.mu.Unlock()

	return ctx, id, func() {
		h.mu.Lock()
		delete(h.sessions, id)
		h.mu.Unlock()
		cancel()
	}
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Names returns the names of the live sessions.
func (h *Hub) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.sessions))
	for _, e := range h.sessions {
		names = append(names, e.name)
	}
	return names
}

// Shutdown cancels every session, refuses new ones and waits until all have
// left or the timeout passes. It reports whether every session left.
func (h *Hub) Shutdown(timeout time.Duration) bool {
	h.mu.Lock()
	h.closed = true
	for _, e := range h.sessions {
		e.cancel()
	}
	h.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(hubPollInterval)
	defer ticker.Stop()

	for {
		if h.Count() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}
