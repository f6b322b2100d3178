package netplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomz197/starstrike/internal/event"
	"github.com/tomz197/starstrike/internal/highscore"
	"github.com/tomz197/starstrike/internal/loop"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/match"
	"github.com/tomz197/starstrike/internal/object"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Session is one websocket connection and the match it plays.
type Session struct {
	ID       uuid.UUID
	conn     *websocket.Conn
	send     chan []byte
	incoming chan []byte
	done     chan struct{} // Closed when the read pump exits
	quit     chan struct{} // Closed when Run returns

	match     *match.Match
	clock     loop.FrameClock
	control   object.Control
	started   bool
	result    *match.Result // Set once the match is over
	submitted bool

	store  highscore.Store
	logger *log.Logger
}

func newSession(id uuid.UUID, conn *websocket.Conn, store highscore.Store, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("session", id.String()[:8])
	return &Session{
		ID:       id,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		incoming: make(chan []byte, 16),
		done:     make(chan struct{}),
		quit:     make(chan struct{}),
		match:    match.New(match.Options{Logger: logger}),
		store:    store,
		logger:   logger,
	}
}

// Run pumps the connection and ticks the match until the peer leaves or
// ctx is cancelled. On cancellation the client is told about the shutdown.
func (s *Session) Run(ctx context.Context) {
	go s.writePump()
	go s.readPump()

	s.sendMessage(TypeWelcome, WelcomeMessage{
		SessionID:    s.ID.String(),
		Difficulties: match.Difficulties,
	})

	ticker := time.NewTicker(config.ServerTickTime)
	defer func() {
		ticker.Stop()
		close(s.quit)
		close(s.send)
	}()

	for {
		select {
		case <-ctx.Done():
			s.sendMessage(TypeShutdown, nil)
			return
		case <-s.done:
			return
		case data := <-s.incoming:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				s.sendError("malformed message")
				continue
			}
			s.handle(ctx, msg)
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

// handle applies one client request.
func (s *Session) handle(ctx context.Context, msg Message) {
	switch msg.Type {
	case TypeStart:
		var req StartRequest
		if err := decode(msg.Data, &req); err != nil {
			s.sendError(err.Error())
			return
		}
		d := s.match.State().Difficulty
		if req.Difficulty != "" {
			var err error
			if d, err = match.ParseDifficulty(req.Difficulty); err != nil {
				s.sendError(err.Error())
				return
			}
		}
		s.start(d)

	case TypeControl:
		var c object.Control
		if err := decode(msg.Data, &c); err != nil {
			s.sendError(err.Error())
			return
		}
		s.control = c

	case TypePause:
		s.match.Pause()
		s.clock.Pause()
		s.sendState(nil)

	case TypeResume:
		s.match.Resume()
		s.clock.Resume()

	case TypeSubmit:
		var req SubmitRequest
		if err := decode(msg.Data, &req); err != nil {
			s.sendError(err.Error())
			return
		}
		s.submit(ctx, req.Name)

	default:
		s.sendError(fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// decode unmarshals an optional payload.
func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func (s *Session) start(d match.Difficulty) {
	s.match.SetDifficulty(d)
	s.clock.Reset()
	s.control = object.Control{}
	s.started = true
	s.result = nil
	s.submitted = false
	s.logger.Info("match started", "difficulty", d)
}

// tick advances the match and publishes the frame.
func (s *Session) tick(now time.Time) {
	if !s.started || s.match.Status() != match.Playing {
		return
	}

	res := s.match.Tick(s.clock.Tick(now), s.control)
	s.sendState(res.Events)

	if res.State.Status == match.Over && s.result == nil {
		r := s.match.Result()
		s.result = &r
		s.sendMessage(TypeGameOver, r)
	}
}

func (s *Session) sendState(events []event.Event) {
	s.sendMessage(TypeState, StateMessage{
		Snapshot: s.match.Snapshot(),
		Events:   events,
	})
}

var (
	errNoResult         = errors.New("no finished match to submit")
	errAlreadySubmitted = errors.New("score already submitted")
	errNoStore          = errors.New("high scores are disabled")
)

// submit stores the finished match.
func (s *Session) submit(ctx context.Context, name string) {
	var err error
	switch {
	case s.store == nil:
		err = errNoStore
	case s.result == nil:
		err = errNoResult
	case s.submitted:
		err = errAlreadySubmitted
	}
	if err != nil {
		s.sendError(err.Error())
		return
	}

	rec := highscore.NewRecord(name, *s.result)
	ctx, cancel := context.WithTimeout(ctx, config.SubmitTimeout)
	defer cancel()
	if err := s.store.Submit(ctx, rec); err != nil {
		s.logger.Error("submitting high score", "err", err)
		if errors.Is(err, highscore.ErrInvalidRecord) {
			s.sendError(err.Error())
		} else {
			s.sendError("could not save score")
		}
		return
	}

	s.submitted = true
	s.logger.Info("high score submitted", "name", rec.Name, "score", rec.Score)
	s.sendMessage(TypeSubmitted, rec)
}

func (s *Session) sendError(msg string) {
	s.queue(NewErrorMessage(msg))
}

func (s *Session) sendMessage(msgType string, payload any) {
	var msg Message
	if payload == nil {
		msg = Message{Type: msgType}
	} else {
		var err error
		if msg, err = NewMessage(msgType, payload); err != nil {
			s.logger.Error("failed to marshal message", "type", msgType, "err", err)
			return
		}
	}
	s.queue(msg)
}

func (s *Session) queue(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to marshal message", "err", err)
		return
	}
	select {
	case s.send <- data:
	default:
		s.logger.Warn("send buffer full, dropping message", "type", msg.Type)
	}
}

// readPump pumps messages from the connection to the session loop.
func (s *Session) readPump() {
	defer func() {
		close(s.done)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("websocket read error", "err", err)
			}
			return
		}
		select {
		case s.incoming <- data:
		case <-s.quit:
			return
		}
	}
}

// writePump pumps queued messages to the connection and keeps it alive
// with pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}

			w, err := s.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
