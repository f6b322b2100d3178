package netplay

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starstrike/internal/highscore"
	"github.com/tomz197/starstrike/internal/loop"
	"github.com/tomz197/starstrike/internal/match"
	"github.com/tomz197/starstrike/internal/object"
)

// wireState is the part of a state message the tests inspect.
type wireState struct {
	Snapshot struct {
		State struct {
			Frame      int64  `json:"frame"`
			Status     string `json:"status"`
			Difficulty string `json:"difficulty"`
		} `json:"state"`
	} `json:"snapshot"`
}

// drainMessages reads all pending messages from a session's send channel.
func drainMessages(s *Session) []Message {
	var msgs []Message
	for {
		select {
		case data := <-s.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err == nil {
				msgs = append(msgs, msg)
			}
		default:
			return msgs
		}
	}
}

// findMessageByType finds the first message of a given type.
func findMessageByType(msgs []Message, msgType string) *Message {
	for _, m := range msgs {
		if m.Type == msgType {
			return &m
		}
	}
	return nil
}

func request(t *testing.T, msgType string, payload any) Message {
	t.Helper()
	if payload == nil {
		return Message{Type: msgType}
	}
	msg, err := NewMessage(msgType, payload)
	require.NoError(t, err)
	return msg
}

func decodeState(t *testing.T, msg *Message) wireState {
	t.Helper()
	require.NotNil(t, msg)
	var st wireState
	require.NoError(t, json.Unmarshal(msg.Data, &st))
	return st
}

func errorText(t *testing.T, msgs []Message) string {
	t.Helper()
	msg := findMessageByType(msgs, TypeError)
	require.NotNil(t, msg, "expected an error message")
	var e ErrorMessage
	require.NoError(t, json.Unmarshal(msg.Data, &e))
	return e.Message
}

func TestSession_Start(t *testing.T) {
	s := newSession(uuid.New(), nil, nil, nil)
	ctx := context.Background()

	s.tick(time.Now())
	assert.Empty(t, drainMessages(s), "nothing is sent before start")

	s.handle(ctx, request(t, TypeStart, StartRequest{Difficulty: "Hard"}))
	assert.True(t, s.started)
	assert.Equal(t, match.Hard, s.match.State().Difficulty)

	s.tick(time.Now())
	st := decodeState(t, findMessageByType(drainMessages(s), TypeState))
	assert.Equal(t, int64(1), st.Snapshot.State.Frame)
	assert.Equal(t, "hard", st.Snapshot.State.Difficulty)
	assert.Equal(t, "playing", st.Snapshot.State.Status)
}

func TestSession_StartKeepsDifficulty(t *testing.T) {
	s := newSession(uuid.New(), nil, nil, nil)
	ctx := context.Background()
	s.handle(ctx, request(t, TypeStart, StartRequest{Difficulty: "insane"}))
	s.handle(ctx, request(t, TypeStart, nil))
	assert.Equal(t, match.Insane, s.match.State().Difficulty)
}

func TestSession_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"unknown difficulty", Message{Type: TypeStart, Data: json.RawMessage(`{"difficulty":"nightmare"}`)}, "unknown difficulty"},
		{"bad control", Message{Type: TypeControl, Data: json.RawMessage(`"left"`)}, "invalid payload"},
		{"unknown type", Message{Type: "teleport"}, "unknown message type"},
		{"submit without match", Message{Type: TypeSubmit, Data: json.RawMessage(`{"name":"ace"}`)}, "high scores are disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(uuid.New(), nil, nil, nil)
			s.handle(context.Background(), tt.msg)
			assert.Contains(t, errorText(t, drainMessages(s)), tt.want)
			assert.False(t, s.started)
		})
	}
}

func TestSession_Control(t *testing.T) {
	s := newSession(uuid.New(), nil, nil, nil)
	s.handle(context.Background(), request(t, TypeControl, object.Control{Left: true, Fire: true}))
	assert.Equal(t, object.Control{Left: true, Fire: true}, s.control)

	s.handle(context.Background(), request(t, TypeStart, nil))
	assert.Equal(t, object.Control{}, s.control, "start clears held controls")
}

func TestSession_PauseResume(t *testing.T) {
	s := newSession(uuid.New(), nil, nil, nil)
	ctx := context.Background()
	now := time.Now()
	s.handle(ctx, request(t, TypeStart, nil))
	s.tick(now)
	drainMessages(s)

	s.handle(ctx, request(t, TypePause, nil))
	st := decodeState(t, findMessageByType(drainMessages(s), TypeState))
	assert.Equal(t, "paused", st.Snapshot.State.Status)

	s.tick(now.Add(time.Second))
	assert.Empty(t, drainMessages(s), "paused sessions do not publish ticks")

	s.handle(ctx, request(t, TypeResume, nil))
	s.tick(now.Add(time.Minute))
	st = decodeState(t, findMessageByType(drainMessages(s), TypeState))
	assert.Equal(t, int64(2), st.Snapshot.State.Frame)
	assert.Equal(t, "playing", st.Snapshot.State.Status)
}

func TestSession_Submit(t *testing.T) {
	store := highscore.NewMemoryStore()
	s := newSession(uuid.New(), nil, store, nil)
	ctx := context.Background()

	s.handle(ctx, request(t, TypeSubmit, SubmitRequest{Name: "ace"}))
	assert.Contains(t, errorText(t, drainMessages(s)), "no finished match")

	s.result = &match.Result{Score: 1200, Level: 2, Difficulty: match.Hard}
	s.handle(ctx, request(t, TypeSubmit, SubmitRequest{Name: "ace"}))

	msg := findMessageByType(drainMessages(s), TypeSubmitted)
	require.NotNil(t, msg)
	var rec highscore.Record
	require.NoError(t, json.Unmarshal(msg.Data, &rec))
	assert.Equal(t, "ACE", rec.Name)
	assert.Equal(t, 1200, rec.Score)

	top, err := store.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, rec.ID, top[0].ID)

	s.handle(ctx, request(t, TypeSubmit, SubmitRequest{Name: "ace"}))
	assert.Contains(t, errorText(t, drainMessages(s)), "already submitted")

	s.handle(ctx, request(t, TypeStart, nil))
	assert.Nil(t, s.result, "a new match clears the result")
}

func TestSession_DropsWhenBufferFull(t *testing.T) {
	s := newSession(uuid.New(), nil, nil, nil)
	for range sendBuffer + 10 {
		s.sendError("x")
	}
	assert.Len(t, drainMessages(s), sendBuffer)
}

func readUntil(t *testing.T, conn *websocket.Conn, msgType string) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == msgType {
			return msg
		}
	}
}

func TestHandler_EndToEnd(t *testing.T) {
	hub := loop.NewHub()
	srv := httptest.NewServer(NewHandler(hub, highscore.NewMemoryStore(), nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	welcome := readUntil(t, conn, TypeWelcome)
	var w WelcomeMessage
	require.NoError(t, json.Unmarshal(welcome.Data, &w))
	assert.Len(t, w.Difficulties, len(match.Difficulties))
	assert.Equal(t, 1, hub.Count())

	require.NoError(t, conn.WriteJSON(request(t, TypeStart, StartRequest{Difficulty: "easy"})))
	st := decodeState(t, ptr(readUntil(t, conn, TypeState)))
	assert.Equal(t, "easy", st.Snapshot.State.Difficulty)

	done := make(chan bool, 1)
	go func() { done <- hub.Shutdown(5 * time.Second) }()

	readUntil(t, conn, TypeShutdown)
	assert.True(t, <-done)
	assert.Zero(t, hub.Count())
}

func ptr[T any](v T) *T { return &v }
