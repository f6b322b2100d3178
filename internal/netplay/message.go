// Package netplay serves matches to browser clients over websockets. Each
// connection owns one match, ticked on the connection's own goroutine.
package netplay

import (
	"encoding/json"

	"github.com/tomz197/starstrike/internal/event"
	"github.com/tomz197/starstrike/internal/match"
)

// Message represents a websocket message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types - client to server
const (
	TypeStart   = "start"
	TypeControl = "control"
	TypePause   = "pause"
	TypeResume  = "resume"
	TypeSubmit  = "submit"
)

// Message types - server to client
const (
	TypeWelcome   = "welcome"
	TypeState     = "state"
	TypeGameOver  = "game_over"
	TypeSubmitted = "submitted"
	TypeShutdown  = "shutdown"
	TypeError     = "error"
)

// StartRequest starts or restarts the match. An empty difficulty keeps
// the current one.
type StartRequest struct {
	Difficulty string `json:"difficulty,omitempty"`
}

// SubmitRequest stores the finished match under a name.
type SubmitRequest struct {
	Name string `json:"name"`
}

// WelcomeMessage is sent once after the connection is accepted.
type WelcomeMessage struct {
	SessionID    string             `json:"sessionId"`
	Difficulties []match.Difficulty `json:"difficulties"`
}

// StateMessage is one tick of the match.
type StateMessage struct {
	Snapshot match.Snapshot `json:"snapshot"`
	Events   []event.Event  `json:"events,omitempty"`
}

// ErrorMessage is sent when a request cannot be served.
type ErrorMessage struct {
	Message string `json:"message"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg})
	return Message{Type: TypeError, Data: data}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}
