// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"time"

	"github.com/tomz197/starstrike/internal/object"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
// Movement and fire keys are level-triggered with a short hold window; the
// menu keys (Pause, Enter, Backspace, Number) are edge-triggered and only
// set in the frame their byte arrived.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Fire    bool
	Boost   bool // Shifted movement keys
	Special bool

	Pause     bool
	Enter     bool
	Backspace bool
	Number    int // Last digit typed this frame, -1 if none
	Pressed   []byte
}

// Control converts the key state into the simulation's control snapshot.
func (in Input) Control() object.Control {
	return object.Control{
		Left:    in.Left,
		Right:   in.Right,
		Up:      in.Up,
		Down:    in.Down,
		Fire:    in.Fire,
		Boost:   in.Boost,
		Special: in.Special,
	}
}

// Any reports whether any byte arrived this frame.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	quit    time.Time
	left    time.Time
	right   time.Time
	up      time.Time
	down    time.Time
	fire    time.Time
	boost   time.Time
	special time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// Reset forgets all held keys, e.g. when switching screens.
func (s *Stream) Reset() {
	s.state = keyState{}
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	return s.read(time.Now())
}

func (s *Stream) read(now time.Time) Input {
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	return s.parse(buf, now)
}

// parse applies buf to the key state and builds the frame's Input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	in := Input{Number: -1, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}

		switch b {
		case '\x1b', 'p', 'P':
			in.Pause = true
		case '\n', '\r':
			in.Enter = true
		case '\b', '\x7f':
			in.Backspace = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			in.Number = int(b - '0')
		}
		s.applyByte(b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	in.Quit = held(s.state.quit)
	in.Left = held(s.state.left)
	in.Right = held(s.state.right)
	in.Up = held(s.state.up)
	in.Down = held(s.state.down)
	in.Fire = held(s.state.fire)
	in.Boost = held(s.state.boost)
	in.Special = held(s.state.special)
	return in
}

// applyByte updates the held-key timestamps for one byte.
func (s *Stream) applyByte(b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		s.state.quit = now
	case 'a', 'j':
		s.state.left = now
	case 'd', 'l':
		s.state.right = now
	case 'w', 'i':
		s.state.up = now
	case 's', 'k':
		s.state.down = now
	case 'A', 'J':
		s.state.left, s.state.boost = now, now
	case 'D', 'L':
		s.state.right, s.state.boost = now, now
	case 'W', 'I':
		s.state.up, s.state.boost = now, now
	case 'S', 'K':
		s.state.down, s.state.boost = now, now
	case ' ':
		s.state.fire = now
	case 'x', 'X', 'e', 'E':
		s.state.special = now
	}
}
