// Package event defines the triggers and notifications the simulation emits
// for audio, UI and the match layer, and the per-tick queue that carries them.
package event

// Type identifies an emitted event.
type Type int

const (
	// Triggers consumed by audio/UI collaborators.
	Shoot Type = iota
	Explosion
	PowerUp
	EnemyHit
	PlayerHit

	// UI notifications.
	WaveStart
	BossSpawned
	LevelUp
	GameOver

	// Match-layer notifications carrying an amount.
	HealthRestore
	BombUsed
)

var typeNames = [...]string{
	Shoot:         "shoot",
	Explosion:     "explosion",
	PowerUp:       "powerup",
	EnemyHit:      "enemyHit",
	PlayerHit:     "playerHit",
	WaveStart:     "waveStart",
	BossSpawned:   "bossSpawned",
	LevelUp:       "levelUp",
	GameOver:      "gameOver",
	HealthRestore: "healthRestore",
	BombUsed:      "bombUsed",
}

// String returns the wire name of the event type.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// MarshalText encodes the type by name for JSON consumers.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is a single emitted trigger or notification.
type Event struct {
	Type   Type  `json:"type"`
	Amount int   `json:"amount,omitempty"` // Magnitude (lives restored, enemies bombed, wave/level number)
	Frame  int64 `json:"frame"`
}

// Sink receives events during an update pass.
type Sink interface {
	Emit(t Type, amount int)
}

// Queue buffers events for one tick. It is drained once by the match owner.
// Not safe for concurrent use; the simulation is single-threaded.
type Queue struct {
	frame  int64
	events []Event
}

// Ensure Queue satisfies Sink.
var _ Sink = (*Queue)(nil)

// SetFrame stamps subsequently emitted events with the given frame number.
func (q *Queue) SetFrame(frame int64) {
	q.frame = frame
}

// Emit appends an event for the current frame.
func (q *Queue) Emit(t Type, amount int) {
	q.events = append(q.events, Event{Type: t, Amount: amount, Frame: q.frame})
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Drain returns pending events in emission order and empties the queue.
// The returned slice is owned by the caller.
func (q *Queue) Drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := make([]Event, len(q.events))
	copy(out, q.events)
	q.events = q.events[:0]
	return out
}

// Reset discards pending events.
func (q *Queue) Reset() {
	q.events = q.events[:0]
}

// Discard is a Sink that drops every event.
type Discard struct{}

// Emit implements Sink.
func (Discard) Emit(Type, int) {}
