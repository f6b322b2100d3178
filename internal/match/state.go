package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/starstrike/internal/loop/config"
)

// Difficulty scales enemy spawn pacing.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
	Insane Difficulty = "insane"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{Easy, Normal, Hard, Insane}

// ParseDifficulty parses a difficulty name, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Difficulties {
		if d == known {
			return d, nil
		}
	}
	return Normal, fmt.Errorf("unknown difficulty %q", s)
}

// SpawnMultiplier scales the enemy spawn interval. Easier means slower spawns.
func (d Difficulty) SpawnMultiplier() float64 {
	switch d {
	case Easy:
		return 1.5
	case Hard:
		return 0.7
	case Insane:
		return 0.5
	}
	return 1
}

// Status is the match lifecycle state.
type Status int

const (
	Playing Status = iota
	Paused
	Over
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Over:
		return "over"
	}
	return "unknown"
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is the match-wide scoreboard passed explicitly to the subsystems.
type State struct {
	Score      int           `json:"score"`
	Lives      int           `json:"lives"`
	Level      int           `json:"level"`
	Wave       int           `json:"wave"`
	Difficulty Difficulty    `json:"difficulty"`
	Status     Status        `json:"status"`
	Frame      int64         `json:"frame"`
	Clock      time.Duration `json:"clock"` // Match time, advanced only by ticks
}

func newState(d Difficulty) State {
	return State{
		Lives:      config.InitialLives,
		Level:      1,
		Wave:       1,
		Difficulty: d,
		Status:     Playing,
	}
}

// AddScore adds points and advances at most one level. It reports whether
// the level changed.
func (s *State) AddScore(points int) bool {
	s.Score += points
	if s.Score >= s.Level*config.LevelScoreStep {
		s.Level++
		return true
	}
	return false
}

// Result is what a finished match produces for persistence.
type Result struct {
	Score      int        `json:"score"`
	Level      int        `json:"level"`
	Difficulty Difficulty `json:"difficulty"`
}
