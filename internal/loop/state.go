package loop

import (
	"time"

	"github.com/tomz197/starstrike/internal/highscore"
	"github.com/tomz197/starstrike/internal/input"
	"github.com/tomz197/starstrike/internal/match"
)

// Screen is the session's current UI phase.
type Screen int

const (
	ScreenStart    Screen = iota // Title screen with difficulty selection
	ScreenPlaying                // Active gameplay
	ScreenPaused                 // Match paused
	ScreenGameOver               // Match over, name entry
	ScreenShutdown               // Server is shutting down
)

func (s Screen) String() string {
	switch s {
	case ScreenStart:
		return "start"
	case ScreenPlaying:
		return "playing"
	case ScreenPaused:
		return "paused"
	case ScreenGameOver:
		return "game over"
	case ScreenShutdown:
		return "shutdown"
	}
	return "unknown"
}

// banner is a transient centered message (wave start, boss, level up).
type banner struct {
	text    string
	expires time.Time
}

// sessionState holds everything one terminal session tracks outside the match.
type sessionState struct {
	Input      input.Input
	Screen     Screen
	prevScreen Screen
	Difficulty match.Difficulty
	Running    bool

	// Game-over name entry
	Name      []rune
	Submitted *highscore.Record
	SubmitErr error

	banner      banner
	highScores  []highscore.Record
	isInactive  bool
	wasInactive bool
	lastInput   time.Time
	shutdownAt  time.Time // Disconnect deadline once shutting down
}

func newSessionState(d match.Difficulty, now time.Time) *sessionState {
	return &sessionState{
		Screen:     ScreenStart,
		prevScreen: ScreenStart,
		Difficulty: d,
		Running:    true,
		lastInput:  now,
	}
}

// showBanner replaces the current banner.
func (s *sessionState) showBanner(text string, now time.Time, d time.Duration) {
	s.banner = banner{text: text, expires: now.Add(d)}
}

// bannerText returns the active banner, if any.
func (s *sessionState) bannerText(now time.Time) string {
	if s.banner.text == "" || !now.Before(s.banner.expires) {
		return ""
	}
	return s.banner.text
}
