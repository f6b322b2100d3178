package loop

import (
	"time"

	"github.com/tomz197/starstrike/internal/loop/config"
)

// nominalDelta is the delta reported for the first tick after a (re)start.
const nominalDelta = time.Second / config.ReferenceFPS

// FrameClock turns wall-clock frame times into simulation deltas.
// It reports zero while paused and resets its baseline on resume, so time
// spent paused never reaches the match.
type FrameClock struct {
	last    time.Time
	started bool
	paused  bool
}

// Tick returns the time elapsed since the previous Tick.
func (c *FrameClock) Tick(now time.Time) time.Duration {
	if c.paused {
		return 0
	}
	if !c.started {
		c.started = true
		c.last = now
		return nominalDelta
	}
	delta := now.Sub(c.last)
	c.last = now
	return max(delta, 0)
}

// Pause stops the clock.
func (c *FrameClock) Pause() {
	c.paused = true
}

// Resume restarts the clock with a fresh baseline.
func (c *FrameClock) Resume() {
	c.paused = false
	c.started = false
}

// Paused reports whether the clock is stopped.
func (c *FrameClock) Paused() bool {
	return c.paused
}

// Reset forgets the baseline and unpauses.
func (c *FrameClock) Reset() {
	*c = FrameClock{}
}
