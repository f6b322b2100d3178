// Package match runs one game: it owns every subsystem, advances them in a
// fixed order each tick and exposes read-only snapshots and drained events.
package match

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starstrike/internal/event"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/object"
)

// Options configures a new match. Zero values select defaults.
type Options struct {
	Difficulty Difficulty
	Rand       *rand.Rand       // Defaults to a time-seeded source
	Stats      object.StatTable // Defaults to the embedded table
	Arena      object.Arena     // Defaults to the standard arena
	Logger     *log.Logger      // Defaults to a discarding logger
}

// TickResult is everything one tick produced.
type TickResult struct {
	Events []event.Event
	State  State
}

// Match is a single-player game. It is not safe for concurrent use; each
// front end drives its own match from one goroutine.
type Match struct {
	state  State
	arena  object.Arena
	rand   *rand.Rand
	logger *log.Logger

	player    *object.Player
	director  *Director
	powerups  *Scheduler
	particles *object.Emitter
	resolver  *Resolver
	events    event.Queue
}

// New creates a match ready to tick.
func New(opts Options) *Match {
	if opts.Difficulty == "" {
		opts.Difficulty = Normal
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Stats == nil {
		opts.Stats = object.DefaultStats()
	}
	if opts.Arena == (object.Arena{}) {
		opts.Arena = object.DefaultArena()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := &Match{
		state:     newState(opts.Difficulty),
		arena:     opts.Arena,
		rand:      opts.Rand,
		logger:    opts.Logger,
		player:    object.NewPlayer(opts.Arena),
		director:  NewDirector(opts.Stats, opts.Rand),
		powerups:  NewScheduler(opts.Rand),
		particles: object.NewEmitter(opts.Rand),
		resolver:  NewResolver(opts.Arena),
	}
	return m
}

// Tick advances the match by delta using the given control snapshot.
// Deltas above MaxTickDelta are clamped. Paused and finished matches
// do not advance.
func (m *Match) Tick(delta time.Duration, c object.Control) TickResult {
	if m.state.Status != Playing {
		return TickResult{State: m.state}
	}
	delta = min(max(delta, 0), config.MaxTickDelta)

	m.state.Clock += delta
	m.state.Frame++
	m.events.SetFrame(m.state.Frame)

	ctx := object.UpdateContext{
		Delta:   delta,
		Now:     m.state.Clock,
		Control: c,
		Arena:   m.arena,
		Events:  &m.events,
		Rand:    m.rand,
	}

	m.player.Update(ctx)

	ctx.Control = object.Control{}
	ctx.Target = m.player.Bounds()
	m.director.Update(ctx, &m.state)
	m.powerups.Update(ctx, m.player)
	m.particles.Update(ctx)

	m.resolver.Resolve(ctx, m.world(), &m.state)

	m.director.Compact(m.arena)
	m.player.Shots.Compact(m.arena)

	events := m.events.Drain()
	m.logEvents(events)
	return TickResult{Events: events, State: m.state}
}

func (m *Match) world() World {
	return World{
		Player:    m.player,
		Director:  m.director,
		PowerUps:  m.powerups,
		Particles: m.particles,
	}
}

func (m *Match) logEvents(events []event.Event) {
	for _, e := range events {
		switch e.Type {
		case event.WaveStart:
			m.logger.Debug("wave started", "wave", e.Amount, "quota", m.director.Quota(), "interval", m.director.Interval())
		case event.BossSpawned:
			m.logger.Info("boss spawned", "wave", e.Amount)
		case event.LevelUp:
			m.logger.Info("level up", "level", e.Amount, "score", m.state.Score)
		case event.GameOver:
			m.logger.Info("match over",
				"score", m.state.Score,
				"level", m.state.Level,
				"wave", m.state.Wave,
				"difficulty", m.state.Difficulty,
				"elapsed", m.state.Clock.Round(time.Second))
		}
	}
}

// Pause halts a running match.
func (m *Match) Pause() {
	if m.state.Status == Playing {
		m.state.Status = Paused
		m.logger.Debug("match paused", "frame", m.state.Frame)
	}
}

// Resume continues a paused match. Match time does not advance while paused,
// so no timed effect loses time.
func (m *Match) Resume() {
	if m.state.Status == Paused {
		m.state.Status = Playing
		m.logger.Debug("match resumed", "frame", m.state.Frame)
	}
}

// Restart resets every subsystem and starts a fresh match at the same difficulty.
func (m *Match) Restart() {
	m.state = newState(m.state.Difficulty)
	m.player.Reset()
	m.director.Reset(0)
	m.powerups.Reset(0)
	m.particles.Reset()
	m.events.Reset()
	m.logger.Debug("match restarted", "difficulty", m.state.Difficulty)
}

// SetDifficulty changes the difficulty and restarts the match.
func (m *Match) SetDifficulty(d Difficulty) {
	m.state.Difficulty = d
	m.Restart()
}

// State returns a copy of the scoreboard.
func (m *Match) State() State {
	return m.state
}

// Status returns the lifecycle state.
func (m *Match) Status() Status {
	return m.state.Status
}

// Result returns the score, level and difficulty for persistence.
func (m *Match) Result() Result {
	return Result{
		Score:      m.state.Score,
		Level:      m.state.Level,
		Difficulty: m.state.Difficulty,
	}
}
