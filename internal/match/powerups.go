package match

import (
	"math/rand"
	"time"

	"github.com/tomz197/starstrike/internal/event"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/object"
	"github.com/tomz197/starstrike/internal/physics"
)

// ActiveEffect is a timed power-up currently applied to the player.
type ActiveEffect struct {
	Kind    object.PowerUpKind
	Name    string
	Expires time.Duration // Match clock
}

// Instant holds collected instantaneous effects awaiting the resolver.
type Instant struct {
	Health int // Lives to restore
	Bombs  int // Bomb pickups
}

// Scheduler spawns power-ups, detects collection and owns timed-effect expiry.
type Scheduler struct {
	rand      *rand.Rand
	powerups  []*object.PowerUp
	active    []ActiveEffect
	instant   Instant
	lastSpawn time.Duration
}

// NewScheduler creates an empty scheduler.
func NewScheduler(r *rand.Rand) *Scheduler {
	return &Scheduler{rand: r}
}

// Reset removes every power-up and effect; the spawn timer restarts at now.
func (s *Scheduler) Reset(now time.Duration) {
	clear(s.powerups)
	s.powerups = s.powerups[:0]
	s.active = s.active[:0]
	s.instant = Instant{}
	s.lastSpawn = now
}

// PowerUps returns the falling power-ups. The slice must not be retained.
func (s *Scheduler) PowerUps() []*object.PowerUp {
	return s.powerups
}

// Active returns a copy of the active timed effects in collection order.
func (s *Scheduler) Active() []ActiveEffect {
	out := make([]ActiveEffect, len(s.active))
	copy(out, s.active)
	return out
}

// TakeInstant returns and clears pending instantaneous effects.
func (s *Scheduler) TakeInstant() Instant {
	in := s.instant
	s.instant = Instant{}
	return in
}

// Spawn drops a power-up of kind at x.
func (s *Scheduler) Spawn(kind object.PowerUpKind, x float64) *object.PowerUp {
	p := object.NewPowerUp(kind, x, config.PowerUpSpawnY)
	s.powerups = append(s.powerups, p)
	return p
}

// Update spawns on the fixed cadence, moves power-ups, applies collected
// effects and expires timed ones.
func (s *Scheduler) Update(ctx object.UpdateContext, player *object.Player) {
	if ctx.Now-s.lastSpawn > config.PowerUpInterval {
		kind := object.PowerUpKinds[s.rand.Intn(len(object.PowerUpKinds))]
		x := s.rand.Float64()*(ctx.Arena.Width-2*config.PowerUpSize) + config.PowerUpSize
		s.Spawn(kind, x)
		s.lastSpawn = ctx.Now
	}

	pb := player.Bounds()
	for _, p := range s.powerups {
		p.Update(ctx)
		if physics.Overlaps(p.Bounds(), pb) && p.Collect() {
			s.Apply(p.Kind, ctx.Now, player)
			ctx.Emit(event.PowerUp, 0)
		}
	}
	s.powerups = object.Compact(s.powerups, ctx.Arena)

	s.Expire(ctx.Now, player)
}

// Apply applies a collected effect. Timed effects set the player modifier and
// refresh any running expiry to now + duration; instant effects are queued
// for the resolver.
func (s *Scheduler) Apply(kind object.PowerUpKind, now time.Duration, player *object.Player) {
	eff, ok := object.EffectFor(kind)
	if !ok {
		return
	}

	switch kind {
	case object.PowerUpHealth:
		s.instant.Health += config.HealthRestoreLife
		return
	case object.PowerUpBomb:
		s.instant.Bombs++
		return
	}

	setModifier(&player.Modifiers, kind, true)

	expires := now + eff.Duration
	for i := range s.active {
		if s.active[i].Kind == kind {
			s.active[i].Expires = expires
			return
		}
	}
	s.active = append(s.active, ActiveEffect{Kind: kind, Name: eff.Name, Expires: expires})
}

// Expire reverts every effect whose expiry has passed.
func (s *Scheduler) Expire(now time.Duration, player *object.Player) {
	kept := s.active[:0]
	for _, a := range s.active {
		if a.Expires <= now {
			setModifier(&player.Modifiers, a.Kind, false)
			continue
		}
		kept = append(kept, a)
	}
	s.active = kept
}

func setModifier(m *object.Modifiers, kind object.PowerUpKind, on bool) {
	switch kind {
	case object.PowerUpRapidFire:
		m.RapidFire = on
	case object.PowerUpShield:
		m.Shield = on
	case object.PowerUpTripleShot:
		m.TripleShot = on
	case object.PowerUpSpeedBoost:
		m.SpeedBoost = on
	}
}
