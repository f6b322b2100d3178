package object

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/physics"
)

// ParticleKind selects a particle's motion and lifetime profile.
type ParticleKind int

const (
	ParticleExplosion ParticleKind = iota
	ParticleSpark
	ParticleSmoke
	ParticleStar
)

func (k ParticleKind) String() string {
	switch k {
	case ParticleExplosion:
		return "explosion"
	case ParticleSpark:
		return "spark"
	case ParticleSmoke:
		return "smoke"
	case ParticleStar:
		return "star"
	}
	return "unknown"
}

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// TrailPoint is one recorded position of a trail-bearing particle.
type TrailPoint struct {
	X, Y float64
}

// Particle is a short-lived cosmetic effect. It never collides.
type Particle struct {
	Kind    ParticleKind
	X, Y    float64 // Position
	VX, VY  float64 // Velocity per reference frame
	Size    float64
	Life    float64 // Remaining life in frames
	MaxLife float64
	Decay   float64 // Life lost per frame
	Hue     float64 // Explosion color hue in degrees

	trail    [config.ParticleTrailLength]TrailPoint
	trailLen int
	hasTrail bool
}

// NewParticle takes a particle from the pool and initializes it for kind.
func NewParticle(kind ParticleKind, x, y float64, r *rand.Rand) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{Kind: kind, X: x, Y: y}

	switch kind {
	case ParticleExplosion:
		p.VX = (r.Float64() - 0.5) * 8
		p.VY = (r.Float64() - 0.5) * 8
		p.Size = r.Float64()*3 + 1
		p.Hue = r.Float64() * 60
		p.MaxLife, p.Decay = 30, 1
	case ParticleStar:
		p.VX = (r.Float64() - 0.5) * 2
		p.VY = r.Float64()*2 + 1
		p.Size = r.Float64()*2 + 1
		p.MaxLife, p.Decay = 60, 1
	case ParticleSmoke:
		p.VX = r.Float64() - 0.5
		p.VY = -r.Float64() * 2
		p.Size = r.Float64()*15 + 5
		p.MaxLife, p.Decay = 40, 1
	case ParticleSpark:
		angle := r.Float64() * 2 * math.Pi
		speed := r.Float64()*5 + 2
		p.VX = math.Cos(angle) * speed
		p.VY = math.Sin(angle) * speed
		p.Size = 2
		p.MaxLife, p.Decay = 20, 2
		p.hasTrail = true
	}
	p.Life = p.MaxLife
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Update advances the particle by the given number of reference frames.
func (p *Particle) Update(steps float64) {
	p.X += p.VX * steps
	p.Y += p.VY * steps
	p.Life -= p.Decay * steps

	if p.Kind == ParticleExplosion || p.Kind == ParticleSpark {
		p.VY += config.ParticleGravity * steps
	}

	drag := math.Pow(config.ParticleDrag, steps) // Normalize drag to 60fps
	p.VX *= drag
	p.VY *= drag

	if p.hasTrail {
		p.pushTrail(p.X, p.Y)
	}
}

func (p *Particle) pushTrail(x, y float64) {
	if p.trailLen == len(p.trail) {
		copy(p.trail[:], p.trail[1:])
		p.trailLen--
	}
	p.trail[p.trailLen] = TrailPoint{X: x, Y: y}
	p.trailLen++
}

// Trail returns recorded positions, oldest first.
func (p *Particle) Trail() []TrailPoint {
	return p.trail[:p.trailLen]
}

// Alpha returns remaining life as a fraction in [0, 1].
func (p *Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return physics.Clamp(p.Life/p.MaxLife, 0, 1)
}

// Bounds returns the particle's extent.
func (p *Particle) Bounds() physics.Rect {
	return physics.Rect{X: p.X - p.Size/2, Y: p.Y - p.Size/2, W: p.Size, H: p.Size}
}

// IsDestroyed returns true once the particle's life has run out.
func (p *Particle) IsDestroyed() bool {
	return p.Life <= 0
}

// IsOffScreen always returns false; particles expire by life only.
func (p *Particle) IsOffScreen(Arena) bool {
	return false
}

type pendingSmoke struct {
	x, y float64
	at   time.Duration
}

// Emitter owns every live particle and the staggered secondary bursts.
type Emitter struct {
	rand      *rand.Rand
	particles []*Particle
	pending   []pendingSmoke
}

// NewEmitter creates an emitter drawing randomness from r.
func NewEmitter(r *rand.Rand) *Emitter {
	return &Emitter{rand: r}
}

func (e *Emitter) spawn(kind ParticleKind, x, y float64) {
	e.particles = append(e.particles, NewParticle(kind, x, y, e.rand))
}

// Explosion bursts count explosion particles, each with an even chance of an
// extra spark, and schedules smoke puffs staggered from now.
func (e *Emitter) Explosion(now time.Duration, x, y float64, count int) {
	for range count {
		e.spawn(ParticleExplosion, x, y)
		if e.rand.Float64() > 0.5 {
			e.spawn(ParticleSpark, x, y)
		}
	}
	for i := range config.ExplosionSmoke {
		e.pending = append(e.pending, pendingSmoke{
			x:  x,
			y:  y,
			at: now + time.Duration(i)*config.SmokeStagger,
		})
	}
}

// Hit emits a small spark burst.
func (e *Emitter) Hit(x, y float64) {
	for range config.HitSparks {
		e.spawn(ParticleSpark, x, y)
	}
}

// Starfield emits count stars spread horizontally around x.
func (e *Emitter) Starfield(x, y float64, count int) {
	for range count {
		e.spawn(ParticleStar, x+(e.rand.Float64()-0.5)*50, y)
	}
}

// Update releases due smoke puffs, advances every particle and removes dead ones.
func (e *Emitter) Update(ctx UpdateContext) {
	if len(e.pending) > 0 {
		kept := e.pending[:0]
		for _, s := range e.pending {
			if s.at <= ctx.Now {
				e.spawn(ParticleSmoke, s.x, s.y)
				continue
			}
			kept = append(kept, s)
		}
		e.pending = kept
	}

	steps := ctx.Steps()
	for _, p := range e.particles {
		p.Update(steps)
	}
	e.particles = Compact(e.particles, ctx.Arena)
}

// Particles returns the live particles. The slice must not be retained.
func (e *Emitter) Particles() []*Particle {
	return e.particles
}

// Len returns the number of live particles.
func (e *Emitter) Len() int {
	return len(e.particles)
}

// Pending returns the number of scheduled smoke puffs.
func (e *Emitter) Pending() int {
	return len(e.pending)
}

// Reset releases every particle and cancels scheduled puffs.
func (e *Emitter) Reset() {
	for _, p := range e.particles {
		p.Release()
	}
	clear(e.particles)
	e.particles = e.particles[:0]
	e.pending = e.pending[:0]
}
