package object

import (
	"time"

	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/physics"
)

// Enemy is a hostile ship driven by its kind's behavior profile.
type Enemy struct {
	Kind         EnemyKind
	X, Y         float64 // Top-left position
	W, H         float64
	Speed        float64
	Health       int
	MaxHealth    int
	Points       int
	FireCooldown time.Duration
	Color        string
	Phase        float64 // Movement phase accumulator
	Frame        int     // Ticks alive, drives the damage flash

	behavior  Behavior
	lastShot  time.Duration
	destroyed bool
}

// NewEnemy creates an enemy of the given kind at (x, y). The fire cooldown
// starts counting from spawnedAt. An unknown kind yields an inert enemy with
// zero stats.
func NewEnemy(kind EnemyKind, stats EnemyStats, x, y float64, spawnedAt time.Duration) *Enemy {
	return &Enemy{
		Kind:         kind,
		X:            x,
		Y:            y,
		W:            stats.Width,
		H:            stats.Height,
		Speed:        stats.Speed,
		Health:       stats.Health,
		MaxHealth:    stats.Health,
		Points:       stats.Points,
		FireCooldown: stats.FireCooldown,
		Color:        stats.Color,
		behavior:     BehaviorFor(kind),
		lastShot:     spawnedAt,
	}
}

// Bounds returns the collision rectangle.
func (e *Enemy) Bounds() physics.Rect {
	return physics.Rect{X: e.X, Y: e.Y, W: e.W, H: e.H}
}

// Update moves the enemy and fires when its cooldown has elapsed.
func (e *Enemy) Update(ctx UpdateContext) {
	if e.behavior == nil {
		return
	}
	e.behavior.Move(e, ctx.Steps())

	if ctx.Now-e.lastShot > e.FireCooldown && ctx.Spawner != nil {
		e.behavior.Fire(e, ctx)
		e.lastShot = ctx.Now
	}
	e.Frame++
}

// TakeDamage subtracts damage, clamping health at zero. It returns true only
// on the call that brings health to zero.
func (e *Enemy) TakeDamage(damage int) bool {
	if e.destroyed || damage <= 0 {
		return false
	}
	e.Health = max(0, e.Health-damage)
	if e.Health == 0 {
		e.destroyed = true
		return true
	}
	return false
}

// Destroy kills the enemy outright regardless of remaining health and
// reports whether it was still alive.
func (e *Enemy) Destroy() bool {
	if e.destroyed {
		return false
	}
	e.Health = 0
	e.destroyed = true
	return true
}

// MarkDestroyed implements Destructible.
func (e *Enemy) MarkDestroyed() {
	e.Destroy()
}

// IsDestroyed returns true if the enemy has been killed.
func (e *Enemy) IsDestroyed() bool {
	return e.destroyed
}

// IsOffScreen returns true once the enemy has passed below the arena.
func (e *Enemy) IsOffScreen(a Arena) bool {
	return e.Y > a.Height+config.EnemyCullMargin
}

// IsBoss reports whether this is a boss variant.
func (e *Enemy) IsBoss() bool {
	return e.Kind == KindBoss
}

// HealthFraction returns remaining health in [0, 1].
func (e *Enemy) HealthFraction() float64 {
	if e.MaxHealth <= 0 {
		return 0
	}
	return float64(e.Health) / float64(e.MaxHealth)
}

// Flashing reports whether a damaged enemy is on the bright phase of its flash.
func (e *Enemy) Flashing() bool {
	return e.Health < e.MaxHealth && (e.Frame/config.EnemyFlashPeriod)%2 == 1
}
