package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/starstrike/internal/event"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/physics"
)

// Arena is the logical play rectangle, origin at top-left.
type Arena struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultArena returns the standard play rectangle.
func DefaultArena() Arena {
	return Arena{Width: config.ArenaWidth, Height: config.ArenaHeight}
}

// Control is the normalized per-tick input snapshot. All intents are level-triggered.
type Control struct {
	Left    bool `json:"left"`
	Right   bool `json:"right"`
	Up      bool `json:"up"`
	Down    bool `json:"down"`
	Fire    bool `json:"fire"`
	Boost   bool `json:"boost"`
	Special bool `json:"special"` // Radial burst request
}

// Spawner allows objects to spawn projectiles during update.
type Spawner interface {
	Spawn(p *Projectile)
}

// UpdateContext provides all the information an entity needs during update.
type UpdateContext struct {
	Delta   time.Duration // Elapsed time for this tick, already clamped
	Now     time.Duration // Match clock
	Control Control
	Arena   Arena
	Target  physics.Rect // Player bounds, for aimed fire
	Spawner Spawner      // Receives enemy projectiles
	Events  event.Sink
	Rand    *rand.Rand
}

// Steps converts the tick delta to reference frames (1.0 at 60 Hz).
func (ctx UpdateContext) Steps() float64 {
	return Steps(ctx.Delta)
}

// Emit sends an event if a sink is attached.
func (ctx UpdateContext) Emit(t event.Type, amount int) {
	if ctx.Events != nil {
		ctx.Events.Emit(t, amount)
	}
}

// Steps converts an elapsed duration to reference frames.
func Steps(delta time.Duration) float64 {
	return delta.Seconds() * config.ReferenceFPS
}

// Entity is the shared capability set of everything that lives in the arena.
type Entity interface {
	// Bounds returns the axis-aligned collision rectangle.
	Bounds() physics.Rect
	// IsDestroyed returns true if the entity is marked for removal.
	IsDestroyed() bool
	// IsOffScreen returns true once the entity has left the arena past its cull margin.
	IsOffScreen(a Arena) bool
}

// Destructible is implemented by entities that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the entity for removal on the next compaction.
	// Calling it again is a no-op.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for destruction.
	IsDestroyed() bool
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// Compact removes destroyed and off-screen entities in place, preserving
// the relative order of survivors. Removed pooled entities are released.
func Compact[T Entity](items []T, arena Arena) []T {
	kept := items[:0]
	for _, it := range items {
		if it.IsDestroyed() || it.IsOffScreen(arena) {
			releaseEntity(it)
			continue
		}
		kept = append(kept, it)
	}
	// Clear the tail so removed pointers can be collected
	var zero T
	for i := len(kept); i < len(items); i++ {
		items[i] = zero
	}
	return kept
}

func releaseEntity(e any) {
	if r, ok := e.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink returns true if an entity with remaining protection ticks
// should be drawn at full opacity this frame. period is the number of ticks
// per flicker phase. Returns true always if remaining <= 0.
func ShouldRenderBlink(remaining, period int) bool {
	if remaining <= 0 || period <= 0 {
		return true
	}
	return (remaining/period)%2 == 0
}
