package object

import (
	"math"

	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/physics"
)

// Side identifies which party fired a projectile.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

func (s Side) String() string {
	if s == SideEnemy {
		return "enemy"
	}
	return "player"
}

// Projectile is a bullet fired by the player or an enemy.
// Velocity is in units per reference frame and fixed at creation.
type Projectile struct {
	X, Y      float64 // Top-left position
	W, H      float64 // Size
	VX, VY    float64 // Velocity
	Damage    int
	Angle     float64 // Decorative heading for spread shots
	Special   bool    // Radial burst bullet
	Side      Side
	destroyed bool
}

// NewProjectile creates a projectile at (x, y) moving with (vx, vy).
func NewProjectile(side Side, x, y, w, h, vx, vy float64, damage int) *Projectile {
	return &Projectile{
		X:      x,
		Y:      y,
		W:      w,
		H:      h,
		VX:     vx,
		VY:     vy,
		Damage: damage,
		Side:   side,
	}
}

// NewAimedProjectile creates an enemy projectile whose velocity points from
// (fromX, fromY) towards (toX, toY). The heading is captured once.
func NewAimedProjectile(x, y, w, h, fromX, fromY, toX, toY, speed float64) *Projectile {
	angle := physics.AngleTo(fromX, fromY, toX, toY)
	p := NewProjectile(SideEnemy, x, y, w, h, math.Cos(angle)*speed, math.Sin(angle)*speed, 1)
	p.Angle = angle
	return p
}

// Bounds returns the collision rectangle.
func (p *Projectile) Bounds() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// MarkDestroyed marks the projectile as consumed.
func (p *Projectile) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the projectile has been consumed.
func (p *Projectile) IsDestroyed() bool {
	return p.destroyed
}

// IsOffScreen reports whether the projectile has left the arena in its
// direction of travel by more than the cull margin.
func (p *Projectile) IsOffScreen(a Arena) bool {
	const m = config.ProjectileCullMargin
	switch {
	case p.VY < 0 && p.Y < -m:
		return true
	case p.VY > 0 && p.Y > a.Height+m:
		return true
	case p.VX < 0 && p.X+p.W < -m:
		return true
	case p.VX > 0 && p.X > a.Width+m:
		return true
	}
	return false
}

// Update advances the projectile linearly.
func (p *Projectile) Update(ctx UpdateContext) {
	steps := ctx.Steps()
	p.X += p.VX * steps
	p.Y += p.VY * steps
}

// Volley is an ordered collection of in-flight projectiles.
type Volley struct {
	items []*Projectile
}

// Ensure Volley satisfies Spawner.
var _ Spawner = (*Volley)(nil)

// Spawn adds a projectile to the volley.
func (v *Volley) Spawn(p *Projectile) {
	v.items = append(v.items, p)
}

// Update advances every projectile, then culls destroyed and off-screen ones.
func (v *Volley) Update(ctx UpdateContext) {
	for _, p := range v.items {
		p.Update(ctx)
	}
	v.Compact(ctx.Arena)
}

// Compact removes consumed and off-screen projectiles.
func (v *Volley) Compact(a Arena) {
	v.items = Compact(v.items, a)
}

// Items returns the live projectiles. The slice must not be retained across updates.
func (v *Volley) Items() []*Projectile {
	return v.items
}

// Len returns the number of projectiles in flight.
func (v *Volley) Len() int {
	return len(v.items)
}

// Clear drops every projectile.
func (v *Volley) Clear() {
	clear(v.items)
	v.items = v.items[:0]
}
