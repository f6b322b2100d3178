package object

import (
	"time"

	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/physics"
)

// PowerUpKind names a collectible.
type PowerUpKind string

const (
	PowerUpHealth     PowerUpKind = "health"
	PowerUpRapidFire  PowerUpKind = "rapid_fire"
	PowerUpShield     PowerUpKind = "shield"
	PowerUpTripleShot PowerUpKind = "triple_shot"
	PowerUpBomb       PowerUpKind = "bomb"
	PowerUpSpeedBoost PowerUpKind = "speed_boost"
)

// PowerUpKinds lists every collectible in stable order.
var PowerUpKinds = []PowerUpKind{
	PowerUpHealth,
	PowerUpRapidFire,
	PowerUpShield,
	PowerUpTripleShot,
	PowerUpBomb,
	PowerUpSpeedBoost,
}

// Effect describes what collecting a power-up does.
// A zero Duration means the effect is instantaneous.
type Effect struct {
	Name     string        // Display name for the HUD
	Duration time.Duration // Timed effect length
	Color    string
	Icon     rune
}

// Timed reports whether the effect is duration-bearing.
func (e Effect) Timed() bool {
	return e.Duration > 0
}

var effects = map[PowerUpKind]Effect{
	PowerUpHealth:     {Name: "Health", Color: "#00ff00", Icon: '+'},
	PowerUpRapidFire:  {Name: "Rapid Fire", Duration: config.RapidFireDuration, Color: "#ffff00", Icon: 'R'},
	PowerUpShield:     {Name: "Shield", Duration: config.ShieldDuration, Color: "#00ffff", Icon: 'S'},
	PowerUpTripleShot: {Name: "Triple Shot", Duration: config.TripleShotDuration, Color: "#ff00ff", Icon: 'T'},
	PowerUpBomb:       {Name: "Bomb", Color: "#ff8800", Icon: 'B'},
	PowerUpSpeedBoost: {Name: "Speed Boost", Duration: config.SpeedBoostDuration, Color: "#8888ff", Icon: '>'},
}

// EffectFor returns the effect descriptor of a kind.
// Unknown kinds return a zero Effect and false.
func EffectFor(kind PowerUpKind) (Effect, bool) {
	e, ok := effects[kind]
	return e, ok
}

// PowerUp is a falling collectible.
type PowerUp struct {
	Kind      PowerUpKind
	X, Y      float64 // Top-left position
	W, H      float64
	Speed     float64
	Frame     int // Ticks alive, drives the pulse animation
	collected bool
}

// NewPowerUp creates a power-up at (x, y).
func NewPowerUp(kind PowerUpKind, x, y float64) *PowerUp {
	return &PowerUp{
		Kind:  kind,
		X:     x,
		Y:     y,
		W:     config.PowerUpSize,
		H:     config.PowerUpSize,
		Speed: config.PowerUpFallSpeed,
	}
}

// Effect returns the descriptor for this power-up's kind.
func (p *PowerUp) Effect() Effect {
	e, _ := EffectFor(p.Kind)
	return e
}

// Bounds returns the collision rectangle.
func (p *PowerUp) Bounds() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Update moves the power-up down.
func (p *PowerUp) Update(ctx UpdateContext) {
	p.Y += p.Speed * ctx.Steps()
	p.Frame++
}

// Collect marks the power-up as picked up. It returns true only the first time.
func (p *PowerUp) Collect() bool {
	if p.collected {
		return false
	}
	p.collected = true
	return true
}

// MarkDestroyed implements Destructible.
func (p *PowerUp) MarkDestroyed() {
	p.collected = true
}

// IsDestroyed returns true once collected.
func (p *PowerUp) IsDestroyed() bool {
	return p.collected
}

// IsOffScreen returns true once the power-up has fallen past the arena.
func (p *PowerUp) IsOffScreen(a Arena) bool {
	return p.Y > a.Height+config.PowerUpCullMargin
}
