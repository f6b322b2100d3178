package object

import (
	"math"
	"time"

	"github.com/tomz197/starstrike/internal/event"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/physics"
)

// Modifiers are the timed power-up flags currently applied to the player.
// Their expiry is owned by the power-up scheduler.
type Modifiers struct {
	RapidFire  bool `json:"rapidFire"`
	TripleShot bool `json:"tripleShot"`
	Shield     bool `json:"shield"`
	SpeedBoost bool `json:"speedBoost"`
}

// Player is the ship controlled by the user. Lives are kept in match state.
type Player struct {
	X, Y         float64 // Top-left position
	W, H         float64
	SpecialPower float64 // Gauge in [0, SpecialPowerMax]
	Modifiers    Modifiers
	Shots        Volley // Player-side projectiles in flight

	arena        Arena
	lastShot     time.Duration
	hasShot      bool
	invulnerable int // Remaining ticks
	moving       bool
}

// NewPlayer creates a player at the start position of the given arena.
func NewPlayer(arena Arena) *Player {
	p := &Player{
		W:     config.PlayerWidth,
		H:     config.PlayerHeight,
		arena: arena,
	}
	p.Reset()
	return p
}

// Reset restores the start position, clears projectiles, invulnerability and
// modifiers, and refills the gauge to its mid value.
func (p *Player) Reset() {
	p.X = p.arena.Width/2 - p.W/2
	p.Y = p.arena.Height - p.H - config.PlayerSpawnBottomGap
	p.Shots.Clear()
	p.SpecialPower = config.SpecialPowerStart
	p.Modifiers = Modifiers{}
	p.invulnerable = 0
	p.hasShot = false
	p.lastShot = 0
	p.moving = false
}

// Bounds returns the collision rectangle.
func (p *Player) Bounds() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Center returns the ship center, used as the aim target.
func (p *Player) Center() (float64, float64) {
	return p.Bounds().Center()
}

// IsInvulnerable reports whether a hit window is still running.
func (p *Player) IsInvulnerable() bool {
	return p.invulnerable > 0
}

// InvulnerableTicks returns the remaining invulnerability ticks.
func (p *Player) InvulnerableTicks() int {
	return p.invulnerable
}

// Moving reports whether any movement intent was applied last tick.
func (p *Player) Moving() bool {
	return p.moving
}

// Visible returns false on the dim phase of the invulnerability flicker.
func (p *Player) Visible() bool {
	return ShouldRenderBlink(p.invulnerable, config.PlayerBlinkPeriod)
}

// ShotCooldown returns the current minimum time between shots.
func (p *Player) ShotCooldown() time.Duration {
	if p.Modifiers.RapidFire {
		return config.PlayerRapidCooldown
	}
	return config.PlayerShotCooldown
}

func (p *Player) addPower(amount float64) {
	p.SpecialPower = physics.Clamp(p.SpecialPower+amount, 0, config.SpecialPowerMax)
}

// SetSpecialPower sets the gauge, clamped to its valid range.
func (p *Player) SetSpecialPower(v float64) {
	p.SpecialPower = physics.Clamp(v, 0, config.SpecialPowerMax)
}

// Update applies movement, firing, regeneration and timers for one tick.
func (p *Player) Update(ctx UpdateContext) {
	steps := ctx.Steps()
	c := ctx.Control

	speed := config.PlayerSpeed
	if p.Modifiers.SpeedBoost {
		speed *= config.SpeedBoostFactor
	}
	if c.Boost && p.SpecialPower > 0 {
		speed *= config.SpecialBoostFactor
		p.addPower(-config.SpecialBoostDrain * steps)
	}

	dist := speed * steps
	if c.Left {
		p.X -= dist
	}
	if c.Right {
		p.X += dist
	}
	if c.Up {
		p.Y -= dist
	}
	if c.Down {
		p.Y += dist
	}
	p.moving = c.Left || c.Right || c.Up || c.Down
	p.clampToArena()

	if c.Fire && p.canFire(ctx.Now) {
		p.Fire(ctx)
	}
	if c.Special {
		p.SpecialAttack(ctx)
	}

	p.Shots.Update(ctx)

	p.addPower(config.SpecialPowerRegen * steps)

	if p.invulnerable > 0 {
		p.invulnerable--
	}
}

// clampToArena keeps the ship inside the lower half of the arena.
func (p *Player) clampToArena() {
	p.X = physics.Clamp(p.X, 0, p.arena.Width-p.W)
	p.Y = physics.Clamp(p.Y, p.arena.Height/2, p.arena.Height-p.H-config.PlayerBottomMargin)
}

func (p *Player) canFire(now time.Duration) bool {
	return !p.hasShot || now-p.lastShot > p.ShotCooldown()
}

// Fire shoots one forward bullet, plus flanking bullets when the gauge allows
// and angled bullets while triple-shot is active. The cooldown is not checked.
// Returns the number of bullets created.
func (p *Player) Fire(ctx UpdateContext) int {
	p.lastShot = ctx.Now
	p.hasShot = true

	const (
		w = config.PlayerBulletWidth
		h = config.PlayerBulletHeight
		v = config.PlayerBulletSpeed
		d = config.PlayerBulletDamage
	)
	noseX := p.X + p.W/2 - w/2

	p.Shots.Spawn(NewProjectile(SidePlayer, noseX, p.Y, w, h, 0, -v, d))
	count := 1

	if p.SpecialPower >= config.SpecialFlankMinPower {
		p.Shots.Spawn(NewProjectile(SidePlayer, p.X+10, p.Y+10, w, h, 0, -v, d))
		p.Shots.Spawn(NewProjectile(SidePlayer, p.X+p.W-14, p.Y+10, w, h, 0, -v, d))
		p.addPower(-config.SpecialFlankCost)
		count += 2
	}

	if p.Modifiers.TripleShot {
		p.Shots.Spawn(NewProjectile(SidePlayer, noseX, p.Y, w, h, -config.TripleShotSpread, -v, d))
		p.Shots.Spawn(NewProjectile(SidePlayer, noseX, p.Y, w, h, config.TripleShotSpread, -v, d))
		count += 2
	}

	ctx.Emit(event.Shoot, count)
	return count
}

// SpecialAttack fires a radial burst from the ship center and empties the
// gauge. It does nothing below the activation threshold.
func (p *Player) SpecialAttack(ctx UpdateContext) bool {
	if p.SpecialPower < config.SpecialAttackMin {
		return false
	}

	const (
		n    = config.SpecialAttackBullets
		size = config.SpecialBulletSize
	)
	cx, cy := p.Center()
	for i := range n {
		angle := 2 * math.Pi * float64(i) / n
		b := NewProjectile(SidePlayer, cx-size/2, cy-size/2, size, size,
			math.Cos(angle)*config.SpecialBulletSpeed,
			math.Sin(angle)*config.SpecialBulletSpeed,
			config.SpecialBulletDamage)
		b.Angle = angle
		b.Special = true
		p.Shots.Spawn(b)
	}
	p.SpecialPower = 0

	ctx.Emit(event.Shoot, n)
	return true
}

// TakeDamage starts an invulnerability window and reports true when a life
// should be deducted. It reports false while invulnerable or shielded.
func (p *Player) TakeDamage() bool {
	if p.invulnerable > 0 || p.Modifiers.Shield {
		return false
	}
	p.invulnerable = config.PlayerInvulnerableTick
	return true
}
