package object

import (
	"math"

	"github.com/tomz197/starstrike/internal/loop/config"
)

// Behavior is the movement and fire pattern of one enemy kind.
type Behavior interface {
	// Move advances the enemy by the given number of reference frames.
	Move(e *Enemy, steps float64)
	// Fire spawns the kind's shot pattern.
	Fire(e *Enemy, ctx UpdateContext)
}

var behaviors = map[EnemyKind]Behavior{
	KindBasic: basicBehavior{},
	KindFast:  fastBehavior{},
	KindTank:  tankBehavior{},
	KindBoss:  bossBehavior{},
}

// BehaviorFor returns the profile for a kind, or nil for an unknown kind.
func BehaviorFor(kind EnemyKind) Behavior {
	return behaviors[kind]
}

// descend moves straight down.
func descend(e *Enemy, steps float64) {
	e.Y += e.Speed * steps
}

// straightShot fires one bullet straight down from the enemy's nose.
func straightShot(e *Enemy, ctx UpdateContext) {
	ctx.Spawner.Spawn(NewProjectile(SideEnemy, e.X+e.W/2-2, e.Y+e.H, 4, 8, 0, 5, 1))
}

// basicBehavior: straight descent, single straight shot.
type basicBehavior struct{}

func (basicBehavior) Move(e *Enemy, steps float64)     { descend(e, steps) }
func (basicBehavior) Fire(e *Enemy, ctx UpdateContext) { straightShot(e, ctx) }

// fastBehavior: lateral zigzag keyed on height, single straight shot.
type fastBehavior struct{}

func (fastBehavior) Move(e *Enemy, steps float64) {
	e.X += math.Sin(e.Y*config.ZigzagFrequency) * config.ZigzagAmp * steps
	descend(e, steps)
}

func (fastBehavior) Fire(e *Enemy, ctx UpdateContext) { straightShot(e, ctx) }

// tankBehavior: straight descent, one shot aimed at the player's center.
type tankBehavior struct{}

func (tankBehavior) Move(e *Enemy, steps float64) { descend(e, steps) }

func (tankBehavior) Fire(e *Enemy, ctx UpdateContext) {
	ex, ey := e.Bounds().Center()
	tx, ty := ctx.Target.Center()
	ctx.Spawner.Spawn(NewAimedProjectile(e.X+e.W/2-3, e.Y+e.H, 6, 12, ex, ey, tx, ty, 3))
}

// bossBehavior: sinusoidal lateral drift while descending, 3-way spread.
type bossBehavior struct{}

func (bossBehavior) Move(e *Enemy, steps float64) {
	e.Phase += config.BossPhaseStep * steps
	e.X += math.Sin(e.Phase) * config.BossSwayAmp * steps
	descend(e, steps)
}

func (bossBehavior) Fire(e *Enemy, ctx UpdateContext) {
	for i := -1; i <= 1; i++ {
		angle := float64(i) * config.BossSpreadAngle
		p := NewProjectile(SideEnemy, e.X+e.W/2-2, e.Y+e.H, 4, 10,
			math.Sin(angle)*config.EnemyBulletDrift, 4, 1)
		p.Angle = angle
		ctx.Spawner.Spawn(p)
	}
}
