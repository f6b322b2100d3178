package match

import (
	"github.com/tomz197/starstrike/internal/event"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/object"
	"github.com/tomz197/starstrike/internal/physics"
)

// World groups the subsystems the resolver reads and writes.
type World struct {
	Player    *object.Player
	Director  *Director
	PowerUps  *Scheduler
	Particles *object.Emitter
}

// Resolver applies every cross-entity effect once per tick: damage, score,
// lives and bomb destruction.
type Resolver struct {
	grid *physics.SpatialGrid
}

// NewResolver creates a resolver whose broad phase covers the arena.
func NewResolver(a object.Arena) *Resolver {
	return &Resolver{grid: physics.NewSpatialGrid(a.Width, a.Height, config.CollisionGridCell)}
}

// Resolve runs the collision and scoring pass. It must run after all
// subsystem updates of the tick.
func (r *Resolver) Resolve(ctx object.UpdateContext, w World, st *State) {
	r.playerShots(ctx, w, st)
	r.enemyShots(ctx, w, st)
	r.contact(ctx, w, st)
	r.instant(ctx, w, st)

	if st.Lives <= 0 {
		st.Lives = 0
		st.Status = Over
		ctx.Emit(event.GameOver, st.Score)
	}
}

// playerShots resolves player projectiles against enemies.
func (r *Resolver) playerShots(ctx object.UpdateContext, w World, st *State) {
	enemies := w.Director.Enemies()

	r.grid.Clear()
	for i, e := range enemies {
		if !e.IsDestroyed() {
			r.grid.Insert(e.Bounds(), i)
		}
	}

	for _, shot := range w.Player.Shots.Items() {
		if shot.IsDestroyed() {
			continue
		}
		sb := shot.Bounds()
		r.grid.Query(sb, func(i int) bool {
			e := enemies[i]
			if e.IsDestroyed() || !physics.Overlaps(sb, e.Bounds()) {
				return false
			}
			shot.MarkDestroyed()
			if e.TakeDamage(shot.Damage) {
				r.kill(ctx, w, st, e)
			} else {
				cx, cy := sb.Center()
				w.Particles.Hit(cx, cy)
				ctx.Emit(event.EnemyHit, 0)
			}
			return true
		})
	}
}

// kill awards a destroyed enemy's points and plays its explosion.
func (r *Resolver) kill(ctx object.UpdateContext, w World, st *State, e *object.Enemy) {
	r.explode(ctx, w, e)
	r.score(ctx, w, st, e.Points)
}

func (r *Resolver) explode(ctx object.UpdateContext, w World, e *object.Enemy) {
	cx, cy := e.Bounds().Center()
	w.Particles.Explosion(ctx.Now, cx, cy, config.ExplosionCount)
	ctx.Emit(event.Explosion, 0)
}

// score adds points and celebrates a level-up.
func (r *Resolver) score(ctx object.UpdateContext, w World, st *State, points int) {
	if !st.AddScore(points) {
		return
	}
	w.Particles.Starfield(ctx.Arena.Width/2, ctx.Arena.Height/2, config.LevelUpStars)
	ctx.Emit(event.LevelUp, st.Level)
}

// hitPlayer deducts a life if the player is not protected.
func (r *Resolver) hitPlayer(ctx object.UpdateContext, w World, st *State) {
	if !w.Player.TakeDamage() {
		return
	}
	st.Lives--
	cx, cy := w.Player.Center()
	w.Particles.Hit(cx, cy)
	ctx.Emit(event.PlayerHit, 0)
}

// enemyShots resolves enemy projectiles against the player. A touching
// projectile is consumed even when no damage is dealt.
func (r *Resolver) enemyShots(ctx object.UpdateContext, w World, st *State) {
	pb := w.Player.Bounds()
	for _, shot := range w.Director.Shots().Items() {
		if shot.IsDestroyed() || !physics.Overlaps(shot.Bounds(), pb) {
			continue
		}
		shot.MarkDestroyed()
		r.hitPlayer(ctx, w, st)
	}
}

// contact resolves enemy bodies ramming the player. The enemy is destroyed
// outright and awards no points.
func (r *Resolver) contact(ctx object.UpdateContext, w World, st *State) {
	pb := w.Player.Bounds()
	for _, e := range w.Director.Enemies() {
		if e.IsDestroyed() || !physics.Overlaps(e.Bounds(), pb) {
			continue
		}
		r.hitPlayer(ctx, w, st)
		if e.Destroy() {
			r.explode(ctx, w, e)
		}
	}
}

// instant applies queued health and bomb pickups.
func (r *Resolver) instant(ctx object.UpdateContext, w World, st *State) {
	in := w.PowerUps.TakeInstant()

	if in.Health > 0 {
		st.Lives += in.Health
		ctx.Emit(event.HealthRestore, in.Health)
	}

	for range in.Bombs {
		killed := w.Director.DestroyAll()
		for _, e := range killed {
			cx, cy := e.Bounds().Center()
			w.Particles.Explosion(ctx.Now, cx, cy, config.ExplosionCount)
		}
		ctx.Emit(event.BombUsed, len(killed))
		if len(killed) > 0 {
			r.score(ctx, w, st, len(killed)*config.BombScorePerEnemy)
		}
	}
}
