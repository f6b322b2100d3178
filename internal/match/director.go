package match

import (
	"math/rand"
	"time"

	"github.com/tomz197/starstrike/internal/event"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/object"
)

// Phase is the wave state machine position.
type Phase int

const (
	// PhaseInWave spawns regular enemies until the wave quota is reached.
	PhaseInWave Phase = iota
	// PhaseBossCheck also waits for an empty pool to release the cycle's boss.
	PhaseBossCheck
)

func (p Phase) String() string {
	if p == PhaseBossCheck {
		return "boss-check"
	}
	return "in-wave"
}

// Director spawns, paces and updates enemies and owns their in-flight shots.
type Director struct {
	stats object.StatTable
	rand  *rand.Rand

	enemies []*object.Enemy
	shots   object.Volley

	wave        int
	quota       int
	spawned     int
	interval    time.Duration
	lastSpawn   time.Duration
	bossSpawned bool
}

// NewDirector creates a director at wave 1.
func NewDirector(stats object.StatTable, r *rand.Rand) *Director {
	d := &Director{stats: stats, rand: r}
	d.Reset(0)
	return d
}

// Reset clears every enemy and shot and restarts at wave 1.
// The spawn timer starts counting from now.
func (d *Director) Reset(now time.Duration) {
	clear(d.enemies)
	d.enemies = d.enemies[:0]
	d.shots.Clear()
	d.wave = 1
	d.quota = config.WaveInitialQuota
	d.spawned = 0
	d.interval = config.WaveBaseInterval
	d.lastSpawn = now
	d.bossSpawned = false
}

// Wave returns the current wave number.
func (d *Director) Wave() int { return d.wave }

// Quota returns the number of spawns the current wave needs.
func (d *Director) Quota() int { return d.quota }

// Spawned returns the number of regular spawns so far in this wave.
func (d *Director) Spawned() int { return d.spawned }

// Interval returns the base spawn interval before the difficulty multiplier.
func (d *Director) Interval() time.Duration { return d.interval }

// BossSpawned reports whether this cycle's boss has appeared.
func (d *Director) BossSpawned() bool { return d.bossSpawned }

// Phase returns the current state machine position.
func (d *Director) Phase() Phase {
	if d.wave%config.WavesPerCycle == 0 {
		return PhaseBossCheck
	}
	return PhaseInWave
}

// Enemies returns the live enemy pool. The slice must not be retained.
func (d *Director) Enemies() []*object.Enemy { return d.enemies }

// Shots returns the enemy projectiles in flight.
func (d *Director) Shots() *object.Volley { return &d.shots }

// SpawnInterval returns the effective interval for a difficulty.
func (d *Director) SpawnInterval(diff Difficulty) time.Duration {
	return time.Duration(float64(d.interval) * diff.SpawnMultiplier())
}

// Update runs spawn pacing and the wave machine, then moves every enemy and
// enemy shot. st.Wave is kept in sync.
func (d *Director) Update(ctx object.UpdateContext, st *State) {
	d.Compact(ctx.Arena)

	if ctx.Now-d.lastSpawn > d.SpawnInterval(st.Difficulty) {
		d.spawnRegular(ctx, st.Level)
		d.lastSpawn = ctx.Now
		d.spawned++
		if d.spawned >= d.quota {
			d.nextWave(ctx)
		}
	}

	if d.Phase() == PhaseBossCheck && !d.bossSpawned && len(d.enemies) == 0 {
		if d.SpawnEnemy(object.KindBoss, ctx.Arena.Width/2-60, config.BossSpawnY, ctx.Now) != nil {
			d.bossSpawned = true
			ctx.Emit(event.BossSpawned, d.wave)
		}
	}

	ctx.Spawner = &d.shots
	for _, e := range d.enemies {
		e.Update(ctx)
	}
	d.shots.Update(ctx)
	d.Compact(ctx.Arena)

	st.Wave = d.wave
}

// unlockedKinds returns the regular kinds available at a level.
func unlockedKinds(level int) []object.EnemyKind {
	kinds := []object.EnemyKind{object.KindBasic}
	if level >= config.FastUnlockLevel {
		kinds = append(kinds, object.KindFast)
	}
	if level >= config.TankUnlockLevel {
		kinds = append(kinds, object.KindTank)
	}
	return kinds
}

func (d *Director) spawnRegular(ctx object.UpdateContext, level int) {
	kinds := unlockedKinds(level)
	if len(kinds) == 0 {
		return
	}
	kind := kinds[d.rand.Intn(len(kinds))]
	stats, ok := d.stats.Get(kind)
	if !ok {
		return
	}
	x := d.rand.Float64() * (ctx.Arena.Width - stats.Width)
	d.SpawnEnemy(kind, x, config.EnemySpawnY, ctx.Now)
}

// SpawnEnemy places an enemy of kind at (x, y) outside the regular pacing.
// Unknown kinds are skipped and return nil.
func (d *Director) SpawnEnemy(kind object.EnemyKind, x, y float64, now time.Duration) *object.Enemy {
	stats, ok := d.stats.Get(kind)
	if !ok {
		return nil
	}
	e := object.NewEnemy(kind, stats, x, y, now)
	d.enemies = append(d.enemies, e)
	return e
}

func (d *Director) nextWave(ctx object.UpdateContext) {
	d.wave++
	d.spawned = 0
	d.quota = WaveQuota(d.wave)
	d.interval = WaveInterval(d.wave)
	if d.wave%config.WavesPerCycle == 1 {
		d.bossSpawned = false
	}
	ctx.Emit(event.WaveStart, d.wave)
}

// WaveQuota returns the spawn quota of a wave after the first.
func WaveQuota(wave int) int {
	return min(config.WaveQuotaBase+wave, config.WaveQuotaCap)
}

// WaveInterval returns the base spawn interval of a wave after the first.
func WaveInterval(wave int) time.Duration {
	return max(config.WaveBaseInterval-time.Duration(wave)*config.WaveIntervalStep, config.WaveIntervalFloor)
}

// Compact removes destroyed and off-screen enemies and shots.
func (d *Director) Compact(a object.Arena) {
	d.enemies = object.Compact(d.enemies, a)
	d.shots.Compact(a)
}

// DestroyAll kills every live enemy outright and returns the ones it killed.
func (d *Director) DestroyAll() []*object.Enemy {
	var killed []*object.Enemy
	for _, e := range d.enemies {
		if e.Destroy() {
			killed = append(killed, e)
		}
	}
	return killed
}
