package match

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starstrike/internal/event"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/object"
)

func newTestMatch(t *testing.T) *Match {
	t.Helper()
	return New(Options{Difficulty: Normal, Rand: rand.New(rand.NewSource(1))})
}

func eventTypes(events []event.Event) []event.Type {
	out := make([]event.Type, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func findEvent(events []event.Event, t event.Type) (event.Event, bool) {
	for _, e := range events {
		if e.Type == t {
			return e, true
		}
	}
	return event.Event{}, false
}

// enemyAhead spawns an enemy just in front of the player's nose.
func enemyAhead(m *Match, kind object.EnemyKind) *object.Enemy {
	p := m.player
	return m.director.SpawnEnemy(kind, p.X+10, p.Y-50, m.state.Clock)
}

func TestNew_InitialState(t *testing.T) {
	m := newTestMatch(t)
	st := m.State()

	assert.Equal(t, 0, st.Score)
	assert.Equal(t, config.InitialLives, st.Lives)
	assert.Equal(t, 1, st.Level)
	assert.Equal(t, 1, st.Wave)
	assert.Equal(t, Normal, st.Difficulty)
	assert.Equal(t, Playing, st.Status)
}

func TestTick_FirstKillScoresWithoutLevelUp(t *testing.T) {
	m := newTestMatch(t)
	m.player.SetSpecialPower(0)
	enemy := enemyAhead(m, object.KindBasic)
	require.NotNil(t, enemy)
	require.Equal(t, 1, enemy.Health)

	res := m.Tick(frame, object.Control{Fire: true})

	assert.True(t, enemy.IsDestroyed())
	assert.Equal(t, 100, res.State.Score)
	assert.Equal(t, 1, res.State.Level)
	assert.Contains(t, eventTypes(res.Events), event.Shoot)
	assert.Contains(t, eventTypes(res.Events), event.Explosion)
	assert.NotContains(t, eventTypes(res.Events), event.LevelUp)
	assert.Empty(t, m.director.Enemies(), "destroyed enemies are compacted")
	assert.Zero(t, m.player.Shots.Len(), "projectile consumed")
}

func TestTick_LevelUpOnceAtThreshold(t *testing.T) {
	m := newTestMatch(t)
	m.state.Score = 950
	m.player.SetSpecialPower(0)
	enemyAhead(m, object.KindBasic)

	res := m.Tick(frame, object.Control{Fire: true})

	assert.Equal(t, 1050, res.State.Score)
	assert.Equal(t, 2, res.State.Level)

	var levelUps int
	for _, e := range res.Events {
		if e.Type == event.LevelUp {
			levelUps++
			assert.Equal(t, 2, e.Amount)
		}
	}
	assert.Equal(t, 1, levelUps)

	var stars int
	for _, p := range m.particles.Particles() {
		if p.Kind == object.ParticleStar {
			stars++
		}
	}
	assert.Equal(t, config.LevelUpStars, stars)
}

func TestTick_LevelAdvancesOneStepPerCheck(t *testing.T) {
	m := newTestMatch(t)
	m.state.Score = 2950
	m.player.SetSpecialPower(0)
	enemyAhead(m, object.KindBasic)

	res := m.Tick(frame, object.Control{Fire: true})
	assert.Equal(t, 3050, res.State.Score)
	assert.Equal(t, 2, res.State.Level)
}

func TestTick_PartialDamageEmitsHit(t *testing.T) {
	m := newTestMatch(t)
	m.player.SetSpecialPower(0)
	tank := enemyAhead(m, object.KindTank)
	tank.X = m.player.X
	tank.Y = m.player.Y - 70

	res := m.Tick(frame, object.Control{Fire: true})

	assert.Equal(t, 4, tank.Health)
	assert.False(t, tank.IsDestroyed())
	assert.Zero(t, res.State.Score)
	assert.Contains(t, eventTypes(res.Events), event.EnemyHit)
	assert.NotContains(t, eventTypes(res.Events), event.Explosion)
}

func TestTick_SpecialAttackBurst(t *testing.T) {
	m := newTestMatch(t)
	m.player.SetSpecialPower(100)

	m.Tick(frame, object.Control{Special: true})

	shots := m.player.Shots.Items()
	require.Len(t, shots, config.SpecialAttackBullets)
	for i := 1; i < len(shots); i++ {
		assert.InDelta(t, 2*math.Pi/8, shots[i].Angle-shots[i-1].Angle, 1e-9)
	}
	assert.Less(t, m.player.SpecialPower, config.SpecialFlankMinPower)
}

func TestTick_EnemyShotHitsPlayerOnce(t *testing.T) {
	m := newTestMatch(t)
	p := m.player
	shots := m.director.Shots()
	shots.Spawn(object.NewProjectile(object.SideEnemy, p.X+20, p.Y+20, 4, 8, 0, 5, 1))

	res := m.Tick(frame, object.Control{})
	assert.Equal(t, 2, res.State.Lives)
	assert.Contains(t, eventTypes(res.Events), event.PlayerHit)
	assert.Zero(t, shots.Len(), "projectile consumed")

	// Inside the invulnerability window the projectile is still consumed
	shots.Spawn(object.NewProjectile(object.SideEnemy, p.X+20, p.Y+20, 4, 8, 0, 5, 1))
	res = m.Tick(frame, object.Control{})
	assert.Equal(t, 2, res.State.Lives)
	assert.NotContains(t, eventTypes(res.Events), event.PlayerHit)
	assert.Zero(t, shots.Len())
}

func TestTick_ShieldAbsorbsHits(t *testing.T) {
	m := newTestMatch(t)
	p := m.player
	m.powerups.Apply(object.PowerUpShield, m.state.Clock, p)

	m.director.Shots().Spawn(object.NewProjectile(object.SideEnemy, p.X+20, p.Y+20, 4, 8, 0, 5, 1))
	res := m.Tick(frame, object.Control{})

	assert.Equal(t, config.InitialLives, res.State.Lives)
	assert.Zero(t, m.director.Shots().Len())
}

func TestTick_RammingDestroysEnemyWithoutPoints(t *testing.T) {
	m := newTestMatch(t)
	p := m.player
	tank := m.director.SpawnEnemy(object.KindTank, p.X, p.Y, 0)

	res := m.Tick(frame, object.Control{})

	assert.True(t, tank.IsDestroyed())
	assert.Equal(t, 0, tank.Health)
	assert.Equal(t, 0, res.State.Score)
	assert.Equal(t, 2, res.State.Lives)
	assert.Contains(t, eventTypes(res.Events), event.PlayerHit)
	assert.Contains(t, eventTypes(res.Events), event.Explosion)
}

func TestTick_HealthPickupRestoresLife(t *testing.T) {
	m := newTestMatch(t)
	m.powerups.Apply(object.PowerUpHealth, 0, m.player)

	res := m.Tick(frame, object.Control{})

	assert.Equal(t, config.InitialLives+1, res.State.Lives)
	e, ok := findEvent(res.Events, event.HealthRestore)
	require.True(t, ok)
	assert.Equal(t, 1, e.Amount)
}

func TestTick_BombClearsEnemies(t *testing.T) {
	m := newTestMatch(t)
	for i := range 3 {
		m.director.SpawnEnemy(object.KindBasic, float64(i*100), 50, 0)
	}
	m.powerups.Apply(object.PowerUpBomb, 0, m.player)

	res := m.Tick(frame, object.Control{})

	e, ok := findEvent(res.Events, event.BombUsed)
	require.True(t, ok)
	assert.Equal(t, 3, e.Amount)
	assert.Equal(t, 3*config.BombScorePerEnemy, res.State.Score)
	assert.Empty(t, m.director.Enemies())
}

func TestTick_PowerUpCollectedThroughTick(t *testing.T) {
	m := newTestMatch(t)
	p := m.player
	pu := m.powerups.Spawn(object.PowerUpTripleShot, p.X)
	pu.Y = p.Y

	res := m.Tick(frame, object.Control{})

	assert.Contains(t, eventTypes(res.Events), event.PowerUp)
	assert.True(t, p.Modifiers.TripleShot)

	snap := m.Snapshot()
	require.Len(t, snap.Effects, 1)
	assert.Equal(t, "Triple Shot", snap.Effects[0].Name)
	assert.Equal(t, config.TripleShotDuration, snap.Effects[0].Remaining)
}

func TestTick_GameOver(t *testing.T) {
	m := newTestMatch(t)
	m.state.Lives = 1
	p := m.player
	m.director.Shots().Spawn(object.NewProjectile(object.SideEnemy, p.X+20, p.Y+20, 4, 8, 0, 5, 1))

	res := m.Tick(frame, object.Control{})
	assert.Equal(t, Over, res.State.Status)
	assert.Equal(t, 0, res.State.Lives)
	assert.Contains(t, eventTypes(res.Events), event.GameOver)

	frozen := m.State()
	res = m.Tick(frame, object.Control{Fire: true})
	assert.Empty(t, res.Events)
	assert.Equal(t, frozen, res.State)

	assert.Equal(t, Result{Score: 0, Level: 1, Difficulty: Normal}, m.Result())
}

func TestTick_ClampsLargeDelta(t *testing.T) {
	m := newTestMatch(t)
	res := m.Tick(5*time.Second, object.Control{})
	assert.Equal(t, config.MaxTickDelta, res.State.Clock)
	assert.Equal(t, int64(1), res.State.Frame)

	res = m.Tick(-time.Second, object.Control{})
	assert.Equal(t, config.MaxTickDelta, res.State.Clock)
}

func TestPauseResume_FreezesEffectTime(t *testing.T) {
	m := newTestMatch(t)
	m.Tick(frame, object.Control{})
	m.powerups.Apply(object.PowerUpShield, m.state.Clock, m.player)
	before := m.Snapshot().Effects[0].Remaining

	m.Pause()
	assert.Equal(t, Paused, m.Status())
	for range 1000 {
		res := m.Tick(frame, object.Control{Fire: true})
		assert.Empty(t, res.Events)
	}
	assert.Equal(t, before, m.Snapshot().Effects[0].Remaining)
	assert.Zero(t, m.player.Shots.Len())

	m.Resume()
	assert.Equal(t, Playing, m.Status())
	m.Tick(frame, object.Control{})
	assert.Equal(t, before-frame, m.Snapshot().Effects[0].Remaining)
}

func TestPause_OnlyFromPlaying(t *testing.T) {
	m := newTestMatch(t)
	m.Resume()
	assert.Equal(t, Playing, m.Status())

	m.state.Status = Over
	m.Pause()
	assert.Equal(t, Over, m.Status())
}

func TestRestart_ResetsEverySubsystem(t *testing.T) {
	m := newTestMatch(t)
	m.state.Score = 1234
	m.state.Lives = 1
	m.director.SpawnEnemy(object.KindBasic, 0, 0, 0)
	m.powerups.Apply(object.PowerUpShield, 0, m.player)
	m.particles.Explosion(0, 10, 10, 5)
	for range 10 {
		m.Tick(frame, object.Control{Fire: true})
	}

	m.Restart()

	st := m.State()
	assert.Equal(t, newState(Normal), st)
	snap := m.Snapshot()
	assert.Empty(t, snap.Enemies)
	assert.Empty(t, snap.PlayerShots)
	assert.Empty(t, snap.EnemyShots)
	assert.Empty(t, snap.PowerUps)
	assert.Empty(t, snap.Particles)
	assert.Empty(t, snap.Effects)
	assert.Equal(t, object.Modifiers{}, snap.Player.Modifiers)
	assert.Equal(t, config.SpecialPowerStart, snap.Player.SpecialPower)
	assert.Zero(t, m.particles.Pending())
}

func TestSetDifficulty(t *testing.T) {
	m := newTestMatch(t)
	m.Tick(frame, object.Control{})
	m.SetDifficulty(Insane)

	assert.Equal(t, Insane, m.State().Difficulty)
	assert.Equal(t, int64(0), m.State().Frame)
}

func TestMatch_SameSeedSameGame(t *testing.T) {
	run := func() Snapshot {
		m := New(Options{Difficulty: Hard, Rand: rand.New(rand.NewSource(99))})
		for i := range 1800 {
			c := object.Control{
				Fire:  true,
				Left:  (i/90)%2 == 0,
				Right: (i/90)%2 == 1,
				Boost: i%300 < 30,
			}
			if m.Tick(frame, c).State.Status == Over {
				break
			}
		}
		return m.Snapshot()
	}

	assert.Equal(t, run(), run())
}

func TestMatch_LongRunKeepsInvariants(t *testing.T) {
	m := New(Options{Difficulty: Insane, Rand: rand.New(rand.NewSource(5))})
	lastWave := 1
	for i := range 60 * 120 {
		res := m.Tick(frame, object.Control{Fire: true, Special: i%600 == 0})
		st := res.State

		require.GreaterOrEqual(t, st.Wave, lastWave)
		lastWave = st.Wave
		require.GreaterOrEqual(t, m.player.SpecialPower, 0.0)
		require.LessOrEqual(t, m.player.SpecialPower, config.SpecialPowerMax)
		for _, e := range m.director.Enemies() {
			require.GreaterOrEqual(t, e.Health, 0)
			require.False(t, e.IsDestroyed())
		}
		if st.Status == Over {
			break
		}
	}
	assert.Greater(t, lastWave, 1)
}
