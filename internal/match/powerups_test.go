package match

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starstrike/internal/event"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/object"
)

func newTestScheduler() (*Scheduler, *object.Player) {
	return NewScheduler(rand.New(rand.NewSource(3))), object.NewPlayer(object.DefaultArena())
}

func TestScheduler_ShieldRefreshDoesNotStack(t *testing.T) {
	s, p := newTestScheduler()

	s.Apply(object.PowerUpShield, 1*time.Second, p)
	s.Apply(object.PowerUpShield, 4*time.Second, p)

	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, 4*time.Second+config.ShieldDuration, active[0].Expires)
	assert.True(t, p.Modifiers.Shield)

	// The first collection's expiry passes without reverting the shield
	s.Expire(1*time.Second+config.ShieldDuration, p)
	assert.True(t, p.Modifiers.Shield)
	assert.Len(t, s.Active(), 1)

	s.Expire(4*time.Second+config.ShieldDuration, p)
	assert.False(t, p.Modifiers.Shield)
	assert.Empty(t, s.Active())
}

func TestScheduler_TimedEffectsSetModifiers(t *testing.T) {
	tests := []struct {
		kind     object.PowerUpKind
		duration time.Duration
		get      func(object.Modifiers) bool
	}{
		{object.PowerUpRapidFire, config.RapidFireDuration, func(m object.Modifiers) bool { return m.RapidFire }},
		{object.PowerUpShield, config.ShieldDuration, func(m object.Modifiers) bool { return m.Shield }},
		{object.PowerUpTripleShot, config.TripleShotDuration, func(m object.Modifiers) bool { return m.TripleShot }},
		{object.PowerUpSpeedBoost, config.SpeedBoostDuration, func(m object.Modifiers) bool { return m.SpeedBoost }},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s, p := newTestScheduler()
			s.Apply(tt.kind, 0, p)
			assert.True(t, tt.get(p.Modifiers))

			s.Expire(tt.duration-time.Millisecond, p)
			assert.True(t, tt.get(p.Modifiers))

			s.Expire(tt.duration, p)
			assert.False(t, tt.get(p.Modifiers))
		})
	}
}

func TestScheduler_InstantEffectsQueue(t *testing.T) {
	s, p := newTestScheduler()
	s.Apply(object.PowerUpHealth, 0, p)
	s.Apply(object.PowerUpBomb, 0, p)
	s.Apply(object.PowerUpBomb, 0, p)

	assert.Empty(t, s.Active())
	assert.Equal(t, Instant{Health: 1, Bombs: 2}, s.TakeInstant())
	assert.Equal(t, Instant{}, s.TakeInstant(), "taking clears the queue")
}

func TestScheduler_SpawnCadence(t *testing.T) {
	s, p := newTestScheduler()
	// Keep the player out of the drop zone
	p.Y = 1000

	ctx := object.UpdateContext{Delta: frame, Arena: object.DefaultArena()}

	ctx.Now = config.PowerUpInterval
	s.Update(ctx, p)
	assert.Empty(t, s.PowerUps())

	ctx.Now += time.Millisecond
	s.Update(ctx, p)
	require.Len(t, s.PowerUps(), 1)

	pu := s.PowerUps()[0]
	assert.GreaterOrEqual(t, pu.X, float64(config.PowerUpSize))
	assert.LessOrEqual(t, pu.X, object.DefaultArena().Width-config.PowerUpSize)
	assert.InDelta(t, config.PowerUpSpawnY+config.PowerUpFallSpeed, pu.Y, 1e-6)
}

func TestScheduler_CollectionAppliesOnce(t *testing.T) {
	s, p := newTestScheduler()
	var q event.Queue
	ctx := object.UpdateContext{Delta: frame, Now: time.Second, Arena: object.DefaultArena(), Events: &q}

	pu := s.Spawn(object.PowerUpRapidFire, p.X)
	pu.Y = p.Y
	s.Update(ctx, p)

	assert.True(t, p.Modifiers.RapidFire)
	assert.Empty(t, s.PowerUps())
	require.Len(t, s.Active(), 1)
	assert.Equal(t, "Rapid Fire", s.Active()[0].Name)

	events := q.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, event.PowerUp, events[0].Type)
}

func TestScheduler_MissedPowerUpHasNoEffect(t *testing.T) {
	s, p := newTestScheduler()
	a := object.DefaultArena()
	ctx := object.UpdateContext{Delta: frame, Arena: a}

	pu := s.Spawn(object.PowerUpShield, 0)
	pu.Y = a.Height + config.PowerUpCullMargin
	p.X = a.Width - p.W

	s.Update(ctx, p)
	assert.Empty(t, s.PowerUps())
	assert.False(t, p.Modifiers.Shield)
	assert.Empty(t, s.Active())
}

func TestScheduler_Reset(t *testing.T) {
	s, p := newTestScheduler()
	s.Spawn(object.PowerUpBomb, 100)
	s.Apply(object.PowerUpShield, 0, p)
	s.Apply(object.PowerUpHealth, 0, p)

	s.Reset(time.Minute)
	assert.Empty(t, s.PowerUps())
	assert.Empty(t, s.Active())
	assert.Equal(t, Instant{}, s.TakeInstant())
}
