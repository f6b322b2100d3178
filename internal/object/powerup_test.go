package object

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomz197/starstrike/internal/loop/config"
)

func TestPowerUp_FallsAndCulls(t *testing.T) {
	a := DefaultArena()
	p := NewPowerUp(PowerUpShield, 100, a.Height+config.PowerUpCullMargin-1)

	assert.False(t, p.IsOffScreen(a))
	p.Update(frameCtx(0))
	assert.InDelta(t, a.Height+config.PowerUpCullMargin+1, p.Y, 1e-6)
	assert.True(t, p.IsOffScreen(a))
	assert.False(t, p.IsDestroyed(), "falling off screen applies nothing")
}

func TestPowerUp_CollectOnce(t *testing.T) {
	p := NewPowerUp(PowerUpBomb, 0, 0)
	assert.True(t, p.Collect())
	assert.False(t, p.Collect())
	assert.True(t, p.IsDestroyed())
}

func TestEffectFor(t *testing.T) {
	tests := []struct {
		kind  PowerUpKind
		timed bool
		name  string
	}{
		{PowerUpHealth, false, "Health"},
		{PowerUpBomb, false, "Bomb"},
		{PowerUpRapidFire, true, "Rapid Fire"},
		{PowerUpShield, true, "Shield"},
		{PowerUpTripleShot, true, "Triple Shot"},
		{PowerUpSpeedBoost, true, "Speed Boost"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e, ok := EffectFor(tt.kind)
			assert.True(t, ok)
			assert.Equal(t, tt.timed, e.Timed())
			assert.Equal(t, tt.name, e.Name)
		})
	}

	_, ok := EffectFor("laser")
	assert.False(t, ok)
	assert.Len(t, PowerUpKinds, 6)
}
