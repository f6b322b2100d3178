package object

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStats(t *testing.T) {
	stats := DefaultStats()
	require.NoError(t, stats.Validate())

	tests := []struct {
		kind     EnemyKind
		w, h     float64
		speed    float64
		health   int
		points   int
		cooldown time.Duration
	}{
		{KindBasic, 40, 40, 2, 1, 100, 2000 * time.Millisecond},
		{KindFast, 30, 30, 4, 1, 150, 3000 * time.Millisecond},
		{KindTank, 60, 60, 1, 5, 300, 1500 * time.Millisecond},
		{KindBoss, 120, 80, 0.5, 20, 1000, 800 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s, ok := stats.Get(tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.w, s.Width)
			assert.Equal(t, tt.h, s.Height)
			assert.Equal(t, tt.speed, s.Speed)
			assert.Equal(t, tt.health, s.Health)
			assert.Equal(t, tt.points, s.Points)
			assert.Equal(t, tt.cooldown, s.FireCooldown)
			assert.NotEmpty(t, s.Color)
		})
	}
}

func TestLoadStatTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"malformed", "enemies: [", "failed to parse"},
		{"missing kind", `
enemies:
  basic: {width: 40, height: 40, speed: 2, health: 1, points: 100, fireCooldown: 2s}
`, "enemy fast: missing"},
		{"zero health", `
enemies:
  basic: {width: 40, height: 40, speed: 2, health: 0, points: 100, fireCooldown: 2s}
  fast: {width: 30, height: 30, speed: 4, health: 1, points: 150, fireCooldown: 3s}
  tank: {width: 60, height: 60, speed: 1, health: 5, points: 300, fireCooldown: 1500ms}
  boss: {width: 120, height: 80, speed: 0.5, health: 20, points: 1000, fireCooldown: 800ms}
`, "health must be at least 1"},
		{"no cooldown", `
enemies:
  basic: {width: 40, height: 40, speed: 2, health: 1, points: 100}
  fast: {width: 30, height: 30, speed: 4, health: 1, points: 150, fireCooldown: 3s}
  tank: {width: 60, height: 60, speed: 1, health: 5, points: 300, fireCooldown: 1500ms}
  boss: {width: 120, height: 80, speed: 0.5, health: 20, points: 1000, fireCooldown: 800ms}
`, "fireCooldown must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStatTable([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
