package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	base := Rect{X: 10, Y: 10, W: 20, H: 20}

	tests := []struct {
		name     string
		other    Rect
		expected bool
	}{
		{"identical", base, true},
		{"contained", Rect{X: 15, Y: 15, W: 2, H: 2}, true},
		{"partial overlap", Rect{X: 25, Y: 25, W: 20, H: 20}, true},
		{"touching right edge", Rect{X: 30, Y: 10, W: 5, H: 5}, false},
		{"touching bottom edge", Rect{X: 10, Y: 30, W: 5, H: 5}, false},
		{"far away", Rect{X: 100, Y: 100, W: 5, H: 5}, false},
		{"above", Rect{X: 10, Y: -20, W: 20, H: 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(base, tt.other))
			assert.Equal(t, tt.expected, Overlaps(tt.other, base), "overlap must be symmetric")
		})
	}
}

func TestRectCenter(t *testing.T) {
	x, y := Rect{X: 10, Y: 20, W: 40, H: 60}.Center()
	assert.Equal(t, 30.0, x)
	assert.Equal(t, 50.0, y)
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(0, 0, 3, 4), 0.001)
	assert.InDelta(t, 0.0, Distance(7, 7, 7, 7), 0.001)
}

func TestAngleTo(t *testing.T) {
	assert.InDelta(t, 0.0, AngleTo(0, 0, 10, 0), 1e-9)
	assert.InDelta(t, math.Pi/2, AngleTo(0, 0, 0, 10), 1e-9, "positive y is down")
	assert.InDelta(t, math.Pi, AngleTo(0, 0, -10, 0), 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(150, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}
