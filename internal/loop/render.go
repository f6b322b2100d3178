package loop

import (
	"math"

	"github.com/tomz197/starstrike/internal/draw"
	"github.com/tomz197/starstrike/internal/match"
	"github.com/tomz197/starstrike/internal/object"
)

// Entity colors.
var (
	shipColor        = draw.Cyan
	flameColor       = draw.Color{R: 255, G: 140, B: 0}
	shieldColor      = draw.Color{R: 0, G: 160, B: 255}
	playerShotColor  = draw.Yellow
	specialShotColor = draw.Color{R: 0, G: 255, B: 200}
	enemyShotColor   = draw.Color{R: 255, G: 80, B: 80}
	healthBackColor  = draw.Color{R: 80, G: 0, B: 0}
	healthColor      = draw.Green
	smokeColor       = draw.Gray
	starColor        = draw.Color{R: 255, G: 230, B: 120}
)

const (
	shieldSegments  = 16
	healthBarHeight = 4
	healthBarGap    = 8
)

// drawWorld rasterizes a snapshot onto the canvas.
func drawWorld(c *draw.Canvas, snap *match.Snapshot) {
	for i := range snap.Particles {
		drawParticle(c, &snap.Particles[i])
	}
	for i := range snap.PowerUps {
		p := &snap.PowerUps[i]
		c.SetColor(draw.HexOr(p.Color, draw.White).Scale(0.5))
		c.FillRect(p.X, p.Y, p.W, p.H)
	}
	for i := range snap.Enemies {
		drawEnemy(c, &snap.Enemies[i])
	}
	for i := range snap.PlayerShots {
		s := &snap.PlayerShots[i]
		if s.Special {
			c.SetColor(specialShotColor)
		} else {
			c.SetColor(playerShotColor)
		}
		c.FillRect(s.X, s.Y, s.W, s.H)
	}
	c.SetColor(enemyShotColor)
	for i := range snap.EnemyShots {
		s := &snap.EnemyShots[i]
		c.FillRect(s.X, s.Y, s.W, s.H)
	}
	drawPlayer(c, &snap.Player)
}

// drawPlayer draws the ship as an arrowhead pointing up, with an exhaust
// flame while moving and a ring while shielded.
func drawPlayer(c *draw.Canvas, p *match.PlayerView) {
	if !p.Visible {
		return
	}
	cx := p.X + p.W/2

	if p.Moving {
		c.SetColor(flameColor)
		flame := c.BorrowPoints(3)
		flame[0] = draw.Point{X: cx - p.W/6, Y: p.Y + p.H*0.8}
		flame[1] = draw.Point{X: cx + p.W/6, Y: p.Y + p.H*0.8}
		flame[2] = draw.Point{X: cx, Y: p.Y + p.H*1.15}
		c.DrawPolygon(flame, true)
	}

	c.SetColor(shipColor)
	hull := c.BorrowPoints(4)
	hull[0] = draw.Point{X: cx, Y: p.Y}
	hull[1] = draw.Point{X: p.X + p.W, Y: p.Y + p.H}
	hull[2] = draw.Point{X: cx, Y: p.Y + p.H*0.75}
	hull[3] = draw.Point{X: p.X, Y: p.Y + p.H}
	c.DrawPolygon(hull, true)

	if p.Modifiers.Shield {
		c.SetColor(shieldColor)
		r := math.Max(p.W, p.H) * 0.7
		cy := p.Y + p.H/2
		ring := c.BorrowPoints(shieldSegments)
		for i := range ring {
			a := float64(i) / shieldSegments * 2 * math.Pi
			ring[i] = draw.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
		}
		c.DrawPolygon(ring, false)
	}
}

// drawEnemy fills the enemy box in its kind color, white while flashing,
// with a health bar above damaged multi-hit enemies.
func drawEnemy(c *draw.Canvas, e *match.EnemyView) {
	if e.Flashing {
		c.SetColor(draw.White)
	} else {
		c.SetColor(draw.HexOr(e.Color, draw.Red))
	}
	c.FillRect(e.X, e.Y, e.W, e.H)

	if e.MaxHealth <= 1 || e.Health >= e.MaxHealth {
		return
	}
	y := e.Y - healthBarGap
	c.SetColor(healthBackColor)
	c.FillRect(e.X, y, e.W, healthBarHeight)
	c.SetColor(healthColor)
	c.FillRect(e.X, y, e.W*e.Fraction, healthBarHeight)
}

func drawParticle(c *draw.Canvas, p *match.ParticleView) {
	var col draw.Color
	switch p.Kind {
	case object.ParticleSmoke.String():
		col = smokeColor
	case object.ParticleStar.String():
		col = starColor
	default:
		col = draw.FromHue(p.Hue)
	}

	if len(p.Trail) > 1 {
		c.SetColor(col.Scale(p.Alpha * 0.5))
		for i := 1; i < len(p.Trail); i++ {
			a, b := p.Trail[i-1], p.Trail[i]
			c.DrawLine(draw.Point{X: a.X, Y: a.Y}, draw.Point{X: b.X, Y: b.Y})
		}
	}

	c.SetColor(col.Scale(p.Alpha))
	c.FillRect(p.X-p.Size/2, p.Y-p.Size/2, p.Size, p.Size)
}

// drawPowerUpIcons writes each power-up's icon over its box. Runs after
// Canvas.Render and marks the cells so the next frame repaints them.
func (s *Session) drawPowerUpIcons() {
	termWidth := s.canvas.TerminalWidth()
	termHeight := s.canvas.TerminalHeight()
	for i := range s.snapshot.PowerUps {
		p := &s.snapshot.PowerUps[i]
		col, row := s.canvas.LogicalToTerminal(p.X+p.W/2, p.Y+p.H/2)
		if col < 1 || col > termWidth || row < 1 || row > termHeight {
			continue
		}
		s.chunkWriter.WriteColorAt(col, row, p.Icon, draw.HexOr(p.Color, draw.White))
		s.canvas.MarkTextDirty(col, row, 1)
	}
}
