package match

import (
	"time"

	"github.com/tomz197/starstrike/internal/object"
	"github.com/tomz197/starstrike/internal/physics"
)

// Box is an axis-aligned rectangle in arena units.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func boxOf(r physics.Rect) Box {
	return Box{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// PlayerView is the read-only player state.
type PlayerView struct {
	Box
	Visible      bool             `json:"visible"`
	Moving       bool             `json:"moving"`
	SpecialPower float64          `json:"specialPower"`
	Modifiers    object.Modifiers `json:"modifiers"`
}

// EnemyView is the read-only state of one enemy.
type EnemyView struct {
	Box
	Kind      object.EnemyKind `json:"kind"`
	Color     string           `json:"color"`
	Health    int              `json:"health"`
	MaxHealth int              `json:"maxHealth"`
	Fraction  float64          `json:"fraction"`
	Flashing  bool             `json:"flashing"`
}

// ProjectileView is the read-only state of one projectile.
type ProjectileView struct {
	Box
	Angle   float64 `json:"angle"`
	Special bool    `json:"special,omitempty"`
}

// PowerUpView is the read-only state of one falling power-up.
type PowerUpView struct {
	Box
	Kind  object.PowerUpKind `json:"kind"`
	Color string             `json:"color"`
	Icon  string             `json:"icon"`
	Frame int                `json:"frame"`
}

// ParticleView is the read-only state of one particle.
type ParticleView struct {
	Kind  string              `json:"kind"`
	X     float64             `json:"x"`
	Y     float64             `json:"y"`
	Size  float64             `json:"size"`
	Alpha float64             `json:"alpha"`
	Hue   float64             `json:"hue,omitempty"`
	Trail []object.TrailPoint `json:"trail,omitempty"`
}

// EffectView is an active timed effect for the HUD.
type EffectView struct {
	Kind      object.PowerUpKind `json:"kind"`
	Name      string             `json:"name"`
	Remaining time.Duration      `json:"remaining"`
}

// Snapshot is a self-contained copy of everything a renderer needs.
type Snapshot struct {
	State       State            `json:"state"`
	Arena       object.Arena     `json:"arena"`
	Player      PlayerView       `json:"player"`
	Enemies     []EnemyView      `json:"enemies"`
	PlayerShots []ProjectileView `json:"playerShots"`
	EnemyShots  []ProjectileView `json:"enemyShots"`
	PowerUps    []PowerUpView    `json:"powerUps"`
	Particles   []ParticleView   `json:"particles"`
	Effects     []EffectView     `json:"effects"`
}

// Snapshot copies the current match state. It never aliases live entities.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		State: m.state,
		Arena: m.arena,
		Player: PlayerView{
			Box:          boxOf(m.player.Bounds()),
			Visible:      m.player.Visible(),
			Moving:       m.player.Moving(),
			SpecialPower: m.player.SpecialPower,
			Modifiers:    m.player.Modifiers,
		},
	}

	enemies := m.director.Enemies()
	s.Enemies = make([]EnemyView, 0, len(enemies))
	for _, e := range enemies {
		if e.IsDestroyed() {
			continue
		}
		s.Enemies = append(s.Enemies, EnemyView{
			Box:       boxOf(e.Bounds()),
			Kind:      e.Kind,
			Color:     e.Color,
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
			Fraction:  e.HealthFraction(),
			Flashing:  e.Flashing(),
		})
	}

	s.PlayerShots = projectileViews(m.player.Shots.Items())
	s.EnemyShots = projectileViews(m.director.Shots().Items())

	powerups := m.powerups.PowerUps()
	s.PowerUps = make([]PowerUpView, 0, len(powerups))
	for _, p := range powerups {
		eff := p.Effect()
		s.PowerUps = append(s.PowerUps, PowerUpView{
			Box:   boxOf(p.Bounds()),
			Kind:  p.Kind,
			Color: eff.Color,
			Icon:  string(eff.Icon),
			Frame: p.Frame,
		})
	}

	particles := m.particles.Particles()
	s.Particles = make([]ParticleView, 0, len(particles))
	for _, p := range particles {
		v := ParticleView{
			Kind:  p.Kind.String(),
			X:     p.X,
			Y:     p.Y,
			Size:  p.Size,
			Alpha: p.Alpha(),
			Hue:   p.Hue,
		}
		if tr := p.Trail(); len(tr) > 0 {
			v.Trail = append([]object.TrailPoint(nil), tr...)
		}
		s.Particles = append(s.Particles, v)
	}

	active := m.powerups.Active()
	s.Effects = make([]EffectView, 0, len(active))
	for _, a := range active {
		s.Effects = append(s.Effects, EffectView{
			Kind:      a.Kind,
			Name:      a.Name,
			Remaining: max(a.Expires-m.state.Clock, 0),
		})
	}

	return s
}

func projectileViews(items []*object.Projectile) []ProjectileView {
	out := make([]ProjectileView, 0, len(items))
	for _, p := range items {
		if p.IsDestroyed() {
			continue
		}
		out = append(out, ProjectileView{
			Box:     boxOf(p.Bounds()),
			Angle:   p.Angle,
			Special: p.Special,
		})
	}
	return out
}
