package object

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// EnemyKind names an enemy variant.
type EnemyKind string

const (
	KindBasic EnemyKind = "basic"
	KindFast  EnemyKind = "fast"
	KindTank  EnemyKind = "tank"
	KindBoss  EnemyKind = "boss"
)

// EnemyKinds lists every kind in stable order.
var EnemyKinds = []EnemyKind{KindBasic, KindFast, KindTank, KindBoss}

// EnemyStats are the immutable per-kind attributes fixed at spawn time.
type EnemyStats struct {
	Width        float64       `yaml:"width"`
	Height       float64       `yaml:"height"`
	Speed        float64       `yaml:"speed"`        // Units per reference frame
	Health       int           `yaml:"health"`       // Max health
	Points       int           `yaml:"points"`       // Score awarded on kill
	FireCooldown time.Duration `yaml:"fireCooldown"` // Minimum time between shots
	Color        string        `yaml:"color"`
}

// StatTable maps kinds to their stats.
type StatTable map[EnemyKind]EnemyStats

type statFile struct {
	Enemies StatTable `yaml:"enemies"`
}

//go:embed enemies.yaml
var defaultStatsYAML []byte

var defaultStats = mustLoadDefaultStats()

func mustLoadDefaultStats() StatTable {
	t, err := LoadStatTable(defaultStatsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded enemy stats: %v", err))
	}
	return t
}

// DefaultStats returns the embedded stat table.
func DefaultStats() StatTable {
	return defaultStats
}

// LoadStatTable parses and validates a YAML stat table.
func LoadStatTable(data []byte) (StatTable, error) {
	var f statFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse enemy stats: %w", err)
	}
	if err := f.Enemies.Validate(); err != nil {
		return nil, fmt.Errorf("invalid enemy stats: %w", err)
	}
	return f.Enemies, nil
}

// Validate checks that every known kind is present with sane values.
func (t StatTable) Validate() error {
	for _, kind := range EnemyKinds {
		s, ok := t[kind]
		if !ok {
			return fmt.Errorf("enemy %s: missing", kind)
		}
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("enemy %s: size must be positive, got %vx%v", kind, s.Width, s.Height)
		}
		if s.Speed < 0 {
			return fmt.Errorf("enemy %s: speed cannot be negative, got %v", kind, s.Speed)
		}
		if s.Health < 1 {
			return fmt.Errorf("enemy %s: health must be at least 1, got %d", kind, s.Health)
		}
		if s.Points < 0 {
			return fmt.Errorf("enemy %s: points cannot be negative, got %d", kind, s.Points)
		}
		if s.FireCooldown <= 0 {
			return fmt.Errorf("enemy %s: fireCooldown must be positive, got %v", kind, s.FireCooldown)
		}
	}
	return nil
}

// Get returns the stats for a kind. Unknown kinds yield zero stats and false.
func (t StatTable) Get(kind EnemyKind) (EnemyStats, bool) {
	s, ok := t[kind]
	return s, ok
}
