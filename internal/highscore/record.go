// Package highscore persists finished matches and serves the leaderboard.
package highscore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/match"
)

var (
	// ErrInvalidRecord is returned when a record fails validation.
	ErrInvalidRecord = errors.New("invalid high score record")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("high score not found")
)

// Record is one leaderboard entry.
type Record struct {
	ID         uuid.UUID        `json:"id" yaml:"id"`
	Name       string           `json:"name" yaml:"name"`
	Score      int              `json:"score" yaml:"score"`
	Level      int              `json:"level" yaml:"level"`
	Difficulty match.Difficulty `json:"difficulty" yaml:"difficulty"`
	CreatedAt  time.Time        `json:"createdAt" yaml:"createdAt"`
}

// NewRecord creates a record for a finished match under the given name.
func NewRecord(name string, r match.Result) Record {
	return Record{
		ID:         uuid.New(),
		Name:       NormalizeName(name),
		Score:      r.Score,
		Level:      r.Level,
		Difficulty: r.Difficulty,
		CreatedAt:  time.Now().UTC(),
	}
}

// NormalizeName upper-cases and trims a player name, drops control
// characters and truncates it to MaxNameLength runes. Blank names become
// DefaultName.
func NormalizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, strings.TrimSpace(name))

	runes := []rune(name)
	if len(runes) > config.MaxNameLength {
		runes = runes[:config.MaxNameLength]
	}
	name = strings.TrimSpace(string(runes))
	if name == "" {
		return config.DefaultName
	}
	return name
}

// Validate checks that the record can be stored.
func (r Record) Validate() error {
	switch {
	case r.Name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidRecord)
	case len([]rune(r.Name)) > config.MaxNameLength:
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidRecord, config.MaxNameLength)
	case r.Score < 0:
		return fmt.Errorf("%w: negative score", ErrInvalidRecord)
	case r.Level < 1:
		return fmt.Errorf("%w: level must be at least 1", ErrInvalidRecord)
	}
	if _, err := match.ParseDifficulty(string(r.Difficulty)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// Store persists high-score records.
type Store interface {
	// Submit validates and stores a record.
	Submit(ctx context.Context, r Record) error
	// Top returns at most limit records, best first.
	Top(ctx context.Context, limit int) ([]Record, error)
	// Get looks up one record by ID.
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	// Close releases store resources.
	Close() error
}

// Open returns a PostgreSQL store for databaseURL, or an in-memory store
// when databaseURL is empty.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	if databaseURL == "" {
		return NewMemoryStore(), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}

// sortRecords orders by score descending, then by the earlier submission.
func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return config.HighScoreLimit
	}
	return min(limit, config.HighScoreMaxLimit)
}
