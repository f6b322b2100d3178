package highscore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/tomz197/starstrike/internal/loop/config"
)

// Storage location inside the gdata app directory.
const (
	localObject   = "highscores"
	localProperty = "table"
)

// AppName is the gdata application name used by the offline game.
const AppName = "starstrike"

// localTable is the on-disk leaderboard.
type localTable struct {
	Records []Record `yaml:"records"`
}

// LocalStore keeps the leaderboard in the platform data directory through
// gdata. A nil manager keeps records in memory only.
type LocalStore struct {
	mu      sync.Mutex
	manager *gdata.Manager
	mem     *MemoryStore
}

var _ Store = (*LocalStore)(nil)

// OpenLocalStore opens the per-user leaderboard for appName.
func OpenLocalStore(appName string) (*LocalStore, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	return NewLocalStore(manager)
}

// NewLocalStore loads any saved leaderboard from manager.
func NewLocalStore(manager *gdata.Manager) (*LocalStore, error) {
	s := &LocalStore{manager: manager, mem: NewMemoryStore()}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) load() error {
	if s.manager == nil || !s.manager.ObjectPropExists(localObject, localProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(localObject, localProperty)
	if err != nil {
		return fmt.Errorf("failed to load high scores: %w", err)
	}
	var table localTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("failed to unmarshal high scores: %w", err)
	}
	for _, r := range table.Records {
		// Hand-edited files may hold invalid rows; skip them
		if r.Validate() != nil {
			continue
		}
		s.mem.records = append(s.mem.records, r)
	}
	sortRecords(s.mem.records)
	return nil
}

func (s *LocalStore) save() error {
	if s.manager == nil {
		return nil
	}
	s.mem.mu.RLock()
	data, err := yaml.Marshal(localTable{Records: s.mem.records})
	s.mem.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal high scores: %w", err)
	}
	if err := s.manager.SaveObjectProp(localObject, localProperty, data); err != nil {
		return fmt.Errorf("failed to save high scores: %w", err)
	}
	return nil
}

// Submit stores r and writes the table back to disk. Only the best
// HighScoreMaxLimit records are kept.
func (s *LocalStore) Submit(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mem.Submit(ctx, r); err != nil {
		return err
	}
	s.mem.mu.Lock()
	if len(s.mem.records) > config.HighScoreMaxLimit {
		s.mem.records = s.mem.records[:config.HighScoreMaxLimit]
	}
	s.mem.mu.Unlock()
	return s.save()
}

// Top returns the best limit records.
func (s *LocalStore) Top(ctx context.Context, limit int) ([]Record, error) {
	return s.mem.Top(ctx, limit)
}

// Get returns the record with the given ID.
func (s *LocalStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	return s.mem.Get(ctx, id)
}

// Close is a no-op; every submission is already on disk.
func (s *LocalStore) Close() error {
	return nil
}
