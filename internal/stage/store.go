package stage

import (
	"errors"
	"fmt"

	"gitlet/internal/storage"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Store persists the staging area as a single record.
type Store struct {
	records *storage.BadgerStore
	logger  *zap.Logger
}

func NewStore(db *badger.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		records: storage.NewBadgerStore(db, "stage"),
		logger:  logger,
	}
}

// Load returns the saved area, or an empty one if nothing was saved yet.
func (s *Store) Load() (*Area, error) {
	area := NewArea()
	if err := s.records.Get(recordID, area); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return NewArea(), nil
		}
		return nil, fmt.Errorf("loading staging area: %w", err)
	}

	if area.Added == nil {
		area.Added = map[string]string{}
	}
	if area.Removed == nil {
		area.Removed = map[string]string{}
	}
	if err := area.Validate(); err != nil {
		return nil, fmt.Errorf("loading staging area: %w", err)
	}
	return area, nil
}

func (s *Store) Save(area *Area) error {
	if err := area.Validate(); err != nil {
		return err
	}
	if err := s.records.Put(area); err != nil {
		return fmt.Errorf("saving staging area: %w", err)
	}

	s.logger.Debug("saved staging area",
		zap.Int("added", len(area.Added)),
		zap.Int("removed", len(area.Removed)))
	return nil
}
