package graph

import (
	"errors"
	"fmt"

	gerr "gitlet/internal/errors"
	"gitlet/internal/storage"

	"github.com/dgraph-io/badger/v4"
)

// Store persists graph State as one record.
type Store struct {
	records *storage.BadgerStore
}

func NewStore(db *badger.DB) *Store {
	return &Store{records: storage.NewBadgerStore(db, "graph")}
}

// Load fails with ErrNotInitialized when no state was ever saved.
func (s *Store) Load() (*State, error) {
	var state State
	if err := s.records.Get(recordID, &state); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, gerr.ErrNotInitialized
		}
		return nil, fmt.Errorf("loading graph state: %w", err)
	}
	if state.Branches == nil {
		state.Branches = map[string]string{}
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("loading graph state: %w", err)
	}
	return &state, nil
}

func (s *Store) Save(state *State) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("saving graph state: %w", err)
	}
	if err := s.records.Put(state); err != nil {
		return fmt.Errorf("saving graph state: %w", err)
	}
	return nil
}
