// Package graph tracks branches, the current branch and HEAD over the commits
// held in the content store.
package graph

import (
	"fmt"

	"gitlet/shared/utils"
)

const (
	DefaultBranch  = "master"
	InitialMessage = "initial commit"

	recordID = "state"
)

// State is everything the graph persists. Head always equals
// Branches[Current].
type State struct {
	Branches map[string]string `json:"branches"`
	Current  string            `json:"current"`
	Head     string            `json:"head"`
}

func (s *State) GetID() string {
	return recordID
}

func (s *State) Validate() error {
	if s.Current == "" {
		return fmt.Errorf("no current branch")
	}
	id, ok := s.Branches[s.Current]
	if !ok {
		return fmt.Errorf("current branch %s does not exist", s.Current)
	}
	if id != s.Head {
		return fmt.Errorf("head %s does not match branch %s at %s", s.Head, s.Current, id)
	}
	return nil
}

// BranchNames returns the branch names in ascending order.
func (s *State) BranchNames() []string {
	return utils.SortedKeys(s.Branches)
}
