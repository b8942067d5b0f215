// Package stage holds the staging area: the additions and removals the next
// commit will apply on top of HEAD.
package stage

import (
	"fmt"

	gerr "gitlet/internal/errors"
	"gitlet/shared/utils"
)

const recordID = "area"

// RemoveAction tells the caller what StageRemove needs done to the working
// file.
type RemoveAction int

const (
	KeepWorking RemoveAction = iota
	DeleteWorking
)

// Area maps file names to blob ids. Removed holds a snapshot of each file
// staged for removal. A name is never in both sets.
type Area struct {
	Added   map[string]string `json:"added"`
	Removed map[string]string `json:"removed"`
}

func NewArea() *Area {
	return &Area{
		Added:   map[string]string{},
		Removed: map[string]string{},
	}
}

func (a *Area) GetID() string {
	return recordID
}

func (a *Area) Empty() bool {
	return len(a.Added) == 0 && len(a.Removed) == 0
}

func (a *Area) IsAdded(name string) bool {
	_, ok := a.Added[name]
	return ok
}

func (a *Area) IsRemoved(name string) bool {
	_, ok := a.Removed[name]
	return ok
}

// AddedNames and RemovedNames are sorted.
func (a *Area) AddedNames() []string {
	return utils.SortedKeys(a.Added)
}

func (a *Area) RemovedNames() []string {
	return utils.SortedKeys(a.Removed)
}

// StageAdd stages blobID as the next version of name. headBlobID is what HEAD
// tracks for name, empty when untracked. Matching HEAD undoes any earlier
// staged addition instead. Either way a pending removal of name is dropped.
// It reports whether name ends up staged.
func (a *Area) StageAdd(name, blobID, headBlobID string) bool {
	delete(a.Removed, name)

	if headBlobID != "" && blobID == headBlobID {
		delete(a.Added, name)
		return false
	}

	a.Added[name] = blobID
	return true
}

// StageRemove unstages and/or marks name for removal. tracked says whether
// HEAD tracks name; snapshot supplies the blob id recorded for the removal and
// is only called when one is needed.
func (a *Area) StageRemove(name string, tracked bool, snapshot func() (string, error)) (RemoveAction, error) {
	staged := a.IsAdded(name)

	switch {
	case staged && tracked:
		id, err := snapshot()
		if err != nil {
			return KeepWorking, err
		}
		delete(a.Added, name)
		a.Removed[name] = id
		return DeleteWorking, nil

	case staged:
		delete(a.Added, name)
		return KeepWorking, nil

	case tracked:
		id, err := snapshot()
		if err != nil {
			return KeepWorking, err
		}
		a.Removed[name] = id
		return DeleteWorking, nil

	default:
		return KeepWorking, gerr.ErrNothingToRemove
	}
}

func (a *Area) Clear() {
	a.Added = map[string]string{}
	a.Removed = map[string]string{}
}

func (a *Area) ClearRemoved() {
	a.Removed = map[string]string{}
}

// Validate checks the two sets are disjoint.
func (a *Area) Validate() error {
	for name := range a.Added {
		if _, ok := a.Removed[name]; ok {
			return fmt.Errorf("%s is staged for both addition and removal", name)
		}
	}
	return nil
}
