package repo

import (
	"gitlet/internal/content"
	"gitlet/internal/diff"
	"gitlet/shared/utils"
)

type ChangeKind string

const (
	ChangeModified ChangeKind = "modified"
	ChangeDeleted  ChangeKind = "deleted"
)

// UnstagedChange is a working file that differs from what the next commit
// would record for it.
type UnstagedChange struct {
	Name string
	Kind ChangeKind
}

// Status is a read-only view of the repository. Every list is sorted.
type Status struct {
	Branches  []string
	Current   string
	Staged    []string
	Removed   []string
	Unstaged  []UnstagedChange
	Untracked []string
}

func (r *Repo) Status() (*Status, error) {
	head, err := r.Graph.HeadCommit()
	if err != nil {
		return nil, err
	}
	working, err := r.Dir.ReadAll()
	if err != nil {
		return nil, err
	}

	st := &Status{
		Branches: r.Graph.Branches(),
		Current:  r.Graph.Current(),
		Staged:   r.Stage.AddedNames(),
		Removed:  r.Stage.RemovedNames(),
	}

	// Staged additions are compared with their staged blob, tracked files
	// with HEAD's.
	expected := map[string]string{}
	for name, id := range head.Blobs {
		if !r.Stage.IsRemoved(name) {
			expected[name] = id
		}
	}
	for name, id := range r.Stage.Added {
		expected[name] = id
	}

	for _, name := range utils.SortedKeys(expected) {
		data, ok := working[name]
		switch {
		case !ok:
			st.Unstaged = append(st.Unstaged, UnstagedChange{Name: name, Kind: ChangeDeleted})
		case content.BlobID(data) != expected[name]:
			st.Unstaged = append(st.Unstaged, UnstagedChange{Name: name, Kind: ChangeModified})
		}
	}

	for _, name := range utils.SortedKeys(working) {
		if _, ok := expected[name]; !ok {
			st.Untracked = append(st.Untracked, name)
		}
	}
	return st, nil
}

// Diff compares the working copies of names with HEAD. With no names it
// covers every file HEAD tracks or the staging area adds.
func (r *Repo) Diff(names ...string) ([]*diff.FileDiff, error) {
	head, err := r.Graph.HeadCommit()
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		set := map[string]bool{}
		for name := range head.Blobs {
			set[name] = true
		}
		for name := range r.Stage.Added {
			set[name] = true
		}
		names = utils.SortedKeys(set)
	}

	var diffs []*diff.FileDiff
	for _, name := range names {
		var before, after diff.Version
		if id, ok := head.Tracks(name); ok {
			data, err := r.Objects.Content(id)
			if err != nil {
				return nil, err
			}
			before = diff.Version{Content: data, Exists: true}
		}
		if r.Dir.Exists(name) {
			data, err := r.Dir.Read(name)
			if err != nil {
				return nil, err
			}
			after = diff.Version{Content: data, Exists: true}
		}

		fd, err := r.differ.Diff(name, before, after)
		if err != nil {
			return nil, err
		}
		if fd != nil {
			diffs = append(diffs, fd)
		}
	}
	return diffs, nil
}
