package merge

import (
	"bytes"
	"fmt"

	"gitlet/internal/content"
	"gitlet/shared/utils"
)

const (
	ConflictNotice     = "Encountered a merge conflict."
	FastForwardNotice  = "Current branch fast-forwarded."
	conflictHeadMarker = "<<<<<<< HEAD\n"
	conflictSeparator  = "=======\n"
	conflictEndMarker  = ">>>>>>>\n"
)

// Changes classifies one side's files against the split point.
type Changes struct {
	Modified   map[string]bool
	Added      map[string]bool
	Removed    map[string]bool
	Unmodified map[string]bool
}

func Classify(split, side *content.Commit) Changes {
	ch := Changes{
		Modified:   map[string]bool{},
		Added:      map[string]bool{},
		Removed:    map[string]bool{},
		Unmodified: map[string]bool{},
	}

	for name, id := range side.Blobs {
		base, ok := split.Tracks(name)
		switch {
		case !ok:
			ch.Added[name] = true
		case base != id:
			ch.Modified[name] = true
		default:
			ch.Unmodified[name] = true
		}
	}
	for name := range split.Blobs {
		if _, ok := side.Tracks(name); !ok {
			ch.Removed[name] = true
		}
	}
	return ch
}

// FileChange is a file to take from the other branch.
type FileChange struct {
	Name   string
	BlobID string
}

// Conflict holds both versions of a file; an empty id means that side has
// no version.
type Conflict struct {
	Name    string
	Current string
	Other   string
}

// Plan is what merging other into current does to the working directory and
// staging area. Names appear in at most one list; each list is sorted.
type Plan struct {
	Take      []FileChange
	Remove    []string
	Conflicts []Conflict
}

func (p *Plan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// Build plans a three-way merge. Files that conflict are never auto-applied.
func Build(split, current, other *content.Commit) *Plan {
	ours := Classify(split, current)
	theirs := Classify(split, other)

	conflicts := map[string]Conflict{}
	for name := range theirs.Modified {
		switch {
		case ours.Modified[name] && current.Blobs[name] != other.Blobs[name]:
			conflicts[name] = Conflict{Name: name, Current: current.Blobs[name], Other: other.Blobs[name]}
		case ours.Removed[name]:
			conflicts[name] = Conflict{Name: name, Other: other.Blobs[name]}
		}
	}
	for name := range ours.Modified {
		if theirs.Removed[name] {
			conflicts[name] = Conflict{Name: name, Current: current.Blobs[name]}
		}
	}
	for name := range theirs.Added {
		if ours.Added[name] && current.Blobs[name] != other.Blobs[name] {
			conflicts[name] = Conflict{Name: name, Current: current.Blobs[name], Other: other.Blobs[name]}
		}
	}

	plan := &Plan{}
	take := map[string]string{}
	for name := range theirs.Modified {
		if !ours.Modified[name] {
			take[name] = other.Blobs[name]
		}
	}
	for name := range theirs.Added {
		if !ours.Added[name] {
			take[name] = other.Blobs[name]
		}
	}
	for _, name := range utils.SortedKeys(take) {
		if _, ok := conflicts[name]; !ok {
			plan.Take = append(plan.Take, FileChange{Name: name, BlobID: take[name]})
		}
	}

	for _, name := range utils.SortedKeys(ours.Unmodified) {
		if theirs.Removed[name] {
			plan.Remove = append(plan.Remove, name)
		}
	}

	for _, name := range utils.SortedKeys(conflicts) {
		plan.Conflicts = append(plan.Conflicts, conflicts[name])
	}
	return plan
}

// ConflictBody joins both versions between conflict markers. Each version is
// copied verbatim.
func ConflictBody(current, other []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(conflictHeadMarker)
	buf.Write(current)
	buf.WriteString(conflictSeparator)
	buf.Write(other)
	buf.WriteString(conflictEndMarker)
	return buf.Bytes()
}

// Message is the merge commit message.
func Message(other, current string) string {
	return fmt.Sprintf("Merged %s into %s.", other, current)
}
