// internal/diff/diff.go
package diff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

const devNull = "/dev/null"

// Version is one side of a file diff. Exists is false when the file is
// absent on that side.
type Version struct {
	Content []byte
	Exists  bool
}

// FileDiff is the unified patch for one file
type FileDiff struct {
	Name  string
	Patch string
	Stats struct {
		Additions int
		Deletions int
	}
}

// Engine provides diffing capabilities
type Engine struct {
	contextLines int
}

// NewEngine creates a new diff engine with specified context lines
func NewEngine(contextLines int) *Engine {
	if contextLines <= 0 {
		contextLines = 3
	}
	return &Engine{
		contextLines: contextLines,
	}
}

// Diff returns the patch turning before into after, or nil when they are
// equal.
func (e *Engine) Diff(name string, before, after Version) (*FileDiff, error) {
	if before.Exists == after.Exists && string(before.Content) == string(after.Content) {
		return nil, nil
	}

	from, to := "a/"+name, "b/"+name
	if !before.Exists {
		from = devNull
	}
	if !after.Exists {
		to = devNull
	}

	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before.Content),
		B:        splitLines(after.Content),
		FromFile: from,
		ToFile:   to,
		Context:  e.contextLines,
	})
	if err != nil {
		return nil, fmt.Errorf("diffing %s: %w", name, err)
	}
	if patch == "" {
		// Same lines, different bytes: only a trailing newline changed.
		patch = fmt.Sprintf("--- %s\n+++ %s\n@@ trailing newline changed @@\n", from, to)
	}

	fd := &FileDiff{Name: name, Patch: patch}
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			fd.Stats.Additions++
		case strings.HasPrefix(line, "-"):
			fd.Stats.Deletions++
		}
	}
	return fd, nil
}

// splitLines keeps each line's newline, adding one to an unterminated last
// line so hunks do not run together.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return []string{}
	}
	lines := strings.SplitAfter(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n"
	}
	return lines
}
