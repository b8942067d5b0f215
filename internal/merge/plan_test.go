package merge

import (
	"testing"

	"gitlet/internal/content"

	"github.com/stretchr/testify/assert"
)

func snapshot(blobs map[string]string) *content.Commit {
	return &content.Commit{Blobs: blobs}
}

func TestClassify(t *testing.T) {
	split := snapshot(map[string]string{"same": "1", "edit": "1", "gone": "1"})
	side := snapshot(map[string]string{"same": "1", "edit": "2", "new": "1"})

	ch := Classify(split, side)
	assert.Equal(t, map[string]bool{"edit": true}, ch.Modified)
	assert.Equal(t, map[string]bool{"new": true}, ch.Added)
	assert.Equal(t, map[string]bool{"gone": true}, ch.Removed)
	assert.Equal(t, map[string]bool{"same": true}, ch.Unmodified)
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		split     map[string]string
		current   map[string]string
		other     map[string]string
		take      []FileChange
		remove    []string
		conflicts []Conflict
	}{
		{
			name:    "modified only in other",
			split:   map[string]string{"f": "1"},
			current: map[string]string{"f": "1"},
			other:   map[string]string{"f": "2"},
			take:    []FileChange{{Name: "f", BlobID: "2"}},
		},
		{
			name:    "modified only in current",
			split:   map[string]string{"f": "1"},
			current: map[string]string{"f": "2"},
			other:   map[string]string{"f": "1"},
		},
		{
			name:    "added only in other",
			split:   map[string]string{},
			current: map[string]string{},
			other:   map[string]string{"f": "1"},
			take:    []FileChange{{Name: "f", BlobID: "1"}},
		},
		{
			name:    "unmodified in current and removed in other",
			split:   map[string]string{"f": "1"},
			current: map[string]string{"f": "1"},
			other:   map[string]string{},
			remove:  []string{"f"},
		},
		{
			name:    "removed in current and unmodified in other",
			split:   map[string]string{"f": "1"},
			current: map[string]string{},
			other:   map[string]string{"f": "1"},
		},
		{
			name:    "modified identically in both",
			split:   map[string]string{"f": "1"},
			current: map[string]string{"f": "2"},
			other:   map[string]string{"f": "2"},
		},
		{
			name:    "added identically in both",
			split:   map[string]string{},
			current: map[string]string{"f": "1"},
			other:   map[string]string{"f": "1"},
		},
		{
			name:      "modified differently in both",
			split:     map[string]string{"f": "1"},
			current:   map[string]string{"f": "2"},
			other:     map[string]string{"f": "3"},
			conflicts: []Conflict{{Name: "f", Current: "2", Other: "3"}},
		},
		{
			name:      "modified in other and removed in current",
			split:     map[string]string{"f": "1"},
			current:   map[string]string{},
			other:     map[string]string{"f": "3"},
			conflicts: []Conflict{{Name: "f", Other: "3"}},
		},
		{
			name:      "modified in current and removed in other",
			split:     map[string]string{"f": "1"},
			current:   map[string]string{"f": "2"},
			other:     map[string]string{},
			conflicts: []Conflict{{Name: "f", Current: "2"}},
		},
		{
			name:      "added differently in both",
			split:     map[string]string{},
			current:   map[string]string{"f": "1"},
			other:     map[string]string{"f": "2"},
			conflicts: []Conflict{{Name: "f", Current: "1", Other: "2"}},
		},
		{
			name:    "mixed results are sorted",
			split:   map[string]string{"a": "1", "b": "1", "c": "1", "d": "1"},
			current: map[string]string{"a": "1", "b": "1", "c": "2", "d": "1"},
			other:   map[string]string{"a": "2", "c": "3", "d": "1", "e": "1", "0": "1"},
			take: []FileChange{
				{Name: "0", BlobID: "1"},
				{Name: "a", BlobID: "2"},
				{Name: "e", BlobID: "1"},
			},
			remove:    []string{"b"},
			conflicts: []Conflict{{Name: "c", Current: "2", Other: "3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Build(snapshot(tt.split), snapshot(tt.current), snapshot(tt.other))
			assert.Equal(t, tt.take, plan.Take)
			assert.Equal(t, tt.remove, plan.Remove)
			assert.Equal(t, tt.conflicts, plan.Conflicts)
			assert.Equal(t, len(tt.conflicts) > 0, plan.HasConflicts())
		})
	}
}

func TestConflictBody(t *testing.T) {
	assert.Equal(t,
		"<<<<<<< HEAD\n2\n=======\n3\n>>>>>>>\n",
		string(ConflictBody([]byte("2\n"), []byte("3\n"))))

	assert.Equal(t,
		"<<<<<<< HEAD\n=======\nonly other\n>>>>>>>\n",
		string(ConflictBody(nil, []byte("only other\n"))))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Merged dev into master.", Message("dev", "master"))
}
