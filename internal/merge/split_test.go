package merge

import (
	"fmt"
	"testing"

	"gitlet/internal/config"
	"gitlet/internal/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// history is an in-memory CommitSource keyed by short fake ids.
type history map[string]*content.Commit

func (h history) Commit(id string) (*content.Commit, error) {
	c, ok := h[id]
	if !ok {
		return nil, fmt.Errorf("unknown commit %s", id)
	}
	return c, nil
}

func (h history) add(id, parent, parent2 string, ts int64) {
	h[id] = &content.Commit{ID: id, Parent: parent, Parent2: parent2, Timestamp: ts}
}

// criss-cross:
//
//	r -- a -- m1 -- m3   (master)
//	 \    \  /
//	  \    \/
//	   \   /\
//	    b ---- m2 -- d3  (dev)
func crissCross() history {
	h := history{}
	h.add("r", "", "", 0)
	h.add("a", "r", "", 1)
	h.add("b", "r", "", 2)
	h.add("m1", "a", "b", 3)
	h.add("m2", "b", "a", 4)
	h.add("m3", "m1", "", 5)
	h.add("d3", "m2", "", 6)
	return h
}

func TestAncestors(t *testing.T) {
	h := crissCross()

	got, err := Ancestors(h, "m3")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"m3": true, "m1": true, "a": true, "b": true, "r": true}, got)

	_, err = Ancestors(h, "missing")
	assert.Error(t, err)
}

func TestFirstParentSplit(t *testing.T) {
	h := history{}
	h.add("r", "", "", 0)
	h.add("a", "r", "", 1)
	h.add("b", "a", "", 2)
	h.add("c", "a", "", 3)

	tests := []struct {
		name           string
		current, other string
		want           string
	}{
		{"diverged", "b", "c", "a"},
		{"other is ancestor", "b", "a", "a"},
		{"current is ancestor", "a", "c", "a"},
		{"root", "r", "c", "r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FirstParentSplit(h, tt.current, tt.other)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("criss-cross tie goes to the second parent", func(t *testing.T) {
		// m1 = merge(a, b) and m2 = merge(b, a): both parents hit at distance 0.
		got, err := FirstParentSplit(crissCross(), "m3", "d3")
		require.NoError(t, err)
		assert.Equal(t, "b", got)

		got, err = FirstParentSplit(crissCross(), "d3", "m3")
		require.NoError(t, err)
		assert.Equal(t, "a", got)
	})

	t.Run("tie past the parents goes to the second parent", func(t *testing.T) {
		h := history{}
		h.add("r", "", "", 0)
		h.add("x", "r", "", 1)
		h.add("y", "r", "", 2)
		h.add("o", "x", "y", 3)
		h.add("p1", "x", "", 4)
		h.add("p2", "y", "", 5)
		h.add("m", "p1", "p2", 6)

		// x and y are both one step below the merge's parents.
		got, err := FirstParentSplit(h, "m", "o")
		require.NoError(t, err)
		assert.Equal(t, "y", got)
	})

	t.Run("merging the same branch twice finds its head", func(t *testing.T) {
		h := history{}
		h.add("r", "", "", 0)
		h.add("a", "r", "", 1)
		h.add("b", "r", "", 2)
		h.add("m", "a", "b", 3)

		got, err := FirstParentSplit(h, "m", "b")
		require.NoError(t, err)
		assert.Equal(t, "b", got)
	})

	t.Run("nearer parent wins", func(t *testing.T) {
		h := history{}
		h.add("r", "", "", 0)
		h.add("o", "r", "", 1)
		h.add("a1", "r", "", 2)
		h.add("a2", "a1", "", 3)
		h.add("m", "a2", "o", 4)
		h.add("o2", "o", "", 5)

		got, err := FirstParentSplit(h, "m", "o2")
		require.NoError(t, err)
		assert.Equal(t, "o", got)
	})

	t.Run("merge commit on the other side contributes both parents", func(t *testing.T) {
		h := history{}
		h.add("r", "", "", 0)
		h.add("x", "r", "", 1)
		h.add("y", "x", "", 2)
		h.add("side", "r", "", 3)
		h.add("m", "side", "y", 4)
		h.add("z", "y", "", 5)

		got, err := FirstParentSplit(h, "z", "m")
		require.NoError(t, err)
		assert.Equal(t, "y", got)
	})

	t.Run("disjoint histories", func(t *testing.T) {
		h := history{}
		h.add("p", "", "", 0)
		h.add("q", "", "", 0)
		_, err := FirstParentSplit(h, "p", "q")
		assert.Error(t, err)
	})
}

func TestGenerationSplit(t *testing.T) {
	t.Run("criss-cross is symmetric", func(t *testing.T) {
		h := crissCross()

		got, err := GenerationSplit(h, "m3", "d3")
		require.NoError(t, err)
		assert.Equal(t, "b", got, "newer of the two equal-generation ancestors")

		back, err := GenerationSplit(h, "d3", "m3")
		require.NoError(t, err)
		assert.Equal(t, got, back)
	})

	t.Run("diamond", func(t *testing.T) {
		h := history{}
		h.add("r", "", "", 0)
		h.add("a", "r", "", 1)
		h.add("b", "a", "", 2)
		h.add("c", "a", "", 3)
		h.add("m", "b", "c", 4)
		h.add("d", "c", "", 5)

		got, err := GenerationSplit(h, "m", "d")
		require.NoError(t, err)
		assert.Equal(t, "c", got)

		fp, err := FirstParentSplit(h, "m", "d")
		require.NoError(t, err)
		assert.Equal(t, "c", fp, "second parent of the first merge is followed")
	})

	t.Run("deeper second parents", func(t *testing.T) {
		// o1 is only reachable from h through x's second parent.
		h := history{}
		h.add("r", "", "", 0)
		h.add("o1", "r", "", 1)
		h.add("o2", "o1", "", 2)
		h.add("c1", "r", "", 3)
		h.add("x", "r", "o1", 4)
		h.add("h", "c1", "x", 5)

		got, err := GenerationSplit(h, "h", "o2")
		require.NoError(t, err)
		assert.Equal(t, "o1", got)

		fp, err := FirstParentSplit(h, "h", "o2")
		require.NoError(t, err)
		assert.Equal(t, "r", fp)
	})

	t.Run("ties on timestamp go to the smaller id", func(t *testing.T) {
		h := history{}
		h.add("r", "", "", 0)
		h.add("b1", "r", "", 1)
		h.add("a1", "r", "", 1)
		h.add("x", "a1", "b1", 2)
		h.add("y", "b1", "a1", 2)

		got, err := GenerationSplit(h, "x", "y")
		require.NoError(t, err)
		assert.Equal(t, "a1", got)
	})
}

func TestSplitStrategy(t *testing.T) {
	for _, name := range []string{"", config.SplitFirstParent, config.SplitGeneration} {
		fn, err := SplitStrategy(name)
		require.NoError(t, err)
		assert.NotNil(t, fn)
	}

	_, err := SplitStrategy("octopus")
	assert.Error(t, err)
}
