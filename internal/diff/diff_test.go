package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	e := NewEngine(0)

	t.Run("equal", func(t *testing.T) {
		fd, err := e.Diff("f", Version{Content: []byte("x\n"), Exists: true}, Version{Content: []byte("x\n"), Exists: true})
		require.NoError(t, err)
		assert.Nil(t, fd)
	})

	t.Run("modified", func(t *testing.T) {
		fd, err := e.Diff("f",
			Version{Content: []byte("one\ntwo\nthree\n"), Exists: true},
			Version{Content: []byte("one\n2\nthree\n"), Exists: true})
		require.NoError(t, err)
		require.NotNil(t, fd)

		assert.Contains(t, fd.Patch, "--- a/f\n+++ b/f\n")
		assert.Contains(t, fd.Patch, "-two\n+2\n")
		assert.Equal(t, 1, fd.Stats.Additions)
		assert.Equal(t, 1, fd.Stats.Deletions)
	})

	t.Run("deleted", func(t *testing.T) {
		fd, err := e.Diff("f", Version{Content: []byte("a\nb"), Exists: true}, Version{})
		require.NoError(t, err)
		require.NotNil(t, fd)

		assert.Contains(t, fd.Patch, "+++ /dev/null")
		assert.Equal(t, 0, fd.Stats.Additions)
		assert.Equal(t, 2, fd.Stats.Deletions)
	})

	t.Run("added", func(t *testing.T) {
		fd, err := e.Diff("f", Version{}, Version{Content: []byte("new\n"), Exists: true})
		require.NoError(t, err)
		require.NotNil(t, fd)
		assert.Contains(t, fd.Patch, "--- /dev/null")
		assert.Equal(t, 1, fd.Stats.Additions)
	})

	t.Run("trailing newline only", func(t *testing.T) {
		fd, err := e.Diff("f", Version{Content: []byte("x"), Exists: true}, Version{Content: []byte("x\n"), Exists: true})
		require.NoError(t, err)
		require.NotNil(t, fd)
		assert.Contains(t, fd.Patch, "trailing newline")
	})
}
