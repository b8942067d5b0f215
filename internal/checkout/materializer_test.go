package checkout

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gitlet/internal/content"
	gerr "gitlet/internal/errors"
	"gitlet/internal/storage"
	"gitlet/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	objects *content.Store
	dir     *workspace.Dir
	m       *Materializer
}

func setupFixture(t *testing.T) *fixture {
	db, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	root := t.TempDir()
	objects, err := content.New(db, content.Options{Root: filepath.Join(root, workspace.MetaDir, "objects")}, nil)
	require.NoError(t, err)

	dir := workspace.NewDir(root, nil)
	return &fixture{
		objects: objects,
		dir:     dir,
		m:       New(objects, dir, zaptest.NewLogger(t)),
	}
}

func (f *fixture) commit(t *testing.T, files map[string]string) *content.Commit {
	blobs := map[string]string{}
	for name, data := range files {
		b, err := f.objects.AddBlob(name, []byte(data))
		require.NoError(t, err)
		blobs[name] = b.ID
	}
	c, err := f.objects.PutCommit("snapshot", "", "", blobs, time.Now())
	require.NoError(t, err)
	return c
}

func (f *fixture) write(t *testing.T, files map[string]string) {
	for name, data := range files {
		require.NoError(t, f.dir.Write(name, []byte(data)))
	}
}

func (f *fixture) read(t *testing.T, name string) string {
	data, err := os.ReadFile(f.dir.Path(name))
	require.NoError(t, err)
	return string(data)
}

func TestCheckoutFile(t *testing.T) {
	f := setupFixture(t)
	c := f.commit(t, map[string]string{"a.txt": "committed"})
	f.write(t, map[string]string{"a.txt": "edited"})

	require.NoError(t, f.m.CheckoutFile(c, "a.txt"))
	assert.Equal(t, "committed", f.read(t, "a.txt"))

	assert.ErrorIs(t, f.m.CheckoutFile(c, "missing.txt"), gerr.ErrFileNotInCommit)
}

func TestTrackedTest(t *testing.T) {
	tests := []struct {
		name    string
		a, b    map[string]string
		working map[string]string
		ok      bool
		blocked []string
	}{
		{
			name:    "clean tree",
			a:       map[string]string{"f": "1"},
			b:       map[string]string{"f": "2"},
			working: map[string]string{"f": "1"},
			ok:      true,
		},
		{
			name:    "untracked file not in destination",
			a:       map[string]string{},
			b:       map[string]string{"f": "1"},
			working: map[string]string{"other": "x"},
			ok:      true,
		},
		{
			name:    "untracked file in destination",
			a:       map[string]string{},
			b:       map[string]string{"f": "1"},
			working: map[string]string{"f": "mine"},
			blocked: []string{"f"},
		},
		{
			name:    "modified tracked file counts as untracked",
			a:       map[string]string{"f": "1"},
			b:       map[string]string{"f": "2"},
			working: map[string]string{"f": "edited"},
			blocked: []string{"f"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupFixture(t)
			a := f.commit(t, tt.a)
			b := f.commit(t, tt.b)
			f.write(t, tt.working)

			ok, blocked, err := f.m.TrackedTest(a, b)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.blocked, blocked)
		})
	}
}

func TestMaterialize(t *testing.T) {
	f := setupFixture(t)
	from := f.commit(t, map[string]string{"keep": "k1", "gone": "g"})
	to := f.commit(t, map[string]string{"keep": "k2", "new": "n"})

	f.write(t, map[string]string{"keep": "k1", "gone": "g", "loose": "untracked"})

	require.NoError(t, f.m.Materialize(from, to))

	names, err := f.dir.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"keep", "loose", "new"}, names)
	assert.Equal(t, "k2", f.read(t, "keep"))
	assert.Equal(t, "n", f.read(t, "new"))
	assert.Equal(t, "untracked", f.read(t, "loose"))

	untracked, err := f.m.Untracked(to)
	require.NoError(t, err)
	assert.Equal(t, []string{"loose"}, untracked)
}
