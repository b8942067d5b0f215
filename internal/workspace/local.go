// internal/workspace/local.go
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// MetaDir is the repository metadata directory under the workspace root.
const MetaDir = ".gitlet"

// ErrNoRoot is returned by FindRoot when no MetaDir exists above start.
var ErrNoRoot = errors.New("workspace root not found")

// FindRoot searches for the workspace root by looking for MetaDir in start
// and its parents.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, MetaDir)); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrNoRoot
}

// Dir is the working directory. Only top-level regular files belong to it;
// subdirectories, MetaDir included, are invisible.
type Dir struct {
	Root   string
	logger *zap.Logger
}

func NewDir(root string, logger *zap.Logger) *Dir {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dir{Root: root, logger: logger}
}

// MetaPath joins elem under the metadata directory.
func (d *Dir) MetaPath(elem ...string) string {
	return filepath.Join(append([]string{d.Root, MetaDir}, elem...)...)
}

func (d *Dir) Path(name string) string {
	return filepath.Join(d.Root, name)
}

// Files lists the working file names in ascending order.
func (d *Dir) Files() ([]string, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, fmt.Errorf("reading working directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (d *Dir) Exists(name string) bool {
	if !ValidName(name) {
		return false
	}
	info, err := os.Stat(d.Path(name))
	return err == nil && info.Mode().IsRegular()
}

func (d *Dir) Read(name string) ([]byte, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("invalid file name %q", name)
	}
	return os.ReadFile(d.Path(name))
}

// ReadAll reads every working file, keyed by name.
func (d *Dir) ReadAll() (map[string][]byte, error) {
	names, err := d.Files()
	if err != nil {
		return nil, err
	}

	files := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := d.Read(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		files[name] = data
	}
	return files, nil
}

// Write creates or overwrites name.
func (d *Dir) Write(name string, data []byte) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid file name %q", name)
	}
	if err := os.WriteFile(d.Path(name), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	d.logger.Debug("wrote working file", zap.String("name", name), zap.Int("size", len(data)))
	return nil
}

// Remove deletes name. A file that is already gone is not an error.
func (d *Dir) Remove(name string) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid file name %q", name)
	}
	if err := os.Remove(d.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	d.logger.Debug("removed working file", zap.String("name", name))
	return nil
}

// ValidName reports whether name can be a top-level working file.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." || name == MetaDir {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
