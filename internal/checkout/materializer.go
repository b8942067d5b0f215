// Package checkout writes commit snapshots into the working directory and
// guards against overwriting files the repository does not know about.
package checkout

import (
	"fmt"

	"gitlet/internal/content"
	gerr "gitlet/internal/errors"
	"gitlet/internal/workspace"
	"gitlet/shared/utils"

	"go.uber.org/zap"
)

type Materializer struct {
	objects *content.Store
	dir     *workspace.Dir
	logger  *zap.Logger
}

func New(objects *content.Store, dir *workspace.Dir, logger *zap.Logger) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{
		objects: objects,
		dir:     dir,
		logger:  logger,
	}
}

// CheckoutFile overwrites the working copy of name with its version in c.
func (m *Materializer) CheckoutFile(c *content.Commit, name string) error {
	id, ok := c.Tracks(name)
	if !ok {
		return gerr.ErrFileNotInCommit
	}

	data, err := m.objects.Content(id)
	if err != nil {
		return err
	}
	return m.dir.Write(name, data)
}

// Untracked lists the working files c does not track with their current
// content, either because c lacks them or because the bytes differ.
func (m *Materializer) Untracked(c *content.Commit) ([]string, error) {
	files, err := m.dir.ReadAll()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, name := range utils.SortedKeys(files) {
		id, ok := c.Tracks(name)
		if !ok || id != content.BlobID(files[name]) {
			names = append(names, name)
		}
	}
	return names, nil
}

// TrackedTest checks that every working file a does not track is also absent
// from b, so materializing b cannot clobber it. The blocking names are
// returned when the test fails.
func (m *Materializer) TrackedTest(a, b *content.Commit) (bool, []string, error) {
	untracked, err := m.Untracked(a)
	if err != nil {
		return false, nil, err
	}

	var blocked []string
	for _, name := range untracked {
		if _, ok := b.Tracks(name); ok {
			blocked = append(blocked, name)
		}
	}

	if len(blocked) > 0 {
		m.logger.Debug("tracked test failed",
			zap.String("from", a.ID),
			zap.String("to", b.ID),
			zap.Strings("files", blocked))
		return false, blocked, nil
	}
	return true, nil, nil
}

// Materialize replaces from's snapshot in the working directory with to's.
// Every file of to is written before files only from tracks are deleted.
// Files neither commit tracks are left alone.
func (m *Materializer) Materialize(from, to *content.Commit) error {
	for _, name := range utils.SortedKeys(to.Blobs) {
		data, err := m.objects.Content(to.Blobs[name])
		if err != nil {
			return fmt.Errorf("materializing %s: %w", name, err)
		}
		if err := m.dir.Write(name, data); err != nil {
			return err
		}
	}

	var removed int
	for _, name := range utils.SortedKeys(from.Blobs) {
		if _, ok := to.Tracks(name); ok {
			continue
		}
		if err := m.dir.Remove(name); err != nil {
			return err
		}
		removed++
	}

	m.logger.Debug("materialized commit",
		zap.String("from", from.ID),
		zap.String("to", to.ID),
		zap.Int("written", len(to.Blobs)),
		zap.Int("removed", removed))
	return nil
}
