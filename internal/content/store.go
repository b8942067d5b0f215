// internal/content/store.go
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gerr "gitlet/internal/errors"
	"gitlet/internal/storage"
	"gitlet/shared/utils"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	// IDLength is the length of a full hex object id.
	IDLength = 40

	metaPrefix = "object"
)

// Options configures Store behavior
type Options struct {
	Root      string // Directory holding object files
	CacheSize int    // Number of blobs and commits to cache
}

// Store is the content-addressed object store. Object bytes live under
// Root/<id[:2]>/<id[2:]>; a Meta record per object lives in badger.
type Store struct {
	root    string
	meta    *storage.BadgerStore
	blobs   *lru.Cache[string, []byte]
	commits *lru.Cache[string, *Commit]
	logger  *zap.Logger
}

// New creates a new Store instance
func New(db *badger.DB, opts Options, logger *zap.Logger) (*Store, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 512
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(opts.Root, 0755); err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}

	blobs, err := lru.New[string, []byte](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating blob cache: %w", err)
	}
	commits, err := lru.New[string, *Commit](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating commit cache: %w", err)
	}

	return &Store{
		root:    opts.Root,
		meta:    storage.NewBadgerStore(db, metaPrefix),
		blobs:   blobs,
		commits: commits,
		logger:  logger,
	}, nil
}

// AddBlob stores content and returns it as a blob named name.
func (s *Store) AddBlob(name string, content []byte) (*Blob, error) {
	if content == nil {
		content = []byte{}
	}

	id := BlobID(content)
	if err := s.put(KindBlob, id, content); err != nil {
		return nil, fmt.Errorf("storing blob %s: %w", name, err)
	}
	s.blobs.Add(id, content)

	return &Blob{ID: id, Name: name, Content: content}, nil
}

// BlobFromFile stores the file at path as a blob named name.
func (s *Store) BlobFromFile(name, path string) (*Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return s.AddBlob(name, data)
}

// PutCommit builds, hashes and stores a commit. blobs is copied.
func (s *Store) PutCommit(message, parent, parent2 string, blobs map[string]string, at time.Time) (*Commit, error) {
	c := &Commit{
		Message:   message,
		Timestamp: at.Unix(),
		Parent:    parent,
		Parent2:   parent2,
		Blobs:     make(map[string]string, len(blobs)),
	}
	for name, id := range blobs {
		c.Blobs[name] = id
	}

	data, err := c.Encode()
	if err != nil {
		return nil, err
	}
	c.ID = CommitID(data)

	if err := s.put(KindCommit, c.ID, data); err != nil {
		return nil, fmt.Errorf("storing commit: %w", err)
	}
	s.commits.Add(c.ID, c)

	return c, nil
}

// Commit loads a commit by full id. Callers must not modify the result.
func (s *Store) Commit(id string) (*Commit, error) {
	if c, ok := s.commits.Get(id); ok {
		return c, nil
	}

	kind, data, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if kind != KindCommit {
		return nil, gerr.NotFound(fmt.Sprintf("object %s is a %s, not a commit", id, kind), nil)
	}

	c, err := decodeCommit(id, data)
	if err != nil {
		return nil, err
	}
	s.commits.Add(id, c)
	return c, nil
}

// Content returns the bytes of a blob by full id.
func (s *Store) Content(id string) ([]byte, error) {
	if data, ok := s.blobs.Get(id); ok {
		return data, nil
	}

	kind, data, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if kind != KindBlob {
		return nil, gerr.NotFound(fmt.Sprintf("object %s is a %s, not a blob", id, kind), nil)
	}

	s.blobs.Add(id, data)
	return data, nil
}

func (s *Store) Kind(id string) (Kind, error) {
	meta, err := s.getMeta(id)
	if err != nil {
		return "", err
	}
	return meta.Kind, nil
}

// Resolve expands a unique id prefix into a full id.
func (s *Store) Resolve(prefix string) (string, error) {
	ids, err := s.candidates(prefix)
	if err != nil {
		return "", err
	}
	return pick(prefix, ids)
}

// ResolveCommit expands a commit id or unique prefix of one. Unknown ids are
// a user error here, not corruption.
func (s *Store) ResolveCommit(prefix string) (*Commit, error) {
	ids, err := s.candidates(prefix)
	if err != nil {
		return nil, err
	}

	var commits []string
	for _, id := range ids {
		kind, err := s.Kind(id)
		if err != nil {
			return nil, err
		}
		if kind == KindCommit {
			commits = append(commits, id)
		}
	}

	id, err := pick(prefix, commits)
	if errors.Is(err, gerr.ErrObjectNotFound) {
		return nil, gerr.ErrNoSuchCommit
	}
	if err != nil {
		return nil, err
	}
	return s.Commit(id)
}

// Commits returns every stored commit, in id order.
func (s *Store) Commits() ([]*Commit, error) {
	var metas []Meta
	if err := s.meta.List(&metas); err != nil {
		return nil, fmt.Errorf("listing objects: %w", err)
	}

	var commits []*Commit
	for _, m := range metas {
		if m.Kind != KindCommit {
			continue
		}
		c, err := s.Commit(m.ID)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// Internal helper functions

func (s *Store) candidates(prefix string) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if !isValidPrefix(prefix) {
		return nil, nil
	}

	if len(prefix) == IDLength {
		ok, err := s.meta.Exists(prefix)
		if err != nil {
			return nil, fmt.Errorf("checking object %s: %w", prefix, err)
		}
		if !ok {
			return nil, nil
		}
		return []string{prefix}, nil
	}

	ids, err := s.meta.Keys(prefix)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", prefix, err)
	}
	return ids, nil
}

func pick(prefix string, ids []string) (string, error) {
	switch len(ids) {
	case 0:
		return "", gerr.NotFound(fmt.Sprintf("no object matches %q", prefix), nil)
	case 1:
		return ids[0], nil
	default:
		return "", gerr.ErrAmbiguousID
	}
}

func (s *Store) put(kind Kind, id string, data []byte) error {
	exists, err := s.meta.Exists(id)
	if err != nil {
		return fmt.Errorf("checking existence: %w", err)
	}
	if exists {
		return nil
	}

	path := s.objectPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing object file: %w", err)
	}

	meta := &Meta{
		ID:        id,
		Kind:      kind,
		Size:      int64(len(data)),
		CreatedAt: time.Now(),
	}
	if err := s.meta.Create(meta); err != nil && !errors.Is(err, storage.ErrExists) {
		os.Remove(path)
		return fmt.Errorf("storing metadata: %w", err)
	}

	s.logger.Debug("stored object",
		zap.String("id", id),
		zap.String("kind", string(kind)),
		zap.Int("size", len(data)))
	return nil
}

func (s *Store) read(id string) (Kind, []byte, error) {
	meta, err := s.getMeta(id)
	if err != nil {
		return "", nil, err
	}

	data, err := os.ReadFile(s.objectPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, gerr.NotFound(fmt.Sprintf("object file for %s missing", id), err)
		}
		return "", nil, fmt.Errorf("reading object %s: %w", id, err)
	}

	if utils.HashObject(string(meta.Kind), data) != id {
		return "", nil, gerr.NotFound(fmt.Sprintf("object %s: content hash mismatch", id), nil)
	}
	return meta.Kind, data, nil
}

func (s *Store) getMeta(id string) (*Meta, error) {
	if !isValidPrefix(id) || len(id) != IDLength {
		return nil, gerr.NotFound(fmt.Sprintf("invalid object id %q", id), nil)
	}

	var meta Meta
	if err := s.meta.Get(id, &meta); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, gerr.NotFound(fmt.Sprintf("object %s not found", id), err)
		}
		return nil, fmt.Errorf("reading metadata for %s: %w", id, err)
	}
	return &meta, nil
}

func (s *Store) objectPath(id string) string {
	return filepath.Join(s.root, id[:2], id[2:])
}

func isValidPrefix(p string) bool {
	if p == "" || len(p) > IDLength {
		return false
	}
	for _, r := range p {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}
