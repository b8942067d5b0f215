// Package repo ties the object store, commit graph, staging area and working
// directory into one session per command invocation.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gitlet/internal/checkout"
	"gitlet/internal/config"
	"gitlet/internal/content"
	"gitlet/internal/diff"
	gerr "gitlet/internal/errors"
	"gitlet/internal/graph"
	"gitlet/internal/logging"
	"gitlet/internal/merge"
	"gitlet/internal/stage"
	"gitlet/internal/storage"
	"gitlet/internal/workspace"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repo is an open repository. It holds the exclusive badger lock until
// Close.
type Repo struct {
	Root      string
	SessionID string
	Config    *config.Config
	DB        *badger.DB
	Objects   *content.Store
	Graph     *graph.Graph
	Stage     *stage.Area
	Dir       *workspace.Dir
	Checkout  *checkout.Materializer
	Logger    *logging.Logger

	graphStore *graph.Store
	stageStore *stage.Store
	differ     *diff.Engine
	split      merge.SplitFunc
	now        func() time.Time
}

type options struct {
	logger *logging.Logger
	config *config.Config
	now    func() time.Time
}

type Option func(*options)

func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConfig overrides the config file. Init saves it as the repository's
// config.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithClock sets the clock used for commit timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) *options {
	o := &options{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Init creates a repository in root. The working files already present
// become the root commit's snapshot. On failure the metadata directory is
// removed again, so init can be retried.
func Init(root string, opts ...Option) (_ *Repo, err error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path for root %s: %w", root, err)
	}

	metaDir := filepath.Join(absRoot, workspace.MetaDir)
	if _, err := os.Stat(metaDir); err == nil {
		return nil, gerr.ErrAlreadyInitialized
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking %s: %w", metaDir, err)
	}

	o := buildOptions(opts)
	cfg := o.config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(metaDir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s directory: %w", workspace.MetaDir, err)
	}
	var r *Repo
	defer func() {
		if err == nil {
			return
		}
		if r != nil {
			r.Close()
		}
		if rerr := os.RemoveAll(metaDir); rerr != nil {
			o.logger.Warn("removing partial metadata directory",
				zap.String("path", metaDir),
				zap.Error(rerr))
		}
	}()

	if err := cfg.Save(filepath.Join(metaDir, config.FileName)); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	r, err = open(absRoot, cfg, o)
	if err != nil {
		return nil, err
	}

	blobs, err := r.snapshotWorking()
	if err != nil {
		return nil, err
	}

	g, err := graph.Init(r.Objects, blobs, r.Logger.Named("graph"))
	if err != nil {
		return nil, err
	}
	r.Graph = g
	r.Stage = stage.NewArea()

	if err := r.persist(); err != nil {
		return nil, err
	}

	r.Logger.Info("initialized repository",
		zap.String("root", absRoot),
		zap.String("head", g.Head()),
		zap.Int("files", len(blobs)))
	return r, nil
}

// Open loads the repository rooted at root. It fails with ErrNotInitialized
// when root has no metadata directory.
func Open(root string, opts ...Option) (*Repo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path for root %s: %w", root, err)
	}

	metaDir := filepath.Join(absRoot, workspace.MetaDir)
	if info, err := os.Stat(metaDir); err != nil || !info.IsDir() {
		return nil, gerr.ErrNotInitialized
	}

	o := buildOptions(opts)
	cfg := o.config
	if cfg == nil {
		cfg, err = config.Load(filepath.Join(metaDir, config.FileName))
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	r, err := open(absRoot, cfg, o)
	if err != nil {
		return nil, err
	}

	state, err := r.graphStore.Load()
	if err != nil {
		r.Close()
		return nil, err
	}
	r.Graph = graph.New(state, r.Objects, r.Logger.Named("graph"))

	r.Stage, err = r.stageStore.Load()
	if err != nil {
		r.Close()
		return nil, err
	}

	r.Logger.Debug("opened repository",
		zap.String("branch", r.Graph.Current()),
		zap.String("head", r.Graph.Head()))
	return r, nil
}

func open(root string, cfg *config.Config, o *options) (*Repo, error) {
	sessionID := uuid.New().String()
	logger := o.logger.WithSession(sessionID)

	dir := workspace.NewDir(root, logger.Named("workspace"))

	db, err := storage.Open(dir.MetaPath("db"), logger.Named("storage"))
	if err != nil {
		return nil, err
	}

	objects, err := content.New(db, content.Options{
		Root:      dir.MetaPath("objects"),
		CacheSize: cfg.Objects.CacheSize,
	}, logger.Named("objects"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing object store: %w", err)
	}

	split, err := merge.SplitStrategy(cfg.Merge.SplitPoint)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Repo{
		Root:       root,
		SessionID:  sessionID,
		Config:     cfg,
		DB:         db,
		Objects:    objects,
		Dir:        dir,
		Checkout:   checkout.New(objects, dir, logger.Named("checkout")),
		Logger:     logger,
		graphStore: graph.NewStore(db),
		stageStore: stage.NewStore(db, logger.Named("stage")),
		differ:     diff.NewEngine(3),
		split:      split,
		now:        o.now,
	}, nil
}

func (r *Repo) Close() error {
	if r.DB == nil {
		return nil
	}
	err := r.DB.Close()
	r.DB = nil
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// persist writes the graph state and then the staging area.
func (r *Repo) persist() error {
	if err := r.graphStore.Save(r.Graph.State()); err != nil {
		return err
	}
	return r.stageStore.Save(r.Stage)
}

func (r *Repo) snapshotWorking() (map[string]string, error) {
	names, err := r.Dir.Files()
	if err != nil {
		return nil, err
	}

	blobs := make(map[string]string, len(names))
	for _, name := range names {
		blob, err := r.Objects.BlobFromFile(name, r.Dir.Path(name))
		if err != nil {
			return nil, err
		}
		blobs[name] = blob.ID
	}
	return blobs, nil
}
