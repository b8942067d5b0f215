package graph

import (
	"fmt"
	"strings"
	"time"

	"gitlet/internal/content"
	gerr "gitlet/internal/errors"
	"gitlet/internal/stage"

	"go.uber.org/zap"
)

// Graph is the commit graph of one repository. Commits only reference their
// parents by id; every traversal goes back through the content store.
type Graph struct {
	state   *State
	objects *content.Store
	logger  *zap.Logger
}

func New(state *State, objects *content.Store, logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{
		state:   state,
		objects: objects,
		logger:  logger,
	}
}

// Init creates the root commit over blobs and points DefaultBranch at it.
func Init(objects *content.Store, blobs map[string]string, logger *zap.Logger) (*Graph, error) {
	root, err := objects.PutCommit(InitialMessage, "", "", blobs, time.Unix(0, 0))
	if err != nil {
		return nil, fmt.Errorf("creating root commit: %w", err)
	}

	state := &State{
		Branches: map[string]string{DefaultBranch: root.ID},
		Current:  DefaultBranch,
		Head:     root.ID,
	}
	return New(state, objects, logger), nil
}

func (g *Graph) State() *State {
	return g.state
}

func (g *Graph) Head() string {
	return g.state.Head
}

func (g *Graph) Current() string {
	return g.state.Current
}

func (g *Graph) HeadCommit() (*content.Commit, error) {
	return g.objects.Commit(g.state.Head)
}

func (g *Graph) Branch(name string) (string, bool) {
	id, ok := g.state.Branches[name]
	return id, ok
}

// BranchCommit loads the head commit of branch name.
func (g *Graph) BranchCommit(name string) (*content.Commit, error) {
	id, ok := g.state.Branches[name]
	if !ok {
		return nil, gerr.ErrNoSuchBranch
	}
	return g.objects.Commit(id)
}

func (g *Graph) Branches() []string {
	return g.state.BranchNames()
}

// CommitFromStage records HEAD's files overlaid with the staged additions and
// minus the staged removals, then advances the current branch. parent2 is
// set for merge commits, which may have nothing staged.
func (g *Graph) CommitFromStage(message, parent2 string, area *stage.Area, now time.Time) (*content.Commit, error) {
	if strings.TrimSpace(message) == "" {
		return nil, gerr.ErrEmptyMessage
	}
	if area.Empty() && parent2 == "" {
		return nil, gerr.ErrNothingStaged
	}

	head, err := g.HeadCommit()
	if err != nil {
		return nil, err
	}

	blobs := make(map[string]string, len(head.Blobs)+len(area.Added))
	for name, id := range head.Blobs {
		blobs[name] = id
	}
	for name, id := range area.Added {
		blobs[name] = id
	}
	for name := range area.Removed {
		delete(blobs, name)
	}

	c, err := g.objects.PutCommit(message, head.ID, parent2, blobs, now)
	if err != nil {
		return nil, err
	}
	g.SetHead(c.ID)

	g.logger.Info("created commit",
		zap.String("id", c.ID),
		zap.String("branch", g.state.Current),
		zap.Bool("merge", c.IsMerge()),
		zap.Int("files", len(c.Blobs)))
	return c, nil
}

func (g *Graph) AddBranch(name string) error {
	if _, ok := g.state.Branches[name]; ok {
		return gerr.ErrBranchExists
	}
	g.state.Branches[name] = g.state.Head
	return nil
}

func (g *Graph) RemoveBranch(name string) error {
	if _, ok := g.state.Branches[name]; !ok {
		return gerr.ErrNoSuchBranch
	}
	if name == g.state.Current {
		return gerr.ErrCannotRemoveCurrent
	}
	delete(g.state.Branches, name)
	return nil
}

// SwitchBranch makes name current. Materializing its files and clearing the
// staging area are the caller's job.
func (g *Graph) SwitchBranch(name string) error {
	id, ok := g.state.Branches[name]
	if !ok {
		return gerr.ErrNoSuchBranch
	}
	g.state.Current = name
	g.state.Head = id
	return nil
}

// SetHead moves the current branch, and HEAD with it, to id.
func (g *Graph) SetHead(id string) {
	g.state.Branches[g.state.Current] = id
	g.state.Head = id
}

// History walks first parents from id back to the root, calling fn for each
// commit until it returns false.
func (g *Graph) History(id string, fn func(*content.Commit) bool) error {
	for id != "" {
		c, err := g.objects.Commit(id)
		if err != nil {
			return err
		}
		if !fn(c) {
			return nil
		}
		id = c.Parent
	}
	return nil
}
