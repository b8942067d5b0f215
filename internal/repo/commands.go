package repo

import (
	"gitlet/internal/content"
	gerr "gitlet/internal/errors"
	"gitlet/internal/stage"

	"go.uber.org/zap"
)

// Add stages the working copy of name.
func (r *Repo) Add(name string) error {
	if !r.Dir.Exists(name) {
		return gerr.ErrFileNotFound
	}

	head, err := r.Graph.HeadCommit()
	if err != nil {
		return err
	}

	blob, err := r.Objects.BlobFromFile(name, r.Dir.Path(name))
	if err != nil {
		return err
	}

	headBlob, _ := head.Tracks(name)
	staged := r.Stage.StageAdd(name, blob.ID, headBlob)

	r.Logger.Debug("add",
		zap.String("file", name),
		zap.String("blob", blob.ID),
		zap.Bool("staged", staged))
	return r.stageStore.Save(r.Stage)
}

// Remove unstages name and, if HEAD tracks it, stages its removal and
// deletes the working copy.
func (r *Repo) Remove(name string) error {
	head, err := r.Graph.HeadCommit()
	if err != nil {
		return err
	}
	headBlob, tracked := head.Tracks(name)

	action, err := r.Stage.StageRemove(name, tracked, func() (string, error) {
		if !r.Dir.Exists(name) {
			return headBlob, nil
		}
		blob, err := r.Objects.BlobFromFile(name, r.Dir.Path(name))
		if err != nil {
			return "", err
		}
		return blob.ID, nil
	})
	if err != nil {
		return err
	}

	if action == stage.DeleteWorking {
		if err := r.Dir.Remove(name); err != nil {
			return err
		}
	}

	r.Logger.Debug("rm",
		zap.String("file", name),
		zap.Bool("tracked", tracked),
		zap.Bool("deleted", action == stage.DeleteWorking))
	return r.stageStore.Save(r.Stage)
}

// Commit records the staging area as a new commit on the current branch.
func (r *Repo) Commit(message string) (*content.Commit, error) {
	c, err := r.Graph.CommitFromStage(message, "", r.Stage, r.now())
	if err != nil {
		return nil, err
	}

	r.Stage.Clear()
	if err := r.persist(); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repo) Branch(name string) error {
	if err := r.Graph.AddBranch(name); err != nil {
		return err
	}
	return r.graphStore.Save(r.Graph.State())
}

func (r *Repo) RemoveBranch(name string) error {
	if err := r.Graph.RemoveBranch(name); err != nil {
		return err
	}
	return r.graphStore.Save(r.Graph.State())
}

// CheckoutFile restores name from HEAD. The staging area is untouched.
func (r *Repo) CheckoutFile(name string) error {
	head, err := r.Graph.HeadCommit()
	if err != nil {
		return err
	}
	return r.Checkout.CheckoutFile(head, name)
}

// CheckoutCommitFile restores name from the commit id, which may be
// abbreviated.
func (r *Repo) CheckoutCommitFile(id, name string) error {
	c, err := r.Objects.ResolveCommit(id)
	if err != nil {
		return err
	}
	return r.Checkout.CheckoutFile(c, name)
}

// CheckoutBranch replaces the working files with branch name's snapshot and
// makes it current.
func (r *Repo) CheckoutBranch(name string) error {
	if _, ok := r.Graph.Branch(name); !ok {
		return gerr.ErrNoSuchBranchCheckout
	}
	if name == r.Graph.Current() {
		return gerr.ErrNoOpSameBranch
	}
	return r.switchBranch(name)
}

// Reset moves the current branch to commit id, restoring its snapshot.
func (r *Repo) Reset(id string) error {
	target, err := r.Objects.ResolveCommit(id)
	if err != nil {
		return err
	}

	head, err := r.Graph.HeadCommit()
	if err != nil {
		return err
	}
	if err := r.replaceWorking(head, target); err != nil {
		return err
	}

	r.Graph.SetHead(target.ID)
	r.Stage.Clear()

	r.Logger.Info("reset",
		zap.String("branch", r.Graph.Current()),
		zap.String("from", head.ID),
		zap.String("to", target.ID))
	return r.persist()
}

func (r *Repo) switchBranch(name string) error {
	target, err := r.Graph.BranchCommit(name)
	if err != nil {
		return err
	}
	head, err := r.Graph.HeadCommit()
	if err != nil {
		return err
	}

	if err := r.replaceWorking(head, target); err != nil {
		return err
	}
	if err := r.Graph.SwitchBranch(name); err != nil {
		return err
	}
	r.Stage.Clear()

	r.Logger.Info("switched branch",
		zap.String("branch", name),
		zap.String("head", target.ID))
	return r.persist()
}

// replaceWorking runs the tracked test and, only if it passes, materializes
// to over from.
func (r *Repo) replaceWorking(from, to *content.Commit) error {
	ok, blocked, err := r.Checkout.TrackedTest(from, to)
	if err != nil {
		return err
	}
	if !ok {
		r.Logger.Debug("untracked files in the way", zap.Strings("files", blocked))
		return gerr.ErrUntrackedFileConflict
	}
	return r.Checkout.Materialize(from, to)
}
