package repo

import (
	"fmt"

	"gitlet/internal/content"
	gerr "gitlet/internal/errors"
	"gitlet/internal/merge"
	"gitlet/internal/stage"

	"go.uber.org/zap"
)

// MergeResult describes a completed merge. Conflicts are not errors: the
// merge commit is still made and Notices says so.
type MergeResult struct {
	Commit      *content.Commit
	FastForward bool
	Conflicts   []string
	Notices     []string
}

// Merge merges branch into the current branch.
func (r *Repo) Merge(branch string) (*MergeResult, error) {
	otherID, ok := r.Graph.Branch(branch)
	if !ok {
		return nil, gerr.ErrNoSuchBranch
	}
	if branch == r.Graph.Current() || len(r.Graph.Branches()) == 1 {
		return nil, gerr.ErrSelfMerge
	}
	if !r.Stage.Empty() {
		return nil, gerr.ErrUncommittedChanges
	}

	head, err := r.Graph.HeadCommit()
	if err != nil {
		return nil, err
	}
	untracked, err := r.Checkout.Untracked(head)
	if err != nil {
		return nil, err
	}
	if len(untracked) > 0 {
		r.Logger.Debug("untracked files in the way", zap.Strings("files", untracked))
		return nil, gerr.ErrUntrackedFileConflict
	}

	splitID, err := r.split(r.Objects, head.ID, otherID)
	if err != nil {
		return nil, fmt.Errorf("finding split point: %w", err)
	}
	r.Logger.Debug("split point",
		zap.String("current", head.ID),
		zap.String("other", otherID),
		zap.String("split", splitID))

	if splitID == otherID {
		return nil, gerr.ErrAncestorBranch
	}
	if splitID == head.ID {
		if err := r.switchBranch(branch); err != nil {
			return nil, err
		}
		return &MergeResult{
			FastForward: true,
			Notices:     []string{merge.FastForwardNotice},
		}, nil
	}

	split, err := r.Objects.Commit(splitID)
	if err != nil {
		return nil, err
	}
	other, err := r.Objects.Commit(otherID)
	if err != nil {
		return nil, err
	}

	result := &MergeResult{}
	plan := merge.Build(split, head, other)
	if err := r.applyPlan(plan, head); err != nil {
		return nil, err
	}
	for _, c := range plan.Conflicts {
		result.Conflicts = append(result.Conflicts, c.Name)
	}
	if plan.HasConflicts() {
		result.Notices = append(result.Notices, merge.ConflictNotice)
	}

	current := r.Graph.Current()
	result.Commit, err = r.Graph.CommitFromStage(merge.Message(branch, current), otherID, r.Stage, r.now())
	if err != nil {
		return nil, err
	}
	r.Stage.Clear()

	r.Logger.Info("merged",
		zap.String("branch", branch),
		zap.String("into", current),
		zap.String("commit", result.Commit.ID),
		zap.Int("taken", len(plan.Take)),
		zap.Int("removed", len(plan.Remove)),
		zap.Int("conflicts", len(plan.Conflicts)))
	return result, r.persist()
}

// applyPlan writes and stages every file the plan takes or conflicts on,
// then deletes and stages the removals.
func (r *Repo) applyPlan(plan *merge.Plan, head *content.Commit) error {
	for _, fc := range plan.Take {
		data, err := r.Objects.Content(fc.BlobID)
		if err != nil {
			return err
		}
		if err := r.Dir.Write(fc.Name, data); err != nil {
			return err
		}
		r.Stage.StageAdd(fc.Name, fc.BlobID, head.Blobs[fc.Name])
	}

	for _, c := range plan.Conflicts {
		current, err := r.optionalContent(c.Current)
		if err != nil {
			return err
		}
		other, err := r.optionalContent(c.Other)
		if err != nil {
			return err
		}

		body := merge.ConflictBody(current, other)
		blob, err := r.Objects.AddBlob(c.Name, body)
		if err != nil {
			return err
		}
		if err := r.Dir.Write(c.Name, body); err != nil {
			return err
		}
		r.Stage.StageAdd(c.Name, blob.ID, head.Blobs[c.Name])
	}

	for _, name := range plan.Remove {
		headBlob := head.Blobs[name]
		action, err := r.Stage.StageRemove(name, true, func() (string, error) {
			return headBlob, nil
		})
		if err != nil {
			return err
		}
		if action == stage.DeleteWorking {
			if err := r.Dir.Remove(name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Repo) optionalContent(id string) ([]byte, error) {
	if id == "" {
		return nil, nil
	}
	return r.Objects.Content(id)
}
