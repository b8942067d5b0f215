package repo

import (
	"sort"

	"gitlet/internal/content"
	gerr "gitlet/internal/errors"
)

// Log returns the first-parent history of HEAD, newest first.
func (r *Repo) Log() ([]*content.Commit, error) {
	var commits []*content.Commit
	err := r.Graph.History(r.Graph.Head(), func(c *content.Commit) bool {
		commits = append(commits, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

// GlobalLog returns every commit ever made, newest first with ties broken by
// id.
func (r *Repo) GlobalLog() ([]*content.Commit, error) {
	commits, err := r.Objects.Commits()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(commits, func(i, j int) bool {
		if commits[i].Timestamp != commits[j].Timestamp {
			return commits[i].Timestamp > commits[j].Timestamp
		}
		return commits[i].ID < commits[j].ID
	})
	return commits, nil
}

// Find returns the ids of the commits whose message is exactly message, in
// GlobalLog order.
func (r *Repo) Find(message string) ([]string, error) {
	commits, err := r.GlobalLog()
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, c := range commits {
		if c.Message == message {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return nil, gerr.ErrNoCommitWithMessage
	}
	return ids, nil
}
