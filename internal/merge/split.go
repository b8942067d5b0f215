// Package merge finds split points and plans three-way merges. Nothing here
// touches the working directory or persisted state.
package merge

import (
	"fmt"

	"gitlet/internal/config"
	"gitlet/internal/content"
)

// CommitSource loads commits by full id.
type CommitSource interface {
	Commit(id string) (*content.Commit, error)
}

// SplitFunc returns the split point of the current and other heads.
type SplitFunc func(src CommitSource, current, other string) (string, error)

// SplitStrategy maps the merge.split_point config value to a SplitFunc.
func SplitStrategy(name string) (SplitFunc, error) {
	switch name {
	case "", config.SplitFirstParent:
		return FirstParentSplit, nil
	case config.SplitGeneration:
		return GenerationSplit, nil
	default:
		return nil, fmt.Errorf("unknown split point strategy %q", name)
	}
}

// Ancestors returns id and every commit reachable from it through either
// parent.
func Ancestors(src CommitSource, id string) (map[string]bool, error) {
	seen := map[string]bool{}
	stack := []string{id}

	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if next == "" || seen[next] {
			continue
		}
		seen[next] = true

		c, err := src.Commit(next)
		if err != nil {
			return nil, err
		}
		stack = append(stack, c.Parents()...)
	}
	return seen, nil
}

// FirstParentSplit takes the full ancestor closure of other, then walks back
// from current along first parents and stops at the first commit in that
// closure. At the first merge commit on the walk, both of its parents are
// followed (again by first parents only) and the nearer hit wins, the second
// parent on a tie. Second parents of any deeper merge commits are never
// followed, so after repeated criss-cross merges the result can be older than
// the true lowest common ancestor. GenerationSplit is the symmetric
// alternative.
func FirstParentSplit(src CommitSource, current, other string) (string, error) {
	closure, err := Ancestors(src, other)
	if err != nil {
		return "", err
	}

	for id := current; id != ""; {
		if closure[id] {
			return id, nil
		}
		c, err := src.Commit(id)
		if err != nil {
			return "", err
		}
		if c.IsMerge() {
			return nearestParentHit(src, closure, c)
		}
		id = c.Parent
	}
	return "", fmt.Errorf("no common ancestor of %s and %s", current, other)
}

func nearestParentHit(src CommitSource, closure map[string]bool, merge *content.Commit) (string, error) {
	best, bestDist := "", -1
	for _, parent := range merge.Parents() {
		id, dist, err := walkFirstParents(src, closure, parent)
		if err != nil {
			return "", err
		}
		if id != "" && (bestDist < 0 || dist <= bestDist) {
			best, bestDist = id, dist
		}
	}
	if best == "" {
		return "", fmt.Errorf("no common ancestor below merge %s", merge.ID)
	}
	return best, nil
}

// walkFirstParents returns the first commit in closure on id's first-parent
// chain and how many steps it took to reach it.
func walkFirstParents(src CommitSource, closure map[string]bool, id string) (string, int, error) {
	for dist := 0; id != ""; dist++ {
		if closure[id] {
			return id, dist, nil
		}
		c, err := src.Commit(id)
		if err != nil {
			return "", 0, err
		}
		id = c.Parent
	}
	return "", 0, nil
}

// GenerationSplit picks, among the commits reachable from both heads, the one
// with the highest generation number (distance from the root along the
// longest path). Ties go to the newer timestamp, then to the smaller id.
func GenerationSplit(src CommitSource, current, other string) (string, error) {
	ours, err := Ancestors(src, current)
	if err != nil {
		return "", err
	}
	theirs, err := Ancestors(src, other)
	if err != nil {
		return "", err
	}

	memo := map[string]int{}
	var best *content.Commit
	bestGen := -1
	for id := range ours {
		if !theirs[id] {
			continue
		}

		gen, err := generation(src, id, memo)
		if err != nil {
			return "", err
		}
		c, err := src.Commit(id)
		if err != nil {
			return "", err
		}

		if best == nil || better(c, gen, best, bestGen) {
			best, bestGen = c, gen
		}
	}

	if best == nil {
		return "", fmt.Errorf("no common ancestor of %s and %s", current, other)
	}
	return best.ID, nil
}

func better(c *content.Commit, gen int, best *content.Commit, bestGen int) bool {
	if gen != bestGen {
		return gen > bestGen
	}
	if c.Timestamp != best.Timestamp {
		return c.Timestamp > best.Timestamp
	}
	return c.ID < best.ID
}

// generation computes 1 + the largest parent generation, the root being 0,
// without recursion.
func generation(src CommitSource, id string, memo map[string]int) (int, error) {
	stack := []string{id}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if _, ok := memo[top]; ok {
			stack = stack[:len(stack)-1]
			continue
		}

		c, err := src.Commit(top)
		if err != nil {
			return 0, err
		}

		gen, pending := 0, false
		for _, p := range c.Parents() {
			g, ok := memo[p]
			if !ok {
				stack = append(stack, p)
				pending = true
				continue
			}
			if g+1 > gen {
				gen = g + 1
			}
		}
		if !pending {
			memo[top] = gen
			stack = stack[:len(stack)-1]
		}
	}
	return memo[id], nil
}
