// Package report renders repository views for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gitlet/internal/content"
	"gitlet/internal/diff"
	"gitlet/internal/repo"

	"github.com/fatih/color"
)

// DateLayout is the layout of log dates.
const DateLayout = "Mon Jan 2 15:04:05 2006 -0700"

type Printer struct {
	out io.Writer
	loc *time.Location

	current *color.Color
	commit  *color.Color
	notice  *color.Color
	added   *color.Color
	removed *color.Color
	hunk    *color.Color
}

// NewPrinter writes to out, formatting dates in loc (time.Local when nil).
func NewPrinter(out io.Writer, loc *time.Location) *Printer {
	if loc == nil {
		loc = time.Local
	}
	return &Printer{
		out:     out,
		loc:     loc,
		current: color.New(color.FgGreen),
		commit:  color.New(color.FgYellow),
		notice:  color.New(color.FgRed),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		hunk:    color.New(color.FgCyan),
	}
}

func (p *Printer) Status(st *repo.Status) {
	p.section("Branches")
	for _, b := range st.Branches {
		if b == st.Current {
			p.current.Fprintf(p.out, "*%s\n", b)
			continue
		}
		fmt.Fprintln(p.out, b)
	}
	fmt.Fprintln(p.out)

	p.list("Staged Files", st.Staged)
	p.list("Removed Files", st.Removed)

	changes := make([]string, 0, len(st.Unstaged))
	for _, c := range st.Unstaged {
		changes = append(changes, fmt.Sprintf("%s (%s)", c.Name, c.Kind))
	}
	p.list("Modifications Not Staged For Commit", changes)
	p.list("Untracked Files", st.Untracked)
}

// Log prints one entry per commit, in the given order.
func (p *Printer) Log(commits []*content.Commit) {
	for _, c := range commits {
		fmt.Fprintln(p.out, "===")
		p.commit.Fprintf(p.out, "commit %s\n", c.ID)
		if c.IsMerge() {
			fmt.Fprintf(p.out, "Merge: %s %s\n", short(c.Parent), short(c.Parent2))
		}
		fmt.Fprintf(p.out, "Date: %s\n", c.Time().In(p.loc).Format(DateLayout))
		fmt.Fprintln(p.out, c.Message)
		fmt.Fprintln(p.out)
	}
}

// IDs prints one id per line.
func (p *Printer) IDs(ids []string) {
	for _, id := range ids {
		fmt.Fprintln(p.out, id)
	}
}

func (p *Printer) Notice(msg string) {
	p.notice.Fprintln(p.out, msg)
}

// Message prints plain text, such as a handled error.
func (p *Printer) Message(msg string) {
	fmt.Fprintln(p.out, msg)
}

func (p *Printer) Diff(diffs []*diff.FileDiff) {
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Patch, "\n") {
			if line == "" {
				continue
			}
			switch {
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				fmt.Fprint(p.out, line)
			case strings.HasPrefix(line, "@@"):
				p.hunk.Fprint(p.out, line)
			case strings.HasPrefix(line, "+"):
				p.added.Fprint(p.out, line)
			case strings.HasPrefix(line, "-"):
				p.removed.Fprint(p.out, line)
			default:
				fmt.Fprint(p.out, line)
			}
		}
	}
}

func (p *Printer) section(title string) {
	fmt.Fprintf(p.out, "=== %s ===\n", title)
}

func (p *Printer) list(title string, items []string) {
	p.section(title)
	for _, item := range items {
		fmt.Fprintln(p.out, item)
	}
	fmt.Fprintln(p.out)
}

func short(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
