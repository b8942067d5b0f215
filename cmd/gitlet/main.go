// cmd/gitlet/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gitlet/internal/config"
	gerr "gitlet/internal/errors"
	"gitlet/internal/logging"
	"gitlet/internal/repo"
	"gitlet/internal/report"
	"gitlet/internal/workspace"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	dir     string
	verbose bool
	out     io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:   "gitlet",
		Short: "Gitlet is a small local version control system",
		Long: `Gitlet snapshots the files of one directory into content-addressed
commits, with branches, a staging area and three-way merges.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return gerr.ErrNoCommand
			}
			return gerr.ErrUnknownCommand
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetOut(out)
	rootCmd.SetFlagErrorFunc(func(*cobra.Command, error) error {
		return gerr.ErrIncorrectOperand
	})

	rootCmd.PersistentFlags().StringVarP(&a.dir, "dir", "C", ".", "run as if started in this directory")
	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "log debug output to stderr")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Create a repository in the current directory",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.Default()
				logger, err := a.logger(cfg)
				if err != nil {
					return err
				}
				defer logger.Sync()

				r, err := repo.Init(a.dir, repo.WithLogger(logger), repo.WithConfig(cfg))
				if err != nil {
					return err
				}
				return r.Close()
			},
		},
		&cobra.Command{
			Use:   "add <file>",
			Short: "Stage a file for the next commit",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, _ *report.Printer) error {
					return r.Add(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "rm <file>",
			Short: "Unstage a file, or stage its removal",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, _ *report.Printer) error {
					return r.Remove(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "commit <message>",
			Short: "Record the staged changes",
			Args:  maxArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, _ *report.Printer) error {
					if len(args) == 0 {
						return gerr.ErrEmptyMessage
					}
					_, err := r.Commit(args[0])
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "checkout -- <file> | checkout <commit> -- <file> | checkout <branch>",
			Short: "Restore a file or switch branches",
			Args:  checkoutArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dash := cmd.ArgsLenAtDash()
				return a.withRepo(func(r *repo.Repo, _ *report.Printer) error {
					switch {
					case dash == 0:
						return r.CheckoutFile(args[0])
					case dash == 1:
						return r.CheckoutCommitFile(args[0], args[1])
					default:
						return r.CheckoutBranch(args[0])
					}
				})
			},
		},
		&cobra.Command{
			Use:   "log",
			Short: "Show the history of the current branch",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, p *report.Printer) error {
					commits, err := r.Log()
					if err != nil {
						return err
					}
					p.Log(commits)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "global-log",
			Short: "Show every commit ever made",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, p *report.Printer) error {
					commits, err := r.GlobalLog()
					if err != nil {
						return err
					}
					p.Log(commits)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "find <message>",
			Short: "Print the ids of commits with the given message",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, p *report.Printer) error {
					ids, err := r.Find(args[0])
					if err != nil {
						return err
					}
					p.IDs(ids)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show branches, staged files and working changes",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, p *report.Printer) error {
					st, err := r.Status()
					if err != nil {
						return err
					}
					p.Status(st)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "branch <name>",
			Short: "Create a branch at HEAD",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, _ *report.Printer) error {
					return r.Branch(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "rm-branch <name>",
			Short: "Delete a branch pointer",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, _ *report.Printer) error {
					return r.RemoveBranch(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "reset <commit>",
			Short: "Move the current branch to a commit",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, _ *report.Printer) error {
					return r.Reset(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "merge <branch>",
			Short: "Merge a branch into the current branch",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, p *report.Printer) error {
					result, err := r.Merge(args[0])
					if err != nil {
						return err
					}
					for _, n := range result.Notices {
						p.Notice(n)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "diff [file...]",
			Short: "Show working changes against HEAD",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepo(func(r *repo.Repo, p *report.Printer) error {
					diffs, err := r.Diff(args...)
					if err != nil {
						return err
					}
					p.Diff(diffs)
					return nil
				})
			},
		},
	)

	return rootCmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return gerr.ErrIncorrectOperand
		}
		return nil
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return gerr.ErrIncorrectOperand
		}
		return nil
	}
}

func checkoutArgs(cmd *cobra.Command, args []string) error {
	switch dash := cmd.ArgsLenAtDash(); {
	case dash == 0 && len(args) == 1:
	case dash == 1 && len(args) == 2:
	case dash < 0 && len(args) == 1:
	default:
		return gerr.ErrIncorrectOperand
	}
	return nil
}

// logger picks zap's development logger for --verbose or a development
// environment, and the level-filtered production logger otherwise.
func (a *app) logger(cfg *config.Config) (*logging.Logger, error) {
	if a.verbose || cfg.Environment == config.EnvDevelopment {
		return logging.NewDevelopment()
	}
	return logging.NewLogger(cfg.LogLevel)
}

// withRepo opens the repository containing a.dir for the duration of fn.
func (a *app) withRepo(fn func(*repo.Repo, *report.Printer) error) (err error) {
	root, err := workspace.FindRoot(a.dir)
	if err != nil {
		return gerr.ErrNotInitialized
	}

	cfg, err := config.Load(filepath.Join(root, workspace.MetaDir, config.FileName))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := a.logger(cfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	r, err := repo.Open(root, repo.WithLogger(logger), repo.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	logger.Debug("command", zap.String("root", root), zap.String("session_id", r.SessionID))
	return fn(r, report.NewPrinter(a.out, nil))
}

// run executes args and returns the exit status. Handled user and domain
// errors print their message and still exit 0.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if e, ok := gerr.As(err); ok && gerr.IsUserFacing(err) {
		report.NewPrinter(stdout, nil).Message(e.Message)
		return 0
	}
	fmt.Fprintln(stderr, err)
	return 1
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
