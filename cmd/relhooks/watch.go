package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/4thel00z/relhooks/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the pending release whenever HEAD moves",
		Long:  `Watch the repository refs and print the release that would be cut from the current commits. Nothing is written.`,
		RunE:  makeWatchRunner(),
	}

	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for batching ref changes")
	return cmd
}

func makeWatchRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.sync()

		if e.repo == nil {
			return fmt.Errorf("not a git repository: %s", e.root)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		refsDir := filepath.Join(e.repo.RefsPath(), "refs")
		if err := addRefWatches(watcher, e.repo.RefsPath()); err != nil {
			return fmt.Errorf("add watch dirs: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for new commits...\n", e.root)
		printPending(cmd, e)

		// fire is nil while no refresh is pending.
		var fire <-chan time.Time

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if shouldIgnoreEvent(event) {
					continue
				}
				if err := watchNewDir(watcher, refsDir, event); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
				}
				if fire == nil {
					fire = time.After(debounce)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
			case <-fire:
				fire = nil
				printPending(cmd, e)
			}
		}
	}
}

// printPending runs a quiet dry run against a freshly opened repository.
func printPending(cmd *cobra.Command, e *env) {
	repo, err := internal.OpenGitRepository(e.root)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "open repository: %v\n", err)
		return
	}

	out, err := internal.NewReleaseUseCase(repo, nil, nil).Execute(cmd.Context(), internal.ReleaseInput{
		Root:   e.root,
		Config: e.cfg,
		DryRun: true,
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "analyze: %v\n", err)
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatPending(time.Now(), out))
}

func formatPending(now time.Time, out *internal.ReleaseOutput) string {
	stamp := now.Format("15:04:05")
	if out.NextRelease == nil {
		return fmt.Sprintf("[%s] no release pending (%d commits)", stamp, len(out.Commits))
	}
	return fmt.Sprintf("[%s] %s -> %s (%d commits)", stamp, out.Type, out.NextRelease.Version, len(out.Commits))
}

func addRefWatches(watcher *fsnotify.Watcher, gitDir string) error {
	if err := watcher.Add(gitDir); err != nil {
		return err
	}
	return filepath.Walk(filepath.Join(gitDir, "refs"), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// watchNewDir extends the watch to ref directories created after startup,
// such as refs/heads/feature/ for a first feature/* branch.
func watchNewDir(watcher *fsnotify.Watcher, refsDir string, event fsnotify.Event) error {
	if !event.Has(fsnotify.Create) || !strings.HasPrefix(event.Name, refsDir+string(filepath.Separator)) {
		return nil
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return nil
	}
	return watcher.Add(event.Name)
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) == ".lock" {
		return true
	}

	// The index changes on every stage and says nothing about HEAD.
	if filepath.Base(event.Name) == "index" {
		return true
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}

	return false
}
