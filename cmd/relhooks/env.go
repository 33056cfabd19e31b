package main

import (
	"fmt"
	"io"
	"os"

	"github.com/4thel00z/relhooks/internal"
	"github.com/spf13/cobra"
)

// env is everything a command needs that depends on the persistent flags.
type env struct {
	root   string
	cfg    *internal.Config
	log    *internal.ZapLogger
	source internal.CommitSource
	repo   *internal.GitRepository
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	dir, _ := cmd.Flags().GetString("dir")
	configPath, _ := cmd.Flags().GetString("config")
	logJSON, _ := cmd.Flags().GetBool("log-json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}

	e := &env{
		root: dir,
		log:  internal.NewZapLogger(internal.NewCLILogger(cmd.ErrOrStderr(), logJSON, verbose)),
	}

	// A repository is optional: commits may be handed over with --commits.
	if repo, err := internal.OpenGitRepository(dir); err == nil {
		e.repo = repo
		e.root = repo.Root()
		e.source = repo
	}

	if configPath == "" {
		configPath = internal.ConfigPath(e.root)
	}
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	e.cfg = cfg

	return e, nil
}

// commits reads the --commits flag, falling back to the repository log
// since the last release tag.
func (e *env) commits(cmd *cobra.Command) ([]internal.Commit, error) {
	path, _ := cmd.Flags().GetString("commits")
	if path != "" {
		return readCommitsFile(cmd, path)
	}

	if e.source == nil {
		return nil, fmt.Errorf("no git repository at %s and no --commits given", e.root)
	}

	last, err := e.source.LastRelease(cmd.Context(), e.cfg.TagPrefix)
	if err != nil {
		return nil, err
	}
	return e.source.CommitsSince(cmd.Context(), last)
}

// nextRelease honours --release-version, otherwise plans the release from
// the last tag and either --type or the commit analysis. A nil result means
// no release.
func (e *env) nextRelease(cmd *cobra.Command, commits []internal.Commit) (*internal.NextRelease, error) {
	version, _ := cmd.Flags().GetString("release-version")
	if version != "" {
		return &internal.NextRelease{
			Version: version,
			GitTag:  e.cfg.TagPrefix + version,
		}, nil
	}

	typ := internal.Classify(commits).Type
	if raw, _ := cmd.Flags().GetString("type"); raw != "" {
		var err error
		if typ, err = internal.ParseReleaseType(raw); err != nil {
			return nil, err
		}
	}

	last := internal.LastRelease{}
	if e.source != nil {
		var err error
		last, err = e.source.LastRelease(cmd.Context(), e.cfg.TagPrefix)
		if err != nil {
			return nil, err
		}
	}

	return internal.PlanNextRelease(last, typ, e.cfg.TagPrefix)
}

func (e *env) sync() {
	_ = e.log.Zap().Sync()
}

func readCommitsFile(cmd *cobra.Command, path string) ([]internal.Commit, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open commits file: %w", err)
		}
		defer f.Close()
		r = f
	}
	return internal.DecodeCommits(r)
}

func addCommitsFlag(cmd *cobra.Command) {
	cmd.Flags().String("commits", "", "JSON file with commit records, - for stdin (default: git log since last release)")
}

func addReleaseVersionFlag(cmd *cobra.Command) {
	cmd.Flags().String("release-version", "", "Version being released (default: computed from tags and commits)")
	cmd.Flags().String("type", "", "Release type to apply instead of analyzing commits: minor, patch or none")
}
