package v1

import (
	"context"
	"fmt"
	"os"

	"github.com/4thel00z/relhooks/internal"
)

// Client runs the release hooks against a git repository.
type Client struct {
	root string
	cfg  *internal.Config
	repo *internal.GitRepository
	log  *internal.ZapLogger
}

// New opens the repository and loads its config.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	dir := cfg.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}

	repo, err := internal.OpenGitRepository(dir)
	if err != nil {
		return nil, err
	}

	configPath := cfg.configPath
	if configPath == "" {
		configPath = internal.ConfigPath(repo.Root())
	}
	conf, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &Client{
		root: repo.Root(),
		cfg:  conf,
		repo: repo,
		log:  internal.NewZapLogger(cfg.logger),
	}, nil
}

// Classify returns "minor", "patch" or "none" for the given messages.
func Classify(messages ...string) string {
	commits := make([]internal.Commit, 0, len(messages))
	for _, m := range messages {
		commits = append(commits, internal.Commit{Message: m})
	}
	return internal.Classify(commits).Type.String()
}

// Pending reports the release that would be cut now, without writing.
func (c *Client) Pending(ctx context.Context) (*Release, error) {
	return c.run(ctx, true)
}

// Release runs every hook and writes the version file.
func (c *Client) Release(ctx context.Context) (*Release, error) {
	return c.run(ctx, false)
}

func (c *Client) run(ctx context.Context, dryRun bool) (*Release, error) {
	out, err := internal.NewReleaseUseCase(c.repo, c.repo, c.log).Execute(ctx, internal.ReleaseInput{
		Root:   c.root,
		Config: c.cfg,
		DryRun: dryRun,
	})
	if err != nil {
		return nil, fmt.Errorf("release: %w", err)
	}

	rel := &Release{
		Type:        out.Type.String(),
		LastVersion: out.LastRelease.Version,
		Commits:     make([]Commit, 0, len(out.Commits)),
		Tagged:      out.Tagged,
		DryRun:      dryRun,
	}
	for _, cm := range out.Commits {
		rel.Commits = append(rel.Commits, Commit{
			Hash:      cm.Hash,
			Message:   cm.Message,
			Author:    cm.Author,
			Timestamp: cm.Timestamp,
		})
	}
	if out.NextRelease != nil {
		rel.Version = out.NextRelease.Version
		rel.GitTag = out.NextRelease.GitTag
		rel.Notes = out.NextRelease.Notes
	}
	return rel, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return c.log.Zap().Sync()
}
