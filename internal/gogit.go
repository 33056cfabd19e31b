package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/hashicorp/go-version"
)

const (
	DefaultTagger = "relhooks"
	DefaultEmail  = "relhooks@local"
)

type GitRepository struct {
	repo     *git.Repository
	rootPath string
}

// FindGitDir walks up from dir looking for a .git directory.
func FindGitDir(dir string) (string, error) {
	for {
		gitDir := filepath.Join(dir, ".git")
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			return gitDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not a git repository (no .git found)")
		}
		dir = parent
	}
}

// OpenGitRepository opens the repository containing dir.
func OpenGitRepository(dir string) (*GitRepository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	gitDir, err := FindGitDir(abs)
	if err != nil {
		return nil, newHookError(PhaseVerify, KindRepository, err)
	}
	rootPath := filepath.Dir(gitDir)

	storage := filesystem.NewStorage(osfs.New(gitDir), cache.NewObjectLRUDefault())
	repo, err := git.Open(storage, osfs.New(rootPath))
	if err != nil {
		return nil, newHookError(PhaseVerify, KindRepository, fmt.Errorf("open repository: %w", err))
	}

	return &GitRepository{repo: repo, rootPath: rootPath}, nil
}

// NewGitRepositoryFrom wraps an already opened go-git repository.
func NewGitRepositoryFrom(repo *git.Repository, rootPath string) *GitRepository {
	return &GitRepository{repo: repo, rootPath: rootPath}
}

// Root is the working tree root.
func (r *GitRepository) Root() string {
	return r.rootPath
}

// Branch returns the short name of the checked out branch.
func (r *GitRepository) Branch(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	return head.Name().Short(), nil
}

// LastRelease finds the highest non-prerelease semver tag carrying tagPrefix
// whose commit is an ancestor of HEAD. Tags on other branches are skipped.
func (r *GitRepository) LastRelease(ctx context.Context, tagPrefix string) (LastRelease, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return LastRelease{}, nil
	}
	if err != nil {
		return LastRelease{}, newHookError(PhaseAnalyze, KindRepository, fmt.Errorf("get HEAD: %w", err))
	}

	reachable, err := r.ancestors(ctx, head.Hash())
	if err != nil {
		return LastRelease{}, newHookError(PhaseAnalyze, KindRepository, fmt.Errorf("walk history: %w", err))
	}

	tags, err := r.repo.Tags()
	if err != nil {
		return LastRelease{}, newHookError(PhaseAnalyze, KindRepository, fmt.Errorf("list tags: %w", err))
	}
	defer tags.Close()

	var (
		best    *version.Version
		bestRel LastRelease
	)
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := ref.Name().Short()
		v, ok := ParseTagVersion(name, tagPrefix)
		if !ok {
			return nil
		}
		if best != nil && !v.GreaterThan(best) {
			return nil
		}
		hash, err := r.peel(ref)
		if err != nil {
			return err
		}
		if _, ok := reachable[hash]; !ok {
			return nil
		}
		best = v
		bestRel = LastRelease{Version: v.String(), GitTag: name, Hash: hash.String()}
		return nil
	})
	if err != nil {
		return LastRelease{}, newHookError(PhaseAnalyze, KindRepository, fmt.Errorf("scan tags: %w", err))
	}

	return bestRel, nil
}

// CommitsSince lists commits reachable from HEAD but not from the last
// release commit, newest first like git log. Commits merged in from other
// branches after the release are included.
func (r *GitRepository) CommitsSince(ctx context.Context, last LastRelease) ([]Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, newHookError(PhaseAnalyze, KindRepository, fmt.Errorf("get HEAD: %w", err))
	}

	released := map[plumbing.Hash]struct{}{}
	if !last.IsZero() && last.Hash != "" {
		released, err = r.ancestors(ctx, plumbing.NewHash(last.Hash))
		if err != nil {
			return nil, newHookError(PhaseAnalyze, KindRepository, fmt.Errorf("walk release history: %w", err))
		}
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, newHookError(PhaseAnalyze, KindRepository, fmt.Errorf("get log: %w", err))
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := released[c.Hash]; ok {
			return nil
		}
		commits = append(commits, toCommit(c))
		return nil
	})
	if err != nil {
		return nil, newHookError(PhaseAnalyze, KindRepository, fmt.Errorf("walk log: %w", err))
	}

	return commits, nil
}

// CreateTag points an annotated tag at HEAD.
func (r *GitRepository) CreateTag(ctx context.Context, name, message string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("get HEAD: %w", err)
	}

	_, err = r.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  DefaultTagger,
			Email: DefaultEmail,
			When:  time.Now(),
		},
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("create tag %s: %w", name, err)
	}
	return nil
}

// RefsPath is the directory whose changes signal that HEAD may have moved.
func (r *GitRepository) RefsPath() string {
	return filepath.Join(r.rootPath, ".git")
}

// helpers

func (r *GitRepository) peel(ref *plumbing.Reference) (plumbing.Hash, error) {
	tag, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		c, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("peel tag %s: %w", tag.Name, err)
		}
		return c.Hash, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return ref.Hash(), nil
	default:
		return plumbing.ZeroHash, err
	}
}

// ancestors returns from and every commit reachable from it.
func (r *GitRepository) ancestors(ctx context.Context, from plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	start, err := r.repo.CommitObject(from)
	if err != nil {
		return nil, fmt.Errorf("get commit %s: %w", from, err)
	}

	seen := map[plumbing.Hash]struct{}{}
	iter := object.NewCommitPreorderIter(start, nil, nil)
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}

func toCommit(c *object.Commit) Commit {
	return Commit{
		Hash:      c.Hash.String(),
		Message:   strings.TrimSpace(c.Message),
		Author:    c.Author.Name,
		Timestamp: c.Author.When,
	}
}
