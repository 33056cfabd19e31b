package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Commit is a single version-control change entry.
type Commit struct {
	Hash      string    `json:"hash,omitempty"`
	Message   string    `json:"message"`
	Author    string    `json:"author,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// UnmarshalJSON rejects records that carry no message key at all.
// An empty message is still a valid commit.
func (c *Commit) UnmarshalJSON(data []byte) error {
	var raw struct {
		Hash      string    `json:"hash"`
		Message   *string   `json:"message"`
		Author    string    `json:"author"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Message == nil {
		return fmt.Errorf("commit %q: %w", raw.Hash, ErrInvalidCommit)
	}

	*c = Commit{
		Hash:      raw.Hash,
		Message:   *raw.Message,
		Author:    raw.Author,
		Timestamp: raw.Timestamp,
	}
	return nil
}

// ShortHash returns the abbreviated hash, or the full value if it is short already.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// DecodeCommits reads a JSON array of commit records. Empty input or a
// JSON null yields an empty, non-nil list.
func DecodeCommits(r io.Reader) ([]Commit, error) {
	var commits []Commit
	if err := json.NewDecoder(r).Decode(&commits); err != nil && err != io.EOF {
		return nil, newHookError(PhaseAnalyze, KindInvalidCommit, fmt.Errorf("decode commits: %w", err))
	}
	if commits == nil {
		commits = []Commit{}
	}
	return commits, nil
}

// CommitSource yields the commits that belong to the pending release.
type CommitSource interface {
	CommitsSince(ctx context.Context, last LastRelease) ([]Commit, error)
	LastRelease(ctx context.Context, tagPrefix string) (LastRelease, error)
}

// StaticSource serves a fixed commit list, for commits handed over by an
// external orchestrator instead of read from git.
type StaticSource struct {
	Commits []Commit
	Last    LastRelease
}

func (s StaticSource) CommitsSince(ctx context.Context, _ LastRelease) ([]Commit, error) {
	return s.Commits, nil
}

func (s StaticSource) LastRelease(ctx context.Context, _ string) (LastRelease, error) {
	return s.Last, nil
}
