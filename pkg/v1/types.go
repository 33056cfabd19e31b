package v1

import "time"

// Commit is a commit record as consumed by the hooks.
type Commit struct {
	Hash      string    `json:"hash,omitempty"`
	Message   string    `json:"message"`
	Author    string    `json:"author,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Release summarises one run of the release hooks.
type Release struct {
	// Type is "minor", "patch" or "none".
	Type        string   `json:"release_type"`
	LastVersion string   `json:"last_version,omitempty"`
	Version     string   `json:"version,omitempty"`
	GitTag      string   `json:"git_tag,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Commits     []Commit `json:"commits"`
	Tagged      bool     `json:"tagged"`
	DryRun      bool     `json:"dry_run"`
}

// Released reports whether the run produced a new version.
func (r *Release) Released() bool {
	return r.Version != ""
}
