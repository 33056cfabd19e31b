package internal

import (
	"fmt"
	"strings"
)

const (
	featurePrefix = "feat"
	fixPrefix     = "fix"
)

// ReleaseType is the bump decided for the next release.
type ReleaseType string

const (
	ReleaseNone  ReleaseType = ""
	ReleasePatch ReleaseType = "patch"
	ReleaseMinor ReleaseType = "minor"
)

func (t ReleaseType) String() string {
	if t == ReleaseNone {
		return "none"
	}
	return string(t)
}

// ParseReleaseType accepts "minor", "patch", "none" or the empty string.
func ParseReleaseType(s string) (ReleaseType, error) {
	switch s {
	case "minor":
		return ReleaseMinor, nil
	case "patch":
		return ReleasePatch, nil
	case "", "none":
		return ReleaseNone, nil
	}
	return ReleaseNone, fmt.Errorf("unknown release type %q", s)
}

// LastRelease describes the most recent tagged release. Zero value means
// the repository has never been released.
type LastRelease struct {
	Version string
	GitTag  string
	Hash    string
}

func (r LastRelease) IsZero() bool {
	return r.Version == ""
}

// NextRelease is the release being produced by the current run.
type NextRelease struct {
	Version string
	GitTag  string
	Type    ReleaseType
	Notes   string
}

// Analysis is the classifier's decision together with the lines it would log.
type Analysis struct {
	Type  ReleaseType
	Lines []string
}

// Classify decides the release type from raw message prefixes.
// Matching is case-sensitive and does not trim: "feature" is a feature,
// "Fix: typo" is not a fix. A feature anywhere wins over any fix.
func Classify(commits []Commit) Analysis {
	lines := make([]string, 0, len(commits)+1)
	hasFeature, hasFix := false, false

	for _, c := range commits {
		lines = append(lines, "- Commit: "+c.Message)
		if strings.HasPrefix(c.Message, featurePrefix) {
			hasFeature = true
		}
		if strings.HasPrefix(c.Message, fixPrefix) {
			hasFix = true
		}
	}

	switch {
	case hasFeature:
		return Analysis{Type: ReleaseMinor, Lines: append(lines, "✔ Release type: minor")}
	case hasFix:
		return Analysis{Type: ReleasePatch, Lines: append(lines, "✔ Release type: patch")}
	}
	return Analysis{Type: ReleaseNone, Lines: append(lines, "ℹ No release needed.")}
}
