package internal

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
)

// FirstReleaseVersion is used when no release tag exists yet.
const FirstReleaseVersion = "1.0.0"

// ParseTagVersion strips prefix from tag and parses the remainder as semver.
// ok is false for tags that are not releases.
func ParseTagVersion(tag, prefix string) (*version.Version, bool) {
	if !strings.HasPrefix(tag, prefix) {
		return nil, false
	}
	v, err := version.NewSemver(strings.TrimPrefix(tag, prefix))
	if err != nil || v.Prerelease() != "" {
		return nil, false
	}
	return v, true
}

// NextVersion bumps last according to typ. An empty last yields the first
// release version. ReleaseNone is an error since there is nothing to bump.
func NextVersion(last string, typ ReleaseType) (string, error) {
	if typ == ReleaseNone {
		return "", fmt.Errorf("no release type to apply")
	}
	if last == "" {
		return FirstReleaseVersion, nil
	}

	v, err := version.NewSemver(last)
	if err != nil {
		return "", fmt.Errorf("parse last version %q: %w", last, err)
	}

	seg := v.Segments64()
	for len(seg) < 3 {
		seg = append(seg, 0)
	}
	major, minor, patch := seg[0], seg[1], seg[2]

	switch typ {
	case ReleaseMinor:
		minor, patch = minor+1, 0
	case ReleasePatch:
		patch++
	default:
		return "", fmt.Errorf("unsupported release type %q", typ)
	}
	return fmt.Sprintf("%d.%d.%d", major, minor, patch), nil
}

// PlanNextRelease builds the NextRelease for a decision on top of last.
// It returns nil when typ is ReleaseNone.
func PlanNextRelease(last LastRelease, typ ReleaseType, tagPrefix string) (*NextRelease, error) {
	if typ == ReleaseNone {
		return nil, nil
	}
	v, err := NextVersion(last.Version, typ)
	if err != nil {
		return nil, err
	}
	return &NextRelease{
		Version: v,
		GitTag:  tagPrefix + v,
		Type:    typ,
	}, nil
}
