// Package versioning proposes semantic-version bumps from commit history.
// Generation itself never depends on it; the CLI uses it to keep the pipeline
// config's version current.
package versioning

import (
	"fmt"
	"strings"

	"github.com/actionsmith/actionsmith/internal/git"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"
)

type BumpKind string

const (
	BumpPatch BumpKind = "patch"
	BumpMinor BumpKind = "minor"
	BumpMajor BumpKind = "major"
	BumpNone  BumpKind = "none"
)

// Proposal is a suggested next version and the evidence for it.
type Proposal struct {
	Current *version.Version
	Next    *version.Version
	Kind    BumpKind
	Commits int
}

// Propose inspects commits since the last semver tag and classifies them by
// conventional-commit subject: breaking changes force a major bump, features a
// minor one, anything else a patch. No commits since the tag proposes no bump.
func Propose(repo *git.Repository) (*Proposal, error) {
	current := version.Must(version.NewSemver("0.0.0"))

	tag, err := repo.LatestSemverTag()
	if err != nil {
		return nil, err
	}

	since := plumbing.ZeroHash
	if tag != nil {
		current = tag.Version
		since = tag.Hash
	}

	messages, err := repo.CommitMessagesSince(since)
	if err != nil {
		return nil, err
	}

	kind := classify(messages)
	if kind == BumpNone {
		return &Proposal{Current: current, Next: current, Kind: BumpNone}, nil
	}

	next, err := Bump(current, kind)
	if err != nil {
		return nil, err
	}

	return &Proposal{Current: current, Next: next, Kind: kind, Commits: len(messages)}, nil
}

func classify(messages []string) BumpKind {
	if len(messages) == 0 {
		return BumpNone
	}

	kind := BumpPatch
	for _, msg := range messages {
		subject, _, _ := strings.Cut(msg, "\n")
		typ, _, found := strings.Cut(subject, ":")
		if !found {
			continue
		}

		if strings.HasSuffix(strings.TrimSpace(typ), "!") || strings.Contains(msg, "BREAKING CHANGE") {
			return BumpMajor
		}

		typ = strings.TrimSpace(typ)
		if scope := strings.Index(typ, "("); scope >= 0 {
			typ = typ[:scope]
		}
		if typ == "feat" {
			kind = BumpMinor
		}
	}

	return kind
}

// Bump returns the next version for a bump kind.
func Bump(v *version.Version, kind BumpKind) (*version.Version, error) {
	segments := v.Segments()
	major, minor, patch := segments[0], segments[1], segments[2]

	switch kind {
	case BumpMajor:
		major, minor, patch = major+1, 0, 0
	case BumpMinor:
		minor, patch = minor+1, 0
	case BumpPatch:
		patch++
	case BumpNone:
		return v, nil
	default:
		return nil, errors.Errorf("bump kind must be one of patch, minor, or major, got %q", kind)
	}

	return version.NewSemver(fmt.Sprintf("%d.%d.%d", major, minor, patch))
}
