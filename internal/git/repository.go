package git

import (
	"errors"
	"fmt"
	"strings"

	gitc "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/hashicorp/go-version"
)

type Repository struct {
	repo *gitc.Repository
}

// NewLocalRepository will attempt to open a pre-existing git repository in the given directory
// If no repository is found, it will return an empty Repository
func NewLocalRepository(dir string) (*Repository, error) {
	repo, err := gitc.PlainOpenWithOptions(dir, &gitc.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, gitc.ErrRepositoryNotExists) {
		return &Repository{}, nil
	} else if err != nil {
		return &Repository{}, fmt.Errorf("git: %w", err)
	}

	return &Repository{repo: repo}, nil
}

// InitLocalRepository will initialize a new git repository in the given directory
func InitLocalRepository(dir string) (*Repository, error) {
	branch := getDefaultGitBranch()
	reference := plumbing.NewBranchReferenceName(branch)

	repo, err := gitc.PlainInitWithOptions(dir, &gitc.PlainInitOptions{
		Bare: false,
		InitOptions: gitc.InitOptions{
			DefaultBranch: reference,
		},
	})
	if err != nil {
		return &Repository{}, err
	}

	return &Repository{repo: repo}, nil
}

func (r *Repository) IsNil() bool {
	return r.repo == nil
}

func (r *Repository) HeadHash() (string, error) {
	if r.IsNil() {
		return "", nil
	}

	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("git: %w", err)
	}

	return head.Hash().String(), nil
}

// Tag describes a semver release tag.
type Tag struct {
	Name    string
	Version *version.Version
	Hash    plumbing.Hash
}

// LatestSemverTag returns the highest semantic-version tag, or nil when the
// repository has no semver tags.
func (r *Repository) LatestSemverTag() (*Tag, error) {
	if r.IsNil() {
		return nil, nil
	}

	tags, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("git: %w", err)
	}

	var latest *Tag
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		v, err := version.NewSemver(strings.TrimPrefix(name, "v"))
		if err != nil {
			// Not a semver tag, ignore.
			return nil
		}

		hash := ref.Hash()
		// Annotated tags point at a tag object, not the commit.
		if tagObj, err := r.repo.TagObject(ref.Hash()); err == nil {
			hash = tagObj.Target
		}

		if latest == nil || v.GreaterThan(latest.Version) {
			latest = &Tag{Name: name, Version: v, Hash: hash}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("git: %w", err)
	}

	return latest, nil
}

// CommitMessagesSince returns the commit messages reachable from HEAD, newest
// first, stopping at (and excluding) the given hash. A zero hash walks the
// whole history.
func (r *Repository) CommitMessagesSince(since plumbing.Hash) ([]string, error) {
	if r.IsNil() {
		return nil, nil
	}

	iter, err := r.repo.Log(&gitc.LogOptions{})
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("git: %w", err)
	}

	var messages []string
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == since {
			return storer.ErrStop
		}
		messages = append(messages, c.Message)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("git: %w", err)
	}

	return messages, nil
}

const (
	defaultBranch string = "master"
)

// Retrieves the default branch from the user's global git config
// e.g
// git config --get init.defaultbranch
func getDefaultGitBranch() string {
	if cfg, _ := config.LoadConfig(config.GlobalScope); cfg != nil {
		if branch := cfg.Raw.Section("init").Options.Get("defaultBranch"); branch != "" {
			return branch
		}
	}
	return defaultBranch
}
