// Package gitmeta enriches documents with last-update metadata from the git
// history of the content directory. It only ever reads the repository; the
// content tree is never checked out or mutated.
package gitmeta

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/docwright/docwright/internal/content"
	"github.com/docwright/docwright/internal/logfields"
)

// ErrNoRepository indicates the content directory is not inside a git
// repository. Callers usually downgrade this to a warning: git metadata is
// an enrichment, not a requirement.
var ErrNoRepository = errors.New("content directory is not inside a git repository")

// Annotator resolves per-file last-update information from commit history.
type Annotator struct {
	repo *git.Repository
	root string // absolute worktree root
}

// Open locates the repository containing dir, walking up parent directories
// the way git itself does.
func Open(dir string) (*Annotator, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNoRepository, dir)
		}
		return nil, fmt.Errorf("open repository for %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolve worktree: %w", err)
	}
	return &Annotator{repo: repo, root: wt.Filesystem.Root()}, nil
}

// HeadCommit returns the current HEAD commit hash, or "" for a repository
// with no commits yet.
func (a *Annotator) HeadCommit() (string, error) {
	ref, err := a.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// Annotate walks history newest-first and stamps each document with the
// author and time of the most recent commit touching its file. The walk
// stops as soon as every document is annotated. Returns the number of
// documents annotated.
func (a *Annotator) Annotate(ctx context.Context, docs []*content.Document) (int, error) {
	pending := make(map[string]*content.Document, len(docs))
	for _, d := range docs {
		rel, err := filepath.Rel(a.root, d.Path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			// Outside the worktree; nothing git can say about it.
			continue
		}
		pending[filepath.ToSlash(rel)] = d
	}
	if len(pending) == 0 {
		return 0, nil
	}

	head, err := a.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			slog.Debug("Repository has no commits; skipping git metadata")
			return 0, nil
		}
		return 0, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := a.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return 0, fmt.Errorf("walk history: %w", err)
	}
	defer iter.Close()

	annotated := 0
	err = iter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		stats, err := c.Stats()
		if err != nil {
			// Some merge topologies defeat stat computation; skip, the
			// next older commit touching the file still annotates it.
			return nil
		}
		for _, st := range stats {
			doc, ok := pending[st.Name]
			if !ok {
				continue
			}
			doc.LastUpdated = &content.LastUpdate{At: c.Author.When, By: c.Author.Name}
			delete(pending, st.Name)
			annotated++
		}
		if len(pending) == 0 {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return annotated, fmt.Errorf("walk history: %w", err)
	}

	slog.Debug("Annotated documents from git history",
		logfields.Count(annotated),
		slog.Int("without_history", len(pending)))
	return annotated, nil
}
