package gitmeta

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/docwright/docwright/internal/content"
)

func commitFile(t *testing.T, wt *git.Worktree, root, rel, body, author string, when time.Time) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	_, err := wt.Add(filepath.FromSlash(rel))
	require.NoError(t, err)
	_, err = wt.Commit("update "+rel, &git.CommitOptions{
		Author: &object.Signature{Name: author, Email: author + "@example.com", When: when},
	})
	require.NoError(t, err)
}

func TestAnnotate_LastCommitWins(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	t1 := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)

	commitFile(t, wt, root, "docs/intro.md", "# Intro\n", "Alice", t1)
	commitFile(t, wt, root, "docs/guide.md", "# Guide\n", "Alice", t1.Add(time.Hour))
	commitFile(t, wt, root, "docs/intro.md", "# Intro v2\n", "Bob", t2)

	intro := &content.Document{ID: "intro", Path: filepath.Join(root, "docs", "intro.md")}
	guide := &content.Document{ID: "guide", Path: filepath.Join(root, "docs", "guide.md")}

	ann, err := Open(filepath.Join(root, "docs"))
	require.NoError(t, err)

	n, err := ann.Annotate(context.Background(), []*content.Document{intro, guide})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NotNil(t, intro.LastUpdated)
	require.Equal(t, "Bob", intro.LastUpdated.By)
	require.Equal(t, t2.Unix(), intro.LastUpdated.At.Unix())

	require.NotNil(t, guide.LastUpdated)
	require.Equal(t, "Alice", guide.LastUpdated.By)
	require.Equal(t, t1.Add(time.Hour).Unix(), guide.LastUpdated.At.Unix())
}

func TestAnnotate_UntrackedDocSkipped(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	commitFile(t, wt, root, "docs/intro.md", "# Intro\n", "Alice", time.Now())
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "draft.md"), []byte("wip"), 0o644))

	intro := &content.Document{ID: "intro", Path: filepath.Join(root, "docs", "intro.md")}
	draft := &content.Document{ID: "draft", Path: filepath.Join(root, "docs", "draft.md")}

	ann, err := Open(root)
	require.NoError(t, err)

	n, err := ann.Annotate(context.Background(), []*content.Document{intro, draft})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.NotNil(t, intro.LastUpdated)
	require.Nil(t, draft.LastUpdated)
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.ErrorIs(t, err, ErrNoRepository)
}

func TestAnnotate_EmptyRepository(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)

	ann, err := Open(root)
	require.NoError(t, err)

	doc := &content.Document{ID: "intro", Path: filepath.Join(root, "intro.md")}
	n, err := ann.Annotate(context.Background(), []*content.Document{doc})
	require.NoError(t, err)
	require.Zero(t, n)

	head, err := ann.HeadCommit()
	require.NoError(t, err)
	require.Empty(t, head)
}

func TestAnnotate_Canceled(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	commitFile(t, wt, root, "intro.md", "# Intro\n", "Alice", time.Now())

	ann, err := Open(root)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &content.Document{ID: "intro", Path: filepath.Join(root, "intro.md")}
	_, err = ann.Annotate(ctx, []*content.Document{doc})
	require.ErrorIs(t, err, context.Canceled)
}

func TestHeadCommit(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	commitFile(t, wt, root, "intro.md", "# Intro\n", "Alice", time.Now())

	ann, err := Open(root)
	require.NoError(t, err)

	head, err := ann.HeadCommit()
	require.NoError(t, err)
	require.Len(t, head, 40)
}
