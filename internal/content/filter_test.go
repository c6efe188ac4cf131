package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathFilter_ExcludeWinsOverInclude(t *testing.T) {
	f, err := NewPathFilter([]string{"guides/**"}, []string{"guides/internal/**"})
	require.NoError(t, err)

	ok, _ := f.Include("guides/setup.md")
	require.True(t, ok)

	ok, reason := f.Include("guides/internal/secrets.md")
	require.False(t, ok)
	require.Equal(t, "excluded_by_pattern", reason)
}

func TestPathFilter_EmptyIncludeAdmitsEverything(t *testing.T) {
	f, err := NewPathFilter(nil, []string{"**/*.draft.md"})
	require.NoError(t, err)

	ok, _ := f.Include("principles/solid/introduction.md")
	require.True(t, ok)

	ok, _ = f.Include("principles/solid/notes.draft.md")
	require.False(t, ok)
}

func TestPathFilter_SingleStarStaysInSegment(t *testing.T) {
	f, err := NewPathFilter([]string{"*.md"}, nil)
	require.NoError(t, err)

	ok, _ := f.Include("intro.md")
	require.True(t, ok)

	ok, reason := f.Include("guides/intro.md")
	require.False(t, ok)
	require.Equal(t, "not_in_includes", reason)
}

func TestPathFilter_NilFilterAdmitsAll(t *testing.T) {
	var f *PathFilter
	ok, _ := f.Include("anything/at/all.md")
	require.True(t, ok)
}

func TestScan_HonorsPathFilter(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"keep.md":         "---\ntitle: Keep\n---\nBody.\n",
		"skip/dropped.md": "---\ntitle: Dropped\n---\nBody.\n",
		"skip/sub/own.md": "---\ntitle: Nested\n---\nBody.\n",
	})

	filter, err := NewPathFilter(nil, []string{"skip/**"})
	require.NoError(t, err)

	res, err := NewDiscovery(dir).WithFilter(filter).Scan()
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	require.Equal(t, "keep", res.Documents[0].ID)
}
