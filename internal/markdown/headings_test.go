package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractHeadings_LevelsAndOrder(t *testing.T) {
	src := []byte("# Intro\n\nSome text.\n\n## Setup\n\n### Linux\n")

	headings, err := ExtractHeadings(src, Options{})
	require.NoError(t, err)
	require.Len(t, headings, 3)

	require.Equal(t, 1, headings[0].Level)
	require.Equal(t, "Intro", headings[0].Text)
	require.Equal(t, "intro", headings[0].Anchor)

	require.Equal(t, 2, headings[1].Level)
	require.Equal(t, "setup", headings[1].Anchor)

	require.Equal(t, 3, headings[2].Level)
	require.Equal(t, "linux", headings[2].Anchor)
}

func TestExtractHeadings_AnchorStripsPunctuation(t *testing.T) {
	headings, err := ExtractHeadings([]byte("## What's New? (v2.1)\n"), Options{})
	require.NoError(t, err)
	require.Len(t, headings, 1)
	require.Equal(t, "whats-new-v21", headings[0].Anchor)
}

func TestExtractHeadings_DuplicateAnchorsGetSuffix(t *testing.T) {
	src := []byte("## Setup\n\n## Setup\n\n## Setup\n")

	headings, err := ExtractHeadings(src, Options{})
	require.NoError(t, err)
	require.Len(t, headings, 3)
	require.Equal(t, "setup", headings[0].Anchor)
	require.Equal(t, "setup-1", headings[1].Anchor)
	require.Equal(t, "setup-2", headings[2].Anchor)
}

func TestExtractHeadings_InlineMarkupInText(t *testing.T) {
	headings, err := ExtractHeadings([]byte("# Using `docwright` CLI\n"), Options{})
	require.NoError(t, err)
	require.Len(t, headings, 1)
	require.Equal(t, "Using docwright CLI", headings[0].Text)
	require.Equal(t, "using-docwright-cli", headings[0].Anchor)
}

func TestFirstHeading_UsedAsTitleFallback(t *testing.T) {
	title, ok := FirstHeading([]byte("Intro text.\n\n## Lambda Expressions\n"), Options{})
	require.True(t, ok)
	require.Equal(t, "Lambda Expressions", title)
}

func TestFirstHeading_NoHeadings(t *testing.T) {
	_, ok := FirstHeading([]byte("Just prose.\n"), Options{})
	require.False(t, ok)
}
