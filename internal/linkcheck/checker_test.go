package linkcheck

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/content"
	"github.com/docwright/docwright/internal/markdown"
)

func mkDoc(id, body string, anchors ...string) *content.Document {
	section, name := "", id
	if i := strings.LastIndex(id, "/"); i >= 0 {
		section, name = id[:i], id[i+1:]
	}
	d := &content.Document{
		ID:      id,
		RelPath: id + ".md",
		Section: section,
		Name:    name,
		Title:   name,
		Body:    []byte(body),
	}
	for _, a := range anchors {
		d.Headings = append(d.Headings, markdown.Heading{Level: 2, Text: a, Anchor: a})
	}
	return d
}

func mkStore(docs []*content.Document, assets ...string) *content.Store {
	res := &content.ScanResult{Documents: docs}
	for _, a := range assets {
		res.Assets = append(res.Assets, content.Asset{Path: "/content/" + a, RelPath: a})
	}
	return content.NewStore(res)
}

func check(t *testing.T, store *content.Store, opts Options) *Result {
	t.Helper()
	res, err := NewChecker(store, opts).Check(context.Background())
	require.NoError(t, err)
	return res
}

func TestCheck_RelativeLinkToExistingDocument(t *testing.T) {
	store := mkStore([]*content.Document{
		mkDoc("guides/intro", "See [setup](setup.md) first."),
		mkDoc("guides/setup", "Body."),
	})

	res := check(t, store, Options{})
	require.Empty(t, res.Findings)
	require.Equal(t, 1, res.Checked)
}

func TestCheck_RelativeLinkWithoutExtension(t *testing.T) {
	store := mkStore([]*content.Document{
		mkDoc("guides/intro", "See [setup](./setup) and [parent](../index)."),
		mkDoc("guides/setup", "Body."),
		mkDoc("index", "Body."),
	})

	res := check(t, store, Options{})
	require.Empty(t, res.Findings)
	require.Equal(t, 2, res.Checked)
}

func TestCheck_RelativeLinkToMissingDocument(t *testing.T) {
	store := mkStore([]*content.Document{
		mkDoc("guides/intro", "See [gone](missing.md)."),
	})

	res := check(t, store, Options{})
	require.Len(t, res.Findings, 1)

	f := res.Findings[0]
	require.Equal(t, CodeBrokenLink, f.Code)
	require.Equal(t, SeverityWarning, f.Severity)
	require.Equal(t, "guides/intro", f.DocID)
	require.Equal(t, "missing.md", f.Link)
	require.Contains(t, f.Message, "guides/missing.md")
}

func TestCheck_RelativeLinkEscapingContentDir(t *testing.T) {
	store := mkStore([]*content.Document{
		mkDoc("intro", "See [out](../secrets.md)."),
	})

	res := check(t, store, Options{})
	require.Len(t, res.Findings, 1)
	require.Contains(t, res.Findings[0].Message, "escapes")
}

func TestCheck_AbsoluteRouteLinks(t *testing.T) {
	store := mkStore([]*content.Document{
		mkDoc("guides/intro", ""+
			"[ok](/docs/guides/setup) "+
			"[missing](/docs/guides/gone) "+
			"[static](/img/logo.png)"),
		mkDoc("guides/setup", "Body."),
	})

	res := check(t, store, Options{RouteBase: "docs"})
	require.Len(t, res.Findings, 1)
	require.Equal(t, CodeBrokenLink, res.Findings[0].Code)
	require.Contains(t, res.Findings[0].Message, "/docs/guides/gone")
	require.Equal(t, 2, res.Checked)
	require.Equal(t, 1, res.Skipped)
}

func TestCheck_IndexRouteCollapses(t *testing.T) {
	store := mkStore([]*content.Document{
		mkDoc("guides/index", "Body."),
		mkDoc("intro", "[guides](/docs/guides)"),
	})

	res := check(t, store, Options{RouteBase: "docs"})
	require.Empty(t, res.Findings)
}

func TestCheck_AnchorsAgainstTargetHeadings(t *testing.T) {
	store := mkStore([]*content.Document{
		mkDoc("guides/intro", "[ok](setup.md#install) [bad](setup.md#nope)"),
		mkDoc("guides/setup", "Body.", "install"),
	})

	res := check(t, store, Options{})
	require.Len(t, res.Findings, 1)

	f := res.Findings[0]
	require.Equal(t, CodeBrokenAnchor, f.Code)
	require.Contains(t, f.Message, `"nope"`)
	require.Contains(t, f.Message, "guides/setup")
}

func TestCheck_SamePageFragment(t *testing.T) {
	store := mkStore([]*content.Document{
		mkDoc("intro", "[jump](#usage) [bad](#missing)", "usage"),
	})

	res := check(t, store, Options{})
	require.Len(t, res.Findings, 1)
	require.Equal(t, CodeBrokenAnchor, res.Findings[0].Code)
	require.Equal(t, "intro", res.Findings[0].DocID)
}

func TestCheck_ExternalRecordedNotFetched(t *testing.T) {
	store := mkStore([]*content.Document{
		mkDoc("intro", "[site](https://example.com/page) [mail](mailto:team@example.com)"),
	})

	res := check(t, store, Options{})
	require.Empty(t, res.Findings)
	require.Len(t, res.External, 1)
	require.Equal(t, "https://example.com/page", res.External[0].URL)
	require.Equal(t, 1, res.Skipped)
	require.Equal(t, 0, res.Checked)
}

func TestCheck_AssetReferences(t *testing.T) {
	store := mkStore([]*content.Document{
		mkDoc("guides/intro", "![arch](img/arch.png) ![gone](img/missing.png)"),
	}, "guides/img/arch.png")

	res := check(t, store, Options{})
	require.Len(t, res.Findings, 1)
	require.Contains(t, res.Findings[0].Message, "guides/img/missing.png")
}

func TestCheck_DraftTargets(t *testing.T) {
	draft := mkDoc("guides/wip", "Body.")
	draft.Draft = true
	docs := []*content.Document{
		mkDoc("intro", "[wip](guides/wip.md)"),
		draft,
	}

	res := check(t, mkStore(docs), Options{})
	require.Len(t, res.Findings, 1)
	require.Contains(t, res.Findings[0].Message, "draft")

	res = check(t, mkStore(docs), Options{IncludeDrafts: true})
	require.Empty(t, res.Findings)
}

func TestCheck_DraftSourceBodiesSkipped(t *testing.T) {
	draft := mkDoc("wip", "[gone](missing.md)")
	draft.Draft = true

	res := check(t, mkStore([]*content.Document{draft}), Options{})
	require.Empty(t, res.Findings)
	require.Equal(t, 0, res.Checked)
}

func TestCheck_PolicyEscalationAndSilence(t *testing.T) {
	docs := []*content.Document{mkDoc("intro", "[gone](missing.md)")}

	res := check(t, mkStore(docs), Options{LinkPolicy: config.PolicyFail})
	require.Len(t, res.Findings, 1)
	require.Equal(t, SeverityError, res.Findings[0].Severity)
	require.True(t, res.HasErrors())

	res = check(t, mkStore(docs), Options{LinkPolicy: config.PolicyIgnore})
	require.Empty(t, res.Findings)
}

func TestCheck_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := mkStore([]*content.Document{mkDoc("intro", "Body.")})
	_, err := NewChecker(store, Options{}).Check(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
