package nav

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/content"
	"github.com/docwright/docwright/internal/sidebar"
)

// mkDoc builds a store document from an id; an optional trailing int sets
// the sidebar position hint.
func mkDoc(id string, position ...int) *content.Document {
	section, name := "", id
	if i := strings.LastIndex(id, "/"); i >= 0 {
		section, name = id[:i], id[i+1:]
	}
	d := &content.Document{
		ID:          id,
		Section:     section,
		Name:        name,
		Title:       name,
		TitleSource: content.TitleFromFrontmatter,
	}
	if len(position) > 0 {
		p := position[0]
		d.SidebarPosition = &p
	}
	return d
}

func mkStore(docs ...*content.Document) *content.Store {
	return content.NewStore(&content.ScanResult{Documents: docs})
}

func parseTree(t *testing.T, raw string) *sidebar.File {
	t.Helper()
	file, err := sidebar.Parse([]byte(raw))
	require.NoError(t, err)
	return file
}

func docIDs(entries []Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.DocID)
	}
	return ids
}

func TestResolve_SolidCategoryKeepsPositionOrder(t *testing.T) {
	store := mkStore(
		mkDoc("principles/solid/introduction", 1),
		mkDoc("principles/solid/open-closed", 2),
	)
	file := parseTree(t, ""+
		"- label: SOLID\n"+
		"  items:\n"+
		"    - principles/solid/introduction\n"+
		"    - principles/solid/open-closed\n")

	res := NewResolver(store, Options{}).Resolve(file)
	require.Empty(t, res.Diagnostics)

	entries := res.Entries(sidebar.DefaultName)
	require.Len(t, entries, 1)
	require.Equal(t, sidebar.KindCategory, entries[0].Kind)
	require.Equal(t, "SOLID", entries[0].Label)
	require.Equal(t,
		[]string{"principles/solid/introduction", "principles/solid/open-closed"},
		docIDs(entries[0].Items))
}

func TestResolve_SortsByPositionRegardlessOfDeclaration(t *testing.T) {
	store := mkStore(
		mkDoc("guides/advanced", 3),
		mkDoc("guides/setup", 1),
		mkDoc("guides/usage", 2),
	)
	file := parseTree(t, "- guides/advanced\n- guides/usage\n- guides/setup\n")

	res := NewResolver(store, Options{}).Resolve(file)
	require.Empty(t, res.Diagnostics)
	require.Equal(t,
		[]string{"guides/setup", "guides/usage", "guides/advanced"},
		docIDs(res.Entries(sidebar.DefaultName)))
}

func TestResolve_TiesKeepDeclarationOrderAndUnhintedSortLast(t *testing.T) {
	store := mkStore(
		mkDoc("a", 2),
		mkDoc("b", 1),
		mkDoc("c"), // no hint
		mkDoc("d", 1),
	)
	file := parseTree(t, "- a\n- b\n- c\n- d\n")

	res := NewResolver(store, Options{}).Resolve(file)
	require.Empty(t, res.Diagnostics)
	require.Equal(t, []string{"b", "d", "a", "c"}, docIDs(res.Entries(sidebar.DefaultName)))
}

func TestResolve_DanglingReferenceWarnsOnceAndSiblingsResolve(t *testing.T) {
	store := mkStore(
		mkDoc("java/functional/streams", 1),
		mkDoc("java/functional/optionals", 2),
	)
	file := parseTree(t, ""+
		"- label: Functional Java\n"+
		"  items:\n"+
		"    - java/functional/streams\n"+
		"    - java/functional/lambdas\n"+
		"    - java/functional/optionals\n")

	res := NewResolver(store, Options{}).Resolve(file)

	require.Len(t, res.Diagnostics, 1)
	diag := res.Diagnostics[0]
	require.Equal(t, CodeDanglingRef, diag.Code)
	require.Equal(t, SeverityWarning, diag.Severity)
	require.Equal(t, "java/functional/lambdas", diag.DocID)
	require.Contains(t, diag.Message, "java/functional/lambdas")
	require.False(t, res.HasErrors())

	entries := res.Entries(sidebar.DefaultName)
	require.Len(t, entries, 1)
	require.Equal(t,
		[]string{"java/functional/streams", "java/functional/optionals"},
		docIDs(entries[0].Items))
}

func TestResolve_DanglingPolicyFailEscalatesToError(t *testing.T) {
	store := mkStore(mkDoc("intro", 1))
	file := parseTree(t, "- intro\n- missing/doc\n")

	res := NewResolver(store, Options{Policy: config.PolicyFail}).Resolve(file)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, SeverityError, res.Diagnostics[0].Severity)
	require.True(t, res.HasErrors())
}

func TestResolve_DanglingPolicyIgnoreStaysSilent(t *testing.T) {
	store := mkStore(mkDoc("intro", 1))
	file := parseTree(t, "- intro\n- missing/doc\n")

	res := NewResolver(store, Options{Policy: config.PolicyIgnore}).Resolve(file)
	require.Empty(t, res.Diagnostics)
	// The entry is still dropped: there is nothing to link to.
	require.Equal(t, []string{"intro"}, docIDs(res.Entries(sidebar.DefaultName)))
}

func TestResolve_DuplicateReferenceWarnsAndStillRenders(t *testing.T) {
	store := mkStore(mkDoc("intro"), mkDoc("guides/setup"))
	file := parseTree(t, ""+
		"- intro\n"+
		"- label: Guides\n"+
		"  items:\n"+
		"    - guides/setup\n"+
		"    - intro\n")

	res := NewResolver(store, Options{}).Resolve(file)

	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, CodeDuplicateRef, res.Diagnostics[0].Code)
	require.Equal(t, "intro", res.Diagnostics[0].DocID)

	entries := res.Entries(sidebar.DefaultName)
	require.Len(t, entries, 2)
	require.Equal(t, []string{"guides/setup", "intro"}, docIDs(entries[1].Items))
}

func TestResolve_DuplicateAcrossNamedSidebars(t *testing.T) {
	store := mkStore(mkDoc("intro", 1))
	file := parseTree(t, ""+
		"docs:\n"+
		"  - intro\n"+
		"api:\n"+
		"  - intro\n")

	res := NewResolver(store, Options{}).Resolve(file)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, CodeDuplicateRef, res.Diagnostics[0].Code)
	require.Equal(t, "api", res.Diagnostics[0].Sidebar)
	require.Contains(t, res.Diagnostics[0].Message, `sidebar "docs"`)
}

func TestResolve_DraftReferenceDropped(t *testing.T) {
	draft := mkDoc("guides/wip", 1)
	draft.Draft = true
	store := mkStore(mkDoc("intro", 1), draft)
	file := parseTree(t, "- intro\n- guides/wip\n")

	res := NewResolver(store, Options{}).Resolve(file)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, CodeDraftRef, res.Diagnostics[0].Code)
	require.Equal(t, []string{"intro"}, docIDs(res.Entries(sidebar.DefaultName)))

	res = NewResolver(store, Options{IncludeDrafts: true}).Resolve(file)
	require.Empty(t, res.Diagnostics)
	require.Equal(t, []string{"intro", "guides/wip"}, docIDs(res.Entries(sidebar.DefaultName)))
}

func TestResolve_EmptyCategoryPruned(t *testing.T) {
	store := mkStore(mkDoc("intro", 1))
	file := parseTree(t, ""+
		"- intro\n"+
		"- label: Ghost Town\n"+
		"  items:\n"+
		"    - not/there\n")

	res := NewResolver(store, Options{}).Resolve(file)

	codes := make([]string, len(res.Diagnostics))
	for i, d := range res.Diagnostics {
		codes[i] = d.Code
	}
	require.Equal(t, []string{CodeDanglingRef, CodeEmptyCategory}, codes)

	entries := res.Entries(sidebar.DefaultName)
	require.Len(t, entries, 1)
	require.Equal(t, "intro", entries[0].DocID)
}

func TestResolve_LabelPrecedence(t *testing.T) {
	labeled := mkDoc("guides/setup", 1)
	labeled.Title = "Setup"
	labeled.SidebarLabel = "Getting Set Up"
	store := mkStore(labeled, mkDoc("intro", 2))
	file := parseTree(t, ""+
		"- guides/setup\n"+
		"- doc: intro\n"+
		"  label: Start Here\n")

	res := NewResolver(store, Options{}).Resolve(file)
	require.Empty(t, res.Diagnostics)

	entries := res.Entries(sidebar.DefaultName)
	require.Equal(t, "Getting Set Up", entries[0].Label)
	require.Equal(t, "Start Here", entries[1].Label)
}

func TestResolve_ReferencePositionOverridesDocumentHint(t *testing.T) {
	store := mkStore(mkDoc("a", 1), mkDoc("b", 9))
	file := parseTree(t, ""+
		"- a\n"+
		"- doc: b\n"+
		"  position: 0\n")

	res := NewResolver(store, Options{}).Resolve(file)
	require.Empty(t, res.Diagnostics)
	require.Equal(t, []string{"b", "a"}, docIDs(res.Entries(sidebar.DefaultName)))
}

func TestResolve_CategoryPositionOrdersAmongDocs(t *testing.T) {
	store := mkStore(mkDoc("intro", 1), mkDoc("guides/setup", 5))
	file := parseTree(t, ""+
		"- guides/setup\n"+
		"- label: Reference\n"+
		"  position: 2\n"+
		"  items:\n"+
		"    - intro\n")

	res := NewResolver(store, Options{}).Resolve(file)
	require.Empty(t, res.Diagnostics)

	entries := res.Entries(sidebar.DefaultName)
	require.Len(t, entries, 2)
	require.Equal(t, sidebar.KindCategory, entries[0].Kind)
	require.Equal(t, "guides/setup", entries[1].DocID)
}

func TestResolve_RoutesComeFromDocuments(t *testing.T) {
	index := mkDoc("guides/index", 1)
	store := mkStore(index, mkDoc("guides/setup", 2))
	file := parseTree(t, "- guides/index\n- guides/setup\n")

	res := NewResolver(store, Options{}).Resolve(file)
	require.Empty(t, res.Diagnostics)

	entries := res.Entries(sidebar.DefaultName)
	require.Equal(t, "guides", entries[0].Route)
	require.Equal(t, "guides/setup", entries[1].Route)
}

func TestResolve_OrphanReporting(t *testing.T) {
	draft := mkDoc("hidden/wip")
	draft.Draft = true
	store := mkStore(mkDoc("intro", 1), mkDoc("guides/unlisted", 2), draft)
	file := parseTree(t, "- intro\n")

	res := NewResolver(store, Options{WarnOrphans: true}).Resolve(file)

	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, CodeOrphanedDoc, res.Diagnostics[0].Code)
	require.Equal(t, "guides/unlisted", res.Diagnostics[0].DocID)
}

func TestResolve_NilFileYieldsEmptyResult(t *testing.T) {
	res := NewResolver(mkStore(), Options{}).Resolve(nil)
	require.Empty(t, res.Sidebars)
	require.Empty(t, res.Diagnostics)
	require.False(t, res.HasErrors())
}

func TestResult_EntriesUnknownName(t *testing.T) {
	res := NewResolver(mkStore(mkDoc("intro", 1)), Options{}).Resolve(parseTree(t, "- intro\n"))
	require.Nil(t, res.Entries("nope"))
}
