package sidebar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_BareListDeclaresDefaultSidebar(t *testing.T) {
	file, err := Parse([]byte("- intro\n- guides/setup\n"))
	require.NoError(t, err)

	require.Equal(t, []string{DefaultName}, file.Order)
	tree := file.Tree(DefaultName)
	require.Len(t, tree, 2)
	require.Equal(t, KindDoc, tree[0].Kind)
	require.Equal(t, "intro", tree[0].DocID)
	require.Equal(t, "guides/setup", tree[1].DocID)
}

func TestParse_NamedSidebarsKeepDeclarationOrder(t *testing.T) {
	raw := "" +
		"docs:\n" +
		"  - intro\n" +
		"api:\n" +
		"  - api/overview\n"

	file, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, []string{"docs", "api"}, file.Order)
	require.Len(t, file.Tree("docs"), 1)
	require.Len(t, file.Tree("api"), 1)
}

func TestParse_CategoryWithNestedItems(t *testing.T) {
	raw := "" +
		"- label: SOLID\n" +
		"  position: 2\n" +
		"  items:\n" +
		"    - principles/solid/introduction\n" +
		"    - label: Details\n" +
		"      items:\n" +
		"        - principles/solid/open-closed\n"

	file, err := Parse([]byte(raw))
	require.NoError(t, err)

	tree := file.Tree(DefaultName)
	require.Len(t, tree, 1)

	cat := tree[0]
	require.Equal(t, KindCategory, cat.Kind)
	require.Equal(t, "SOLID", cat.Label)
	require.NotNil(t, cat.Position)
	require.Equal(t, 2, *cat.Position)
	require.Len(t, cat.Items, 2)

	require.Equal(t, KindDoc, cat.Items[0].Kind)
	require.Equal(t, "principles/solid/introduction", cat.Items[0].DocID)

	nested := cat.Items[1]
	require.Equal(t, KindCategory, nested.Kind)
	require.Equal(t, "Details", nested.Label)
	require.Len(t, nested.Items, 1)
}

func TestParse_DocMappingWithLabelOverride(t *testing.T) {
	raw := "" +
		"- doc: guides/setup\n" +
		"  label: Setup Guide\n" +
		"  position: 7\n"

	file, err := Parse([]byte(raw))
	require.NoError(t, err)

	node := file.Tree(DefaultName)[0]
	require.Equal(t, KindDoc, node.Kind)
	require.Equal(t, "guides/setup", node.DocID)
	require.Equal(t, "Setup Guide", node.Label)
	require.NotNil(t, node.Position)
	require.Equal(t, 7, *node.Position)
}

func TestParse_EmptyFileDeclaresNothing(t *testing.T) {
	file, err := Parse(nil)
	require.NoError(t, err)
	require.Empty(t, file.Order)
	require.Nil(t, file.Tree(DefaultName))
}

func TestParse_RejectsDocReferenceWithItems(t *testing.T) {
	raw := "" +
		"- doc: intro\n" +
		"  items:\n" +
		"    - guides/setup\n"

	_, err := Parse([]byte(raw))
	require.ErrorIs(t, err, ErrInvalidNode)
	require.Contains(t, err.Error(), "intro")
}

func TestParse_RejectsMappingWithoutDocOrLabel(t *testing.T) {
	_, err := Parse([]byte("- position: 3\n"))
	require.ErrorIs(t, err, ErrInvalidNode)
}

func TestParse_RejectsEmptyStringReference(t *testing.T) {
	_, err := Parse([]byte("- \"\"\n"))
	require.ErrorIs(t, err, ErrInvalidNode)
}

func TestParse_RejectsDuplicateSidebarName(t *testing.T) {
	raw := "" +
		"docs:\n" +
		"  - intro\n" +
		"docs:\n" +
		"  - other\n"

	_, err := Parse([]byte(raw))
	require.ErrorIs(t, err, ErrInvalidSyntax)
	require.Contains(t, err.Error(), "declared twice")
}

func TestParse_RejectsScalarTopLevel(t *testing.T) {
	_, err := Parse([]byte("just a string\n"))
	require.ErrorIs(t, err, ErrInvalidSyntax)
}

func TestParse_NodeLinesRecorded(t *testing.T) {
	raw := "" +
		"- intro\n" +
		"- label: Guides\n" +
		"  items:\n" +
		"    - guides/setup\n"

	file, err := Parse([]byte(raw))
	require.NoError(t, err)

	tree := file.Tree(DefaultName)
	require.Equal(t, 1, tree[0].Line)
	require.Equal(t, 2, tree[1].Line)
	require.Equal(t, 4, tree[1].Items[0].Line)
}

func TestRefs_CollectsAcrossSidebarsInOrder(t *testing.T) {
	raw := "" +
		"docs:\n" +
		"  - intro\n" +
		"  - label: Guides\n" +
		"    items:\n" +
		"      - guides/setup\n" +
		"      - intro\n" +
		"api:\n" +
		"  - api/overview\n"

	file, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, []string{"intro", "guides/setup", "intro", "api/overview"}, file.Refs())
}

func TestLoad_MissingFileError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "sidebars.yaml"))
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoad_ReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidebars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- intro\n"), 0o644))

	file, err := Load(path)
	require.NoError(t, err)
	require.Len(t, file.Tree(DefaultName), 1)
}
