package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func storeFixture() *Store {
	docs := []*Document{
		{ID: "intro", Section: "", Name: "intro"},
		{ID: "guides/setup", Section: "guides", Name: "setup"},
		{ID: "guides/usage", Section: "guides", Name: "usage"},
	}
	return NewStore(&ScanResult{
		Documents: docs,
		Assets:    []Asset{{RelPath: "img/a.png"}},
	})
}

func TestStore_GetAndLen(t *testing.T) {
	s := storeFixture()
	require.Equal(t, 3, s.Len())

	doc, ok := s.Get("guides/setup")
	require.True(t, ok)
	require.Equal(t, "setup", doc.Name)

	_, ok = s.Get("guides/missing")
	require.False(t, ok)
}

func TestStore_AllPreservesScanOrder(t *testing.T) {
	s := storeFixture()
	var ids []string
	for _, d := range s.All() {
		ids = append(ids, d.ID)
	}
	require.Equal(t, []string{"intro", "guides/setup", "guides/usage"}, ids)
}

func TestStore_Sections(t *testing.T) {
	s := storeFixture()
	sections := s.Sections()
	require.Equal(t, []string{"guides/setup", "guides/usage"}, sections["guides"])
	require.Equal(t, []string{"intro"}, sections[""])
}

func TestStore_Assets(t *testing.T) {
	s := storeFixture()
	require.True(t, s.HasAsset("img/a.png"))
	require.False(t, s.HasAsset("img/missing.png"))
}

func TestDocument_RoutePath(t *testing.T) {
	cases := []struct {
		doc  Document
		want string
	}{
		{Document{ID: "guides/setup", Section: "guides", Name: "setup"}, "guides/setup"},
		{Document{ID: "guides/index", Section: "guides", Name: "index"}, "guides"},
		{Document{ID: "index", Section: "", Name: "index"}, ""},
		{Document{ID: "guides/setup", Section: "guides", Name: "setup", Slug: "quick start"}, "guides/quick-start"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.doc.RoutePath(), "RoutePath for %s", tc.doc.ID)
	}
}

func TestDocument_NavLabelPrefersSidebarLabel(t *testing.T) {
	d := Document{Title: "Full Title", SidebarLabel: "Short"}
	require.Equal(t, "Short", d.NavLabel())

	d.SidebarLabel = ""
	require.Equal(t, "Full Title", d.NavLabel())
}
