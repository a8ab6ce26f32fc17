package outline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okatsu/mdpresent/internal/deck"
)

func mustParse(t *testing.T, source string) *deck.Deck {
	t.Helper()
	d, err := deck.Parse([]byte(source))
	require.NoError(t, err)
	return d
}

func TestBuildTitlesFromHeadings(t *testing.T) {
	d := mustParse(t, "# Intro\ntext\n---\n## Details\n--\n### Fine print\n---\nno heading here")
	root := Build(d)

	require.Len(t, root.Children, 3)
	require.Equal(t, "Intro", root.Children[0].Title)
	require.Equal(t, "Details", root.Children[1].Title)
	require.Equal(t, "Slide 3", root.Children[2].Title)

	group := root.Children[1]
	require.True(t, group.IsGroup)
	require.Len(t, group.Children, 2)
	require.Equal(t, "Details", group.Children[0].Title)
	require.Equal(t, "Fine print", group.Children[1].Title)
}

func TestBuildRootTitleFromMeta(t *testing.T) {
	d := mustParse(t, "---\ntitle: My Talk\n---\n# A")
	require.Equal(t, "My Talk", Build(d).Title)

	d = mustParse(t, "# A")
	require.Equal(t, "Deck", Build(d).Title)
}

func TestFindResolvesCoordinates(t *testing.T) {
	d := mustParse(t, "# A\n---\n# B1\n--\n# B2")
	root := Build(d)

	leaf := root.Find(1, 1)
	require.NotNil(t, leaf)
	require.Equal(t, "B2", leaf.Title)
	require.Equal(t, 1, leaf.H)
	require.Equal(t, 1, leaf.V)

	plain := root.Find(0, 0)
	require.NotNil(t, plain)
	require.Equal(t, "A", plain.Title)

	require.Nil(t, root.Find(9, 0))
}

func TestGroupLeafFallbackTitles(t *testing.T) {
	d := mustParse(t, "one\n--\ntwo")
	root := Build(d)

	group := root.Children[0]
	require.Equal(t, "Slide 1", group.Title)
	require.Equal(t, "Slide 1", group.Children[0].Title)
	require.Equal(t, "Slide 1.2", group.Children[1].Title)
}
