package deck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePreservesSlideBoundaries(t *testing.T) {
	cases := []struct {
		name   string
		source string
		shape  []int
	}{
		{
			name:   "single slide",
			source: "# Only",
			shape:  []int{1},
		},
		{
			name:   "three plain slides",
			source: "# A\n---\n# B\n---\n# C",
			shape:  []int{1, 1, 1},
		},
		{
			name:   "group in the middle",
			source: "# A\n---\n# B1\n--\n# B2\n--\n# B3\n---\n# C",
			shape:  []int{1, 3, 1},
		},
		{
			name:   "two groups",
			source: "a1\n--\na2\n---\nb1\n--\nb2\n--\nb3",
			shape:  []int{2, 3},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Parse([]byte(tc.source))
			require.NoError(t, err)
			require.Empty(t, d.Warnings)
			require.Equal(t, tc.shape, d.Shape())
		})
	}
}

func TestBoundaryRoundTrip(t *testing.T) {
	source := "# A\n---\n# B1\n--\n# B2\n--\n# B3\n---\n# C\n\nNote: remember this"
	first, err := Parse([]byte(source))
	require.NoError(t, err)

	// Re-serialize the deck with the documented separators and parse it
	// again; slide and leaf counts must survive.
	var sections []string
	for _, slide := range first.Slides {
		var leaves []string
		for _, leaf := range slide.Leaves {
			leaves = append(leaves, leaf.Content)
		}
		sections = append(sections, strings.Join(leaves, "\n--\n"))
	}
	second, err := Parse([]byte(strings.Join(sections, "\n---\n")))
	require.NoError(t, err)

	require.Equal(t, first.Shape(), second.Shape())
	require.Equal(t, first.LeafCount(), second.LeafCount())
}

func TestParseNotesExtraction(t *testing.T) {
	d, err := Parse([]byte("# Slide\n\nBody text.\n\nNote: Speaker note text"))
	require.NoError(t, err)
	require.Equal(t, []int{1}, d.Shape())

	leaf := d.Slides[0].Leaves[0]
	require.Equal(t, "Speaker note text", leaf.Notes)
	require.NotContains(t, leaf.Content, "Speaker note text")
	require.Contains(t, leaf.Content, "Body text.")
}

func TestParseNotesMultiline(t *testing.T) {
	source := strings.Join([]string{
		"# Slide",
		"",
		"Notes:",
		"first note line",
		"second note line",
	}, "\n")

	d, err := Parse([]byte(source))
	require.NoError(t, err)

	leaf := d.Slides[0].Leaves[0]
	require.Equal(t, "first note line\nsecond note line", leaf.Notes)
	require.Equal(t, "# Slide", leaf.Content)
}

func TestParseNotesMarkerMidSentenceIgnored(t *testing.T) {
	d, err := Parse([]byte("One thing to Note: separators sit at line start."))
	require.NoError(t, err)

	leaf := d.Slides[0].Leaves[0]
	require.Empty(t, leaf.Notes)
	require.Contains(t, leaf.Content, "Note:")
}

func TestParseNotesPerLeafInGroup(t *testing.T) {
	source := "first\n\nNote: alpha\n--\nsecond\n\nNote: beta"
	d, err := Parse([]byte(source))
	require.NoError(t, err)
	require.Equal(t, []int{2}, d.Shape())

	require.Equal(t, "alpha", d.Slides[0].Leaves[0].Notes)
	require.Equal(t, "beta", d.Slides[0].Leaves[1].Notes)
	require.NotContains(t, d.Slides[0].Leaves[0].Content, "alpha")
	require.NotContains(t, d.Slides[0].Leaves[1].Content, "beta")
}

func TestParseEmptyInput(t *testing.T) {
	for _, source := range []string{"", "\n\n\n", "   \n\t\n"} {
		d, err := Parse([]byte(source))
		require.NoError(t, err)
		require.True(t, d.Empty())
		require.Zero(t, d.LeafCount())
	}
}

func TestParseVerticalSeparatorBeforeContent(t *testing.T) {
	d, err := Parse([]byte("--\n# First"))
	require.NoError(t, err)

	require.Len(t, d.Warnings, 1)
	require.Contains(t, d.Warnings[0].Message, "vertical separator")
	require.Equal(t, []int{1}, d.Shape())
	require.Equal(t, "# First", d.Slides[0].Leaves[0].Content)
}

func TestParseTrailingSeparatorDropped(t *testing.T) {
	d, err := Parse([]byte("# A\n---\n# B\n---\n"))
	require.NoError(t, err)
	require.Equal(t, []int{1, 1}, d.Shape())
}

func TestParseSingleLeafGroupDegeneratesToLeaf(t *testing.T) {
	// A trailing vertical separator with nothing after it leaves a single
	// leaf; the slide must not present as a group.
	d, err := Parse([]byte("# A\n--\n"))
	require.NoError(t, err)
	require.Equal(t, []int{1}, d.Shape())
	require.False(t, d.Slides[0].IsGroup())
}

func TestParseEmptyVerticalSectionWarns(t *testing.T) {
	d, err := Parse([]byte("a\n--\n--\nb"))
	require.NoError(t, err)
	require.Equal(t, []int{2}, d.Shape())
	require.Len(t, d.Warnings, 1)
	require.Contains(t, d.Warnings[0].Message, "empty vertical section")
}

func TestParseFrontmatter(t *testing.T) {
	source := strings.Join([]string{
		"---",
		"title: Type-Level Tricks",
		"author: Okatsu",
		"theme: tokyo-night",
		"wrap: true",
		"custom_key: ignored",
		"---",
		"# First",
		"---",
		"# Second",
	}, "\n")

	d, err := Parse([]byte(source))
	require.NoError(t, err)

	require.Equal(t, "Type-Level Tricks", d.Meta.Title)
	require.Equal(t, "Okatsu", d.Meta.Author)
	require.Equal(t, "tokyo-night", d.Meta.Theme)
	require.NotNil(t, d.Meta.Wrap)
	require.True(t, *d.Meta.Wrap)
	require.Equal(t, []int{1, 1}, d.Shape())
}

func TestParseLeafLineNumbers(t *testing.T) {
	source := strings.Join([]string{
		"---",
		"title: T",
		"---",
		"# First",
		"---",
		"# Second",
	}, "\n")

	d, err := Parse([]byte(source))
	require.NoError(t, err)
	require.Equal(t, []int{1, 1}, d.Shape())
	require.Equal(t, 4, d.Slides[0].Leaves[0].Line)
	require.Equal(t, 6, d.Slides[1].Leaves[0].Line)
}

func TestNotesNeverInContent(t *testing.T) {
	source := "# A\nNote: na\n---\nb1\nNotes: nb1\n--\nb2\n---\n# C\nplain"
	d, err := Parse([]byte(source))
	require.NoError(t, err)

	for _, slide := range d.Slides {
		for _, leaf := range slide.Leaves {
			if leaf.Notes == "" {
				continue
			}
			require.NotContains(t, leaf.Content, leaf.Notes)
		}
	}
}

func TestDeckLeafLookup(t *testing.T) {
	d, err := Parse([]byte("a\n---\nb1\n--\nb2"))
	require.NoError(t, err)

	leaf, ok := d.Leaf(1, 1)
	require.True(t, ok)
	require.Equal(t, "b2", leaf.Content)

	_, ok = d.Leaf(2, 0)
	require.False(t, ok)
	_, ok = d.Leaf(1, 2)
	require.False(t, ok)
	_, ok = d.Leaf(-1, 0)
	require.False(t, ok)
}
