package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okatsu/mdpresent/internal/config"
	"github.com/okatsu/mdpresent/internal/nav"
)

func writeDeck(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadInitialState(t *testing.T) {
	path := writeDeck(t, "---\ntitle: T\nwrap: true\n---\n# A\n---\n# B")

	state, err := LoadInitialState(path, "", config.Overrides{})
	require.NoError(t, err)

	require.Equal(t, []int{1, 1}, state.Deck.Shape())
	require.True(t, state.Options.Wrap)
	require.Equal(t, nav.Position{}, state.Start)
	require.Equal(t, path, state.SourcePath)
}

func TestLoadInitialStateFragmentInTarget(t *testing.T) {
	path := writeDeck(t, "# A\n---\n# B1\n--\n# B2")

	state, err := LoadInitialState(path+"#/1/1", "", config.Overrides{})
	require.NoError(t, err)
	require.Equal(t, nav.Position{H: 1, V: 1}, state.Start)
}

func TestLoadInitialStateStartAtBeatsTargetFragment(t *testing.T) {
	path := writeDeck(t, "# A\n---\n# B")

	state, err := LoadInitialState(path+"#/1", "/0", config.Overrides{})
	require.NoError(t, err)
	require.Equal(t, nav.Position{}, state.Start)
}

func TestLoadInitialStateBadFragmentFallsBack(t *testing.T) {
	path := writeDeck(t, "# A\n---\n# B")

	state, err := LoadInitialState(path, "#/nope", config.Overrides{})
	require.NoError(t, err)
	require.Equal(t, nav.Position{}, state.Start)
}

func TestLoadInitialStateMissingFile(t *testing.T) {
	_, err := LoadInitialState(filepath.Join(t.TempDir(), "missing.md"), "", config.Overrides{})
	require.Error(t, err)
}
