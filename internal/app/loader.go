package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/okatsu/mdpresent/internal/config"
	"github.com/okatsu/mdpresent/internal/deck"
	"github.com/okatsu/mdpresent/internal/nav"
	"github.com/okatsu/mdpresent/internal/ui"
)

// LoadInitialState reads and parses the target document and prepares the UI
// state. The target may carry a deep-link fragment ("deck.md#/2/1"); an
// explicit startAt fragment takes precedence over one embedded in the target.
func LoadInitialState(target, startAt string, flags config.Overrides) (ui.State, error) {
	path, fragment := nav.SplitTarget(target)
	if startAt != "" {
		fragment = startAt
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return ui.State{}, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return ui.State{}, err
	}

	parsed, err := deck.Parse(data)
	if err != nil {
		return ui.State{}, fmt.Errorf("load %s: %w", path, err)
	}

	opts := config.Resolve(parsed.Meta, flags)

	// An unparsable fragment falls back to the first slide; in-range
	// clamping happens in the navigation controller.
	start := nav.Position{}
	if fragment != "" {
		if pos, err := nav.ParseFragment(fragment); err == nil {
			start = pos
		}
	}

	displayPath := absPath
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, absPath); err == nil {
			displayPath = rel
		}
	}

	return ui.State{
		Deck:        parsed,
		Options:     opts,
		Start:       start,
		SourcePath:  absPath,
		DisplayPath: filepath.ToSlash(displayPath),
	}, nil
}
