package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/okatsu/mdpresent/internal/config"
	"github.com/okatsu/mdpresent/internal/ui"
)

// Run executes the Bubble Tea program for the deck presenter.
func Run(target, startAt string, flags config.Overrides) error {
	state, err := LoadInitialState(target, startAt, flags)
	if err != nil {
		return err
	}
	return runProgram(state)
}

func runProgram(state ui.State) error {
	program := tea.NewProgram(ui.NewModel(state), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
