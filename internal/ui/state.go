package ui

import (
	"github.com/okatsu/mdpresent/internal/config"
	"github.com/okatsu/mdpresent/internal/deck"
	"github.com/okatsu/mdpresent/internal/nav"
)

// State contains the data required to bootstrap the Bubble Tea model.
type State struct {
	Deck        *deck.Deck
	Options     config.Options
	Start       nav.Position
	SourcePath  string
	DisplayPath string
}
