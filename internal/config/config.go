// Package config enumerates every recognized presentation option together
// with its default. Options are merged by deterministic precedence: defaults,
// then deck frontmatter, then command-line flags.
package config

import "github.com/okatsu/mdpresent/internal/deck"

// Options is the fully resolved presentation configuration.
type Options struct {
	// Theme selects the glamour style for terminal rendering; "auto"
	// follows the terminal background.
	Theme string
	// Transition is the slide transition emitted by the HTML export.
	Transition string
	// Wrap makes next/previous wrap past the ends of the deck.
	Wrap bool
	// Progress shows the progress bar under the status line.
	Progress bool
	// Notes opens the presenter notes panel at startup.
	Notes bool
}

// Defaults returns the documented default for every option.
func Defaults() Options {
	return Options{
		Theme:      "auto",
		Transition: "slide",
		Wrap:       false,
		Progress:   true,
		Notes:      false,
	}
}

// Overrides carries a partial set of options; nil fields leave the current
// value untouched.
type Overrides struct {
	Theme      *string
	Transition *string
	Wrap       *bool
	Progress   *bool
	Notes      *bool
}

// Merge applies the overrides on top of o and returns the result.
func (o Options) Merge(ov Overrides) Options {
	if ov.Theme != nil && *ov.Theme != "" {
		o.Theme = *ov.Theme
	}
	if ov.Transition != nil && *ov.Transition != "" {
		o.Transition = *ov.Transition
	}
	if ov.Wrap != nil {
		o.Wrap = *ov.Wrap
	}
	if ov.Progress != nil {
		o.Progress = *ov.Progress
	}
	if ov.Notes != nil {
		o.Notes = *ov.Notes
	}
	return o
}

// FromMeta lifts the recognized frontmatter keys into overrides. Keys the
// deck metadata carries beyond these are ignored.
func FromMeta(m deck.Meta) Overrides {
	ov := Overrides{
		Wrap:     m.Wrap,
		Progress: m.Progress,
		Notes:    m.Notes,
	}
	if m.Theme != "" {
		ov.Theme = &m.Theme
	}
	if m.Transition != "" {
		ov.Transition = &m.Transition
	}
	return ov
}

// Resolve merges frontmatter and flag overrides over the defaults in
// documented precedence order.
func Resolve(meta deck.Meta, flags Overrides) Options {
	return Defaults().Merge(FromMeta(meta)).Merge(flags)
}
