// Package outline derives a navigable table of contents from a parsed deck.
package outline

import (
	"fmt"
	"strings"

	"github.com/okatsu/mdpresent/internal/deck"
)

// Build constructs the outline tree for a deck. Slide titles come from the
// first markdown heading of the slide's first leaf, falling back to a
// positional label.
func Build(d *deck.Deck) *Node {
	rootTitle := d.Title()
	if rootTitle == "" {
		rootTitle = "Deck"
	}
	root := &Node{Title: rootTitle, Open: true}

	for h, slide := range d.Slides {
		node := &Node{
			Title:   leafTitle(slide.Leaves[0], h, 0),
			H:       h,
			IsGroup: slide.IsGroup(),
		}
		root.AddChild(node)
		if !slide.IsGroup() {
			continue
		}
		for v, leaf := range slide.Leaves {
			node.AddChild(&Node{
				Title: leafTitle(leaf, h, v),
				H:     h,
				V:     v,
			})
		}
	}
	return root
}

// leafTitle extracts the first ATX heading from the leaf content.
func leafTitle(l deck.Leaf, h, v int) string {
	for _, line := range strings.Split(l.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		if title != "" {
			return title
		}
	}
	if v > 0 {
		return fmt.Sprintf("Slide %d.%d", h+1, v+1)
	}
	return fmt.Sprintf("Slide %d", h+1)
}
