// Package export renders a parsed deck into a single static HTML document,
// one section per slide with nested sections for vertically navigated groups
// and speaker notes tucked into aside elements.
package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/okatsu/mdpresent/internal/config"
	"github.com/okatsu/mdpresent/internal/deck"
)

// Exporter converts deck markdown into HTML. It is stateless and safe to
// reuse across decks.
type Exporter struct {
	engine goldmark.Markdown
}

// New constructs an exporter with GFM extensions and auto heading IDs.
func New() *Exporter {
	return &Exporter{
		engine: goldmark.New(
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
				extension.TaskList,
			),
		),
	}
}

// HTML renders the whole deck into a standalone HTML document. Notes are
// emitted as <aside class="notes"> so presentation runtimes can route them to
// a presenter view; they never appear in the visible section body.
func (e *Exporter) HTML(d *deck.Deck, opts config.Options) ([]byte, error) {
	var buf bytes.Buffer

	title := d.Title()
	if title == "" {
		title = "Presentation"
	}

	buf.WriteString("<!doctype html>\n<html>\n<head>\n")
	buf.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(title))
	if d.Meta.Author != "" {
		fmt.Fprintf(&buf, "<meta name=\"author\" content=\"%s\">\n", html.EscapeString(d.Meta.Author))
	}
	buf.WriteString(defaultStyle)
	buf.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&buf, "<div class=\"deck\" data-transition=\"%s\">\n", html.EscapeString(opts.Transition))

	for h, slide := range d.Slides {
		if slide.IsGroup() {
			fmt.Fprintf(&buf, "<section id=\"slide-%d\">\n", h)
			for v, leaf := range slide.Leaves {
				if err := e.writeLeaf(&buf, leaf, fmt.Sprintf("slide-%d-%d", h, v)); err != nil {
					return nil, err
				}
			}
			buf.WriteString("</section>\n")
			continue
		}
		if err := e.writeLeaf(&buf, slide.Leaves[0], fmt.Sprintf("slide-%d", h)); err != nil {
			return nil, err
		}
	}

	buf.WriteString("</div>\n</body>\n</html>\n")
	return buf.Bytes(), nil
}

func (e *Exporter) writeLeaf(buf *bytes.Buffer, leaf deck.Leaf, id string) error {
	fmt.Fprintf(buf, "<section id=\"%s\">\n", id)
	if err := e.engine.Convert([]byte(leaf.Content), buf); err != nil {
		return fmt.Errorf("render slide %s: %w", id, err)
	}
	if leaf.Notes != "" {
		buf.WriteString("<aside class=\"notes\">\n")
		if err := e.engine.Convert([]byte(leaf.Notes), buf); err != nil {
			return fmt.Errorf("render notes for %s: %w", id, err)
		}
		buf.WriteString("</aside>\n")
	}
	buf.WriteString("</section>\n")
	return nil
}

const defaultStyle = `<style>
body { font-family: sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; }
section { border-bottom: 1px solid #ddd; padding: 1.5rem 0; }
section section { border-bottom: none; border-left: 3px solid #ddd; padding-left: 1rem; margin: 1rem 0; }
aside.notes { display: none; }
pre { background: #f5f5f5; padding: 0.75rem; overflow-x: auto; }
</style>
`
