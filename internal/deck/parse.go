package deck

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

const (
	horizontalSeparator = "---"
	verticalSeparator   = "--"
)

var notesMarkers = []string{"Notes:", "Note:"}

// Parse converts a markdown document into a Deck. An optional YAML
// frontmatter block supplies the deck metadata. Structural problems in the
// body are recovered locally and reported through Deck.Warnings; the only
// error condition is frontmatter that fails to decode.
func Parse(source []byte) (*Deck, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	// Body line numbers are offset by the frontmatter block the reader
	// consumed.
	offset := strings.Count(string(source[:len(source)-len(body)]), "\n")

	p := &parser{lineOffset: offset}
	p.run(string(body))

	return &Deck{
		Meta:     meta,
		Slides:   p.slides,
		Warnings: p.warnings,
	}, nil
}

type parser struct {
	lineOffset int
	slides     []Slide
	warnings   []Warning

	leaves  []Leaf
	content []string
	notes   []string
	inNotes bool

	leafLine    int
	lastLine    int
	sawAnything bool
}

func (p *parser) run(body string) {
	lines := strings.Split(body, "\n")
	for i, raw := range lines {
		lineNo := p.lineOffset + i + 1
		p.lastLine = lineNo
		line := strings.TrimRight(raw, " \t\r")

		switch {
		case line == horizontalSeparator:
			p.finishSlide()
			p.startLeaf()
		case line == verticalSeparator:
			if !p.sawAnything {
				p.warn(lineNo, "vertical separator before any slide content")
				p.startLeaf()
				continue
			}
			p.finishLeaf(lineNo)
			p.startLeaf()
		default:
			p.appendLine(raw, lineNo)
		}
	}
	p.finishSlide()
}

func (p *parser) appendLine(raw string, lineNo int) {
	// The leaf is anchored at its first non-blank line for diagnostics.
	if p.leafLine == 0 && strings.TrimSpace(raw) != "" {
		p.leafLine = lineNo
	}
	if strings.TrimSpace(raw) != "" {
		p.sawAnything = true
	}

	if p.inNotes {
		if _, ok := notesText(raw); ok {
			p.warn(lineNo, "duplicate notes marker treated as notes text")
		}
		p.notes = append(p.notes, raw)
		return
	}

	if rest, ok := notesText(raw); ok {
		p.inNotes = true
		if strings.TrimSpace(rest) != "" {
			p.notes = append(p.notes, strings.TrimSpace(rest))
		}
		return
	}

	p.content = append(p.content, raw)
}

// notesText reports whether the line opens a notes block and returns the text
// following the marker. The marker must sit at the start of the line so that
// prose mentioning "Note:" mid-sentence is left alone.
func notesText(line string) (string, bool) {
	for _, marker := range notesMarkers {
		if strings.HasPrefix(line, marker) {
			return line[len(marker):], true
		}
	}
	return "", false
}

func (p *parser) startLeaf() {
	p.content = nil
	p.notes = nil
	p.inNotes = false
	p.leafLine = 0
}

func (p *parser) finishLeaf(lineNo int) {
	content := strings.Trim(strings.Join(p.content, "\n"), "\n")
	notes := strings.TrimSpace(strings.Join(p.notes, "\n"))

	if strings.TrimSpace(content) == "" && notes == "" {
		if len(p.leaves) > 0 {
			p.warn(lineNo, "empty vertical section dropped")
		}
		return
	}

	line := p.leafLine
	if line == 0 {
		line = lineNo
	}
	p.leaves = append(p.leaves, Leaf{Content: content, Notes: notes, Line: line})
}

func (p *parser) finishSlide() {
	p.finishLeaf(p.lastLine)
	if len(p.leaves) > 0 {
		p.slides = append(p.slides, Slide{Leaves: p.leaves})
	}
	p.leaves = nil
	p.startLeaf()
}

func (p *parser) warn(line int, message string) {
	p.warnings = append(p.warnings, Warning{Line: line, Message: message})
}
