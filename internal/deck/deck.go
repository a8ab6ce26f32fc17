package deck

// Leaf is a single displayable slide. Content holds the markdown body with
// speaker notes already stripped; Notes holds the stripped notes text.
type Leaf struct {
	Content string
	Notes   string
	Line    int
}

// Slide is a top-level entry in the deck. A slide with a single leaf is a
// plain slide; a slide with more than one leaf is a vertically navigated
// group.
type Slide struct {
	Leaves []Leaf
}

// IsGroup reports whether the slide needs vertical navigation.
func (s Slide) IsGroup() bool {
	return len(s.Leaves) > 1
}

// Warning records a structural problem the parser recovered from.
type Warning struct {
	Line    int
	Message string
}

// Meta holds the deck-level frontmatter. Boolean options use pointers so the
// configuration merge can tell "absent" from "false".
type Meta struct {
	Title      string         `yaml:"title"`
	Author     string         `yaml:"author"`
	Theme      string         `yaml:"theme"`
	Transition string         `yaml:"transition"`
	Wrap       *bool          `yaml:"wrap"`
	Progress   *bool          `yaml:"progress"`
	Notes      *bool          `yaml:"notes"`
	Extra      map[string]any `yaml:",inline"`
}

// Deck is an ordered sequence of slides parsed from a single markdown
// document. It is immutable after Parse returns.
type Deck struct {
	Meta     Meta
	Slides   []Slide
	Warnings []Warning
}

// Empty reports whether the deck has no slides at all.
func (d *Deck) Empty() bool {
	return len(d.Slides) == 0
}

// Shape returns the number of leaves per top-level slide, in presentation
// order. Navigation uses this as the immutable deck geometry.
func (d *Deck) Shape() []int {
	shape := make([]int, len(d.Slides))
	for i, s := range d.Slides {
		shape[i] = len(s.Leaves)
	}
	return shape
}

// LeafCount returns the total number of leaves across all slides.
func (d *Deck) LeafCount() int {
	total := 0
	for _, s := range d.Slides {
		total += len(s.Leaves)
	}
	return total
}

// Leaf returns the leaf at the given coordinates, if it exists.
func (d *Deck) Leaf(h, v int) (Leaf, bool) {
	if h < 0 || h >= len(d.Slides) {
		return Leaf{}, false
	}
	leaves := d.Slides[h].Leaves
	if v < 0 || v >= len(leaves) {
		return Leaf{}, false
	}
	return leaves[v], true
}

// Title returns the frontmatter title, or the empty string.
func (d *Deck) Title() string {
	return d.Meta.Title
}
