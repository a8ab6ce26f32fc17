// Package nav owns the presentation position. All movement goes through the
// Controller; callers never mutate a Position they did not get from it.
package nav

// Position identifies the currently displayed leaf as a (horizontal,
// vertical) coordinate. V is 0 whenever the active slide is not a group.
type Position struct {
	H int
	V int
}

// Controller applies navigation commands against an immutable deck shape
// (leaves per top-level slide). Movement past either end is a no-op unless
// wrapping is enabled. Every command reports whether the position changed.
type Controller struct {
	shape []int
	pos   Position
	wrap  bool
}

// NewController builds a controller over the given shape. Slides with a
// non-positive leaf count are treated as having one leaf so that a position
// always resolves somewhere.
func NewController(shape []int, wrap bool) *Controller {
	cleaned := make([]int, len(shape))
	for i, n := range shape {
		if n < 1 {
			n = 1
		}
		cleaned[i] = n
	}
	return &Controller{shape: cleaned, wrap: wrap}
}

// Pos returns the current position.
func (c *Controller) Pos() Position {
	return c.pos
}

// Fragment returns the deep-link fragment for the current position.
func (c *Controller) Fragment() string {
	return c.pos.Fragment()
}

// Next advances to the next leaf within the active group, or to the first
// leaf of the next slide. At the end of the deck it wraps to the start when
// configured, otherwise stays put.
func (c *Controller) Next() bool {
	if len(c.shape) == 0 {
		return false
	}
	if c.pos.V < c.shape[c.pos.H]-1 {
		c.pos.V++
		return true
	}
	if c.pos.H < len(c.shape)-1 {
		c.pos = Position{H: c.pos.H + 1}
		return true
	}
	if c.wrap && (c.pos.H != 0 || c.pos.V != 0) {
		c.pos = Position{}
		return true
	}
	return false
}

// Prev is the mirror of Next: it backs up within the active group, or enters
// the previous slide at its last leaf.
func (c *Controller) Prev() bool {
	if len(c.shape) == 0 {
		return false
	}
	if c.pos.V > 0 {
		c.pos.V--
		return true
	}
	if c.pos.H > 0 {
		h := c.pos.H - 1
		c.pos = Position{H: h, V: c.shape[h] - 1}
		return true
	}
	if c.wrap {
		h := len(c.shape) - 1
		end := Position{H: h, V: c.shape[h] - 1}
		if end != c.pos {
			c.pos = end
			return true
		}
	}
	return false
}

// GoTo moves to the given coordinates, clamping both axes into range.
func (c *Controller) GoTo(h, v int) bool {
	if len(c.shape) == 0 {
		return false
	}
	h = clamp(h, 0, len(c.shape)-1)
	v = clamp(v, 0, c.shape[h]-1)
	target := Position{H: h, V: v}
	if target == c.pos {
		return false
	}
	c.pos = target
	return true
}

// First moves to the first slide.
func (c *Controller) First() bool {
	return c.GoTo(0, 0)
}

// Last moves to the last top-level slide, at its first leaf.
func (c *Controller) Last() bool {
	return c.GoTo(len(c.shape)-1, 0)
}

func (c *Controller) deckLength() int {
	total := 0
	for _, n := range c.shape {
		total += n
	}
	return total
}

// LeafIndex returns the flattened ordinal of the current leaf, counting every
// leaf of every slide in presentation order. Used for progress display.
func (c *Controller) LeafIndex() int {
	idx := 0
	for h := 0; h < c.pos.H && h < len(c.shape); h++ {
		idx += c.shape[h]
	}
	return idx + c.pos.V
}

// LeafTotal returns the total number of leaves in the deck.
func (c *Controller) LeafTotal() int {
	return c.deckLength()
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
