package nav

import (
	"fmt"
	"strconv"
	"strings"
)

// Fragment encodes the position as a shareable deep-link fragment: "#/2" for
// the third slide, "#/2/1" for its second leaf. The vertical index is omitted
// when zero so that plain slides produce the short form.
func (p Position) Fragment() string {
	if p.V == 0 {
		return fmt.Sprintf("#/%d", p.H)
	}
	return fmt.Sprintf("#/%d/%d", p.H, p.V)
}

// ParseFragment decodes a deep-link fragment produced by Position.Fragment.
// The leading "#" is optional. Decoding a fragment and re-encoding the result
// yields the identical position.
func ParseFragment(fragment string) (Position, error) {
	s := strings.TrimPrefix(fragment, "#")
	if !strings.HasPrefix(s, "/") {
		return Position{}, fmt.Errorf("fragment %q: expected \"/h\" or \"/h/v\"", fragment)
	}
	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) == 0 || len(parts) > 2 || parts[0] == "" {
		return Position{}, fmt.Errorf("fragment %q: expected \"/h\" or \"/h/v\"", fragment)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return Position{}, fmt.Errorf("fragment %q: bad horizontal index", fragment)
	}
	pos := Position{H: h}
	if len(parts) == 2 {
		v, err := strconv.Atoi(parts[1])
		if err != nil || v < 0 {
			return Position{}, fmt.Errorf("fragment %q: bad vertical index", fragment)
		}
		pos.V = v
	}
	return pos, nil
}

// SplitTarget separates a command-line target like "deck.md#/2/1" into the
// file path and the optional fragment.
func SplitTarget(target string) (path, fragment string) {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		return target[:i], target[i:]
	}
	return target, ""
}
