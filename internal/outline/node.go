package outline

// Node represents a single entry in the deck outline. The root node stands
// for the deck itself; its children are the top-level slides, and group
// slides carry their leaves as children.
type Node struct {
	Title    string
	H        int
	V        int
	IsGroup  bool
	Open     bool
	Parent   *Node
	Children []*Node
}

// AddChild appends a child and wires its parent pointer.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Find returns the node for the given coordinates if it exists. For group
// slides it resolves to the leaf node, otherwise to the slide node itself.
func (n *Node) Find(h, v int) *Node {
	for _, slide := range n.Children {
		if slide.H != h {
			continue
		}
		if !slide.IsGroup {
			return slide
		}
		for _, leaf := range slide.Children {
			if leaf.V == v {
				return leaf
			}
		}
		return slide
	}
	return nil
}
