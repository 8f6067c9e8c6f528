package tree

// Tree is a rooted phylogeny. The tree owns its nodes; links between trees
// are borrowed references and never imply ownership.
type Tree struct {
	root *Node
}

// New creates a tree rooted at root, numbers its nodes in preorder, and
// computes the external-descendant counts.
func New(root *Node) *Tree {
	t := &Tree{root: root}
	t.Refresh()
	return t
}

// Root returns the tree's root, nil for an empty tree.
func (t *Tree) Root() *Node { return t.root }

// IsEmpty reports whether the tree has no nodes.
func (t *Tree) IsEmpty() bool { return t.root == nil }

// PreorderReID renumbers every node in preorder starting at 0, so that an
// ancestor's ID is always smaller than any of its descendants' IDs.
func (t *Tree) PreorderReID() {
	id := 0
	var walk func(*Node)
	walk = func(n *Node) {
		n.id = id
		id++
		for _, c := range n.children {
			walk(c)
		}
	}
	if t.root != nil {
		walk(t.root)
	}
}

// RecalculateExternalDescendants recomputes every node's external-
// descendant count.
func (t *Tree) RecalculateExternalDescendants() {
	var walk func(*Node) int
	walk = func(n *Node) int {
		if n.IsExternal() {
			n.numExternal = 1
			return 1
		}
		sum := 0
		for _, c := range n.children {
			sum += walk(c)
		}
		n.numExternal = sum
		return sum
	}
	if t.root != nil {
		walk(t.root)
	}
}

// Refresh re-runs the bookkeeping that must follow any tree surgery:
// preorder renumbering and external-descendant counts.
func (t *Tree) Refresh() {
	t.PreorderReID()
	t.RecalculateExternalDescendants()
}

// Postorder returns every node in postorder: children (left to right)
// before their parent, root last. The order is deterministic for a fixed
// tree.
func (t *Tree) Postorder() []*Node {
	var nodes []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.children {
			walk(c)
		}
		nodes = append(nodes, n)
	}
	if t.root != nil {
		walk(t.root)
	}
	return nodes
}

// ExternalsForward returns the external nodes in left-to-right order.
func (t *Tree) ExternalsForward() []*Node {
	if t.root == nil {
		return nil
	}
	return t.root.ExternalDescendants()
}

// NumExternals returns the number of external nodes in the tree.
func (t *Tree) NumExternals() int {
	if t.root == nil {
		return 0
	}
	return t.root.numExternal
}

// DeleteExternal removes an external node. A parent left with a single
// child is collapsed: the remaining child takes the parent's place,
// preserving its position among its grandparent's descendants. Callers
// performing a batch of deletions should invoke Refresh once afterwards.
func (t *Tree) DeleteExternal(n *Node) {
	if !n.IsExternal() {
		return
	}
	p := n.parent
	if p == nil {
		// Deleting a root-only tree empties it.
		if t.root == n {
			t.root = nil
		}
		return
	}
	p.removeChild(n)
	if len(p.children) != 1 {
		return
	}
	// Collapse the now-unary parent.
	only := p.children[0]
	gp := p.parent
	if gp == nil {
		only.parent = nil
		p.children = nil
		t.root = only
		return
	}
	for i, c := range gp.children {
		if c == p {
			gp.children[i] = only
			only.parent = gp
			break
		}
	}
	p.parent = nil
	p.children = nil
}
