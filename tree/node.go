package tree

import (
	"fmt"

	"github.com/openphylo/sdk/taxonomy"
)

// NodeData is the optional payload carried by every node.
type NodeData struct {
	// Taxonomy is the node's taxonomic record, nil when absent.
	Taxonomy *taxonomy.Taxonomy

	// Event is the reconciliation classification of an internal gene-tree
	// node; EventNone until reconciliation runs.
	Event taxonomy.Event

	// Link is a borrowed reference to a node of another tree (the species
	// tree, for gene-tree nodes). It is never ownership and is only
	// assigned by the species mapper and the reconciliation walk.
	Link *Node

	// Visual carries rendering attributes. The core round-trips but never
	// interprets it.
	Visual *Visual
}

// Node is a single node of a rooted phylogeny. External nodes ("leaves")
// have no children.
type Node struct {
	id       int
	name     string
	parent   *Node
	children []*Node

	// Data is the node's payload.
	Data NodeData

	numExternal int
}

// NewNode creates an unattached node with the given name.
func NewNode(name string) *Node {
	return &Node{id: -1, name: name, numExternal: 1}
}

// ID returns the node's preorder ID, or -1 before the owning tree has been
// numbered.
func (n *Node) ID() int { return n.id }

// Name returns the node's free-text name.
func (n *Node) Name() string { return n.name }

// SetName replaces the node's name.
func (n *Node) SetName(name string) { n.name = name }

// Parent returns the node's parent, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// IsExternal reports whether the node has no children.
func (n *Node) IsExternal() bool { return len(n.children) == 0 }

// Children returns the node's ordered descendants. The returned slice is
// the node's own; callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns the number of direct descendants.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i-th direct descendant.
func (n *Node) Child(i int) *Node { return n.children[i] }

// AddChild appends c as the last child of n and sets its parent.
func (n *Node) AddChild(c *Node) {
	c.parent = n
	n.children = append(n.children, c)
}

// NumExternals returns the number of external nodes in this node's
// subtree, as of the last bookkeeping refresh.
func (n *Node) NumExternals() int { return n.numExternal }

// ExternalDescendants returns the external nodes of n's subtree in
// left-to-right order. An external node returns itself.
func (n *Node) ExternalDescendants() []*Node {
	if n.IsExternal() {
		return []*Node{n}
	}
	var ext []*Node
	var walk func(*Node)
	walk = func(m *Node) {
		if m.IsExternal() {
			ext = append(ext, m)
			return
		}
		for _, c := range m.children {
			walk(c)
		}
	}
	walk(n)
	return ext
}

// Depth returns the number of edges between the node and the root of its
// tree.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Label returns the best human-readable handle for the node: its
// taxonomy's string form, then its name, then its ID.
func (n *Node) Label() string {
	if n.Data.Taxonomy != nil {
		if s := n.Data.Taxonomy.String(); s != "" {
			return s
		}
	}
	if n.name != "" {
		return n.name
	}
	return fmt.Sprintf("[%d]", n.id)
}

func (n *Node) String() string { return n.Label() }

// removeChild deletes c from n's children, preserving the order of the
// remaining descendants. It reports whether c was present.
func (n *Node) removeChild(c *Node) bool {
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}
