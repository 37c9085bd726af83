// Package contour implements the contour tree: the nesting hierarchy of
// closed loops produced by slicing and by every boolean or offset operation.
//
// Nodes live in a flat arena and refer to each other by index. Index 0 is the
// root, which carries no contour; its children are the top-level outer
// contours. Hole status alternates with depth, and outers wind
// counter-clockwise while holes wind clockwise.
//
// A Tree is built once and then treated as a value. Operations that change
// the shape of a region build a new tree.
package contour

import (
	"math/big"

	"github.com/chazu/kerf/pkg/fixed"
)

// NodeID indexes a node in a Tree's arena.
type NodeID int

const (
	// Root is the ID of the contour-less root node.
	Root NodeID = 0
	// None marks a missing parent.
	None NodeID = -1
)

// Node is one contour of the tree.
type Node struct {
	Contour  fixed.Contour
	Hole     bool
	Parent   NodeID
	Children []NodeID
}

// Tree is an arena of nodes. The zero value is not usable; call New.
type Tree struct {
	Nodes []Node
}

// New returns a tree holding only the root.
func New() *Tree {
	return &Tree{Nodes: []Node{{Parent: None}}}
}

// Add appends c as a child of parent and returns its ID.
func (t *Tree) Add(parent NodeID, c fixed.Contour, hole bool) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{Contour: c, Hole: hole, Parent: parent})
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, id)
	return id
}

// Get returns the node with the given ID, or nil if it does not exist.
func (t *Tree) Get(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.Nodes) {
		return nil
	}
	return &t.Nodes[id]
}

// Len returns the number of contours, not counting the root.
func (t *Tree) Len() int {
	return len(t.Nodes) - 1
}

// IsEmpty reports whether the tree holds no contours.
func (t *Tree) IsEmpty() bool {
	return t.Len() == 0
}

// TopLevel returns the root's children.
func (t *Tree) TopLevel() []NodeID {
	return t.Nodes[Root].Children
}

// Depth returns the nesting depth of id. Top-level outers have depth 0.
func (t *Tree) Depth(id NodeID) int {
	d := -1
	for id != Root && id != None {
		d++
		id = t.Nodes[id].Parent
	}
	return d
}

// Walk visits every contour in depth-first pre-order, children in order.
// Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	type frame struct {
		id    NodeID
		depth int
	}
	stack := make([]frame, 0, len(t.Nodes))
	kids := t.Nodes[Root].Children
	for i := len(kids) - 1; i >= 0; i-- {
		stack = append(stack, frame{kids[i], 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.id, f.depth) {
			continue
		}
		kids := t.Nodes[f.id].Children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], f.depth + 1})
		}
	}
}

// Contours returns every contour in pre-order.
func (t *Tree) Contours() []fixed.Contour {
	out := make([]fixed.Contour, 0, t.Len())
	t.Walk(func(id NodeID, _ int) bool {
		out = append(out, t.Nodes[id].Contour)
		return true
	})
	return out
}

// Outers returns the IDs of all non-hole contours in pre-order.
func (t *Tree) Outers() []NodeID {
	return t.collect(false)
}

// Holes returns the IDs of all hole contours in pre-order.
func (t *Tree) Holes() []NodeID {
	return t.collect(true)
}

func (t *Tree) collect(hole bool) []NodeID {
	var ids []NodeID
	t.Walk(func(id NodeID, _ int) bool {
		if t.Nodes[id].Hole == hole {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// Area returns the signed area of the region in fixed units squared.
// Holes contribute negatively through their clockwise winding.
func (t *Tree) Area() float64 {
	var a float64
	for _, n := range t.Nodes[1:] {
		a += n.Contour.Area()
	}
	return a
}

// TwiceArea returns twice the signed area of the region, exactly, in fixed
// units squared.
func (t *Tree) TwiceArea() *big.Int {
	sum := new(big.Int)
	for _, n := range t.Nodes[1:] {
		sum.Add(sum, n.Contour.TwiceArea())
	}
	return sum
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	out := &Tree{Nodes: make([]Node, len(t.Nodes))}
	for i, n := range t.Nodes {
		out.Nodes[i] = Node{
			Contour:  n.Contour.Clone(),
			Hole:     n.Hole,
			Parent:   n.Parent,
			Children: append([]NodeID(nil), n.Children...),
		}
	}
	return out
}

// Subtree copies the node ids and their descendants into a new tree. Each
// listed node becomes a top-level child of the new root. The listed nodes
// must not be descendants of one another.
func (t *Tree) Subtree(ids ...NodeID) *Tree {
	out := New()
	var copyNode func(src, parent NodeID)
	copyNode = func(src, parent NodeID) {
		n := t.Nodes[src]
		id := out.Add(parent, n.Contour.Clone(), n.Hole)
		for _, c := range n.Children {
			copyNode(c, id)
		}
	}
	for _, id := range ids {
		copyNode(id, Root)
	}
	return out
}

// Map returns a copy of t with every contour replaced by fn(contour).
func (t *Tree) Map(fn func(fixed.Contour) fixed.Contour) *Tree {
	out := t.Clone()
	for i := 1; i < len(out.Nodes); i++ {
		out.Nodes[i].Contour = fn(out.Nodes[i].Contour)
	}
	return out
}
