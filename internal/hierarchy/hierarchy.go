// Package hierarchy adapts the shared taxonomy tree for renderers. Each
// renderer works against a View of lightweight nodes carrying presentation
// state (collapse flag, cached prior position) on top of the domain taxa.
package hierarchy

import (
	"github.com/evolab/taxatree/internal/taxon"
)

// Node wraps one taxon with presentation state. X0/Y0 hold the node's
// previous on-screen position so renderers can animate transitions from
// where a node last was.
type Node struct {
	Taxon    *taxon.Taxon
	Parent   *Node
	Children []*Node

	Collapsed bool
	X0, Y0    float64
}

// Visible reports whether the node should be drawn: true iff every strict
// ancestor is expanded. Visibility is derived on each call rather than
// cached per node, so collapse changes at any depth are correct without
// propagating state down the subtree. The root is always visible.
func (n *Node) Visible() bool {
	for a := n.Parent; a != nil; a = a.Parent {
		if a.Collapsed {
			return false
		}
	}
	return true
}

// Depth returns the number of strict ancestors.
func (n *Node) Depth() int {
	d := 0
	for a := n.Parent; a != nil; a = a.Parent {
		d++
	}
	return d
}

// View is one renderer's hierarchy over a tree snapshot.
type View struct {
	Root  *Node
	nodes map[int64]*Node
}

// Build wraps every taxon reachable from the tree root in a Node. When prev
// is given, nodes for taxa already present keep their object identity and
// presentation state, so collapse flags and cached positions survive lazy
// expansion and uprooting.
func Build(tree *taxon.Tree, prev *View) *View {
	v := &View{nodes: make(map[int64]*Node, tree.Len())}
	v.Root = v.wrap(tree.Root, nil, prev)
	return v
}

func (v *View) wrap(t *taxon.Taxon, parent *Node, prev *View) *Node {
	var n *Node
	if prev != nil {
		n = prev.nodes[t.ID]
	}
	if n == nil {
		n = &Node{}
	}
	n.Taxon = t
	n.Parent = parent
	n.Children = n.Children[:0]

	v.nodes[t.ID] = n
	for _, c := range t.Children {
		n.Children = append(n.Children, v.wrap(c, n, prev))
	}
	return n
}

// Node returns the view node for a taxon id, or nil.
func (v *View) Node(id int64) *Node {
	return v.nodes[id]
}

// Len returns the number of nodes in the view.
func (v *View) Len() int {
	return len(v.nodes)
}

// VisibleNodes returns the drawable nodes in depth-first order. Children of
// a collapsed node are skipped wholesale, which is equivalent to the
// per-node ancestor walk.
func (v *View) VisibleNodes() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		if n.Collapsed {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(v.Root)
	return out
}

// Link is one drawable parent-child connection.
type Link struct {
	Source *Node
	Target *Node
}

// VisibleLinks returns the links between visible node pairs.
func (v *View) VisibleLinks() []Link {
	var out []Link
	for _, n := range v.VisibleNodes() {
		if n.Parent != nil {
			out = append(out, Link{Source: n.Parent, Target: n})
		}
	}
	return out
}
