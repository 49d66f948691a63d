// Package viz renders a taxonomy view as a self-contained document: an
// interactive Cytoscape.js graph, a collapsible HTML tree, or a circle-pack
// SVG. Renderers consume only the visible slice of the hierarchy, so
// collapse state decided upstream is what ends up on screen.
package viz

import (
	"strconv"

	"github.com/evolab/taxatree/internal/hierarchy"
)

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents one visible taxon in the graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Tooltip fields
	Name       string `json:"name"`
	CommonName string `json:"commonName,omitempty"`
	Rank       string `json:"rank,omitempty"`

	// Styling
	IsLeaf    bool `json:"isLeaf"`
	Collapsed bool `json:"collapsed"`

	// Sizing
	Genomes int `json:"genomes"`
}

// Edge represents a visible parent-child link.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// BuildGraph flattens the visible part of a view into graph data. Nodes
// hidden under a collapsed ancestor never appear, and a collapsed node is
// flagged so renderers can mark it as holding more.
func BuildGraph(view *hierarchy.View) *GraphData {
	visible := view.VisibleNodes()
	g := &GraphData{Nodes: make([]Node, 0, len(visible))}

	for _, n := range visible {
		g.Nodes = append(g.Nodes, newTaxonNode(n))
	}
	for _, l := range view.VisibleLinks() {
		g.Edges = append(g.Edges, Edge{
			Source: taxonNodeID(l.Source),
			Target: taxonNodeID(l.Target),
		})
	}
	return g
}

func newTaxonNode(n *hierarchy.Node) Node {
	t := n.Taxon
	return Node{
		ID:         taxonNodeID(n),
		Label:      t.Label(),
		Name:       t.Name,
		CommonName: t.CommonName,
		Rank:       t.Rank,
		IsLeaf:     t.IsLeaf,
		Collapsed:  n.Collapsed,
		Genomes:    t.TotalGenomes(),
	}
}

func taxonNodeID(n *hierarchy.Node) string {
	return strconv.FormatInt(n.Taxon.ID, 10)
}
