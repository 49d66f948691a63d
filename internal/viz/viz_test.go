package viz

import (
	"strings"
	"testing"

	"github.com/evolab/taxatree/internal/hierarchy"
	"github.com/evolab/taxatree/internal/spore"
	"github.com/evolab/taxatree/internal/taxon"
)

func felidaeView(t *testing.T) *hierarchy.View {
	t.Helper()
	tree, err := taxon.TaxaToTree([]*taxon.Taxon{
		{ID: 9681, ParentID: 9681, Name: "Felidae", Rank: taxon.RankFamily},
		{ID: 9682, ParentID: 9681, Name: "Felinae", Rank: taxon.RankSubfamily},
		{ID: 9688, ParentID: 9681, Name: "Pantherinae", Rank: taxon.RankSubfamily},
		{ID: 9685, ParentID: 9682, Name: "Felis catus", CommonName: "domestic cat", Rank: taxon.RankSpecies, IsLeaf: true},
	})
	if err != nil {
		t.Fatalf("TaxaToTree() error = %v", err)
	}
	return hierarchy.Build(tree, nil)
}

func TestBuildGraph_OnlyVisibleTaxa(t *testing.T) {
	v := felidaeView(t)
	v.Node(9682).Collapsed = true

	g := BuildGraph(v)

	if len(g.Nodes) != 3 {
		t.Fatalf("len(nodes) = %d, want 3 (cat hidden)", len(g.Nodes))
	}
	for _, n := range g.Nodes {
		if n.ID == "9685" {
			t.Error("hidden taxon must not appear in the graph")
		}
		if n.ID == "9682" && !n.Collapsed {
			t.Error("collapsed node must be flagged")
		}
	}
	if len(g.Edges) != 2 {
		t.Errorf("len(edges) = %d, want 2", len(g.Edges))
	}
}

func TestRenderGraph(t *testing.T) {
	html, err := RenderGraph(BuildGraph(felidaeView(t)), DefaultOptions())
	if err != nil {
		t.Fatalf("RenderGraph() error = %v", err)
	}
	for _, want := range []string{"cytoscape", "Felis catus", "domestic cat", "breadthfirst"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestRenderGraph_InvalidLayout(t *testing.T) {
	opts := DefaultOptions()
	opts.Layout = "starburst"
	if _, err := RenderGraph(BuildGraph(felidaeView(t)), opts); err == nil {
		t.Fatal("expected error for invalid layout")
	}
}

func TestRenderGraph_Empty(t *testing.T) {
	if _, err := RenderGraph(&GraphData{}, DefaultOptions()); err == nil {
		t.Fatal("expected error for empty graph")
	}
}

func TestRenderTree_CollapseStateMirrored(t *testing.T) {
	v := felidaeView(t)
	v.Node(9682).Collapsed = true

	html, err := RenderTree(v, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderTree() error = %v", err)
	}
	if !strings.Contains(html, "Felinae") {
		t.Error("collapsed node itself must be present")
	}
	// The collapsed subtree ships in the document, closed, so the browser
	// can open it without another fetch.
	if !strings.Contains(html, "Felis catus") {
		t.Error("hidden descendants must still ship in the markup")
	}
	if got := strings.Count(html, `class="leaf"`); got != 2 {
		t.Errorf("leaf divs = %d, want 2 (Pantherinae and Felis catus)", got)
	}
	if got := strings.Count(html, "<details open"); got != 0 {
		t.Errorf("open non-root details = %d, want 0 (Felinae is collapsed)", got)
	}
	if got := strings.Count(html, "<details>"); got != 1 {
		t.Errorf("closed details = %d, want 1 for collapsed Felinae", got)
	}
}

func TestRenderPack(t *testing.T) {
	v := felidaeView(t)
	svg, err := RenderPack(v, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderPack() error = %v", err)
	}
	if got := strings.Count(svg, "<circle"); got != 4 {
		t.Errorf("circles = %d, want one per visible taxon", got)
	}
	if !strings.Contains(svg, "<title>") {
		t.Error("circles must carry tooltip titles")
	}
}

func TestRenderPack_CollapsedSubtreeIsOneCircle(t *testing.T) {
	v := felidaeView(t)
	v.Node(9682).Collapsed = true

	svg, err := RenderPack(v, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderPack() error = %v", err)
	}
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("circles = %d, want 3 (collapsed subtree drawn as one)", got)
	}
	if !strings.Contains(svg, `class="collapsed"`) {
		t.Error("collapsed stand-in circle must be marked")
	}
}

func TestRender_Dispatch(t *testing.T) {
	v := felidaeView(t)

	for _, dt := range []spore.DisplayType{spore.DisplayTree, spore.DisplayGraph, spore.DisplayPack} {
		if _, err := Render(v, dt, DefaultOptions()); err != nil {
			t.Errorf("Render(%q) error = %v", dt, err)
		}
	}
	if _, err := Render(v, spore.DisplayType("hologram"), DefaultOptions()); err == nil {
		t.Error("expected error for unknown display type")
	}
}
