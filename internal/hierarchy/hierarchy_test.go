package hierarchy

import (
	"testing"

	"github.com/evolab/taxatree/internal/taxon"
)

// felidaeTree builds Felidae -> {Felinae -> {Felis catus}, Pantherinae}.
func felidaeTree(t *testing.T) *taxon.Tree {
	t.Helper()
	tree, err := taxon.TaxaToTree([]*taxon.Taxon{
		{ID: 9681, ParentID: 9681, Name: "Felidae"},
		{ID: 9682, ParentID: 9681, Name: "Felinae"},
		{ID: 9688, ParentID: 9681, Name: "Pantherinae"},
		{ID: 9685, ParentID: 9682, Name: "Felis catus"},
	})
	if err != nil {
		t.Fatalf("TaxaToTree() error = %v", err)
	}
	return tree
}

func TestBuild_WrapsEveryTaxon(t *testing.T) {
	tree := felidaeTree(t)
	v := Build(tree, nil)

	if v.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", v.Len())
	}
	if v.Root.Taxon.ID != 9681 {
		t.Errorf("root taxon = %d, want 9681", v.Root.Taxon.ID)
	}
	cat := v.Node(9685)
	if cat == nil {
		t.Fatal("Node(9685) = nil")
	}
	if cat.Parent != v.Node(9682) {
		t.Error("node parent must mirror the taxon parent")
	}
	if cat.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", cat.Depth())
	}
}

func TestBuild_PreservesNodeIdentity(t *testing.T) {
	tree := felidaeTree(t)
	v1 := Build(tree, nil)
	v1.Node(9682).Collapsed = true
	v1.Node(9685).X0, v1.Node(9685).Y0 = 120, 40

	// The tree grows in place, then the view is rebuilt.
	lion := &taxon.Taxon{ID: 9689, Name: "Panthera leo"}
	err := tree.Mutate(func() error {
		return tree.FindTaxonByID(9688).AddChild(lion)
	})
	if err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}
	v2 := Build(tree, v1)

	if v2.Node(9685) != v1.Node(9685) {
		t.Error("surviving taxa must keep their node objects")
	}
	if !v2.Node(9682).Collapsed {
		t.Error("collapse state must survive a rebuild")
	}
	if x := v2.Node(9685).X0; x != 120 {
		t.Errorf("X0 = %v, want cached 120", x)
	}
	if v2.Node(9689) == nil {
		t.Error("new taxa must get nodes")
	}
	if v2.Len() != 5 {
		t.Errorf("Len() = %d, want 5", v2.Len())
	}
}

func TestVisible_AncestorWalk(t *testing.T) {
	tree := felidaeTree(t)
	v := Build(tree, nil)

	// Collapsing Felinae hides its descendants but not Felinae itself.
	v.Node(9682).Collapsed = true

	if !v.Node(9682).Visible() {
		t.Error("a collapsed node is itself still visible")
	}
	if v.Node(9685).Visible() {
		t.Error("descendants of a collapsed node must be hidden")
	}
	if !v.Node(9688).Visible() {
		t.Error("siblings of a collapsed node stay visible")
	}
}

func TestVisible_RootAlwaysVisible(t *testing.T) {
	tree := felidaeTree(t)
	v := Build(tree, nil)
	v.Root.Collapsed = true

	if !v.Root.Visible() {
		t.Error("root must be visible even when collapsed")
	}
	if v.Node(9682).Visible() {
		t.Error("collapsing the root hides everything below it")
	}
}

func TestVisibleNodes_MatchesPerNodeWalk(t *testing.T) {
	tree := felidaeTree(t)
	v := Build(tree, nil)
	v.Node(9682).Collapsed = true

	listed := make(map[int64]bool)
	for _, n := range v.VisibleNodes() {
		listed[n.Taxon.ID] = true
	}
	for _, taxa := range tree.Taxa() {
		n := v.Node(taxa.ID)
		if listed[taxa.ID] != n.Visible() {
			t.Errorf("taxon %d: listed = %v, Visible() = %v", taxa.ID, listed[taxa.ID], n.Visible())
		}
	}
}

func TestVisibleLinks_OnlyVisiblePairs(t *testing.T) {
	tree := felidaeTree(t)
	v := Build(tree, nil)
	v.Node(9682).Collapsed = true

	links := v.VisibleLinks()
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2", len(links))
	}
	for _, l := range links {
		if !l.Source.Visible() || !l.Target.Visible() {
			t.Errorf("link %d->%d touches a hidden node", l.Source.Taxon.ID, l.Target.Taxon.ID)
		}
	}
}
