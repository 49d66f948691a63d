package hierarchy

import (
	"context"
	"testing"

	"github.com/evolab/taxatree/internal/taxon"
)

// fakeExpander counts calls and delegates to hooks.
type fakeExpander struct {
	hasMissing      func(t *taxon.Taxon) (bool, error)
	resolveChildren func(tree *taxon.Tree, t *taxon.Taxon) (int, error)
	expandUp        func(tree *taxon.Tree) (*taxon.Tree, bool, error)
	calls           int
}

func (f *fakeExpander) HasMissingChildren(_ context.Context, t *taxon.Taxon) (bool, error) {
	f.calls++
	return f.hasMissing(t)
}

func (f *fakeExpander) ResolveChildren(_ context.Context, tree *taxon.Tree, t *taxon.Taxon) (int, error) {
	f.calls++
	return f.resolveChildren(tree, t)
}

func (f *fakeExpander) ExpandTreeUp(_ context.Context, tree *taxon.Tree) (*taxon.Tree, bool, error) {
	f.calls++
	return f.expandUp(tree)
}

func TestClick_CollapsedNodeExpandsWithoutFetching(t *testing.T) {
	tree := felidaeTree(t)
	v := Build(tree, nil)
	n := v.Node(9682)
	n.Collapsed = true

	// The node also has unfetched children, which must not matter here.
	exp := &fakeExpander{
		hasMissing: func(*taxon.Taxon) (bool, error) { return true, nil },
	}

	action, got, err := Click(context.Background(), exp, tree, n)
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if action != ActionExpanded {
		t.Errorf("action = %q, want %q", action, ActionExpanded)
	}
	if n.Collapsed {
		t.Error("node must be expanded")
	}
	if exp.calls != 0 {
		t.Errorf("expander calls = %d, expanding a collapsed node must stay local", exp.calls)
	}
	if got != tree {
		t.Error("tree must be unchanged")
	}
}

func TestClick_UnparentedRootGrowsUpward(t *testing.T) {
	tree := felidaeTree(t)
	v := Build(tree, nil)

	grown := felidaeTree(t)
	exp := &fakeExpander{
		expandUp: func(*taxon.Tree) (*taxon.Tree, bool, error) { return grown, true, nil },
	}

	action, got, err := Click(context.Background(), exp, tree, v.Root)
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if action != ActionUprooted {
		t.Errorf("action = %q, want %q", action, ActionUprooted)
	}
	if got != grown {
		t.Error("uprooting must return the new tree")
	}
}

func TestClick_TopLevelRootFallsThrough(t *testing.T) {
	tree := felidaeTree(t)
	v := Build(tree, nil)

	exp := &fakeExpander{
		expandUp:   func(tr *taxon.Tree) (*taxon.Tree, bool, error) { return tr, false, nil },
		hasMissing: func(*taxon.Taxon) (bool, error) { return false, nil },
	}

	action, _, err := Click(context.Background(), exp, tree, v.Root)
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if action != ActionCollapsed {
		t.Errorf("action = %q, want %q for a root that cannot grow", action, ActionCollapsed)
	}
	if !v.Root.Collapsed {
		t.Error("root must end up collapsed")
	}
}

func TestClick_MissingChildrenFetches(t *testing.T) {
	tree := felidaeTree(t)
	v := Build(tree, nil)
	n := v.Node(9688)

	var resolvedFor int64
	exp := &fakeExpander{
		hasMissing: func(*taxon.Taxon) (bool, error) { return true, nil },
		resolveChildren: func(_ *taxon.Tree, tx *taxon.Taxon) (int, error) {
			resolvedFor = tx.ID
			return 2, nil
		},
	}

	action, got, err := Click(context.Background(), exp, tree, n)
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if action != ActionFetchedChildren {
		t.Errorf("action = %q, want %q", action, ActionFetchedChildren)
	}
	if resolvedFor != 9688 {
		t.Errorf("resolved children for %d, want 9688", resolvedFor)
	}
	if n.Collapsed {
		t.Error("fetching children must not collapse the node")
	}
	if got != tree {
		t.Error("tree object must be unchanged")
	}
}

func TestClick_FullyResolvedNodeCollapses(t *testing.T) {
	tree := felidaeTree(t)
	v := Build(tree, nil)
	n := v.Node(9682)

	exp := &fakeExpander{
		hasMissing: func(*taxon.Taxon) (bool, error) { return false, nil },
	}

	action, _, err := Click(context.Background(), exp, tree, n)
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if action != ActionCollapsed {
		t.Errorf("action = %q, want %q", action, ActionCollapsed)
	}
	if !n.Collapsed {
		t.Error("node must be collapsed")
	}
	if v.Node(9685).Visible() {
		t.Error("collapsing must hide the subtree")
	}
}
