package taxon

import (
	"errors"
	"testing"
)

func TestTaxaToTree_Empty(t *testing.T) {
	_, err := TaxaToTree(nil)
	if !errors.Is(err, ErrNoTaxa) {
		t.Errorf("TaxaToTree(nil) error = %v, want ErrNoTaxa", err)
	}
}

func TestTaxaToTree_RootDetection(t *testing.T) {
	tests := []struct {
		name     string
		taxa     []*Taxon
		wantRoot int64
		wantErr  error
	}{
		{
			name: "self-parented root",
			taxa: []*Taxon{
				{ID: 1, ParentID: 1, Name: "root"},
				{ID: 2, ParentID: 1, Name: "a"},
			},
			wantRoot: 1,
		},
		{
			name: "parent absent from set",
			taxa: []*Taxon{
				{ID: 5, ParentID: 99, Name: "root"},
				{ID: 6, ParentID: 5, Name: "a"},
			},
			wantRoot: 5,
		},
		{
			name: "unset parent id",
			taxa: []*Taxon{
				{ID: 7, Name: "root"},
				{ID: 8, ParentID: 7, Name: "a"},
			},
			wantRoot: 7,
		},
		{
			name: "first candidate wins",
			taxa: []*Taxon{
				{ID: 3, ParentID: 3, Name: "first"},
				{ID: 4, ParentID: 4, Name: "second"},
			},
			wantRoot: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := TaxaToTree(tt.taxa)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("TaxaToTree() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("TaxaToTree() error = %v", err)
			}
			if tree.Root.ID != tt.wantRoot {
				t.Errorf("root ID = %d, want %d", tree.Root.ID, tt.wantRoot)
			}
		})
	}
}

// Round-trip: linking a well-formed flat list and flattening it back
// recovers the same IDs with the same parent relationships.
func TestTaxaToTree_RoundTrip(t *testing.T) {
	flat := []*Taxon{
		{ID: 9681, ParentID: 9681, Name: "Felidae"},
		{ID: 9682, ParentID: 9681, Name: "Felinae"},
		{ID: 9688, ParentID: 9681, Name: "Pantherinae"},
		{ID: 9685, ParentID: 9682, Name: "Felis catus"},
		{ID: 9689, ParentID: 9688, Name: "Panthera"},
	}
	wantParents := map[int64]int64{
		9682: 9681,
		9688: 9681,
		9685: 9682,
		9689: 9688,
	}

	tree, err := TaxaToTree(flat)
	if err != nil {
		t.Fatalf("TaxaToTree() error = %v", err)
	}

	got := make(map[int64]int64)
	stack := []*Taxon{tree.Root}
	count := 0
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		for _, c := range n.Children {
			if c.Parent.ID != n.ID {
				t.Errorf("child %d has parent %d, want %d", c.ID, c.Parent.ID, n.ID)
			}
			got[c.ID] = n.ID
			stack = append(stack, c)
		}
	}

	if count != len(flat) {
		t.Errorf("traversal reached %d nodes, want %d", count, len(flat))
	}
	for id, parent := range wantParents {
		if got[id] != parent {
			t.Errorf("parent of %d = %d, want %d", id, got[id], parent)
		}
	}
}

func TestTaxaToTree_IndexesAllNodes(t *testing.T) {
	flat := []*Taxon{
		{ID: 1, ParentID: 1, Name: "root"},
		{ID: 2, ParentID: 1, Name: "a"},
		{ID: 3, ParentID: 2, Name: "b"},
	}
	tree, err := TaxaToTree(flat)
	if err != nil {
		t.Fatalf("TaxaToTree() error = %v", err)
	}
	for _, tx := range flat {
		if tree.FindTaxonByID(tx.ID) == nil {
			t.Errorf("taxon %d not indexed", tx.ID)
		}
		if tree.FindTaxonByName(tx.Name) == nil {
			t.Errorf("taxon %q not indexed by name", tx.Name)
		}
	}
}
