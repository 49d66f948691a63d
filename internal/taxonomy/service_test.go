package taxonomy

import (
	"context"
	"errors"
	"testing"

	"github.com/evolab/taxatree/internal/spore"
	"github.com/evolab/taxatree/internal/taxon"
)

// fakeProvider implements Provider with per-call function hooks.
type fakeProvider struct {
	taxonByName  func(name string) (*taxon.Taxon, error)
	subtreeByID  func(id int64) ([]*taxon.Taxon, error)
	childrenByID func(id int64) ([]*taxon.Taxon, error)
	parentByID   func(id int64) (*taxon.Taxon, error)
	mrcaByIDs    func(ids []int64) (*taxon.Taxon, error)
	pathBetween  func(a, b int64) ([]*taxon.Taxon, error)
	namesByIDs   func(ids []int64) (map[int64]string, error)

	calls int
}

func (f *fakeProvider) TaxonByName(_ context.Context, name string) (*taxon.Taxon, error) {
	f.calls++
	return f.taxonByName(name)
}

func (f *fakeProvider) SubtreeByID(_ context.Context, id int64) ([]*taxon.Taxon, error) {
	f.calls++
	return f.subtreeByID(id)
}

func (f *fakeProvider) ChildrenByID(_ context.Context, id int64) ([]*taxon.Taxon, error) {
	f.calls++
	return f.childrenByID(id)
}

func (f *fakeProvider) ParentByID(_ context.Context, id int64) (*taxon.Taxon, error) {
	f.calls++
	return f.parentByID(id)
}

func (f *fakeProvider) MRCAByIDs(_ context.Context, ids []int64) (*taxon.Taxon, error) {
	f.calls++
	return f.mrcaByIDs(ids)
}

func (f *fakeProvider) PathBetween(_ context.Context, a, b int64) ([]*taxon.Taxon, error) {
	f.calls++
	return f.pathBetween(a, b)
}

func (f *fakeProvider) NamesByIDs(_ context.Context, ids ...int64) (map[int64]string, error) {
	f.calls++
	return f.namesByIDs(ids)
}

// felidaeFlat is the flat subtree of Felidae as the provider would return it.
func felidaeFlat() []*taxon.Taxon {
	return []*taxon.Taxon{
		{ID: 9681, ParentID: 9681, Name: "Felidae", Rank: taxon.RankFamily},
		{ID: 9682, ParentID: 9681, Name: "Felinae", Rank: taxon.RankSubfamily},
		{ID: 9688, ParentID: 9681, Name: "Pantherinae", Rank: taxon.RankSubfamily},
		{ID: 9685, ParentID: 9682, Name: "Felis catus", Rank: taxon.RankSpecies},
	}
}

func TestService_Descendants(t *testing.T) {
	p := &fakeProvider{
		taxonByName: func(name string) (*taxon.Taxon, error) {
			if name != "Felidae" {
				t.Errorf("resolved name = %q, want Felidae", name)
			}
			return &taxon.Taxon{ID: 9681, Name: "Felidae"}, nil
		},
		subtreeByID: func(id int64) ([]*taxon.Taxon, error) {
			if id != 9681 {
				t.Errorf("subtree id = %d, want 9681", id)
			}
			return felidaeFlat(), nil
		},
	}
	svc := NewService(p)

	tree, err := svc.Descendants(context.Background(), "Felidae")
	if err != nil {
		t.Fatalf("Descendants() error = %v", err)
	}
	if tree.Root.ID != 9681 || tree.Root.Name != "Felidae" {
		t.Errorf("root = %+v, want Felidae (9681)", tree.Root)
	}
	if tree.Len() != 4 {
		t.Errorf("tree has %d nodes, want all 4 returned entries", tree.Len())
	}
}

func TestService_Neighbors(t *testing.T) {
	p := &fakeProvider{
		taxonByName: func(name string) (*taxon.Taxon, error) {
			return &taxon.Taxon{ID: 9685, Name: "Felis catus", ParentID: 9682}, nil
		},
		parentByID: func(id int64) (*taxon.Taxon, error) {
			if id != 9685 {
				t.Errorf("parent lookup id = %d, want 9685", id)
			}
			return &taxon.Taxon{ID: 9682, Name: "Felinae"}, nil
		},
		subtreeByID: func(id int64) ([]*taxon.Taxon, error) {
			if id != 9682 {
				t.Errorf("subtree id = %d, want parent 9682", id)
			}
			return []*taxon.Taxon{
				{ID: 9682, ParentID: 9681, Name: "Felinae"},
				{ID: 9685, ParentID: 9682, Name: "Felis catus"},
				{ID: 9683, ParentID: 9682, Name: "Felis silvestris"},
			}, nil
		},
	}
	svc := NewService(p)

	tree, err := svc.Neighbors(context.Background(), "Felis catus")
	if err != nil {
		t.Fatalf("Neighbors() error = %v", err)
	}
	if tree.Root.ID != 9682 {
		t.Errorf("root.ID = %d, want parent 9682", tree.Root.ID)
	}
	cat := tree.FindTaxonByID(9685)
	if cat == nil || cat.Name != "Felis catus" {
		t.Errorf("FindTaxonByID(9685) = %+v, want Felis catus", cat)
	}
}

func TestService_MRCA(t *testing.T) {
	t.Run("empty query fails before any network call", func(t *testing.T) {
		p := &fakeProvider{}
		svc := NewService(p)

		_, err := svc.MRCA(context.Background())
		if !errors.Is(err, ErrNoQuery) {
			t.Fatalf("MRCA() error = %v, want ErrNoQuery", err)
		}
		if p.calls != 0 {
			t.Errorf("provider calls = %d, want 0", p.calls)
		}
	})

	t.Run("resolves names then subtree of ancestor", func(t *testing.T) {
		byName := map[string]int64{"Felis catus": 9685, "Panthera leo": 9689}
		p := &fakeProvider{
			taxonByName: func(name string) (*taxon.Taxon, error) {
				id, ok := byName[name]
				if !ok {
					t.Fatalf("unexpected name %q", name)
				}
				return &taxon.Taxon{ID: id, Name: name}, nil
			},
			mrcaByIDs: func(ids []int64) (*taxon.Taxon, error) {
				if len(ids) != 2 || ids[0] != 9685 || ids[1] != 9689 {
					t.Errorf("mrca ids = %v", ids)
				}
				return &taxon.Taxon{ID: 9681, Name: "Felidae"}, nil
			},
			subtreeByID: func(id int64) ([]*taxon.Taxon, error) {
				return felidaeFlat(), nil
			},
		}
		svc := NewService(p)

		tree, err := svc.MRCA(context.Background(), "Felis catus", "Panthera leo")
		if err != nil {
			t.Fatalf("MRCA() error = %v", err)
		}
		if tree.Root.ID != 9681 {
			t.Errorf("root.ID = %d, want 9681", tree.Root.ID)
		}
	})
}

func TestService_BuildTree(t *testing.T) {
	svc := NewService(&fakeProvider{})

	if _, err := svc.BuildTree(context.Background(), spore.TaxonomyDescendants, nil); !errors.Is(err, ErrNoQuery) {
		t.Errorf("BuildTree(no names) error = %v, want ErrNoQuery", err)
	}
	if _, err := svc.BuildTree(context.Background(), "sideways", []string{"Felidae"}); err == nil {
		t.Error("expected error for unknown taxonomy type")
	}
}

func TestService_ResolveChildren(t *testing.T) {
	t.Run("attaches only missing children and reindexes", func(t *testing.T) {
		tree, _ := taxon.TaxaToTree(felidaeFlat())
		felinae := tree.FindTaxonByName("Felinae")

		p := &fakeProvider{
			childrenByID: func(id int64) ([]*taxon.Taxon, error) {
				return []*taxon.Taxon{
					{ID: 9685, Name: "Felis catus"},      // already attached
					{ID: 9683, Name: "Felis silvestris"}, // missing
				}, nil
			},
		}
		svc := NewService(p)

		attached, err := svc.ResolveChildren(context.Background(), tree, felinae)
		if err != nil {
			t.Fatalf("ResolveChildren() error = %v", err)
		}
		if attached != 1 {
			t.Errorf("attached = %d, want 1", attached)
		}
		if len(felinae.Children) != 2 {
			t.Errorf("Felinae has %d children, want 2", len(felinae.Children))
		}
		if tree.FindTaxonByID(9683) == nil {
			t.Error("tree index must include the newly attached child")
		}
	})

	t.Run("failed fetch leaves tree untouched", func(t *testing.T) {
		tree, _ := taxon.TaxaToTree(felidaeFlat())
		felinae := tree.FindTaxonByName("Felinae")
		before := tree.Len()

		p := &fakeProvider{
			childrenByID: func(id int64) ([]*taxon.Taxon, error) {
				return nil, errors.New("upstream down")
			},
		}
		svc := NewService(p)

		if _, err := svc.ResolveChildren(context.Background(), tree, felinae); err == nil {
			t.Fatal("expected error")
		}
		if tree.Len() != before {
			t.Errorf("tree grew from %d to %d nodes on a failed fetch", before, tree.Len())
		}
		if len(felinae.Children) != 1 {
			t.Errorf("Felinae has %d children, want 1", len(felinae.Children))
		}
	})
}

func TestService_HasMissingChildren(t *testing.T) {
	t.Run("leaf hint short-circuits", func(t *testing.T) {
		p := &fakeProvider{}
		svc := NewService(p)

		missing, err := svc.HasMissingChildren(context.Background(), &taxon.Taxon{ID: 1, IsLeaf: true})
		if err != nil {
			t.Fatalf("HasMissingChildren() error = %v", err)
		}
		if missing {
			t.Error("leaf taxon must not report missing children")
		}
		if p.calls != 0 {
			t.Errorf("provider calls = %d, want 0", p.calls)
		}
	})

	t.Run("detects unfetched children", func(t *testing.T) {
		parent := &taxon.Taxon{ID: 9682, Name: "Felinae"}
		p := &fakeProvider{
			childrenByID: func(id int64) ([]*taxon.Taxon, error) {
				return []*taxon.Taxon{{ID: 9685, Name: "Felis catus"}}, nil
			},
		}
		svc := NewService(p)

		missing, err := svc.HasMissingChildren(context.Background(), parent)
		if err != nil {
			t.Fatalf("HasMissingChildren() error = %v", err)
		}
		if !missing {
			t.Error("expected missing children to be reported")
		}
	})
}

func TestService_ExpandTreeUp(t *testing.T) {
	t.Run("uproot preserves the old subtree", func(t *testing.T) {
		flat := []*taxon.Taxon{
			{ID: 9682, ParentID: 9681, Name: "Felinae"},
			{ID: 9685, ParentID: 9682, Name: "Felis catus"},
		}
		tree, err := taxon.TaxaToTree(flat)
		if err != nil {
			t.Fatalf("TaxaToTree() error = %v", err)
		}

		p := &fakeProvider{
			parentByID: func(id int64) (*taxon.Taxon, error) {
				if id != 9682 {
					t.Errorf("parent lookup id = %d, want 9682", id)
				}
				return &taxon.Taxon{ID: 9681, Name: "Felidae"}, nil
			},
		}
		svc := NewService(p)

		grownTree, grown, err := svc.ExpandTreeUp(context.Background(), tree)
		if err != nil {
			t.Fatalf("ExpandTreeUp() error = %v", err)
		}
		if !grown {
			t.Fatal("expected the tree to grow")
		}
		if grownTree == tree {
			t.Error("uproot must return a new tree object")
		}
		if grownTree.Root.ID != 9681 {
			t.Errorf("new root.ID = %d, want 9681", grownTree.Root.ID)
		}
		oldRoot := grownTree.FindTaxonByID(9682)
		if oldRoot == nil || !grownTree.Root.HasChild(oldRoot) {
			t.Error("old root must be a child of the new root")
		}
		if grownTree.FindTaxonByID(9685) == nil {
			t.Error("old root's children must stay reachable under the new root")
		}
	})

	t.Run("top-level root is returned unchanged", func(t *testing.T) {
		tree, _ := taxon.TaxaToTree([]*taxon.Taxon{{ID: 1, ParentID: 1, Name: "root"}})
		p := &fakeProvider{
			parentByID: func(id int64) (*taxon.Taxon, error) {
				// Self-parent sentinel for top-level nodes.
				return &taxon.Taxon{ID: 1, Name: "root"}, nil
			},
		}
		svc := NewService(p)

		same, grown, err := svc.ExpandTreeUp(context.Background(), tree)
		if err != nil {
			t.Fatalf("ExpandTreeUp() error = %v", err)
		}
		if grown || same != tree {
			t.Errorf("expected unchanged tree, got grown=%v", grown)
		}
	})
}

func TestService_ResolveNames(t *testing.T) {
	p := &fakeProvider{
		namesByIDs: func(ids []int64) (map[int64]string, error) {
			return map[int64]string{9681: "Felidae", 9685: "Felis catus"}, nil
		},
	}
	svc := NewService(p)

	names, err := svc.ResolveNames(context.Background(), []int64{9685, 9681})
	if err != nil {
		t.Fatalf("ResolveNames() error = %v", err)
	}
	if names[0] != "Felis catus" || names[1] != "Felidae" {
		t.Errorf("names = %v, want input order preserved", names)
	}

	if _, err := svc.ResolveNames(context.Background(), nil); !errors.Is(err, ErrNoQuery) {
		t.Errorf("ResolveNames(nil) error = %v, want ErrNoQuery", err)
	}
}
