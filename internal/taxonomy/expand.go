package taxonomy

import (
	"context"

	"github.com/evolab/taxatree/internal/taxon"
)

// missingChildren lists the remote children of a taxon that are not yet
// attached locally.
func (s *Service) missingChildren(ctx context.Context, t *taxon.Taxon) ([]*taxon.Taxon, error) {
	remote, err := s.provider.ChildrenByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	var missing []*taxon.Taxon
	for _, r := range remote {
		if !t.HasChild(r) {
			missing = append(missing, r)
		}
	}
	return missing, nil
}

// HasMissingChildren reports whether the taxon has remote children that are
// not yet attached, distinguishing "no children" from "children not yet
// fetched". The provider's leaf hint short-circuits the lookup.
func (s *Service) HasMissingChildren(ctx context.Context, t *taxon.Taxon) (bool, error) {
	if t.IsLeaf {
		return false, nil
	}
	missing, err := s.missingChildren(ctx, t)
	if err != nil {
		return false, err
	}
	return len(missing) > 0, nil
}

// ResolveChildren fetches any children of t that exist remotely but are not
// attached, attaches them, and re-indexes the tree. The fetch completes
// before anything is attached, so a failed fetch leaves the tree untouched.
// Returns the number of newly attached children.
func (s *Service) ResolveChildren(ctx context.Context, tree *taxon.Tree, t *taxon.Taxon) (int, error) {
	missing, err := s.missingChildren(ctx, t)
	if err != nil {
		return 0, err
	}
	if len(missing) == 0 {
		return 0, nil
	}

	err = tree.Mutate(func() error {
		return t.AddChildren(missing...)
	})
	if err != nil {
		return 0, err
	}
	return len(missing), nil
}

// ExpandTreeUp fetches the parent of the current root and returns a new
// tree rooted at it, with the old root demoted to a child. The old root's
// subtree is preserved. When the root is already top-level (the provider
// reports the root itself as its parent) the original tree is returned
// unchanged with grown = false.
func (s *Service) ExpandTreeUp(ctx context.Context, tree *taxon.Tree) (newTree *taxon.Tree, grown bool, err error) {
	parent, err := s.provider.ParentByID(ctx, tree.Root.ID)
	if err != nil {
		return nil, false, err
	}
	if parent.ID == tree.Root.ID {
		return tree, false, nil
	}

	if err := parent.AddChild(tree.Root); err != nil {
		return nil, false, err
	}
	return taxon.NewTree(parent), true, nil
}
