// Package taxonomy orchestrates taxonomy API calls into trees: the three
// fetch-and-assemble pipelines (descendants, neighbors, mrca) plus the lazy
// expansion operations that grow an existing tree without refetching it.
package taxonomy

import (
	"context"
	"errors"
	"fmt"

	"github.com/evolab/taxatree/internal/spore"
	"github.com/evolab/taxatree/internal/taxon"
)

// ErrNoQuery indicates a tree was requested with no taxa selected.
var ErrNoQuery = errors.New("no taxa selected")

// Provider is the subset of the taxonomy API client the service needs.
type Provider interface {
	TaxonByName(ctx context.Context, name string) (*taxon.Taxon, error)
	SubtreeByID(ctx context.Context, id int64) ([]*taxon.Taxon, error)
	ChildrenByID(ctx context.Context, id int64) ([]*taxon.Taxon, error)
	ParentByID(ctx context.Context, id int64) (*taxon.Taxon, error)
	MRCAByIDs(ctx context.Context, ids []int64) (*taxon.Taxon, error)
	PathBetween(ctx context.Context, a, b int64) ([]*taxon.Taxon, error)
	NamesByIDs(ctx context.Context, ids ...int64) (map[int64]string, error)
}

// Service builds and incrementally grows taxonomy trees.
type Service struct {
	provider Provider
}

// NewService creates a Service over a taxonomy provider.
func NewService(p Provider) *Service {
	return &Service{provider: p}
}

// Descendants resolves a taxon by exact name and assembles its full subtree
// into a tree rooted at that taxon.
func (s *Service) Descendants(ctx context.Context, name string) (*taxon.Tree, error) {
	t, err := s.provider.TaxonByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.subtree(ctx, t.ID)
}

// Neighbors resolves a taxon by exact name and assembles the subtree of its
// parent, so the taxon's siblings are visible alongside it.
func (s *Service) Neighbors(ctx context.Context, name string) (*taxon.Tree, error) {
	t, err := s.provider.TaxonByName(ctx, name)
	if err != nil {
		return nil, err
	}
	parent, err := s.provider.ParentByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return s.subtree(ctx, parent.ID)
}

// MRCA resolves each name, asks the provider for the most recent common
// ancestor of the resolved ids, and assembles the ancestor's subtree for
// context. An empty name list fails before any network call.
func (s *Service) MRCA(ctx context.Context, names ...string) (*taxon.Tree, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("mrca: %w", ErrNoQuery)
	}

	ids := make([]int64, len(names))
	for i, name := range names {
		t, err := s.provider.TaxonByName(ctx, name)
		if err != nil {
			return nil, err
		}
		ids[i] = t.ID
	}

	ancestor, err := s.provider.MRCAByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.subtree(ctx, ancestor.ID)
}

// BuildTree dispatches to the pipeline selected by the taxonomy type. For
// descendants and neighbors only the first name is used.
func (s *Service) BuildTree(ctx context.Context, tt spore.TaxonomyType, names []string) (*taxon.Tree, error) {
	if len(names) == 0 {
		return nil, ErrNoQuery
	}
	switch tt {
	case spore.TaxonomyDescendants:
		return s.Descendants(ctx, names[0])
	case spore.TaxonomyNeighbors:
		return s.Neighbors(ctx, names[0])
	case spore.TaxonomyMRCA:
		return s.MRCA(ctx, names...)
	}
	return nil, fmt.Errorf("unknown taxonomy type %q", tt)
}

// Lineage fetches the path connecting two taxa resolved by name.
func (s *Service) Lineage(ctx context.Context, nameA, nameB string) ([]*taxon.Taxon, error) {
	a, err := s.provider.TaxonByName(ctx, nameA)
	if err != nil {
		return nil, err
	}
	b, err := s.provider.TaxonByName(ctx, nameB)
	if err != nil {
		return nil, err
	}
	return s.provider.PathBetween(ctx, a.ID, b.ID)
}

// ResolveNames resolves taxon ids back to scientific names, used when
// hydrating a spore into a query.
func (s *Service) ResolveNames(ctx context.Context, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, ErrNoQuery
	}
	byID, err := s.provider.NamesByIDs(ctx, ids...)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		name, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: taxon id %d", errNameMissing, id)
		}
		names[i] = name
	}
	return names, nil
}

var errNameMissing = errors.New("no name resolved")

// subtree fetches a flat subtree and links it into a tree.
func (s *Service) subtree(ctx context.Context, id int64) (*taxon.Tree, error) {
	flat, err := s.provider.SubtreeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return taxon.TaxaToTree(flat)
}
