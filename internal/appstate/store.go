// Package appstate holds the application's source of truth: one observable
// per concern, constructed per Store instance so tests and commands can run
// against independent state.
package appstate

import (
	"context"
	"fmt"

	"github.com/evolab/taxatree/internal/spore"
	"github.com/evolab/taxatree/internal/taxon"
)

// Status is the user-visible fetch status.
type Status string

// Fetch statuses.
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Theme is the visualization color theme.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// TreeBuilder is the slice of the taxonomy service the store needs to
// visualize a query and to hydrate a spore.
type TreeBuilder interface {
	BuildTree(ctx context.Context, tt spore.TaxonomyType, names []string) (*taxon.Tree, error)
	ResolveNames(ctx context.Context, ids []int64) ([]string, error)
}

// Store is the process-wide observable state.
type Store struct {
	Query         *Observable[[]*taxon.Taxon]
	Tree          *Observable[*taxon.Tree]
	Status        *Observable[Status]
	TaxonomyType  *Observable[spore.TaxonomyType]
	DisplayType   *Observable[spore.DisplayType]
	SelectedTaxon *Observable[*taxon.Taxon]
	Theme         *Observable[Theme]

	session int64
}

// NewStore creates a store with default selections.
func NewStore() *Store {
	return &Store{
		Query:         NewObservable[[]*taxon.Taxon](nil),
		Tree:          NewObservable[*taxon.Tree](nil),
		Status:        NewObservable(StatusIdle),
		TaxonomyType:  NewObservable(spore.TaxonomyDescendants),
		DisplayType:   NewObservable(spore.DisplayTree),
		SelectedTaxon: NewObservable[*taxon.Taxon](nil),
		Theme:         NewObservable(ThemeLight),
	}
}

// TreeHasChanged re-indexes the current tree and re-announces it to every
// subscriber. Callers that mutate the taxon graph in place must invoke this
// in the same synchronous unit as the mutation, with no suspension in
// between, so no subscriber ever observes a half-updated graph.
func (s *Store) TreeHasChanged() {
	t := s.Tree.Get()
	if t == nil {
		return
	}
	t.Update()
	s.Tree.Notify()
}

// NextSession advances and returns the request session counter. Callers
// that issue overlapping requests tag each with a session and discard
// responses whose session is no longer current.
func (s *Store) NextSession() int64 {
	s.session++
	return s.session
}

// IsCurrentSession reports whether the given session is still the latest.
func (s *Store) IsCurrentSession(session int64) bool {
	return s.session == session
}

// QueryNames returns the scientific names of the current query taxa.
func (s *Store) QueryNames() []string {
	q := s.Query.Get()
	names := make([]string, len(q))
	for i, t := range q {
		names[i] = t.Name
	}
	return names
}

// Visualize builds a tree for the current query and selections and stores
// it. On failure the previous tree is left untouched and the status moves
// to error, so a transient failure never blanks an existing rendering. A
// response arriving after a newer request has started is discarded.
func (s *Store) Visualize(ctx context.Context, b TreeBuilder) error {
	names := s.QueryNames()
	if len(names) == 0 {
		return fmt.Errorf("no taxa selected")
	}

	session := s.NextSession()
	s.Status.Set(StatusLoading)

	tree, err := b.BuildTree(ctx, s.TaxonomyType.Get(), names)
	if !s.IsCurrentSession(session) {
		return nil
	}
	if err != nil {
		s.Status.Set(StatusError)
		return err
	}

	s.Tree.Set(tree)
	s.Status.Set(StatusReady)
	return nil
}

// Sporulate captures the minimal serializable state: query taxon ids and
// the enum selections. The tree itself is never captured.
func (s *Store) Sporulate() spore.Spore {
	q := s.Query.Get()
	ids := make([]int64, len(q))
	for i, t := range q {
		ids[i] = t.ID
	}
	return spore.Spore{
		TaxonIDs:     ids,
		TaxonomyType: s.TaxonomyType.Get(),
		DisplayType:  s.DisplayType.Get(),
	}
}

// Hydrate restores state from a spore: enum selections are applied, the
// taxon ids are re-resolved to names through the service, and the
// corresponding tree is fetched fresh.
func (s *Store) Hydrate(ctx context.Context, b TreeBuilder, sp spore.Spore) error {
	names, err := b.ResolveNames(ctx, sp.TaxonIDs)
	if err != nil {
		return fmt.Errorf("hydrating spore: %w", err)
	}

	s.TaxonomyType.Set(sp.TaxonomyType)
	s.DisplayType.Set(sp.DisplayType)

	query := make([]*taxon.Taxon, len(sp.TaxonIDs))
	for i, id := range sp.TaxonIDs {
		query[i] = &taxon.Taxon{ID: id, Name: names[i]}
	}
	s.Query.Set(query)

	if err := s.Visualize(ctx, b); err != nil {
		return err
	}

	// Swap placeholder query taxa for the fully-populated tree nodes.
	if tree := s.Tree.Get(); tree != nil {
		for i, t := range query {
			if full := tree.FindTaxonByID(t.ID); full != nil {
				query[i] = full
			}
		}
		s.Query.Set(query)
	}
	return nil
}
