package taxon

// Tree owns a root taxon and lookup maps over every node reachable from it.
// The maps are a derived cache: code that mutates the child graph in place
// must call Update (or wrap the mutation in Mutate) before the next lookup,
// otherwise lookups silently return stale results.
type Tree struct {
	Root *Taxon

	byID   map[int64]*Taxon
	byName map[string]*Taxon
}

// NewTree wraps an already-linked root taxon and indexes its subtree.
func NewTree(root *Taxon) *Tree {
	t := &Tree{Root: root}
	t.Update()
	return t
}

// FindTaxonByID returns the indexed taxon with the given ID, or nil.
func (t *Tree) FindTaxonByID(id int64) *Taxon {
	return t.byID[id]
}

// FindTaxonByName returns the indexed taxon with the given scientific name,
// or nil. Names are assumed unique within one tree snapshot.
func (t *Tree) FindTaxonByName(name string) *Taxon {
	return t.byName[name]
}

// Len returns the number of indexed taxa.
func (t *Tree) Len() int {
	return len(t.byID)
}

// Taxa returns every indexed taxon in unspecified order.
func (t *Tree) Taxa() []*Taxon {
	all := make([]*Taxon, 0, len(t.byID))
	for _, tx := range t.byID {
		all = append(all, tx)
	}
	return all
}

// Update rebuilds both lookup maps by traversing from the root.
func (t *Tree) Update() {
	t.byID = make(map[int64]*Taxon)
	t.byName = make(map[string]*Taxon)

	stack := []*Taxon{t.Root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := t.byID[n.ID]; seen {
			continue
		}
		t.byID[n.ID] = n
		t.byName[n.Name] = n
		stack = append(stack, n.Children...)
	}
}

// Mutate runs fn against the live taxon graph and re-indexes afterwards,
// whether or not fn succeeded. This keeps the index consistent with
// whatever fn managed to attach before failing.
func (t *Tree) Mutate(fn func() error) error {
	defer t.Update()
	return fn()
}
