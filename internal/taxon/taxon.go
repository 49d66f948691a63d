// Package taxon provides the taxonomy domain model: the Taxon node, the
// Tree aggregate with its indexed lookup maps, and construction of a tree
// from a flat list of parent-linked records.
package taxon

import (
	"errors"
	"fmt"
)

// Ranks returned by the taxonomy provider. The provider also emits ranks
// outside this list (species subgroups, strains); Rank is a plain string so
// unknown values pass through untouched.
const (
	RankDomain    = "domain"
	RankKingdom   = "kingdom"
	RankPhylum    = "phylum"
	RankClass     = "class"
	RankOrder     = "order"
	RankFamily    = "family"
	RankSubfamily = "subfamily"
	RankGenus     = "genus"
	RankSpecies   = "species"
	RankNoRank    = "no rank"
)

// AssemblyLevel is a genome assembly completeness level.
type AssemblyLevel string

// Assembly levels used as genome count keys.
const (
	LevelComplete   AssemblyLevel = "complete"
	LevelChromosome AssemblyLevel = "chromosome"
	LevelScaffold   AssemblyLevel = "scaffold"
	LevelContig     AssemblyLevel = "contig"
)

// Accession is one genome assembly accession attached to a taxon.
type Accession struct {
	Accession string        `json:"accession"`
	Level     AssemblyLevel `json:"level"`
}

// ErrReparent is returned when AddChild is called with a child that is
// already attached to a different parent. Moving a node between parents is
// never done implicitly; callers must detach first.
var ErrReparent = errors.New("taxon already has a different parent")

// Taxon is one node in the taxonomy hierarchy. Parent is a back-reference
// only; the Children slice owns the downward links. Children has set
// semantics keyed by ID: a taxon appears in its parent's children exactly
// once.
type Taxon struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CommonName string `json:"commonName,omitempty"`
	Rank       string `json:"rank,omitempty"`
	IsLeaf     bool   `json:"isLeaf,omitempty"`
	ParentID   int64  `json:"parentId,omitempty"`

	Parent   *Taxon   `json:"-"`
	Children []*Taxon `json:"-"`

	GenomeCount          map[AssemblyLevel]int `json:"genomeCount,omitempty"`
	GenomeCountRecursive map[AssemblyLevel]int `json:"genomeCountRecursive,omitempty"`
	Accessions           []Accession           `json:"accessions,omitempty"`
}

// HasParent reports whether other is this taxon's parent. Comparison is by
// ID, not by pointer identity.
func (t *Taxon) HasParent(other *Taxon) bool {
	return t.Parent != nil && other != nil && t.Parent.ID == other.ID
}

// HasChild reports whether other is among this taxon's children, by ID.
func (t *Taxon) HasChild(other *Taxon) bool {
	if other == nil {
		return false
	}
	for _, c := range t.Children {
		if c.ID == other.ID {
			return true
		}
	}
	return false
}

// SetParent sets the parent back-reference and ParentID, and adds this
// taxon to the parent's children if absent. Calling it again with the same
// parent is a no-op.
func (t *Taxon) SetParent(parent *Taxon) {
	t.Parent = parent
	t.ParentID = parent.ID
	if !parent.HasChild(t) {
		parent.Children = append(parent.Children, t)
	}
}

// AddChild attaches child to this taxon. A child already attached here is
// left alone; a child attached to a different parent is rejected with
// ErrReparent.
func (t *Taxon) AddChild(child *Taxon) error {
	if child.Parent != nil && child.Parent.ID != t.ID {
		return fmt.Errorf("attaching %q (%d) to %q (%d): %w",
			child.Name, child.ID, t.Name, t.ID, ErrReparent)
	}
	if !t.HasChild(child) {
		t.Children = append(t.Children, child)
	}
	if child.Parent == nil {
		child.SetParent(t)
	}
	return nil
}

// AddChildren attaches each child in turn, stopping at the first failure.
func (t *Taxon) AddChildren(children ...*Taxon) error {
	for _, c := range children {
		if err := t.AddChild(c); err != nil {
			return err
		}
	}
	return nil
}

// IsRoot reports whether this taxon has no parent attached.
func (t *Taxon) IsRoot() bool {
	return t.Parent == nil
}

// Label returns the display label: the common name in parentheses after the
// scientific name when one is known.
func (t *Taxon) Label() string {
	if t.CommonName != "" {
		return fmt.Sprintf("%s (%s)", t.Name, t.CommonName)
	}
	return t.Name
}

// TotalGenomes sums the recursive genome counts across assembly levels.
func (t *Taxon) TotalGenomes() int {
	var total int
	for _, n := range t.GenomeCountRecursive {
		total += n
	}
	return total
}
