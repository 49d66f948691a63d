package taxon

import (
	"errors"
	"fmt"
)

// Errors returned by TaxaToTree.
var (
	// ErrNoTaxa indicates an empty input list.
	ErrNoTaxa = errors.New("cannot build a tree from an empty taxa list")

	// ErrNoRoot indicates no element satisfied the root condition.
	ErrNoRoot = errors.New("no root taxon found")
)

// TaxaToTree links a flat list of taxa into a hierarchy and wraps it in a
// Tree. The root is the first element whose ParentID is its own ID (the
// provider's self-parenting sentinel for top-level nodes) or refers to an ID
// not present in the list. When several elements qualify, the first in input
// order wins, so the result depends on provider response ordering.
func TaxaToTree(taxa []*Taxon) (*Tree, error) {
	if len(taxa) == 0 {
		return nil, ErrNoTaxa
	}

	present := make(map[int64]*Taxon, len(taxa))
	for _, tx := range taxa {
		present[tx.ID] = tx
	}

	var root *Taxon
	for _, tx := range taxa {
		if tx.ParentID == tx.ID || present[tx.ParentID] == nil {
			root = tx
			break
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w among %d taxa", ErrNoRoot, len(taxa))
	}

	for _, tx := range taxa {
		if tx == root {
			continue
		}
		parent := present[tx.ParentID]
		if parent == nil || parent.ID == tx.ID {
			continue
		}
		if err := parent.AddChild(tx); err != nil {
			return nil, err
		}
	}

	return NewTree(root), nil
}
