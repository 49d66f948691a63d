// Package spore encodes a minimal application state snapshot as a compact
// string safe for URL fragments and query values. A spore carries only the
// selected taxon ids and the enum selections; taxon payloads are always
// re-fetched on hydration so a shared spore reflects live upstream data.
package spore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TaxonomyType selects which relationship a visualization is built from.
type TaxonomyType string

// Taxonomy types.
const (
	TaxonomyDescendants TaxonomyType = "descendants"
	TaxonomyNeighbors   TaxonomyType = "neighbors"
	TaxonomyMRCA        TaxonomyType = "mrca"
)

// DisplayType selects the visualization renderer.
type DisplayType string

// Display types.
const (
	DisplayTree  DisplayType = "tree"
	DisplayGraph DisplayType = "graph"
	DisplayPack  DisplayType = "pack"
)

// ErrMalformed indicates a spore string that cannot be decoded.
var ErrMalformed = errors.New("malformed spore")

// ParseTaxonomyType validates a taxonomy-type string.
func ParseTaxonomyType(s string) (TaxonomyType, error) {
	switch TaxonomyType(s) {
	case TaxonomyDescendants, TaxonomyNeighbors, TaxonomyMRCA:
		return TaxonomyType(s), nil
	}
	return "", fmt.Errorf("invalid taxonomy type %q (use descendants, neighbors, or mrca)", s)
}

// ParseDisplayType validates a display-type string.
func ParseDisplayType(s string) (DisplayType, error) {
	switch DisplayType(s) {
	case DisplayTree, DisplayGraph, DisplayPack:
		return DisplayType(s), nil
	}
	return "", fmt.Errorf("invalid display type %q (use tree, graph, or pack)", s)
}

// Spore is a serializable snapshot of the query state: which taxa are
// selected and how they should be fetched and displayed.
type Spore struct {
	TaxonIDs     []int64      `json:"taxonIds"`
	TaxonomyType TaxonomyType `json:"taxonomyType"`
	DisplayType  DisplayType  `json:"displayType"`
}

// Encode renders the spore as "<id>.<id>..._<taxonomyType>_<displayType>",
// using only characters that survive URL fragments unescaped.
func (s Spore) Encode() string {
	ids := make([]string, len(s.TaxonIDs))
	for i, id := range s.TaxonIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(ids, ".") + "_" + string(s.TaxonomyType) + "_" + string(s.DisplayType)
}

// Decode parses an encoded spore, validating both enum selections and every
// taxon id.
func Decode(encoded string) (Spore, error) {
	parts := strings.Split(encoded, "_")
	if len(parts) != 3 {
		return Spore{}, fmt.Errorf("%w: %q", ErrMalformed, encoded)
	}

	var s Spore
	for _, raw := range strings.Split(parts[0], ".") {
		if raw == "" {
			return Spore{}, fmt.Errorf("%w: empty taxon id in %q", ErrMalformed, encoded)
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Spore{}, fmt.Errorf("%w: taxon id %q", ErrMalformed, raw)
		}
		s.TaxonIDs = append(s.TaxonIDs, id)
	}

	tt, err := ParseTaxonomyType(parts[1])
	if err != nil {
		return Spore{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	dt, err := ParseDisplayType(parts[2])
	if err != nil {
		return Spore{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	s.TaxonomyType = tt
	s.DisplayType = dt
	return s, nil
}
