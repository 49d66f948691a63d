package neverapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/evolab/taxatree/internal/taxon"
)

// LevelCount is one genome count bucket keyed by assembly level.
type LevelCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

// AccessionEntry is one genome assembly accession on the wire.
type AccessionEntry struct {
	Accession string `json:"accession"`
	Level     string `json:"level"`
}

// Entry is one taxonomy API response record. Every field is optional on the
// wire; Taxon reports which records are usable.
type Entry struct {
	TaxID                int64            `json:"taxid"`
	Name                 string           `json:"name"`
	CommonName           string           `json:"common_name"`
	IsLeaf               bool             `json:"is_leaf"`
	Parent               int64            `json:"parent"`
	Rank                 string           `json:"rank"`
	Accessions           []AccessionEntry `json:"accessions"`
	GenomeCount          []LevelCount     `json:"genome_count"`
	GenomeCountRecursive []LevelCount     `json:"genome_count_rec"`
}

// Taxon translates a wire entry into a domain taxon. Entries without a
// taxid or a name cannot participate in the tree and are rejected.
func (e Entry) Taxon() (*taxon.Taxon, error) {
	if e.TaxID == 0 {
		return nil, fmt.Errorf("%w: missing taxid (name %q)", ErrIncompleteEntry, e.Name)
	}
	if e.Name == "" {
		return nil, fmt.Errorf("%w: missing name (taxid %d)", ErrIncompleteEntry, e.TaxID)
	}

	t := &taxon.Taxon{
		ID:         e.TaxID,
		Name:       e.Name,
		CommonName: e.CommonName,
		Rank:       e.Rank,
		IsLeaf:     e.IsLeaf,
		ParentID:   e.Parent,
	}
	if len(e.GenomeCount) > 0 {
		t.GenomeCount = levelCounts(e.GenomeCount)
	}
	if len(e.GenomeCountRecursive) > 0 {
		t.GenomeCountRecursive = levelCounts(e.GenomeCountRecursive)
	}
	for _, a := range e.Accessions {
		t.Accessions = append(t.Accessions, taxon.Accession{
			Accession: a.Accession,
			Level:     taxon.AssemblyLevel(a.Level),
		})
	}
	return t, nil
}

func levelCounts(counts []LevelCount) map[taxon.AssemblyLevel]int {
	m := make(map[taxon.AssemblyLevel]int, len(counts))
	for _, lc := range counts {
		m[taxon.AssemblyLevel(lc.Level)] = lc.Count
	}
	return m
}

// decodeEntries parses a response body into a list of entries. The MRCA and
// parent endpoints return a bare object instead of an array; both shapes are
// accepted and normalized to a slice.
func decodeEntries(body []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var single Entry
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		return []Entry{single}, nil
	}

	var entries []Entry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return entries, nil
}

// entriesToTaxa translates a batch of entries, failing on the first
// incomplete one.
func entriesToTaxa(entries []Entry) ([]*taxon.Taxon, error) {
	taxa := make([]*taxon.Taxon, 0, len(entries))
	for _, e := range entries {
		t, err := e.Taxon()
		if err != nil {
			return nil, err
		}
		taxa = append(taxa, t)
	}
	return taxa, nil
}
