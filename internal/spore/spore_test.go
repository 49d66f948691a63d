package spore

import (
	"errors"
	"reflect"
	"testing"
)

func TestSpore_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		spore Spore
		want  string
	}{
		{
			name:  "single taxon",
			spore: Spore{TaxonIDs: []int64{9681}, TaxonomyType: TaxonomyDescendants, DisplayType: DisplayTree},
			want:  "9681_descendants_tree",
		},
		{
			name:  "multiple taxa",
			spore: Spore{TaxonIDs: []int64{9685, 9689, 9612}, TaxonomyType: TaxonomyMRCA, DisplayType: DisplayGraph},
			want:  "9685.9689.9612_mrca_graph",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := tt.spore.Encode()
			if encoded != tt.want {
				t.Errorf("Encode() = %q, want %q", encoded, tt.want)
			}
			decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(decoded, tt.spore) {
				t.Errorf("Decode() = %+v, want %+v", decoded, tt.spore)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []string{
		"",
		"9681",
		"9681_descendants",
		"9681_descendants_tree_extra",
		"_descendants_tree",
		"abc_descendants_tree",
		"9681_sideways_tree",
		"9681_descendants_hologram",
		"9681..9682_mrca_tree",
	}
	for _, encoded := range tests {
		t.Run(encoded, func(t *testing.T) {
			if _, err := Decode(encoded); !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode(%q) error = %v, want ErrMalformed", encoded, err)
			}
		})
	}
}

func TestParseTaxonomyType(t *testing.T) {
	if _, err := ParseTaxonomyType("neighbors"); err != nil {
		t.Errorf("ParseTaxonomyType(neighbors) error = %v", err)
	}
	if _, err := ParseTaxonomyType("cousins"); err == nil {
		t.Error("expected error for unknown taxonomy type")
	}
}

func TestParseDisplayType(t *testing.T) {
	if _, err := ParseDisplayType("pack"); err != nil {
		t.Errorf("ParseDisplayType(pack) error = %v", err)
	}
	if _, err := ParseDisplayType("globe"); err == nil {
		t.Error("expected error for unknown display type")
	}
}
