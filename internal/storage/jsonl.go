// Package storage persists saved spores: a JSONL ledger as the source of
// truth, with an ephemeral SQLite index rebuilt from it for searching.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/evolab/taxatree/internal/spore"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// SavedSpore is one named, shareable application state snapshot.
type SavedSpore struct {
	Name    string    `json:"name"`
	Encoded string    `json:"encoded"`
	Taxa    []string  `json:"taxa,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// Spore decodes the snapshot's encoded state.
func (s *SavedSpore) Spore() (spore.Spore, error) {
	return spore.Decode(s.Encoded)
}

// ReadAll reads all saved spores from a JSONL file. A missing file is an
// empty ledger, not an error.
func ReadAll(path string) ([]SavedSpore, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening spores file: %w", err)
	}
	defer f.Close()

	var spores []SavedSpore
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var s SavedSpore
		if err := json.Unmarshal(line, &s); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		spores = append(spores, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading spores file: %w", err)
	}

	return spores, nil
}

// Append adds a saved spore to the end of a JSONL file.
func Append(path string, s SavedSpore) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening spores file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding spore: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing spore: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}

	return nil
}

// WriteAll writes all saved spores to a JSONL file, replacing existing content.
func WriteAll(path string, spores []SavedSpore) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating spores file: %w", err)
	}
	defer f.Close()

	for i, s := range spores {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encoding spore %d: %w", i, err)
		}

		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing spore %d: %w", i, err)
		}
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	return nil
}

// FindByName searches saved spores by name.
func FindByName(spores []SavedSpore, name string) (int, bool) {
	for i, s := range spores {
		if s.Name == name {
			return i, true
		}
	}
	return -1, false
}

// GenerateUniqueName returns a name that doesn't conflict with existing
// saved spores. If the base name exists, appends -2, -3, etc.
func GenerateUniqueName(spores []SavedSpore, base string) string {
	if _, found := FindByName(spores, base); !found {
		return base
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, found := FindByName(spores, candidate); !found {
			return candidate
		}
	}
}
