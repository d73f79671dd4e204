package collect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TobiSchelling/secfetch/internal/filing"
)

// WriteSnapshot writes the collected records to path as an indented JSON array.
func WriteSnapshot(path string, records []filing.Record) error {
	if records == nil {
		records = []filing.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads records previously written by WriteSnapshot.
func ReadSnapshot(path string) ([]filing.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var records []filing.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return records, nil
}
