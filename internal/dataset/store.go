// Package dataset reads and writes event record sets as JSON files. Writes
// are atomic (temp file + rename) so the serving path never observes a
// half-written dataset.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

// DefaultPath is the canonical dataset location the UI consumes.
const DefaultPath = "public/data/events.json"

// wrapper tolerates the older {"events": [...]} file shape.
type wrapper struct {
	Events []events.Event `json:"events"`
}

// Load reads a record set from path. Both a bare JSON array and an object
// wrapping the array under "events" are accepted.
func Load(path string) ([]events.Event, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var records []events.Event
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}
	var w wrapper
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return w.Events, nil
}

// Write persists records to path as pretty-printed JSON, atomically. Parent
// directories are created as needed.
func Write(path string, records []events.Event) error {
	if records == nil {
		records = []events.Event{}
	}
	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	body = append(body, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".events-*.json")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp dataset: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}
