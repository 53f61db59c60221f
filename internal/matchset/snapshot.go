package matchset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const SchemaVersion = 1

// Write persists a match set atomically, canonicalizing it first.
func Write(path string, set Set) error {
	if path == "" {
		return fmt.Errorf("match set path is required")
	}
	if set.AsOf == "" {
		return fmt.Errorf("match set as_of is required")
	}
	set.SchemaVersion = SchemaVersion
	Canonicalize(&set)

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal match set: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure match set dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp match set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp match set: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename match set: %w", err)
	}
	return nil
}

// Load reads and canonicalizes a match set snapshot.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read match set: %w", err)
	}
	var set Set
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&set); err != nil {
		return nil, fmt.Errorf("decode match set: %w", err)
	}
	if set.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported match set schema_version %d", set.SchemaVersion)
	}
	if set.AsOf == "" {
		return nil, fmt.Errorf("match set missing as_of")
	}
	Canonicalize(&set)
	return &set, nil
}

// PathForDate returns the conventional snapshot path for a matching run date.
func PathForDate(dir string, asOf time.Time) string {
	date := asOf.UTC().Format("2006-01-02")
	return filepath.Join(dir, date+".json")
}

// LatestPath returns the newest match set snapshot in dir.
func LatestPath(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read match sets dir: %w", err)
	}
	var candidates []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		name := ent.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		// YYYY-MM-DD.json compares lexicographically in chronological order.
		candidates = append(candidates, filepath.Join(dir, name))
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no match sets found in %s", dir)
	}
	sort.Strings(candidates)
	return candidates[len(candidates)-1], nil
}
