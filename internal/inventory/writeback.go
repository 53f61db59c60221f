package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

// PageScores is the computed-score block written back into inventory YAML.
// Values are rewritten wholesale on every scoring run.
type PageScores struct {
	ContentHealth      float64 `yaml:"content_health"`
	TrafficOpportunity float64 `yaml:"traffic_opportunity"`
	TechnicalHealth    float64 `yaml:"technical_health"`
	StrategicAlignment float64 `yaml:"strategic_alignment"`
	LinkingStrength    float64 `yaml:"linking_strength"`
	Composite          int     `yaml:"composite"`
	ScoredAt           string  `yaml:"scored_at,omitempty"`
}

// FileUpdate describes the pending rewrite of one inventory file.
type FileUpdate struct {
	Path    string
	Diff    string
	Updated int
}

// WritebackResult summarizes a score writeback across an inventory directory.
type WritebackResult struct {
	Files   []FileUpdate
	Applied bool
}

// WriteScores rewrites the scores block of every page in inventoryDir for
// which a score is supplied, keyed by page id. When apply is false the files
// are left untouched and only the unified diffs are returned.
func WriteScores(inventoryDir string, scores map[string]PageScores, asOf string, apply bool) (*WritebackResult, error) {
	if inventoryDir == "" {
		inventoryDir = "inventory"
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("no scores to write back")
	}

	files, err := filepath.Glob(filepath.Join(inventoryDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("scan inventory dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no inventory YAML files found in %s", inventoryDir)
	}
	sort.Strings(files)

	result := &WritebackResult{Applied: apply}

	for _, path := range files {
		oldBytes, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}

		var raw rawInventoryDocument
		if err := yaml.Unmarshal(oldBytes, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		updated := 0
		for idx := range raw.Pages {
			sc, ok := scores[raw.Pages[idx].ID]
			if !ok {
				continue
			}
			sc.ScoredAt = asOf
			raw.Pages[idx].Scores = &sc
			updated++
		}
		if updated == 0 {
			continue
		}

		newBytes, marshalErr := yaml.Marshal(raw)
		if marshalErr != nil {
			return nil, fmt.Errorf("marshal %s: %w", path, marshalErr)
		}

		diff := difflib.UnifiedDiff{
			A:        strings.SplitAfter(string(oldBytes), "\n"),
			B:        strings.SplitAfter(string(newBytes), "\n"),
			FromFile: path,
			ToFile:   path + " (scored)",
			Context:  3,
		}
		diffText, diffErr := difflib.GetUnifiedDiffString(diff)
		if diffErr != nil {
			return nil, fmt.Errorf("diff %s: %w", path, diffErr)
		}

		if apply {
			if err := os.WriteFile(path, newBytes, 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", path, err)
			}
		}

		result.Files = append(result.Files, FileUpdate{
			Path:    path,
			Diff:    diffText,
			Updated: updated,
		})
	}

	if len(result.Files) == 0 {
		return nil, fmt.Errorf("no inventory pages matched the supplied scores")
	}
	return result, nil
}
