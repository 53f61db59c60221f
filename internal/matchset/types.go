// Package matchset loads and validates the output of the entity-matching
// collaborator: per-page match categories plus uncovered gap topics.
package matchset

import (
	"fmt"
	"sort"
	"strings"

	"siteplan/internal/inventory"
)

// Category classifies how an inventory page relates to the target topic plan.
type Category string

const (
	CategoryMatched         Category = "matched"
	CategoryCannibalization Category = "cannibalization"
	CategoryOrphan          Category = "orphan"
)

// Importance ranks a gap topic within the target plan.
type Importance string

const (
	ImportancePillar     Importance = "pillar"
	ImportanceSupporting Importance = "supporting"
)

// Match links one inventory page to the target plan.
type Match struct {
	InventoryID string   `json:"inventory_id"`
	Category    Category `json:"category"`
	TopicID     string   `json:"topic_id,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// Gap is a target-plan topic with no existing page covering it.
type Gap struct {
	TopicID    string     `json:"topic_id"`
	TopicTitle string     `json:"topic_title"`
	Importance Importance `json:"importance"`
}

// Set is one matching run over a full inventory.
type Set struct {
	SchemaVersion int     `json:"schema_version"`
	AsOf          string  `json:"as_of"`
	Matches       []Match `json:"matches"`
	Gaps          []Gap   `json:"gaps,omitempty"`
}

// Canonicalize sorts and deduplicates matches and gaps so that planning input
// is byte-order independent of how the matching collaborator emitted it.
func Canonicalize(set *Set) {
	if set == nil {
		return
	}

	matches := make([]Match, 0, len(set.Matches))
	seen := make(map[string]struct{}, len(set.Matches))
	for _, m := range set.Matches {
		m.InventoryID = strings.TrimSpace(m.InventoryID)
		m.TopicID = strings.TrimSpace(m.TopicID)
		if m.InventoryID == "" {
			continue
		}
		fingerprint := m.InventoryID + "\x00" + string(m.Category) + "\x00" + m.TopicID
		if _, ok := seen[fingerprint]; ok {
			continue
		}
		seen[fingerprint] = struct{}{}
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.InventoryID != b.InventoryID {
			return a.InventoryID < b.InventoryID
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.TopicID < b.TopicID
	})
	set.Matches = matches

	gaps := make([]Gap, 0, len(set.Gaps))
	seenGaps := make(map[string]struct{}, len(set.Gaps))
	for _, g := range set.Gaps {
		g.TopicID = strings.TrimSpace(g.TopicID)
		if g.TopicID == "" {
			continue
		}
		if _, ok := seenGaps[g.TopicID]; ok {
			continue
		}
		seenGaps[g.TopicID] = struct{}{}
		gaps = append(gaps, g)
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].TopicID < gaps[j].TopicID
	})
	if len(gaps) == 0 {
		gaps = nil
	}
	set.Gaps = gaps
}

// Validate enforces the matching-collaborator contract against a loaded
// inventory store. Contract breaches are errors; matches referencing unknown
// inventory ids are returned as warnings because the engine skips them.
func Validate(set *Set, store *inventory.Store) (warnings []string, err error) {
	if set == nil {
		return nil, fmt.Errorf("match set is required")
	}

	var problems []string
	for idx, m := range set.Matches {
		switch m.Category {
		case CategoryMatched, CategoryCannibalization, CategoryOrphan:
		default:
			problems = append(problems, fmt.Sprintf("matches[%d]: unknown category %q", idx, m.Category))
		}
		if m.Confidence < 0 || m.Confidence > 1 {
			problems = append(problems, fmt.Sprintf("matches[%d]: confidence %g out of range", idx, m.Confidence))
		}
		if m.Category == CategoryCannibalization && m.TopicID == "" {
			problems = append(problems, fmt.Sprintf("matches[%d]: cannibalization match missing topic_id", idx))
		}
		if store != nil {
			if _, ok := store.ItemLookup(m.InventoryID); !ok {
				warnings = append(warnings, fmt.Sprintf("matches[%d]: inventory id %q not found; match will be skipped", idx, m.InventoryID))
			}
		}
	}
	for idx, g := range set.Gaps {
		switch g.Importance {
		case ImportancePillar, ImportanceSupporting:
		default:
			problems = append(problems, fmt.Sprintf("gaps[%d]: unknown importance %q", idx, g.Importance))
		}
		if store != nil {
			if _, ok := store.TopicLookup(g.TopicID); !ok {
				warnings = append(warnings, fmt.Sprintf("gaps[%d]: topic id %q not found in topic plan", idx, g.TopicID))
			}
		}
	}

	if len(problems) > 0 {
		return warnings, fmt.Errorf("match set violates matching contract:\n%s", strings.Join(problems, "\n"))
	}
	return warnings, nil
}
