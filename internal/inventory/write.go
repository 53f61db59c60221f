package inventory

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteInventoryFile persists items as one inventory YAML document, ordered
// as given. Used by the crawl import path; hand-maintained files are edited
// in place.
func WriteInventoryFile(path string, items []Item) error {
	if path == "" {
		return fmt.Errorf("inventory path is required")
	}
	if len(items) == 0 {
		return fmt.Errorf("no items to write")
	}

	doc := rawInventoryDocument{Pages: make([]rawPage, 0, len(items))}
	for _, item := range items {
		doc.Pages = append(doc.Pages, rawPage{
			ID:                       item.ID,
			URL:                      item.URL,
			AuditScore:               item.AuditScore,
			WordCount:                item.WordCount,
			InternalLinks:            item.InternalLinkCount,
			ExternalLinks:            item.ExternalLinkCount,
			SchemaTypes:              item.SchemaTypes,
			GSCClicks:                item.GSCClicks,
			GSCImpressions:           item.GSCImpressions,
			GSCPosition:              item.GSCPosition,
			StrikingDistanceKeywords: item.StrikingDistanceKeywords,
			CWVAssessment:            item.CWVAssessment,
			CORScore:                 item.CORScore,
			DOMSizeKB:                item.DOMSizeKB,
			TTFBMs:                   item.TTFBMs,
			MatchConfidence:          item.MatchConfidence,
			GoogleCanonical:          item.GoogleCanonical,
			IndexStatus:              item.IndexStatus,
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure inventory dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write inventory: %w", err)
	}
	return nil
}
