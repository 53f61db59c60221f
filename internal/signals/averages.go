package signals

import (
	"math"

	"siteplan/internal/inventory"
)

// SiteAverages is the relative yardstick shared by every page scored in one
// planning run. Compute it once per run and thread it through explicitly;
// recomputing per item would shift the baseline mid-run.
type SiteAverages struct {
	AvgInternalLinks int `json:"avg_internal_links"`
	AvgWordCount     int `json:"avg_word_count"`
}

// ComputeSiteAverages averages word count and internal links across the
// subset of items that report either field. An inventory with no link or
// word-count data at all yields zero averages.
func ComputeSiteAverages(items []inventory.Item) SiteAverages {
	var wordSum, linkSum float64
	count := 0

	for _, item := range items {
		if item.WordCount == nil && item.InternalLinkCount == nil {
			continue
		}
		count++
		if item.WordCount != nil {
			wordSum += float64(*item.WordCount)
		}
		if item.InternalLinkCount != nil {
			linkSum += float64(*item.InternalLinkCount)
		}
	}

	if count == 0 {
		return SiteAverages{}
	}
	return SiteAverages{
		AvgInternalLinks: int(math.Round(linkSum / float64(count))),
		AvgWordCount:     int(math.Round(wordSum / float64(count))),
	}
}
