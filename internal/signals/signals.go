// Package signals scores individual inventory pages across independent
// health and opportunity dimensions. Every function here is pure: no I/O,
// no state, and missing input fields always degrade to a defined default
// instead of failing.
package signals

import (
	"math"

	"siteplan/internal/inventory"
)

// Weights of the composite score. They must sum to 1.0.
const (
	WeightContentHealth      = 0.30
	WeightTrafficOpportunity = 0.25
	WeightTechnicalHealth    = 0.15
	WeightStrategicAlignment = 0.20
	WeightLinkingStrength    = 0.10
)

// Scorecard holds the five signal scores and their composite for one page.
type Scorecard struct {
	ContentHealth      float64 `json:"content_health"`
	TrafficOpportunity float64 `json:"traffic_opportunity"`
	TechnicalHealth    float64 `json:"technical_health"`
	StrategicAlignment float64 `json:"strategic_alignment"`
	LinkingStrength    float64 `json:"linking_strength"`
	Composite          int     `json:"composite"`
}

// Compute evaluates all five signals and the composite for one page against
// the site averages computed once for the whole planning run.
func Compute(item inventory.Item, avg SiteAverages) Scorecard {
	sc := Scorecard{
		ContentHealth:      ContentHealth(item),
		TrafficOpportunity: TrafficOpportunity(item),
		TechnicalHealth:    TechnicalHealth(item),
		StrategicAlignment: StrategicAlignment(item),
		LinkingStrength:    LinkingStrength(item, avg),
	}
	sc.Composite = Composite(sc)
	return sc
}

// ContentHealth scores editorial quality: audit score, word-count tier, and
// presence of structured data.
func ContentHealth(item inventory.Item) float64 {
	score := 0.0
	if item.AuditScore != nil {
		score = *item.AuditScore
	}
	if item.WordCount != nil {
		switch wc := *item.WordCount; {
		case wc < 300:
			score -= 15
		case wc < 600:
			score -= 5
		case wc >= 2000:
			score += 10
		case wc >= 1000:
			score += 5
		}
	}
	if len(item.SchemaTypes) > 0 {
		score += 5
	}
	return clamp(score)
}

// TrafficOpportunity scores current and near-term search value. Clicks are
// log-scaled so a single high-traffic outlier cannot dominate; the
// impression and striking-distance bonuses surface quick-win pages that raw
// clicks would undervalue.
func TrafficOpportunity(item inventory.Item) float64 {
	score := 0.0
	if clicks := item.Clicks(); clicks > 0 {
		score = math.Min(20*math.Log10(float64(clicks)+1), 80)
	}

	impressions := item.Impressions()
	if impressions > 100 {
		score += 5
	}
	if impressions > 1000 {
		score += 10
	}
	if impressions > 5000 {
		score += 15
	}

	if n := len(item.StrikingDistanceKeywords); n > 0 {
		score += math.Min(float64(n)*5, 20)
	} else if positionInStrikingRange(item) && impressions > 50 {
		score += 15
	}
	return clamp(score)
}

// TechnicalHealth starts from an assume-acceptable baseline of 70, replaces
// it with the CWV assessment when one exists, then stacks penalties for
// code-to-text ratio, DOM size, and TTFB.
func TechnicalHealth(item inventory.Item) float64 {
	score := 70.0
	switch item.CWVAssessment {
	case inventory.CWVGood:
		score = 90
	case inventory.CWVNeedsImprovement:
		score = 60
	case inventory.CWVPoor:
		score = 30
	}

	if item.CORScore != nil {
		switch cor := *item.CORScore; {
		case cor > 70:
			score -= 20
		case cor > 50:
			score -= 10
		}
	}
	if item.DOMSizeKB != nil {
		switch dom := *item.DOMSizeKB; {
		case dom > 3000:
			score -= 15
		case dom > 1500:
			score -= 5
		}
	}
	if item.TTFBMs != nil {
		switch ttfb := *item.TTFBMs; {
		case ttfb > 2000:
			score -= 15
		case ttfb > 800:
			score -= 5
		}
	}
	return clamp(score)
}

// StrategicAlignment maps the matching confidence onto 0-100.
func StrategicAlignment(item inventory.Item) float64 {
	if item.MatchConfidence == nil {
		return 0
	}
	return clamp(*item.MatchConfidence * 100)
}

// LinkingStrength scores internal linking relative to the site average plus
// a capped external-link bonus. The average is floored at 1 so a sparsely
// crawled site cannot divide by zero.
func LinkingStrength(item inventory.Item, avg SiteAverages) float64 {
	denom := avg.AvgInternalLinks
	if denom < 1 {
		denom = 1
	}
	internal := 0
	if item.InternalLinkCount != nil {
		internal = *item.InternalLinkCount
	}
	external := 0
	if item.ExternalLinkCount != nil {
		external = *item.ExternalLinkCount
	}

	ratio := float64(internal) / float64(denom)
	score := 60*ratio + math.Min(float64(external)*3, 15)
	return clamp(score)
}

// Composite collapses a scorecard into the weighted 0-100 aggregate.
func Composite(sc Scorecard) int {
	weighted := WeightContentHealth*sc.ContentHealth +
		WeightTrafficOpportunity*sc.TrafficOpportunity +
		WeightTechnicalHealth*sc.TechnicalHealth +
		WeightStrategicAlignment*sc.StrategicAlignment +
		WeightLinkingStrength*sc.LinkingStrength
	return int(math.Round(weighted))
}

// IsStrikingDistance reports whether a page is a low-effort ranking
// opportunity: striking-distance keywords recorded, or ranking in positions
// 5-20 with non-trivial impressions.
func IsStrikingDistance(item inventory.Item) bool {
	if len(item.StrikingDistanceKeywords) > 0 {
		return true
	}
	return positionInStrikingRange(item) && item.Impressions() > 50
}

func positionInStrikingRange(item inventory.Item) bool {
	if item.GSCPosition == nil {
		return false
	}
	pos := *item.GSCPosition
	return pos >= 5 && pos <= 20
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
