package planner

import (
	"fmt"
	"strings"

	"siteplan/internal/inventory"
	"siteplan/internal/matchset"
	"siteplan/internal/signals"
)

// Reasoning and data points are presentation only. Nothing in this file is
// read back by decision or sort logic, and nothing here may fail on a page
// with missing fields.

func quickWinReasoning(item inventory.Item, clicks int) string {
	if n := len(item.StrikingDistanceKeywords); n > 0 {
		return fmt.Sprintf("Quick win: %d striking-distance keywords and %d clicks; targeted optimization can lift existing rankings.", n, clicks)
	}
	return fmt.Sprintf("Quick win: ranking in striking distance with %d clicks; targeted optimization can lift existing rankings.", clicks)
}

func keepReasoning(sc signals.Scorecard) string {
	return fmt.Sprintf("Strong page (composite %d/100); migrate as-is.", sc.Composite)
}

func optimizeWithTrafficReasoning(sc signals.Scorecard, focus []string) string {
	if len(focus) == 0 {
		return fmt.Sprintf("Composite %d/100 with live search visibility; optimize before migrating.", sc.Composite)
	}
	return fmt.Sprintf("Composite %d/100 with live search visibility; focus areas: %s.", sc.Composite, strings.Join(focus, ", "))
}

func optimizeDormantReasoning(sc signals.Scorecard) string {
	return fmt.Sprintf("Composite %d/100 with no meaningful traffic; optimize opportunistically during migration.", sc.Composite)
}

func rewriteWithTrafficReasoning(sc signals.Scorecard, clicks int, failures []string) string {
	if len(failures) == 0 {
		return fmt.Sprintf("Weak page (composite %d/100) still earning %d clicks; rewrite to protect that traffic.", sc.Composite, clicks)
	}
	return fmt.Sprintf("Weak page (composite %d/100) still earning %d clicks; critical failures: %s.", sc.Composite, clicks, strings.Join(failures, ", "))
}

func rewriteDormantReasoning(sc signals.Scorecard) string {
	return fmt.Sprintf("Weak page (composite %d/100) with no traffic to protect; rewrite against the new topic brief.", sc.Composite)
}

func canonicalizeReasoning(item inventory.Item) string {
	return fmt.Sprintf("Google canonicalizes this URL to %s; fix the canonical before deciding its content fate.", item.GoogleCanonical)
}

func redirectReasoning(sc signals.Scorecard) string {
	return fmt.Sprintf("Orphan with real traffic opportunity (%.0f/100); 301 it to a relevant section of the new structure.", sc.TrafficOpportunity)
}

func pruneReasoning(sc signals.Scorecard) string {
	return fmt.Sprintf("Orphan with no traffic and composite %d/100; serve 410 and drop it from the migration.", sc.Composite)
}

func holdOrphanReasoning(sc signals.Scorecard) string {
	return fmt.Sprintf("Orphan with composite %d/100; no clear signal either way, hold for manual review.", sc.Composite)
}

func mergeTargetReasoning(sc signals.Scorecard, sources int) string {
	return fmt.Sprintf("Strongest page of its topic group (composite %d/100); absorb content from %d competing pages.", sc.Composite, sources)
}

func mergeSourceReasoning(sc signals.Scorecard, targetURL string) string {
	return fmt.Sprintf("Competes with a stronger page for the same topic (composite %d/100); merge into %s and redirect.", sc.Composite, targetURL)
}

func gapReasoning(gap matchset.Gap) string {
	if gap.Importance == matchset.ImportancePillar {
		return fmt.Sprintf("Pillar topic %q has no existing coverage; create it before launch.", gap.TopicTitle)
	}
	return fmt.Sprintf("Supporting topic %q has no existing coverage; create it during migration.", gap.TopicTitle)
}

// weakSignals names every signal scoring below threshold, in a fixed order.
func weakSignals(sc signals.Scorecard, threshold float64) []string {
	var weak []string
	for _, entry := range []struct {
		name  string
		score float64
	}{
		{"content health", sc.ContentHealth},
		{"traffic opportunity", sc.TrafficOpportunity},
		{"technical health", sc.TechnicalHealth},
		{"strategic alignment", sc.StrategicAlignment},
		{"linking strength", sc.LinkingStrength},
	} {
		if entry.score < threshold {
			weak = append(weak, entry.name)
		}
	}
	return weak
}

func scorecardDataPoints(sc signals.Scorecard) []DataPoint {
	return []DataPoint{
		{Label: "Composite Score", Value: fmt.Sprintf("%d/100", sc.Composite), Impact: impactFor(float64(sc.Composite))},
		{Label: "Content Health", Value: fmt.Sprintf("%.0f/100", sc.ContentHealth), Impact: impactFor(sc.ContentHealth)},
		{Label: "Traffic Opportunity", Value: fmt.Sprintf("%.0f/100", sc.TrafficOpportunity), Impact: impactFor(sc.TrafficOpportunity)},
		{Label: "Technical Health", Value: fmt.Sprintf("%.0f/100", sc.TechnicalHealth), Impact: impactFor(sc.TechnicalHealth)},
		{Label: "Strategic Alignment", Value: fmt.Sprintf("%.0f/100", sc.StrategicAlignment), Impact: impactFor(sc.StrategicAlignment)},
		{Label: "Linking Strength", Value: fmt.Sprintf("%.0f/100", sc.LinkingStrength), Impact: impactFor(sc.LinkingStrength)},
	}
}

func rawMetricDataPoints(item inventory.Item) []DataPoint {
	var points []DataPoint
	if clicks := item.Clicks(); clicks > 0 {
		points = append(points, DataPoint{Label: "GSC Clicks", Value: fmt.Sprintf("%d", clicks), Impact: ImpactPositive})
	}
	if impressions := item.Impressions(); impressions > 0 {
		points = append(points, DataPoint{Label: "GSC Impressions", Value: fmt.Sprintf("%d", impressions), Impact: ImpactNeutral})
	}
	if item.GSCPosition != nil {
		points = append(points, DataPoint{Label: "Average Position", Value: fmt.Sprintf("%.1f", *item.GSCPosition), Impact: ImpactNeutral})
	}
	if item.WordCount != nil {
		impact := ImpactNeutral
		if *item.WordCount < 300 {
			impact = ImpactNegative
		}
		points = append(points, DataPoint{Label: "Word Count", Value: fmt.Sprintf("%d", *item.WordCount), Impact: impact})
	}
	return points
}

func matchedDataPoints(item inventory.Item, sc signals.Scorecard) []DataPoint {
	points := scorecardDataPoints(sc)
	points = append(points, rawMetricDataPoints(item)...)
	if n := len(item.StrikingDistanceKeywords); n > 0 {
		points = append(points, DataPoint{Label: "Striking-Distance Keywords", Value: fmt.Sprintf("%d", n), Impact: ImpactPositive})
	}
	return points
}

func orphanDataPoints(item inventory.Item, sc signals.Scorecard) []DataPoint {
	points := scorecardDataPoints(sc)
	points = append(points, rawMetricDataPoints(item)...)
	if item.GoogleCanonical != "" {
		points = append(points, DataPoint{Label: "Google Canonical", Value: item.GoogleCanonical, Impact: ImpactNegative})
	}
	return points
}

func cannibalizationDataPoints(item inventory.Item, sc signals.Scorecard, groupSize int) []DataPoint {
	points := scorecardDataPoints(sc)
	points = append(points, rawMetricDataPoints(item)...)
	points = append(points, DataPoint{Label: "Cannibalization Group Size", Value: fmt.Sprintf("%d", groupSize), Impact: ImpactNegative})
	return points
}

func gapDataPoints(gap matchset.Gap, topicsByID map[string]inventory.Topic) []DataPoint {
	points := []DataPoint{
		{Label: "Topic", Value: gap.TopicTitle, Impact: ImpactNeutral},
		{Label: "Importance", Value: string(gap.Importance), Impact: impactForImportance(gap.Importance)},
	}
	if topic, ok := topicsByID[gap.TopicID]; ok && topic.ParentTopicID != "" {
		value := topic.ParentTopicID
		if parent, ok := topicsByID[topic.ParentTopicID]; ok && parent.Title != "" {
			value = fmt.Sprintf("%s (%s)", parent.Title, parent.ID)
		}
		points = append(points, DataPoint{Label: "Parent Topic", Value: value, Impact: ImpactNeutral})
	}
	return points
}

func impactFor(score float64) string {
	switch {
	case score >= 70:
		return ImpactPositive
	case score < 40:
		return ImpactNegative
	}
	return ImpactNeutral
}

func impactForImportance(importance matchset.Importance) string {
	if importance == matchset.ImportancePillar {
		return ImpactNegative
	}
	return ImpactNeutral
}
