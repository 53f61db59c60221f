package planner

import (
	"sort"

	"siteplan/internal/inventory"
	"siteplan/internal/matchset"
	"siteplan/internal/signals"
)

// Composite-score tiers for matched pages.
const (
	keepThreshold    = 70
	rewriteThreshold = 40
)

// Signal thresholds used when reasoning names weak components.
const (
	focusAreaThreshold       = 50
	criticalFailureThreshold = 40
)

// planMatched decides the fate of a page that maps cleanly onto one target
// topic. Guards are evaluated in order; the first hit wins.
func planMatched(item inventory.Item, m matchset.Match, avg signals.SiteAverages) PlannedAction {
	sc := signals.Compute(item, avg)
	clicks := item.Clicks()
	impressions := item.Impressions()

	action := PlannedAction{
		InventoryID: item.ID,
		URL:         item.URL,
		TopicID:     m.TopicID,
		Score:       float64(sc.Composite),
		DataPoints:  matchedDataPoints(item, sc),
	}

	switch {
	case signals.IsStrikingDistance(item) && clicks > 0:
		// Quick win: already ranking, fires before any composite tier.
		action.Action = ActionOptimize
		action.Priority = PriorityCritical
		action.Effort = EffortMedium
		action.Reasoning = quickWinReasoning(item, clicks)

	case sc.Composite >= keepThreshold:
		action.Action = ActionKeep
		action.Priority = PriorityLow
		action.Effort = EffortNone
		action.Reasoning = keepReasoning(sc)

	case sc.Composite >= rewriteThreshold:
		action.Action = ActionOptimize
		action.Effort = EffortMedium
		if clicks > 0 || impressions > 100 {
			action.Priority = PriorityHigh
			action.Reasoning = optimizeWithTrafficReasoning(sc, weakSignals(sc, focusAreaThreshold))
		} else {
			action.Priority = PriorityMedium
			action.Reasoning = optimizeDormantReasoning(sc)
		}

	default:
		action.Action = ActionRewrite
		action.Effort = EffortHigh
		if clicks > 0 {
			action.Priority = PriorityCritical
			action.Reasoning = rewriteWithTrafficReasoning(sc, clicks, weakSignals(sc, criticalFailureThreshold))
		} else {
			action.Priority = PriorityMedium
			action.Reasoning = rewriteDormantReasoning(sc)
		}
	}
	return action
}

// planOrphan decides the fate of a page with no place in the target plan.
func planOrphan(item inventory.Item, avg signals.SiteAverages) PlannedAction {
	sc := signals.Compute(item, avg)

	action := PlannedAction{
		InventoryID: item.ID,
		URL:         item.URL,
		Score:       float64(sc.Composite),
		DataPoints:  orphanDataPoints(item, sc),
	}

	switch {
	case item.GoogleCanonical != "" && item.GoogleCanonical != item.URL:
		action.Action = ActionCanonicalize
		action.Priority = PriorityHigh
		action.Effort = EffortLow
		action.Reasoning = canonicalizeReasoning(item)

	case sc.TrafficOpportunity >= 30:
		action.Action = ActionRedirect301
		action.Priority = PriorityHigh
		action.Effort = EffortLow
		action.Reasoning = redirectReasoning(sc)

	case sc.Composite < 30 && sc.TrafficOpportunity == 0:
		action.Action = ActionPrune410
		action.Priority = PriorityMedium
		action.Effort = EffortLow
		action.Reasoning = pruneReasoning(sc)

	default:
		// Ambiguous orphan, held for manual review.
		action.Action = ActionKeep
		action.Priority = PriorityLow
		action.Effort = EffortNone
		action.Reasoning = holdOrphanReasoning(sc)
	}
	return action
}

// planCannibalizationGroup resolves a set of pages competing for one topic.
// The strongest page by composite becomes the merge target; every other
// member is merged into it and redirected. Groups below two pages are a
// defensive no-op.
func planCannibalizationGroup(group []inventory.Item, topicID string, avg signals.SiteAverages) []PlannedAction {
	if len(group) < 2 {
		return nil
	}

	type member struct {
		item inventory.Item
		sc   signals.Scorecard
	}
	members := make([]member, 0, len(group))
	for _, item := range group {
		members = append(members, member{item: item, sc: signals.Compute(item, avg)})
	}
	// Stable: original match order breaks composite ties.
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].sc.Composite > members[j].sc.Composite
	})
	target := members[0]

	actions := make([]PlannedAction, 0, len(members))
	for idx, mem := range members {
		action := PlannedAction{
			InventoryID: mem.item.ID,
			URL:         mem.item.URL,
			TopicID:     topicID,
			Action:      ActionMerge,
			Priority:    PriorityHigh,
			Score:       float64(mem.item.Clicks()),
			DataPoints:  cannibalizationDataPoints(mem.item, mem.sc, len(members)),
		}
		if idx == 0 {
			action.Effort = EffortHigh
			action.Reasoning = mergeTargetReasoning(mem.sc, len(members)-1)
		} else {
			action.Effort = EffortMedium
			action.MergeTargetURL = target.item.URL
			action.RedirectTargetURL = target.item.URL
			action.Reasoning = mergeSourceReasoning(mem.sc, target.item.URL)
		}
		actions = append(actions, action)
	}
	return actions
}

// planGap creates the single CREATE_NEW action for an uncovered topic.
func planGap(gap matchset.Gap, topicsByID map[string]inventory.Topic) PlannedAction {
	priority := PriorityMedium
	if gap.Importance == matchset.ImportancePillar {
		priority = PriorityCritical
	}

	return PlannedAction{
		Action:     ActionCreateNew,
		Priority:   priority,
		Effort:     EffortHigh,
		TopicID:    gap.TopicID,
		Score:      0,
		Reasoning:  gapReasoning(gap),
		DataPoints: gapDataPoints(gap, topicsByID),
	}
}
