package planner

import (
	"fmt"

	"siteplan/internal/inventory"
	"siteplan/internal/matchset"
	"siteplan/internal/signals"
)

// GeneratePlan runs one deterministic planning pass: site averages once,
// then one decision per match, one group decision per cannibalized topic,
// one CREATE_NEW per gap, and finally the stable total order.
//
// A match referencing an inventory id that does not exist is skipped; a
// cannibalization group that resolves to fewer than two real pages is
// dropped. Identical input always yields an identical plan.
func GeneratePlan(input Input) (*Plan, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	itemsByID := make(map[string]inventory.Item, len(input.Inventory))
	for _, item := range input.Inventory {
		itemsByID[item.ID] = item
	}
	topicsByID := make(map[string]inventory.Topic, len(input.Topics))
	for _, topic := range input.Topics {
		topicsByID[topic.ID] = topic
	}

	avg := signals.ComputeSiteAverages(input.Inventory)

	var actions []PlannedAction
	handledGroups := make(map[string]struct{})

	for _, m := range input.Matches {
		switch m.Category {
		case matchset.CategoryMatched:
			item, ok := itemsByID[m.InventoryID]
			if !ok {
				continue
			}
			actions = append(actions, planMatched(item, m, avg))

		case matchset.CategoryOrphan:
			item, ok := itemsByID[m.InventoryID]
			if !ok {
				continue
			}
			actions = append(actions, planOrphan(item, avg))

		case matchset.CategoryCannibalization:
			if m.TopicID == "" {
				continue
			}
			if _, done := handledGroups[m.TopicID]; done {
				continue
			}
			handledGroups[m.TopicID] = struct{}{}
			group := collectGroup(input.Matches, itemsByID, m.TopicID)
			actions = append(actions, planCannibalizationGroup(group, m.TopicID, avg)...)
		}
	}

	for _, gap := range input.Gaps {
		actions = append(actions, planGap(gap, topicsByID))
	}

	sortActions(actions)

	return &Plan{
		SchemaVersion: PlanSchemaVersion,
		Context:       input.Context,
		Actions:       actions,
	}, nil
}

// collectGroup resolves all cannibalization matches for one topic to their
// inventory items, preserving match order. Unknown ids are skipped.
func collectGroup(matches []matchset.Match, itemsByID map[string]inventory.Item, topicID string) []inventory.Item {
	var group []inventory.Item
	for _, m := range matches {
		if m.Category != matchset.CategoryCannibalization || m.TopicID != topicID {
			continue
		}
		if item, ok := itemsByID[m.InventoryID]; ok {
			group = append(group, item)
		}
	}
	return group
}

func validateInput(input Input) error {
	for idx, m := range input.Matches {
		switch m.Category {
		case matchset.CategoryMatched, matchset.CategoryCannibalization, matchset.CategoryOrphan:
		default:
			return fmt.Errorf("matches[%d]: unknown category %q", idx, m.Category)
		}
	}
	for idx, g := range input.Gaps {
		switch g.Importance {
		case matchset.ImportancePillar, matchset.ImportanceSupporting:
		default:
			return fmt.Errorf("gaps[%d]: unknown importance %q", idx, g.Importance)
		}
		if g.TopicID == "" {
			return fmt.Errorf("gaps[%d]: topic_id is required", idx)
		}
	}
	return nil
}
