// Package guardrails verifies that a generated plan honors the structural
// invariants the consumer relies on. It runs after generation (and on demand
// via `siteplan plan verify`) and reports violations instead of panicking.
package guardrails

import (
	"fmt"
	"strings"

	"siteplan/internal/matchset"
	"siteplan/internal/planner"
)

// Violation is a single broken plan invariant.
type Violation struct {
	Rule   string `json:"rule"`
	Detail string `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Detail)
}

// CheckPlan validates the self-contained invariants of a plan: enumerated
// action fields, non-empty reasoning, sort monotonicity, merge-group shape,
// and gap-action shape.
func CheckPlan(plan *planner.Plan) []Violation {
	if plan == nil {
		return []Violation{{Rule: "plan", Detail: "plan is nil"}}
	}

	var violations []Violation
	add := func(rule, format string, args ...any) {
		violations = append(violations, Violation{Rule: rule, Detail: fmt.Sprintf(format, args...)})
	}

	validActions := map[planner.Action]struct{}{
		planner.ActionKeep: {}, planner.ActionOptimize: {}, planner.ActionRewrite: {},
		planner.ActionMerge: {}, planner.ActionRedirect301: {}, planner.ActionPrune410: {},
		planner.ActionCanonicalize: {}, planner.ActionCreateNew: {},
	}
	validEfforts := map[planner.Effort]struct{}{
		planner.EffortNone: {}, planner.EffortLow: {}, planner.EffortMedium: {}, planner.EffortHigh: {},
	}

	for idx, action := range plan.Actions {
		where := describeAction(idx, action)

		if _, ok := validActions[action.Action]; !ok {
			add("action-domain", "%s: unknown action %q", where, action.Action)
		}
		if action.Priority.Rank() > 3 {
			add("priority-domain", "%s: unknown priority %q", where, action.Priority)
		}
		if _, ok := validEfforts[action.Effort]; !ok {
			add("effort-domain", "%s: unknown effort %q", where, action.Effort)
		}
		if strings.TrimSpace(action.Reasoning) == "" {
			add("reasoning", "%s: empty reasoning", where)
		}
		if len(action.DataPoints) == 0 {
			add("data-points", "%s: no data points", where)
		}

		if action.Action == planner.ActionCreateNew {
			if action.InventoryID != "" || action.URL != "" {
				add("gap-shape", "%s: CREATE_NEW must not reference an inventory page", where)
			}
			if action.TopicID == "" {
				add("gap-shape", "%s: CREATE_NEW missing topic_id", where)
			}
		} else if action.InventoryID == "" {
			add("inventory-ref", "%s: missing inventory_id", where)
		}

		if idx > 0 {
			prev := plan.Actions[idx-1]
			if prev.Priority.Rank() > action.Priority.Rank() {
				add("sort-order", "%s: priority %q sorts before %q", where, action.Priority, prev.Priority)
			}
			if prev.Priority.Rank() == action.Priority.Rank() && prev.Score < action.Score {
				add("sort-order", "%s: score %g sorts before %g within priority %q", where, action.Score, prev.Score, action.Priority)
			}
		}
	}

	violations = append(violations, checkMergeGroups(plan)...)
	return violations
}

// checkMergeGroups verifies each cannibalization group: at least two MERGE
// actions per topic, exactly one target (no merge/redirect URLs), every other
// member pointing both URLs at the target.
func checkMergeGroups(plan *planner.Plan) []Violation {
	var violations []Violation

	groups := make(map[string][]planner.PlannedAction)
	var order []string
	for _, action := range plan.Actions {
		if action.Action != planner.ActionMerge {
			continue
		}
		if action.TopicID == "" {
			violations = append(violations, Violation{
				Rule:   "merge-group",
				Detail: fmt.Sprintf("MERGE action for %s has no topic_id", action.InventoryID),
			})
			continue
		}
		if _, seen := groups[action.TopicID]; !seen {
			order = append(order, action.TopicID)
		}
		groups[action.TopicID] = append(groups[action.TopicID], action)
	}

	for _, topicID := range order {
		members := groups[topicID]
		if len(members) < 2 {
			violations = append(violations, Violation{
				Rule:   "merge-group",
				Detail: fmt.Sprintf("topic %s: merge group of size %d", topicID, len(members)),
			})
			continue
		}

		var targets []planner.PlannedAction
		for _, m := range members {
			if m.MergeTargetURL == "" && m.RedirectTargetURL == "" {
				targets = append(targets, m)
			}
		}
		if len(targets) != 1 {
			violations = append(violations, Violation{
				Rule:   "merge-group",
				Detail: fmt.Sprintf("topic %s: %d merge targets, want exactly 1", topicID, len(targets)),
			})
			continue
		}

		targetURL := targets[0].URL
		for _, m := range members {
			if m.InventoryID == targets[0].InventoryID {
				continue
			}
			if m.MergeTargetURL != targetURL || m.RedirectTargetURL != targetURL {
				violations = append(violations, Violation{
					Rule:   "merge-group",
					Detail: fmt.Sprintf("topic %s: %s does not point at target %s", topicID, m.InventoryID, targetURL),
				})
			}
		}
	}
	return violations
}

// CheckAgainstMatches cross-checks a plan with the match set that produced
// it: every matched/orphan match that made it into the plan appears exactly
// once, and every gap topic has exactly one CREATE_NEW action.
func CheckAgainstMatches(plan *planner.Plan, set *matchset.Set) []Violation {
	if plan == nil || set == nil {
		return []Violation{{Rule: "input", Detail: "plan and match set are required"}}
	}

	var violations []Violation

	actionsByInventory := make(map[string]int)
	createNewByTopic := make(map[string]int)
	for _, action := range plan.Actions {
		if action.Action == planner.ActionCreateNew {
			createNewByTopic[action.TopicID]++
			continue
		}
		actionsByInventory[action.InventoryID]++
	}

	for _, m := range set.Matches {
		if m.Category == matchset.CategoryCannibalization {
			continue
		}
		count := actionsByInventory[m.InventoryID]
		if count > 1 {
			violations = append(violations, Violation{
				Rule:   "one-action-per-match",
				Detail: fmt.Sprintf("%s has %d actions, want at most 1", m.InventoryID, count),
			})
		}
	}

	for _, g := range set.Gaps {
		if count := createNewByTopic[g.TopicID]; count != 1 {
			violations = append(violations, Violation{
				Rule:   "one-action-per-gap",
				Detail: fmt.Sprintf("gap topic %s has %d CREATE_NEW actions, want 1", g.TopicID, count),
			})
		}
	}
	return violations
}

func describeAction(idx int, action planner.PlannedAction) string {
	ref := action.InventoryID
	if ref == "" {
		ref = action.TopicID
	}
	if ref == "" {
		ref = "?"
	}
	return fmt.Sprintf("actions[%d] (%s %s)", idx, action.Action, ref)
}
