package guardrails

import (
	"testing"

	"siteplan/internal/matchset"
	"siteplan/internal/planner"
)

func validAction(id string) planner.PlannedAction {
	return planner.PlannedAction{
		InventoryID: id,
		URL:         "https://example.com/" + id,
		Action:      planner.ActionKeep,
		Priority:    planner.PriorityLow,
		Effort:      planner.EffortNone,
		Reasoning:   "healthy page",
		DataPoints:  []planner.DataPoint{{Label: "Composite Score", Value: "80", Impact: planner.ImpactPositive}},
	}
}

func ruleNames(violations []Violation) []string {
	names := make([]string, 0, len(violations))
	for _, v := range violations {
		names = append(names, v.Rule)
	}
	return names
}

func hasRule(violations []Violation, rule string) bool {
	for _, v := range violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

func TestCheckPlanAcceptsCleanPlan(t *testing.T) {
	plan := &planner.Plan{
		SchemaVersion: planner.PlanSchemaVersion,
		Actions:       []planner.PlannedAction{validAction("a"), validAction("b")},
	}
	if violations := CheckPlan(plan); len(violations) != 0 {
		t.Fatalf("clean plan flagged: %v", violations)
	}
}

func TestCheckPlanNilPlan(t *testing.T) {
	if violations := CheckPlan(nil); len(violations) != 1 {
		t.Fatalf("nil plan violations = %v", violations)
	}
}

func TestCheckPlanFieldDomains(t *testing.T) {
	bad := validAction("a")
	bad.Action = "DESTROY"
	bad.Priority = "urgent"
	bad.Effort = "heroic"
	bad.Reasoning = "  "
	bad.DataPoints = nil

	violations := CheckPlan(&planner.Plan{Actions: []planner.PlannedAction{bad}})
	for _, rule := range []string{"action-domain", "priority-domain", "effort-domain", "reasoning", "data-points"} {
		if !hasRule(violations, rule) {
			t.Errorf("missing %s violation in %v", rule, ruleNames(violations))
		}
	}
}

func TestCheckPlanSortOrder(t *testing.T) {
	low := validAction("low")
	critical := validAction("critical")
	critical.Priority = planner.PriorityCritical

	violations := CheckPlan(&planner.Plan{Actions: []planner.PlannedAction{low, critical}})
	if !hasRule(violations, "sort-order") {
		t.Fatalf("priority inversion not flagged: %v", violations)
	}

	first := validAction("first")
	first.Score = 10
	second := validAction("second")
	second.Score = 50
	violations = CheckPlan(&planner.Plan{Actions: []planner.PlannedAction{first, second}})
	if !hasRule(violations, "sort-order") {
		t.Fatalf("score inversion within priority not flagged: %v", violations)
	}
}

func TestCheckPlanGapShape(t *testing.T) {
	gap := planner.PlannedAction{
		Action:     planner.ActionCreateNew,
		Priority:   planner.PriorityCritical,
		Effort:     planner.EffortHigh,
		Reasoning:  "uncovered pillar topic",
		DataPoints: []planner.DataPoint{{Label: "Topic", Value: "Widgets", Impact: planner.ImpactNeutral}},
		TopicID:    "widgets",
	}
	if violations := CheckPlan(&planner.Plan{Actions: []planner.PlannedAction{gap}}); len(violations) != 0 {
		t.Fatalf("valid gap action flagged: %v", violations)
	}

	gap.InventoryID = "page-1"
	gap.TopicID = ""
	violations := CheckPlan(&planner.Plan{Actions: []planner.PlannedAction{gap}})
	if !hasRule(violations, "gap-shape") {
		t.Fatalf("malformed CREATE_NEW not flagged: %v", violations)
	}

	headless := validAction("x")
	headless.InventoryID = ""
	if violations := CheckPlan(&planner.Plan{Actions: []planner.PlannedAction{headless}}); !hasRule(violations, "inventory-ref") {
		t.Fatalf("page action without inventory_id not flagged: %v", violations)
	}
}

func mergeAction(id, topicID, targetURL string) planner.PlannedAction {
	a := validAction(id)
	a.Action = planner.ActionMerge
	a.Priority = planner.PriorityHigh
	a.Effort = planner.EffortMedium
	a.TopicID = topicID
	a.MergeTargetURL = targetURL
	a.RedirectTargetURL = targetURL
	return a
}

func TestCheckPlanMergeGroups(t *testing.T) {
	target := mergeAction("t", "topic", "")
	target.Effort = planner.EffortHigh
	sourceA := mergeAction("s1", "topic", target.URL)
	sourceB := mergeAction("s2", "topic", target.URL)

	plan := &planner.Plan{Actions: []planner.PlannedAction{target, sourceA, sourceB}}
	if violations := CheckPlan(plan); len(violations) != 0 {
		t.Fatalf("valid merge group flagged: %v", violations)
	}

	// A lone MERGE is an undersized group.
	plan = &planner.Plan{Actions: []planner.PlannedAction{target}}
	if violations := CheckPlan(plan); !hasRule(violations, "merge-group") {
		t.Fatalf("undersized group not flagged: %v", violations)
	}

	// Two targets in one group.
	secondTarget := mergeAction("t2", "topic", "")
	plan = &planner.Plan{Actions: []planner.PlannedAction{target, secondTarget}}
	if violations := CheckPlan(plan); !hasRule(violations, "merge-group") {
		t.Fatalf("two targets not flagged: %v", violations)
	}

	// Source pointing at the wrong URL.
	stray := mergeAction("s3", "topic", "https://example.com/elsewhere")
	plan = &planner.Plan{Actions: []planner.PlannedAction{target, sourceA, stray}}
	if violations := CheckPlan(plan); !hasRule(violations, "merge-group") {
		t.Fatalf("stray source not flagged: %v", violations)
	}

	// MERGE without a topic forms no group at all.
	topicless := mergeAction("s4", "", target.URL)
	plan = &planner.Plan{Actions: []planner.PlannedAction{topicless}}
	if violations := CheckPlan(plan); !hasRule(violations, "merge-group") {
		t.Fatalf("topicless MERGE not flagged: %v", violations)
	}
}

func TestCheckAgainstMatches(t *testing.T) {
	set := &matchset.Set{
		SchemaVersion: matchset.SchemaVersion,
		AsOf:          "2026-03-01",
		Matches: []matchset.Match{
			{InventoryID: "a", Category: matchset.CategoryMatched, TopicID: "t1"},
		},
		Gaps: []matchset.Gap{{TopicID: "g1", TopicTitle: "Gap", Importance: matchset.ImportancePillar}},
	}

	gap := planner.PlannedAction{
		Action:     planner.ActionCreateNew,
		Priority:   planner.PriorityCritical,
		Effort:     planner.EffortHigh,
		Reasoning:  "uncovered topic",
		DataPoints: []planner.DataPoint{{Label: "Topic", Value: "Gap", Impact: planner.ImpactNeutral}},
		TopicID:    "g1",
	}
	plan := &planner.Plan{Actions: []planner.PlannedAction{gap, validAction("a")}}
	if violations := CheckAgainstMatches(plan, set); len(violations) != 0 {
		t.Fatalf("consistent plan flagged: %v", violations)
	}

	// Duplicate action for one match.
	plan = &planner.Plan{Actions: []planner.PlannedAction{gap, validAction("a"), validAction("a")}}
	if violations := CheckAgainstMatches(plan, set); !hasRule(violations, "one-action-per-match") {
		t.Fatalf("duplicate action not flagged: %v", violations)
	}

	// Missing CREATE_NEW for a gap.
	plan = &planner.Plan{Actions: []planner.PlannedAction{validAction("a")}}
	if violations := CheckAgainstMatches(plan, set); !hasRule(violations, "one-action-per-gap") {
		t.Fatalf("missing gap action not flagged: %v", violations)
	}

	if violations := CheckAgainstMatches(nil, set); len(violations) != 1 {
		t.Fatalf("nil plan violations = %v", violations)
	}
}
