package e2e

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteplan/internal/export"
	"siteplan/internal/guardrails"
	"siteplan/internal/inventory"
	"siteplan/internal/matchset"
	"siteplan/internal/planner"
	"siteplan/internal/signals"
)

const e2eInventoryYAML = `pages:
  - id: home
    url: https://example.com/
    audit_score: 88
    word_count: 2100
    internal_links: 20
    schema_types: [Organization]
    gsc_clicks: 300
    gsc_impressions: 9000
    match_confidence: 0.95
    cwv_assessment: good
  - id: old-guide
    url: https://example.com/old-guide
    audit_score: 25
    word_count: 250
    gsc_clicks: 40
  - id: pricing-a
    url: https://example.com/pricing
    audit_score: 70
    gsc_clicks: 60
  - id: pricing-b
    url: https://example.com/plans
    audit_score: 35
    gsc_clicks: 10
  - id: stale-promo
    url: https://example.com/promo-2019
`

const e2eTopicsYAML = `topics:
  - topic_id: platform
    title: Platform Overview
  - topic_id: guides
    title: Guides
  - topic_id: pricing
    title: Pricing
  - topic_id: integrations
    title: Integrations
`

func writeWorkspace(t *testing.T) (invDir, topicsPath, matchesDir string) {
	t.Helper()
	root := t.TempDir()
	invDir = filepath.Join(root, "inventory")
	require.NoError(t, os.MkdirAll(invDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(invDir, "site.yml"), []byte(e2eInventoryYAML), 0o644))
	topicsPath = filepath.Join(root, "topics.yml")
	require.NoError(t, os.WriteFile(topicsPath, []byte(e2eTopicsYAML), 0o644))
	matchesDir = filepath.Join(root, "matches")
	return invDir, topicsPath, matchesDir
}

func TestFullPlanningPipeline(t *testing.T) {
	invDir, topicsPath, matchesDir := writeWorkspace(t)

	store, err := inventory.LoadFromDir(invDir, topicsPath)
	require.NoError(t, err)
	require.Len(t, store.Items, 5)

	// Persist the matching run the way the matching collaborator would.
	set := matchset.Set{
		AsOf: "2026-03-01",
		Matches: []matchset.Match{
			{InventoryID: "home", Category: matchset.CategoryMatched, TopicID: "platform", Confidence: 0.95},
			{InventoryID: "old-guide", Category: matchset.CategoryMatched, TopicID: "guides", Confidence: 0.6},
			{InventoryID: "pricing-a", Category: matchset.CategoryCannibalization, TopicID: "pricing"},
			{InventoryID: "pricing-b", Category: matchset.CategoryCannibalization, TopicID: "pricing"},
			{InventoryID: "stale-promo", Category: matchset.CategoryOrphan},
		},
		Gaps: []matchset.Gap{
			{TopicID: "integrations", TopicTitle: "Integrations", Importance: matchset.ImportancePillar},
		},
	}
	snapshotPath := matchset.PathForDate(matchesDir, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, matchset.Write(snapshotPath, set))

	latest, err := matchset.LatestPath(matchesDir)
	require.NoError(t, err)
	loadedSet, err := matchset.Load(latest)
	require.NoError(t, err)

	warnings, err := matchset.Validate(loadedSet, store)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	plan, err := planner.GeneratePlan(planner.Input{
		Inventory: store.Items,
		Topics:    store.Topics,
		Matches:   loadedSet.Matches,
		Gaps:      loadedSet.Gaps,
		Context:   &planner.Context{Language: "en", Industry: "saas"},
	})
	require.NoError(t, err)
	plan.AsOf = loadedSet.AsOf
	plan.GeneratedAt = "2026-03-01T12:00:00Z"

	// Every match category produced its action(s); the gap produced one.
	require.Len(t, plan.Actions, 5)

	byID := make(map[string]planner.PlannedAction)
	var gapAction planner.PlannedAction
	for _, action := range plan.Actions {
		if action.Action == planner.ActionCreateNew {
			gapAction = action
			continue
		}
		byID[action.InventoryID] = action
	}

	assert.Equal(t, planner.ActionKeep, byID["home"].Action)
	assert.Equal(t, planner.ActionRewrite, byID["old-guide"].Action)
	assert.Equal(t, planner.PriorityCritical, byID["old-guide"].Priority)
	assert.Equal(t, planner.ActionMerge, byID["pricing-a"].Action)
	assert.Equal(t, planner.ActionMerge, byID["pricing-b"].Action)
	assert.Empty(t, byID["pricing-a"].MergeTargetURL, "stronger page is the merge target")
	assert.Equal(t, byID["pricing-a"].URL, byID["pricing-b"].RedirectTargetURL)
	assert.Equal(t, planner.ActionPrune410, byID["stale-promo"].Action)
	assert.Equal(t, "integrations", gapAction.TopicID)
	assert.Equal(t, planner.PriorityCritical, gapAction.Priority)

	// Guardrails pass on both the plan itself and its consistency with the
	// match set that produced it.
	assert.Empty(t, guardrails.CheckPlan(plan))
	assert.Empty(t, guardrails.CheckAgainstMatches(plan, loadedSet))

	// Persist and reload.
	planPath := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, planner.WritePlan(planPath, plan))
	reloaded, err := planner.LoadPlan(planPath)
	require.NoError(t, err)
	assert.Equal(t, plan, reloaded)

	// Exports render without error in every format.
	for _, format := range []string{"json", "csv", "markdown"} {
		exp, err := export.ForFormat(format)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, exp.Export(&buf, reloaded), format)
		assert.NotZero(t, buf.Len(), format)
	}
}

func TestScoreWritebackPipeline(t *testing.T) {
	invDir, topicsPath, _ := writeWorkspace(t)

	store, err := inventory.LoadFromDir(invDir, topicsPath)
	require.NoError(t, err)

	avg := signals.ComputeSiteAverages(store.Items)
	scores := make(map[string]inventory.PageScores, len(store.Items))
	for _, item := range store.Items {
		sc := signals.Compute(item, avg)
		scores[item.ID] = inventory.PageScores{
			ContentHealth:      sc.ContentHealth,
			TrafficOpportunity: sc.TrafficOpportunity,
			TechnicalHealth:    sc.TechnicalHealth,
			StrategicAlignment: sc.StrategicAlignment,
			LinkingStrength:    sc.LinkingStrength,
			Composite:          sc.Composite,
		}
	}

	result, err := inventory.WriteScores(invDir, scores, "2026-03-01", true)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, 5, result.Files[0].Updated)

	// The rewritten inventory still loads cleanly.
	reloaded, err := inventory.LoadFromDir(invDir, topicsPath)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 5)
}
