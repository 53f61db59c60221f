// Package planner turns a scored site inventory, a target topic plan, and a
// matching run into a prioritized, explainable migration action plan. The
// engine is a pure library: no I/O, no clocks, no state across runs.
package planner

import (
	"siteplan/internal/inventory"
	"siteplan/internal/matchset"
)

// Action is the migration decision for one page or gap topic.
type Action string

const (
	ActionKeep         Action = "KEEP"
	ActionOptimize     Action = "OPTIMIZE"
	ActionRewrite      Action = "REWRITE"
	ActionMerge        Action = "MERGE"
	ActionRedirect301  Action = "REDIRECT_301"
	ActionPrune410     Action = "PRUNE_410"
	ActionCanonicalize Action = "CANONICALIZE"
	ActionCreateNew    Action = "CREATE_NEW"
)

// Priority orders actions for execution.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank maps a priority onto its sort position; unknown priorities sink last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Effort estimates the work an action requires.
type Effort string

const (
	EffortNone   Effort = "none"
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// DataPoint is one label/value/impact triple backing an action's reasoning.
// Presentation only; downstream logic never reads it.
type DataPoint struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Impact string `json:"impact"`
}

// Data point impact classifications.
const (
	ImpactPositive = "positive"
	ImpactNegative = "negative"
	ImpactNeutral  = "neutral"
)

// PlannedAction is one entry of the final migration plan. It is immutable
// once built; consumers model overrides as new planning runs.
type PlannedAction struct {
	InventoryID       string      `json:"inventory_id,omitempty"`
	URL               string      `json:"url,omitempty"`
	Action            Action      `json:"action"`
	Priority          Priority    `json:"priority"`
	Effort            Effort      `json:"effort"`
	Score             float64     `json:"score"`
	Reasoning         string      `json:"reasoning"`
	DataPoints        []DataPoint `json:"data_points"`
	TopicID           string      `json:"topic_id,omitempty"`
	MergeTargetURL    string      `json:"merge_target_url,omitempty"`
	RedirectTargetURL string      `json:"redirect_target_url,omitempty"`
}

// Context carries site-level hints reserved for future localization of
// reasoning text. It never affects scoring or decisions.
type Context struct {
	Language      string `json:"language,omitempty"`
	Industry      string `json:"industry,omitempty"`
	CentralEntity string `json:"central_entity,omitempty"`
	SourceContext string `json:"source_context,omitempty"`
}

// Input is everything one planning run consumes.
type Input struct {
	Inventory []inventory.Item
	Topics    []inventory.Topic
	Matches   []matchset.Match
	Gaps      []matchset.Gap
	Context   *Context
}

const PlanSchemaVersion = 1

// Plan is the serializable planning report: the ordered action list plus its
// envelope. GeneratedAt is stamped by the caller, not the engine, so the
// engine stays deterministic.
type Plan struct {
	SchemaVersion int             `json:"schema_version"`
	GeneratedAt   string          `json:"generated_at,omitempty"`
	AsOf          string          `json:"as_of,omitempty"`
	Context       *Context        `json:"context,omitempty"`
	Actions       []PlannedAction `json:"actions"`
}
