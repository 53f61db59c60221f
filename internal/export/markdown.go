package export

import (
	"fmt"
	"io"
	"strings"

	"siteplan/internal/planner"
)

type markdownExporter struct{}

func (markdownExporter) Name() string { return "markdown" }

func (markdownExporter) Export(w io.Writer, plan *planner.Plan) error {
	if plan == nil {
		return fmt.Errorf("plan is required")
	}

	var b strings.Builder
	b.WriteString("# Site Migration Plan\n\n")
	if plan.AsOf != "" {
		fmt.Fprintf(&b, "As of %s. ", plan.AsOf)
	}
	fmt.Fprintf(&b, "%d actions.\n\n", len(plan.Actions))

	counts := make(map[planner.Action]int)
	for _, action := range plan.Actions {
		counts[action.Action]++
	}
	b.WriteString("| Action | Count |\n|---|---|\n")
	for _, a := range []planner.Action{
		planner.ActionKeep, planner.ActionOptimize, planner.ActionRewrite,
		planner.ActionMerge, planner.ActionRedirect301, planner.ActionPrune410,
		planner.ActionCanonicalize, planner.ActionCreateNew,
	} {
		if counts[a] == 0 {
			continue
		}
		fmt.Fprintf(&b, "| %s | %d |\n", a, counts[a])
	}
	b.WriteString("\n## Actions\n\n")
	b.WriteString("| Priority | Action | Page / Topic | Score | Reasoning |\n|---|---|---|---|---|\n")
	for _, action := range plan.Actions {
		ref := action.URL
		if ref == "" {
			ref = action.TopicID
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %g | %s |\n",
			action.Priority, action.Action, escapePipes(ref), action.Score, escapePipes(action.Reasoning))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
