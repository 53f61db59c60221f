package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"siteplan/internal/planner"
)

type csvExporter struct{}

func (csvExporter) Name() string { return "csv" }

func (csvExporter) Export(w io.Writer, plan *planner.Plan) error {
	if plan == nil {
		return fmt.Errorf("plan is required")
	}

	cw := csv.NewWriter(w)
	header := []string{
		"inventory_id", "url", "action", "priority", "effort", "score",
		"topic_id", "merge_target_url", "redirect_target_url", "reasoning",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, action := range plan.Actions {
		record := []string{
			action.InventoryID,
			action.URL,
			string(action.Action),
			string(action.Priority),
			string(action.Effort),
			strconv.FormatFloat(action.Score, 'f', -1, 64),
			action.TopicID,
			action.MergeTargetURL,
			action.RedirectTargetURL,
			action.Reasoning,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
