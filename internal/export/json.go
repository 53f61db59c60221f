package export

import (
	"encoding/json"
	"fmt"
	"io"

	"siteplan/internal/planner"
)

type jsonExporter struct{}

func (jsonExporter) Name() string { return "json" }

func (jsonExporter) Export(w io.Writer, plan *planner.Plan) error {
	if plan == nil {
		return fmt.Errorf("plan is required")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return nil
}
