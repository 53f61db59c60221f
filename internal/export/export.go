// Package export renders a finished plan for downstream consumers. Exporters
// treat the plan as read-only.
package export

import (
	"fmt"
	"io"

	"siteplan/internal/planner"
)

// Exporter renders a plan in one output format.
type Exporter interface {
	Name() string
	Export(w io.Writer, plan *planner.Plan) error
}

// ForFormat returns the exporter registered for a format name.
func ForFormat(format string) (Exporter, error) {
	switch format {
	case "json":
		return jsonExporter{}, nil
	case "csv":
		return csvExporter{}, nil
	case "markdown", "md":
		return markdownExporter{}, nil
	}
	return nil, fmt.Errorf("unknown export format %q (want json, csv, or markdown)", format)
}
