package csvcodec

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/datatable/internal/core"
)

// ExportResult describes a written export.
type ExportResult struct {
	Headers []string // Labels written in the header row
	Rows    int      // Data rows written
}

// Export writes every row of the store, restricted to the visible columns in
// order list order. The header row holds display labels. Absent values are
// written as empty cells. Search, sort and pagination do not apply.
func Export(w io.Writer, state core.TableState) (ExportResult, error) {
	if len(state.Rows) == 0 {
		return ExportResult{}, core.ErrNoData
	}

	cols := state.DisplayColumns()
	headers, err := labels(cols)
	if err != nil {
		return ExportResult{}, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return ExportResult{}, fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(cols))
	for _, r := range state.Rows {
		for i, c := range cols {
			record[i] = core.Stringify(r.Fields[c.Field])
		}
		if err := cw.Write(record); err != nil {
			return ExportResult{}, fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return ExportResult{}, fmt.Errorf("flush csv: %w", err)
	}
	return ExportResult{Headers: headers, Rows: len(state.Rows)}, nil
}

// labels returns the header row, failing when two columns share a label.
func labels(cols []core.Column) ([]string, error) {
	out := make([]string, len(cols))
	seen := make(map[string]string, len(cols))
	for i, c := range cols {
		if other, dup := seen[c.Label]; dup {
			return nil, core.LabelCollisionError{Label: c.Label, Fields: []string{other, c.Field}}
		}
		seen[c.Label] = c.Field
		out[i] = c.Label
	}
	return out, nil
}

// Filename is the download name for an export taken at t.
func Filename(t time.Time) string {
	return "table_export_" + t.Format(time.DateOnly) + ".csv"
}
