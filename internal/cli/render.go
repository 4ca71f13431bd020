package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/JonMunkholm/datatable/internal/core"
)

// Output formats accepted by --format.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

func validFormat(format string) error {
	switch format {
	case FormatTable, FormatMarkdown, "md", FormatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, markdown or json)", format)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func render(t table.Writer, format string) {
	if format == FormatMarkdown || format == "md" {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderView prints one page of the derived view.
func renderView(w io.Writer, v core.View, format string) error {
	if format == FormatJSON {
		return renderJSON(w, v)
	}
	if len(v.Rows) == 0 {
		_, _ = fmt.Fprintf(w, "(0 rows, %d total)\n", v.TotalRows)
		return nil
	}

	t := newTable(w)
	header := make(table.Row, 0, len(v.Columns)+1)
	header = append(header, "#")
	configs := make([]table.ColumnConfig, 0, len(v.Columns))
	for i, c := range v.Columns {
		header = append(header, c.Label)
		if c.Type == core.ColumnNumber {
			configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
		}
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for _, r := range v.Rows {
		row := make(table.Row, 0, len(v.Columns)+1)
		row = append(row, r.Row.ID)
		for _, cell := range v.Cells(r) {
			row = append(row, cell)
		}
		t.AppendRow(row)
	}
	render(t, format)

	_, _ = fmt.Fprintf(w, "Page %d of %d (%d matching, %d total)\n",
		v.Page+1, v.PageCount, v.TotalCount, v.TotalRows)
	return nil
}

// columnInfo is the JSON shape of one column in "columns list".
type columnInfo struct {
	Position  int `json:"position"`
	core.Column
	Visible   bool `json:"visible"`
	Protected bool `json:"protected"`
}

func describeColumns(s core.TableState, p core.Policy) []columnInfo {
	cols := s.OrderedColumns()
	out := make([]columnInfo, len(cols))
	for i, c := range cols {
		out[i] = columnInfo{
			Position:  i + 1,
			Column:    c,
			Visible:   s.IsVisible(c.Field),
			Protected: p.IsProtected(c.Field),
		}
	}
	return out
}

// renderColumns prints the schema in display order.
func renderColumns(w io.Writer, cols []columnInfo, format string) error {
	if format == FormatJSON {
		return renderJSON(w, cols)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Field", "Label", "Type", "Editable", "Visible", "Protected"})
	for _, c := range cols {
		t.AppendRow(table.Row{
			c.Position, c.Field, c.Label, c.Type,
			c.Editable, c.Visible, c.Protected,
		})
	}
	render(t, format)
	return nil
}
