package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datatable/internal/app"
	"github.com/JonMunkholm/datatable/internal/core"
)

// NewViewCommand creates the view command.
func NewViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the current page of the table",
		Long: `Print the table as the web page shows it: searched, sorted and paginated.

Cursor flags update the persisted search, sort, page and page size before
printing, the same way the query parameters of the web page do.`,
		Example: `  # Show the current page
  tablectl view

  # Search and sort, then show page 2 as markdown
  tablectl view --search dev --sort age --desc --page 2 --format markdown

  # Print every matching row
  tablectl view --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd)
		},
	}

	f := cmd.Flags()
	f.String("search", "", "case-insensitive search across all fields (empty clears)")
	f.String("sort", "", "field to sort by")
	f.Bool("desc", false, "sort descending")
	f.Int("page", 0, "page to show, starting at 1")
	f.Int("size", 0, "rows per page")
	f.Bool("all", false, "print every matching row instead of one page")
	f.StringP("format", "f", FormatTable, "output format (table, markdown, json)")

	return cmd
}

func runView(cmd *cobra.Command) error {
	format, _ := cmd.Flags().GetString("format")
	if err := validFormat(format); err != nil {
		return err
	}

	intents, err := viewIntents(cmd)
	if err != nil {
		return err
	}

	return withApp(cmd, len(intents) > 0, func(ctx context.Context, a *app.App) error {
		if err := dispatch(ctx, a, intents...); err != nil {
			return err
		}

		v := a.Store.View()
		if all, _ := cmd.Flags().GetBool("all"); all {
			v = allRows(a.Store.State())
		}
		return renderView(cmd.OutOrStdout(), v, format)
	})
}

// viewIntents translates the cursor flags that were set into intents.
func viewIntents(cmd *cobra.Command) ([]core.Intent, error) {
	f := cmd.Flags()
	var intents []core.Intent

	if f.Changed("search") {
		text, _ := f.GetString("search")
		intents = append(intents, core.SetSearch{Text: strings.TrimSpace(text)})
	}
	if f.Changed("sort") || f.Changed("desc") {
		field, _ := f.GetString("sort")
		desc, _ := f.GetBool("desc")
		if field == "" {
			return nil, core.ValidationError{Field: "sort", Message: "--desc requires --sort"}
		}
		dir := core.SortAsc
		if desc {
			dir = core.SortDesc
		}
		intents = append(intents, core.SetSort{SortSpec: core.SortSpec{Field: field, Direction: dir}})
	}
	if f.Changed("size") {
		size, _ := f.GetInt("size")
		intents = append(intents, core.SetPageSize{Size: size})
	}
	if f.Changed("page") {
		page, _ := f.GetInt("page")
		intents = append(intents, core.SetPage{Page: page - 1})
	}
	return intents, nil
}

// allRows derives a single page holding every matching row.
func allRows(s core.TableState) core.View {
	s.Page = 0
	s.RowsPerPage = max(len(s.Rows), 1)
	return core.Derive(s)
}
