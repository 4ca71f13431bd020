package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/datatable/internal/app"
	"github.com/JonMunkholm/datatable/internal/core"
)

// NewColumnsCommand creates the columns command group.
func NewColumnsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "columns",
		Aliases: []string{"cols"},
		Short:   "List and edit the table's columns",
	}
	cmd.AddCommand(
		newColumnsListCommand(),
		newColumnsAddCommand(),
		newColumnsDeleteCommand(),
		newColumnsRenameCommand(),
		newColumnsMoveCommand(),
		newColumnsVisibilityCommand("show", "Make columns visible", true),
		newColumnsVisibilityCommand("hide", "Hide columns from the view and exports", false),
	)
	return cmd
}

func newColumnsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List columns in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			if err := validFormat(format); err != nil {
				return err
			}
			return withApp(cmd, false, func(_ context.Context, a *app.App) error {
				cols := describeColumns(a.Store.State(), a.Store.Policy())
				return renderColumns(cmd.OutOrStdout(), cols, format)
			})
		},
	}
	cmd.Flags().StringP("format", "f", FormatTable, "output format (table, markdown, json)")
	return cmd
}

func newColumnsAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add FIELD",
		Short: "Register a new column",
		Example: `  tablectl columns add department
  tablectl columns add salary --type number --label "Salary (USD)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			label, _ := f.GetString("label")
			typ, _ := f.GetString("type")
			readOnly, _ := f.GetBool("read-only")
			if label == "" {
				label = defaultLabel(args[0])
			}

			col := core.Column{
				Field:    args[0],
				Label:    label,
				Type:     core.ColumnType(strings.ToLower(typ)),
				Editable: !readOnly,
			}
			return mutate(cmd, fmt.Sprintf("Added column %s", col.Field), core.AddColumn{Column: col})
		},
	}
	cmd.Flags().String("label", "", "display label (defaults to the field in title case)")
	cmd.Flags().String("type", string(core.ColumnString), "column type (string, number)")
	cmd.Flags().Bool("read-only", false, "disallow inline edits of the column")
	return cmd
}

func newColumnsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete FIELD",
		Aliases: []string{"rm"},
		Short:   "Delete a column and its values from every row",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, "Deleted column "+args[0], core.DeleteColumn{Field: args[0]})
		},
	}
}

func newColumnsRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename FIELD LABEL",
		Short: "Change a column's display label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := strings.TrimSpace(args[1])
			return mutate(cmd, fmt.Sprintf("Renamed %s to %q", args[0], label),
				core.RenameColumn{Field: args[0], Label: label})
		},
	}
}

func newColumnsMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move FIELD POSITION",
		Short: "Move a column to a position in the display order, starting at 1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return core.ValidationError{Field: "position", Value: args[1], Message: "position must be a number"}
			}
			return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
				from := slices.Index(a.Store.State().ColumnOrder, args[0])
				if from < 0 {
					return core.ColumnNotFoundError{Field: args[0]}
				}
				if err := dispatch(ctx, a, core.ReorderColumns{SourceIndex: from, DestinationIndex: pos - 1}); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to position %d\n", args[0], pos)
				return nil
			})
		},
	}
}

// newColumnsVisibilityCommand builds show and hide. Shown columns are
// appended to the visibility set.
func newColumnsVisibilityCommand(use, short string, visible bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FIELD...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
				s := a.Store.State()
				for _, f := range args {
					if !s.HasColumn(f) {
						return core.ColumnNotFoundError{Field: f}
					}
				}

				fields := toggleVisible(s.VisibleColumns, args, visible)
				if err := dispatch(ctx, a, core.SetVisibleColumns{Fields: fields}); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Visible columns: %s\n",
					strings.Join(a.Store.State().VisibleColumns, ", "))
				return nil
			})
		},
	}
}

func toggleVisible(current, fields []string, visible bool) []string {
	out := slices.Clone(current)
	for _, f := range fields {
		switch {
		case visible && !slices.Contains(out, f):
			out = append(out, f)
		case !visible:
			out = slices.DeleteFunc(out, func(v string) bool { return v == f })
		}
	}
	return out
}

// defaultLabel turns a field id such as "start_date" into "Start Date".
func defaultLabel(field string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(field, "_", " "))
}

// mutate dispatches intent, saves the table and prints done.
func mutate(cmd *cobra.Command, done string, intent core.Intent) error {
	return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
		if err := dispatch(ctx, a, intent); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), done)
		return nil
	})
}
