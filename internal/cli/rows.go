package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datatable/internal/app"
	"github.com/JonMunkholm/datatable/internal/core"
)

// NewRowsCommand creates the rows command group.
func NewRowsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Add, edit and delete rows",
		Long: `Add, edit and delete rows. Rows are addressed by the id shown in the first
column of "tablectl view".`,
	}
	cmd.AddCommand(newRowsAddCommand(), newRowsEditCommand(), newRowsDeleteCommand())
	return cmd
}

func newRowsAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Append a row",
		Example: `  tablectl rows add --set name="Dana Lee" --set email=dana@example.com --set age=41`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pairs, _ := cmd.Flags().GetStringArray("set")
			fields, err := parseAssignments(pairs)
			if err != nil {
				return err
			}
			return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
				if err := dispatch(ctx, a, core.AddRow{Row: core.Row{Fields: fields}}); err != nil {
					return err
				}
				rows := a.Store.State().Rows
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added row %s\n", rows[len(rows)-1].ID)
				return nil
			})
		},
	}
	cmd.Flags().StringArray("set", nil, "field=value assignment, repeatable")
	return cmd
}

func newRowsEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID FIELD VALUE",
		Short: "Set one cell; an empty VALUE clears it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent := core.EditCell{
				RowRef: core.RowRef{ID: core.RowID(args[0])},
				Field:  args[1],
				Value:  args[2],
			}
			return mutate(cmd, fmt.Sprintf("Updated %s of row %s", args[1], args[0]), intent)
		},
	}
}

func newRowsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a row",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent := core.DeleteRow{RowRef: core.RowRef{ID: core.RowID(args[0])}}
			return mutate(cmd, "Deleted row "+args[0], intent)
		},
	}
}

// parseAssignments splits field=value pairs. Values may contain "=".
func parseAssignments(pairs []string) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))
	for _, p := range pairs {
		field, value, ok := strings.Cut(p, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, core.ValidationError{Field: "set", Value: p, Message: "expected field=value"}
		}
		fields[field] = value
	}
	return fields, nil
}
