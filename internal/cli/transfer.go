package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datatable/internal/app"
	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/JonMunkholm/datatable/internal/csvcodec"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the table with the rows of a CSV file",
		Long: `Replace every row with the contents of a CSV file. Use "-" to read
standard input. Headers are matched against column fields and labels; unknown
headers are registered as new columns unless IMPORT_EXTRA_FIELDS=reject.`,
		Example: `  tablectl import people.csv
  cat people.csv | tablectl import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0])
		},
	}
	return cmd
}

func runImport(cmd *cobra.Command, name string) error {
	var in io.Reader = cmd.InOrStdin()
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		defer f.Close()
		in = f
	}

	return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
		res, err := csvcodec.Import(in, a.Store.State(), a.ImportOptions())
		if err != nil {
			return err
		}
		if err := dispatch(ctx, a, res.Intent()); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Imported %d rows", len(res.Rows))
		if res.Skipped > 0 {
			_, _ = fmt.Fprintf(out, " (%d blank lines skipped)", res.Skipped)
		}
		_, _ = fmt.Fprintln(out)
		for _, c := range res.Columns {
			_, _ = fmt.Fprintf(out, "Registered column %s (%s)\n", c.Field, c.Label)
		}
		return nil
	})
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every row as CSV",
		Long: `Write every row of the table as CSV, restricted to the visible columns in
display order. Search, sort and pagination do not apply. Without --output the
CSV goes to standard output.`,
		Example: `  tablectl export > table.csv
  tablectl export -o exports/
  tablectl export -o people.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd)
		},
	}
	cmd.Flags().StringP("output", "o", "", "output file, or a directory to write a dated export into")
	return cmd
}

func runExport(cmd *cobra.Command) error {
	target, _ := cmd.Flags().GetString("output")

	return withApp(cmd, false, func(_ context.Context, a *app.App) error {
		var buf bytes.Buffer
		res, err := csvcodec.Export(&buf, a.Store.State())
		if err != nil {
			return err
		}

		if target == "" {
			_, err := buf.WriteTo(cmd.OutOrStdout())
			return err
		}

		path := exportPath(target, time.Now())
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", res.Rows, path)
		return nil
	})
}

// exportPath resolves --output. An existing directory receives the dated
// download name.
func exportPath(target string, now time.Time) string {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, csvcodec.Filename(now))
	}
	return target
}

// NewSampleCommand creates the sample command.
func NewSampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Replace the table with the sample data set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
				if err := dispatch(ctx, a, core.SampleData()); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d sample rows\n", len(a.Store.State().Rows))
				return nil
			})
		},
	}
}
