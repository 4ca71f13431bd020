// Package cli provides tablectl, the command-line interface to a persisted
// table. Every command opens the configured storage, applies its intents
// through the Store and saves the result before exiting.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/JonMunkholm/datatable/internal/app"
	"github.com/JonMunkholm/datatable/internal/config"
	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/JonMunkholm/datatable/internal/logging"
)

// SourceCLI marks journal entries written by tablectl.
const SourceCLI = "cli"

// Version information (set at build time).
var Version = "0.1.0"

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tablectl",
		Short: "Inspect and edit a persisted data table",
		Long: `tablectl works on the same persisted table as the web server.

Storage is configured with the STORAGE_* environment variables and may be
overridden with --driver, --path and --key.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := loadConfig(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logging.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

			cmd.SetContext(context.WithValue(commandContext(cmd), configKey{}, cfg))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("driver", "", "storage driver (memory, file, sqlite)")
	pf.String("path", "", "storage path")
	pf.String("key", "", "storage key of the table snapshot")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		NewViewCommand(),
		NewImportCommand(),
		NewExportCommand(),
		NewSampleCommand(),
		NewColumnsCommand(),
		NewRowsCommand(),
	)

	return rootCmd
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"driver":    &cfg.Storage.Driver,
		"path":      &cfg.Storage.Path,
		"key":       &cfg.Storage.Key,
		"log-level": &cfg.Logging.Level,
	}
	flags.Visit(func(f *pflag.Flag) {
		if dst, ok := overrides[f.Name]; ok {
			*dst = f.Value.String()
		}
	})
	// The CLI logs warnings only unless asked otherwise.
	if !flags.Changed("log-level") && strings.EqualFold(cfg.Logging.Level, "info") {
		cfg.Logging.Level = "warn"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// GetConfig retrieves the config from command context.
func GetConfig(ctx context.Context) *config.Config {
	if ctx == nil {
		return nil
	}
	cfg, _ := ctx.Value(configKey{}).(*config.Config)
	return cfg
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withApp opens the table, runs fn and closes storage again. When save is
// set and fn succeeds, the table is persisted before closing.
func withApp(cmd *cobra.Command, save bool, fn func(ctx context.Context, a *app.App) error) (err error) {
	ctx := commandContext(cmd)
	cfg := GetConfig(ctx)
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close storage: %w", cerr)
		}
	}()

	ctx = core.ContextWithSource(ctx, SourceCLI)
	if err := fn(ctx, a); err != nil {
		return err
	}
	if save {
		if err := a.Save(ctx); err != nil {
			return fmt.Errorf("save table: %w", err)
		}
	}
	return nil
}

// dispatch applies intents in order, stopping at the first failure.
func dispatch(ctx context.Context, a *app.App, intents ...core.Intent) error {
	for _, intent := range intents {
		if _, err := a.Store.Dispatch(ctx, intent); err != nil {
			return err
		}
	}
	return nil
}

// Describe formats err for the terminal using the user-facing message
// when one is known.
func Describe(err error) string {
	if !core.IsUserFacing(err) {
		return "Error: " + err.Error()
	}
	return "Error: " + core.FormatUserError(err)
}
