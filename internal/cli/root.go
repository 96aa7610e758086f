// Package cli implements morselctl, the command-line front end to the sales
// pipeline.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"morsel-dashboard/internal/config"
	"morsel-dashboard/internal/observability"
)

// Version is reported by `morselctl version`.
var Version = "dev"

// app holds state shared by every subcommand once flags are parsed.
type app struct {
	out    io.Writer
	errOut io.Writer

	logLevel string
	cfg      *config.Config
	logger   *slog.Logger
}

// NewRootCommand builds the morselctl command tree. Command output goes to
// out, logs and errors to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "morselctl",
		Short: "Pink Morsel sales pipeline",
		Long: `Process raw daily sales files into the unified Pink Morsel dataset and
report aggregated sales by date and region.`,
		Example: `  # Build the dataset from the configured inputs
  $ morselctl process

  # Build from explicit files
  $ morselctl process -i data/daily_sales_data_0.csv -i data/daily_sales_data_1.csv

  # Report sales for the north region in January 2021
  $ morselctl report --start 2021-01-01 --end 2021-01-31 --region north`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newProcessCommand(a))
	root.AddCommand(newReportCommand(a))
	root.AddCommand(newVersionCommand(a))

	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logger.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = observability.NewLogger(cfg.Logger, a.errOut)
	return nil
}

// Execute runs morselctl against os.Args.
func Execute(out, errOut io.Writer) error {
	root := NewRootCommand(out, errOut)
	if err := root.Execute(); err != nil {
		printError(errOut, "%v", err)
		return fmt.Errorf("morselctl: %w", err)
	}
	return nil
}
