package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"morsel-dashboard/internal/ingest"
	"morsel-dashboard/internal/observability"
)

const processTimeout = 5 * time.Minute

type processFlags struct {
	inputs   []string
	artifact string
	product  string
	workers  int
	preview  int
}

func newProcessCommand(a *app) *cobra.Command {
	var flags processFlags

	cmd := &cobra.Command{
		Use:   "process",
		Short: "build the unified sales dataset from raw inputs",
		Long: `Read every input file (CSV or XLSX), keep only rows for the configured
product, compute sales as price times quantity and write the unified
dataset artifact. The artifact is always rebuilt.`,
		Example: `  $ morselctl process
  $ morselctl process -i jan.csv -i feb.xlsx -o out.csv --workers 4
  $ morselctl process --preview 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProcess(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringSliceVarP(&flags.inputs, "input", "i", nil, "input file (repeatable, defaults to configured inputs)")
	cmd.Flags().StringVarP(&flags.artifact, "artifact", "o", "", "artifact path (defaults to configured artifact)")
	cmd.Flags().StringVar(&flags.product, "product", "", "product to keep (defaults to configured product)")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "inputs processed concurrently")
	cmd.Flags().IntVar(&flags.preview, "preview", 0, "print the first N records written")

	return cmd
}

func (a *app) runProcess(ctx context.Context, flags processFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	data := a.cfg.Data
	if len(flags.inputs) > 0 {
		data.InputFiles = flags.inputs
	}
	if flags.artifact != "" {
		data.Artifact = flags.artifact
	}
	if flags.product != "" {
		data.Product = flags.product
	}
	if flags.workers > 0 {
		data.Workers = flags.workers
	}

	pipeline := ingest.NewPipeline(ingest.Options{
		Product: data.Product,
		Workers: data.Workers,
	}, a.logger, observability.NewMetrics())

	ds, err := pipeline.Build(ctx, ingest.BuildOptions{
		Inputs:   data.InputFiles,
		Artifact: data.Artifact,
		Rebuild:  true,
	})
	if err != nil {
		return err
	}

	printSuccess(a.out, "wrote %d records to %s", ds.Len(), data.Artifact)
	if flags.preview > 0 {
		printRecords(a.out, ds.Records(), flags.preview)
	}
	return nil
}
