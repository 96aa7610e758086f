package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"morsel-dashboard/internal/services"
	"morsel-dashboard/internal/store"
)

type reportFlags struct {
	artifact string
	start    string
	end      string
	regions  []string
}

func newReportCommand(a *app) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "print aggregated sales from the dataset artifact",
		Long: `Load the dataset artifact and print sales per date and region and total
sales per region, highest first. The date filter applies only when both
--start and --end are given.`,
		Example: `  $ morselctl report
  $ morselctl report --start 2021-01-01 --end 2021-01-31
  $ morselctl report --region north,south`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.artifact, "artifact", "a", "", "artifact path (defaults to configured artifact)")
	cmd.Flags().StringVar(&flags.start, "start", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.end, "end", "", "last date to include (YYYY-MM-DD)")
	cmd.Flags().StringSliceVarP(&flags.regions, "region", "r", nil, `regions to include, or "all"`)

	return cmd
}

func (a *app) runReport(ctx context.Context, flags reportFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	path := a.cfg.Data.Artifact
	if flags.artifact != "" {
		path = flags.artifact
	}

	filter, err := services.FilterParams{
		Start:   flags.start,
		End:     flags.end,
		Regions: flags.regions,
	}.Filter()
	if err != nil {
		return err
	}

	ds, err := store.Read(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			printInfo(a.errOut, "no dataset at %s, run `morselctl process` first", path)
		}
		return fmt.Errorf("load dataset: %w", err)
	}

	analytics := services.NewAnalytics(ds, a.logger, nil)
	printSummary(a.out, analytics.Sales(ctx, filter))
	return nil
}
