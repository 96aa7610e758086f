// Package ingest turns raw per-day sales files into the unified sales
// dataset.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"morsel-dashboard/internal/models"
	"morsel-dashboard/internal/observability"
)

type Options struct {
	// Product is matched case-insensitively against the product column.
	Product string
	// Workers bounds how many inputs are read at once. Output order never
	// depends on it.
	Workers int
}

type Pipeline struct {
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewPipeline(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if opts.Product == "" {
		opts.Product = DefaultProduct
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{opts: opts, logger: logger, metrics: metrics}
}

// Run reads and normalizes every input and concatenates the results in input
// order. The first failing input cancels the others and its error is
// returned.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*models.Dataset, error) {
	ctx, span := observability.StartSpan(ctx, "ingest")
	span.SetTag("inputs", strconv.Itoa(len(paths)))
	defer span.End(p.logger)

	start := time.Now()
	results := make([][]models.SalesRecord, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			records, err := p.processFile(gctx, path)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	merged := make([]models.SalesRecord, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}

	p.logger.Info("ingestion complete",
		"inputs", len(paths),
		"records", total,
		"duration", time.Since(start))

	return models.NewDataset(merged), nil
}

func (p *Pipeline) processFile(ctx context.Context, path string) ([]models.SalesRecord, error) {
	ctx, span := observability.StartSpan(ctx, "ingest.file")
	span.SetTag("source", path)
	defer span.End(p.logger)

	start := time.Now()
	raw, err := ReadFile(ctx, path)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	records, err := Normalize(raw, p.opts.Product)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("normalize %s: %w", path, err)
	}

	p.metrics.ObserveIngest(path, len(records), len(raw)-len(records))
	p.logger.Info("processed input",
		"source", path,
		"records", len(raw),
		"kept", len(records),
		"duration", time.Since(start))

	return records, nil
}
