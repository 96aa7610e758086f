package services

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"morsel-dashboard/internal/models"
	"morsel-dashboard/internal/observability"
)

// Filter selects the part of the dataset to aggregate. The date range is
// inclusive and only applies when both bounds are set. An empty Regions
// selects every region.
type Filter struct {
	Start   *time.Time
	End     *time.Time
	Regions []models.Region
}

func (f Filter) match(rec models.SalesRecord) bool {
	if f.Start != nil && f.End != nil {
		if rec.Date.Before(*f.Start) || rec.Date.After(*f.End) {
			return false
		}
	}
	if len(f.Regions) > 0 && !slices.Contains(f.Regions, rec.Region) {
		return false
	}
	return true
}

type dateRegionKey struct {
	date   time.Time
	region models.Region
}

// Aggregate filters ds and sums sales by (date, region) and by region.
// ByDateRegion is ordered by date, then region in AllRegions order.
// ByRegion is ordered by descending sales; equal sums keep the order in
// which their regions first appear in the filtered records.
func Aggregate(ds *models.Dataset, f Filter) models.SalesSummary {
	byDateRegion := make(map[dateRegionKey]decimal.Decimal)
	byRegion := make(map[models.Region]decimal.Decimal)
	var firstSeen []models.Region

	for rec := range ds.All() {
		if !f.match(rec) {
			continue
		}

		key := dateRegionKey{date: rec.Date, region: rec.Region}
		byDateRegion[key] = byDateRegion[key].Add(rec.Sales)

		if _, ok := byRegion[rec.Region]; !ok {
			firstSeen = append(firstSeen, rec.Region)
		}
		byRegion[rec.Region] = byRegion[rec.Region].Add(rec.Sales)
	}

	summary := models.SalesSummary{
		ByDateRegion: make([]models.DateRegionTotal, 0, len(byDateRegion)),
		ByRegion:     make([]models.RegionTotal, 0, len(byRegion)),
	}

	for key, sales := range byDateRegion {
		summary.ByDateRegion = append(summary.ByDateRegion, models.DateRegionTotal{
			Date:   key.date,
			Region: key.region,
			Sales:  sales,
		})
	}
	slices.SortFunc(summary.ByDateRegion, func(a, b models.DateRegionTotal) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return int(a.Region) - int(b.Region)
	})

	for _, region := range firstSeen {
		summary.ByRegion = append(summary.ByRegion, models.RegionTotal{Region: region, Sales: byRegion[region]})
	}
	slices.SortStableFunc(summary.ByRegion, func(a, b models.RegionTotal) int {
		return b.Sales.Cmp(a.Sales)
	})

	return summary
}

// Analytics serves aggregations over one dataset. The dataset is never
// modified, so concurrent calls need no locking.
type Analytics struct {
	dataset  *models.Dataset
	loadedAt time.Time
	logger   *slog.Logger
	metrics  *observability.Metrics
}

func NewAnalytics(ds *models.Dataset, logger *slog.Logger, metrics *observability.Metrics) *Analytics {
	if ds == nil {
		ds = models.NewDataset(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		dataset:  ds,
		loadedAt: time.Now(),
		logger:   logger,
		metrics:  metrics,
	}
}

// Sales aggregates the dataset for f.
func (a *Analytics) Sales(ctx context.Context, f Filter) models.SalesSummary {
	_, span := observability.StartSpan(ctx, "aggregate")
	defer span.End(a.logger)

	start := time.Now()
	summary := Aggregate(a.dataset, f)
	a.metrics.ObserveAggregation(time.Since(start))

	return summary
}

// Regions returns the regions present in the dataset.
func (a *Analytics) Regions() []models.Region {
	return a.dataset.Regions()
}

// DateRange returns the earliest and latest sale dates.
func (a *Analytics) DateRange() (first, last time.Time, ok bool) {
	return a.dataset.DateRange()
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	stats := map[string]any{
		"record_count": a.dataset.Len(),
		"loaded_at":    a.loadedAt,
		"regions":      len(a.dataset.Regions()),
	}
	if first, last, ok := a.dataset.DateRange(); ok {
		stats["first_date"] = first.Format(models.DateLayout)
		stats["last_date"] = last.Format(models.DateLayout)
	}
	return stats
}
