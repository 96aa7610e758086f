package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morsel-dashboard/internal/models"
	"morsel-dashboard/internal/observability"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func rec(date string, region models.Region, sales string) models.SalesRecord {
	return models.SalesRecord{Date: day(date), Region: region, Sales: decimal.RequireFromString(sales)}
}

func testDataset() *models.Dataset {
	return models.NewDataset([]models.SalesRecord{
		rec("2021-01-02", models.RegionSouth, "20"),
		rec("2021-01-01", models.RegionNorth, "10"),
		rec("2021-01-01", models.RegionEast, "5"),
		rec("2021-01-02", models.RegionNorth, "7.5"),
		rec("2021-01-01", models.RegionNorth, "2.5"),
		rec("2021-01-03", models.RegionWest, "1"),
	})
}

func sum(values ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, values...)
}

func TestAggregate_NoFilter(t *testing.T) {
	got := Aggregate(testDataset(), Filter{})

	want := []string{
		"2021-01-01 north 12.5",
		"2021-01-01 east 5",
		"2021-01-02 north 7.5",
		"2021-01-02 south 20",
		"2021-01-03 west 1",
	}
	var rows []string
	for _, r := range got.ByDateRegion {
		rows = append(rows, fmt.Sprintf("%s %s %s", r.Date.Format(models.DateLayout), r.Region, r.Sales))
	}
	assert.Equal(t, want, rows)

	var regions []string
	for _, r := range got.ByRegion {
		regions = append(regions, fmt.Sprintf("%s %s", r.Region, r.Sales))
	}
	// south and north tie; south appears first in the dataset.
	assert.Equal(t, []string{"south 20", "north 20", "east 5", "west 1"}, regions)
}

func TestAggregate_ConcreteScenario(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{rec("2021-01-01", models.RegionNorth, "10.00")})

	got := Aggregate(ds, Filter{})
	require.Len(t, got.ByDateRegion, 1)
	require.Len(t, got.ByRegion, 1)
	assert.Equal(t, day("2021-01-01"), got.ByDateRegion[0].Date)
	assert.Equal(t, models.RegionNorth, got.ByDateRegion[0].Region)
	assert.True(t, got.ByDateRegion[0].Sales.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, models.RegionNorth, got.ByRegion[0].Region)
	assert.True(t, got.ByRegion[0].Sales.Equal(decimal.NewFromInt(10)))
}

func TestAggregate_Filters(t *testing.T) {
	tests := []struct {
		name      string
		filter    Filter
		wantRows  int
		wantTotal string
	}{
		{"inclusive range", Filter{Start: dayPtr("2021-01-01"), End: dayPtr("2021-01-02")}, 4, "45"},
		{"single day", Filter{Start: dayPtr("2021-01-02"), End: dayPtr("2021-01-02")}, 2, "27.5"},
		{"only start ignores dates", Filter{Start: dayPtr("2021-01-03")}, 5, "46"},
		{"only end ignores dates", Filter{End: dayPtr("2021-01-01")}, 5, "46"},
		{"region", Filter{Regions: []models.Region{models.RegionNorth}}, 2, "20"},
		{"regions and range", Filter{Start: dayPtr("2021-01-02"), End: dayPtr("2021-01-03"), Regions: []models.Region{models.RegionNorth, models.RegionWest}}, 2, "8.5"},
		{"unknown region matches nothing", Filter{Regions: []models.Region{models.RegionUnknown}}, 0, "0"},
		{"range outside data", Filter{Start: dayPtr("2022-01-01"), End: dayPtr("2022-12-31")}, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(testDataset(), tt.filter)
			assert.Len(t, got.ByDateRegion, tt.wantRows)

			var total decimal.Decimal
			for _, r := range got.ByRegion {
				total = total.Add(r.Sales)
			}
			assert.True(t, total.Equal(decimal.RequireFromString(tt.wantTotal)), "total %s, want %s", total, tt.wantTotal)
		})
	}
}

func TestAggregate_Completeness(t *testing.T) {
	ds := testDataset()
	filters := []Filter{
		{},
		{Start: dayPtr("2021-01-01"), End: dayPtr("2021-01-02")},
		{Regions: []models.Region{models.RegionNorth, models.RegionSouth}},
	}

	for _, f := range filters {
		got := Aggregate(ds, f)

		var view, byDate, byRegion []decimal.Decimal
		for r := range ds.All() {
			if f.match(r) {
				view = append(view, r.Sales)
			}
		}
		for _, r := range got.ByDateRegion {
			byDate = append(byDate, r.Sales)
		}
		for _, r := range got.ByRegion {
			byRegion = append(byRegion, r.Sales)
		}

		assert.True(t, sum(byDate...).Equal(sum(view...)))
		assert.True(t, sum(byRegion...).Equal(sum(view...)))
	}
}

func TestAggregate_EmptyRange(t *testing.T) {
	got := Aggregate(testDataset(), Filter{Start: dayPtr("2021-01-03"), End: dayPtr("2021-01-01")})

	require.NotNil(t, got.ByDateRegion)
	require.NotNil(t, got.ByRegion)
	assert.Empty(t, got.ByDateRegion)
	assert.Empty(t, got.ByRegion)
}

func TestAggregate_EmptyDataset(t *testing.T) {
	for _, ds := range []*models.Dataset{nil, models.NewDataset(nil)} {
		got := Aggregate(ds, Filter{})
		assert.NotNil(t, got.ByDateRegion)
		assert.NotNil(t, got.ByRegion)
		assert.Empty(t, got.ByRegion)
	}
}

func TestAggregate_Descending(t *testing.T) {
	got := Aggregate(testDataset(), Filter{})
	for i := 1; i < len(got.ByRegion); i++ {
		assert.True(t, got.ByRegion[i-1].Sales.GreaterThanOrEqual(got.ByRegion[i].Sales))
	}
}

func TestAggregate_TiesKeepFirstAppearance(t *testing.T) {
	ds := models.NewDataset([]models.SalesRecord{
		rec("2021-01-01", models.RegionNorth, "300"),
		rec("2021-01-01", models.RegionSouth, "200"),
		rec("2021-01-01", models.RegionEast, "500"),
		rec("2021-01-02", models.RegionSouth, "300"),
	})

	got := Aggregate(ds, Filter{})
	var order []models.Region
	for _, r := range got.ByRegion {
		order = append(order, r.Region)
	}
	assert.Equal(t, []models.Region{models.RegionSouth, models.RegionEast, models.RegionNorth}, order)
}

func TestAggregate_Deterministic(t *testing.T) {
	ds := testDataset()
	first := Aggregate(ds, Filter{})
	for range 20 {
		assert.Equal(t, first, Aggregate(ds, Filter{}))
	}
}

func TestAnalytics_ConcurrentSales(t *testing.T) {
	a := NewAnalytics(testDataset(), nil, observability.NewMetrics())
	want := Aggregate(testDataset(), Filter{Regions: []models.Region{models.RegionNorth}})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := a.Sales(context.Background(), Filter{Regions: []models.Region{models.RegionNorth}})
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestAnalytics_Metadata(t *testing.T) {
	a := NewAnalytics(testDataset(), nil, nil)

	assert.Equal(t, []models.Region{models.RegionNorth, models.RegionEast, models.RegionSouth, models.RegionWest}, a.Regions())

	first, last, ok := a.DateRange()
	require.True(t, ok)
	assert.Equal(t, day("2021-01-01"), first)
	assert.Equal(t, day("2021-01-03"), last)

	stats := a.Stats()
	assert.Equal(t, 6, stats["record_count"])
	assert.Equal(t, 4, stats["regions"])
	assert.Equal(t, "2021-01-01", stats["first_date"])
	assert.Equal(t, "2021-01-03", stats["last_date"])
}

func TestAnalytics_NilDataset(t *testing.T) {
	a := NewAnalytics(nil, nil, nil)

	_, _, ok := a.DateRange()
	assert.False(t, ok)
	assert.Empty(t, a.Regions())
	assert.Equal(t, 0, a.Stats()["record_count"])
	assert.Empty(t, a.Sales(context.Background(), Filter{}).ByRegion)
}

func TestCurrencyLabel(t *testing.T) {
	tests := map[string]string{
		"0":          "$0",
		"999.49":     "$999",
		"1234.40":    "$1,234",
		"1234567.89": "$1,234,568",
	}

	for in, want := range tests {
		assert.Equal(t, want, CurrencyLabel(decimal.RequireFromString(in)), "CurrencyLabel(%s)", in)
	}
}
