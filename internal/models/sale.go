package models

import (
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the textual date format used by every input and the artifact.
const DateLayout = "2006-01-02"

// RawRecord is one unprocessed input row. Source and Row identify where it
// came from; Row counts the header as row 1.
type RawRecord struct {
	Product  string
	Price    string
	Quantity int
	Date     time.Time
	Region   string
	Source   string
	Row      int
}

type SalesRecord struct {
	Date   time.Time       `json:"date"`
	Region Region          `json:"region"`
	Sales  decimal.Decimal `json:"sales"`
}

type DateRegionTotal struct {
	Date   time.Time       `json:"date"`
	Region Region          `json:"region"`
	Sales  decimal.Decimal `json:"sales"`
}

type RegionTotal struct {
	Region Region          `json:"region"`
	Sales  decimal.Decimal `json:"sales"`
}

// SalesSummary holds the two aggregate tables computed for one filter.
type SalesSummary struct {
	ByDateRegion []DateRegionTotal `json:"by_date_region"`
	ByRegion     []RegionTotal     `json:"by_region"`
}

// Dataset is the unified, ordered sales dataset. It is never modified after
// NewDataset returns, so it may be shared between goroutines freely.
type Dataset struct {
	records []SalesRecord
}

func NewDataset(records []SalesRecord) *Dataset {
	return &Dataset{records: slices.Clone(records)}
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// All yields records in dataset order.
func (d *Dataset) All() iter.Seq[SalesRecord] {
	return func(yield func(SalesRecord) bool) {
		if d == nil {
			return
		}
		for _, rec := range d.records {
			if !yield(rec) {
				return
			}
		}
	}
}

// Records returns a copy of the records.
func (d *Dataset) Records() []SalesRecord {
	if d == nil {
		return []SalesRecord{}
	}
	return slices.Clone(d.records)
}

// Regions returns the distinct regions present, in AllRegions order.
func (d *Dataset) Regions() []Region {
	seen := make(map[Region]bool)
	for rec := range d.All() {
		seen[rec.Region] = true
	}
	result := make([]Region, 0, len(seen))
	for _, r := range AllRegions() {
		if seen[r] {
			result = append(result, r)
		}
	}
	return result
}

// DateRange returns the earliest and latest dates. ok is false for an empty
// dataset.
func (d *Dataset) DateRange() (first, last time.Time, ok bool) {
	for rec := range d.All() {
		if !ok || rec.Date.Before(first) {
			first = rec.Date
		}
		if !ok || rec.Date.After(last) {
			last = rec.Date
		}
		ok = true
	}
	return first, last, ok
}
