package ingest

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "morsel-dashboard/internal/errors"
	"morsel-dashboard/internal/models"
)

// DefaultProduct is the product retained when no other is configured.
const DefaultProduct = "pink morsel"

// Normalize keeps the rows for product, compared case-insensitively but
// otherwise exactly, and turns each into a SalesRecord with
// sales = price * quantity. Rows for other products are dropped before their
// price is looked at. Order is preserved.
func Normalize(records []models.RawRecord, product string) ([]models.SalesRecord, error) {
	target := strings.ToLower(product)
	out := make([]models.SalesRecord, 0, len(records))

	for _, raw := range records {
		if strings.ToLower(raw.Product) != target {
			continue
		}

		price, err := ParsePrice(raw.Price)
		if err != nil {
			return nil, &apperrors.MalformedPriceError{Source: raw.Source, Row: raw.Row, Value: raw.Price, Err: err}
		}
		if raw.Quantity < 0 {
			return nil, &apperrors.MalformedQuantityError{
				Source: raw.Source,
				Row:    raw.Row,
				Value:  strconv.Itoa(raw.Quantity),
				Err:    apperrors.ErrNegative,
			}
		}
		region, err := models.ParseRegion(raw.Region)
		if err != nil {
			return nil, &apperrors.UnknownRegionError{Source: raw.Source, Row: raw.Row, Value: raw.Region}
		}

		out = append(out, models.SalesRecord{
			Date:   raw.Date,
			Region: region,
			Sales:  price.Mul(decimal.NewFromInt(int64(raw.Quantity))),
		})
	}

	return out, nil
}

// ParsePrice strips a single leading "$" and parses the rest as a
// non-negative decimal. Whitespace and other currency symbols are not
// accepted.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, apperrors.ErrNegative
	}
	return d, nil
}
