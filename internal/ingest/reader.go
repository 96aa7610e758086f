package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "morsel-dashboard/internal/errors"
	"morsel-dashboard/internal/models"
)

// Column names every raw input must carry, in any order.
const (
	ColProduct  = "product"
	ColPrice    = "price"
	ColQuantity = "quantity"
	ColDate     = "date"
	ColRegion   = "region"
)

var requiredColumns = []string{ColProduct, ColPrice, ColQuantity, ColDate, ColRegion}

const utf8BOM = "\ufeff"

// ReadFile reads a raw input, choosing the format from the file extension.
func ReadFile(ctx context.Context, path string) ([]models.RawRecord, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".xlsx" {
		return nil, &apperrors.SchemaError{Source: path, Reason: fmt.Sprintf("unsupported input format %q", ext)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	if ext == ".xlsx" {
		return ReadXLSX(ctx, path, f)
	}
	return ReadCSV(ctx, path, f)
}

// ReadCSV parses delimited text whose first record is the header.
func ReadCSV(ctx context.Context, source string, r io.Reader) ([]models.RawRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &apperrors.SchemaError{Source: source, Reason: "empty input"}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	cols, err := indexColumns(source, header)
	if err != nil {
		return nil, err
	}

	var records []models.RawRecord
	for row := 2; ; row++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", source, row, err)
		}

		rec, err := cols.record(source, row, fields, parseTextDate)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// ReadXLSX parses the first sheet of a workbook. Date cells may hold either
// YYYY-MM-DD text or a native spreadsheet date.
func ReadXLSX(ctx context.Context, source string, r io.Reader) ([]models.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &apperrors.SchemaError{Source: source, Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, &apperrors.SchemaError{Source: source, Reason: "empty input"}
	}

	cols, err := indexColumns(source, rows[0])
	if err != nil {
		return nil, err
	}

	var records []models.RawRecord
	for i, fields := range rows[1:] {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if isBlank(fields) {
			continue
		}

		rec, err := cols.record(source, i+2, fields, parseSheetDate)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

type columns map[string]int

func indexColumns(source string, header []string) (columns, error) {
	cols := make(columns, len(requiredColumns))
	for i, name := range header {
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &apperrors.SchemaError{Source: source, Missing: missing}
	}
	return cols, nil
}

// get tolerates short rows, which spreadsheets produce when trailing cells
// are empty.
func (c columns) get(fields []string, name string) string {
	if i := c[name]; i < len(fields) {
		return fields[i]
	}
	return ""
}

func (c columns) record(source string, row int, fields []string, parseDate func(string) (time.Time, error)) (models.RawRecord, error) {
	rawDate := c.get(fields, ColDate)
	date, err := parseDate(rawDate)
	if err != nil {
		return models.RawRecord{}, &apperrors.MalformedDateError{Source: source, Row: row, Value: rawDate, Err: err}
	}

	rawQty := c.get(fields, ColQuantity)
	qty, err := strconv.Atoi(rawQty)
	if err != nil {
		return models.RawRecord{}, &apperrors.MalformedQuantityError{Source: source, Row: row, Value: rawQty, Err: err}
	}

	return models.RawRecord{
		Product:  c.get(fields, ColProduct),
		Price:    c.get(fields, ColPrice),
		Quantity: qty,
		Date:     date,
		Region:   c.get(fields, ColRegion),
		Source:   source,
		Row:      row,
	}, nil
}

func parseTextDate(s string) (time.Time, error) {
	return time.Parse(models.DateLayout, s)
}

func parseSheetDate(s string) (time.Time, error) {
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return t, nil
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("not a date: %q", s)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}
