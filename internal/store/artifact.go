// Package store persists the unified sales dataset as a CSV artifact so later
// runs can skip ingestion.
package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	apperrors "morsel-dashboard/internal/errors"
	"morsel-dashboard/internal/models"
)

var header = []string{"sales", "date", "region"}

// Write replaces the artifact at path with ds. The data goes to a temporary
// file in the same directory which is renamed over path only once fully
// written and synced, so readers never observe a partial artifact.
func Write(path string, ds *models.Dataset) error {
	err := writeAtomic(path, func(f io.Writer) error {
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return err
		}
		for rec := range ds.All() {
			row := []string{
				rec.Sales.StringFixed(2),
				rec.Date.Format(models.DateLayout),
				rec.Region.String(),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
	if err != nil {
		return &apperrors.ArtifactWriteError{Path: path, Err: err}
	}
	return nil
}

// Save writes ds and then the manifest describing how it was built. The old
// manifest is removed first so an interrupted save is never taken as fresh.
func Save(path string, ds *models.Dataset, m Manifest) error {
	if err := os.Remove(ManifestPath(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &apperrors.ArtifactWriteError{Path: path, Err: err}
	}
	if err := Write(path, ds); err != nil {
		return err
	}
	return writeManifest(path, m)
}

func writeAtomic(path string, fill func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := fill(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Read loads an artifact written by Write.
func Read(ctx context.Context, path string) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	got, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &apperrors.SchemaError{Source: path, Reason: "empty artifact"}
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact header: %w", err)
	}
	if !slices.Equal(got, header) {
		return nil, &apperrors.SchemaError{Source: path, Reason: fmt.Sprintf("unexpected header %v", got)}
	}

	var records []models.SalesRecord
	for row := 2; ; row++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read artifact row %d: %w", row, err)
		}

		rec, err := parseRow(path, row, fields)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return models.NewDataset(records), nil
}

func parseRow(source string, row int, fields []string) (models.SalesRecord, error) {
	sales, err := decimal.NewFromString(fields[0])
	if err == nil && sales.IsNegative() {
		err = apperrors.ErrNegative
	}
	if err != nil {
		return models.SalesRecord{}, &apperrors.MalformedPriceError{Source: source, Row: row, Value: fields[0], Err: err}
	}

	date, err := time.Parse(models.DateLayout, fields[1])
	if err != nil {
		return models.SalesRecord{}, &apperrors.MalformedDateError{Source: source, Row: row, Value: fields[1], Err: err}
	}

	region, err := models.ParseRegion(fields[2])
	if err != nil {
		return models.SalesRecord{}, &apperrors.UnknownRegionError{Source: source, Row: row, Value: fields[2]}
	}

	return models.SalesRecord{Date: date, Region: region, Sales: sales}, nil
}

// Fresh reports whether the artifact exists, was built with the same
// manifest, and no existing input has been modified after it. Inputs that are
// absent are ignored, so a deployment can ship the artifact alone.
func Fresh(path string, m Manifest) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	built, err := readManifest(path)
	if err != nil || !built.Equal(m) {
		return false
	}

	for _, input := range m.Inputs {
		in, err := os.Stat(input)
		if err != nil {
			continue
		}
		if in.ModTime().After(info.ModTime()) {
			return false
		}
	}
	return true
}
