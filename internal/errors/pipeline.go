package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrNegative is wrapped by the malformed-value errors when a price, sales
// amount or quantity parses but is below zero.
var ErrNegative = stderrors.New("negative value")

// Ingestion failures are fatal for the input they occur in. Source is the
// file name (or another label for in-memory input) and Row is 1-based with
// the header as row 1.

type MalformedPriceError struct {
	Source string
	Row    int
	Value  string
	Err    error
}

func (e *MalformedPriceError) Error() string {
	return fmt.Sprintf("%s row %d: malformed price %q", e.Source, e.Row, e.Value)
}

func (e *MalformedPriceError) Unwrap() error { return e.Err }

type MalformedDateError struct {
	Source string
	Row    int
	Value  string
	Err    error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("%s row %d: malformed date %q", e.Source, e.Row, e.Value)
}

func (e *MalformedDateError) Unwrap() error { return e.Err }

// MalformedQuantityError covers quantities that are not integers or are
// negative.
type MalformedQuantityError struct {
	Source string
	Row    int
	Value  string
	Err    error
}

func (e *MalformedQuantityError) Error() string {
	return fmt.Sprintf("%s row %d: malformed quantity %q", e.Source, e.Row, e.Value)
}

func (e *MalformedQuantityError) Unwrap() error { return e.Err }

type UnknownRegionError struct {
	Source string
	Row    int
	Value  string
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("%s row %d: unknown region %q", e.Source, e.Row, e.Value)
}

// SchemaError reports an input whose shape is unusable before any row is
// read: missing columns, an empty file, or an unsupported format.
type SchemaError struct {
	Source  string
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing columns %s", e.Source, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

type ArtifactWriteError struct {
	Path string
	Err  error
}

func (e *ArtifactWriteError) Error() string {
	return fmt.Sprintf("write artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactWriteError) Unwrap() error { return e.Err }

// TypeMismatchError is returned at the request boundary when a filter
// parameter cannot be read as the type it needs to be.
type TypeMismatchError struct {
	Param string
	Value string
	Want  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter %s: %q is not a valid %s", e.Param, e.Value, e.Want)
}
