// Package errs defines the error kinds shared by every coltab package.
//
// Each kind is a sentinel created with errors.New. Call sites add context by
// wrapping the sentinel, so callers can always classify a failure with
// errors.Is regardless of the message:
//
//	if _, err := t.Column("price"); errors.Is(err, errs.ErrColumnNotFound) {
//	    ...
//	}
//
// I/O failures carry the identity of the column that failed through
// ColumnError, and malformed input cells carry their position through
// CellError.
package errs

import (
	"errors"
	"fmt"
)

// Schema errors.
var (
	// ErrColumnNotFound is returned when a column name does not exist in a table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrUnknownColumnPrefix is returned when a sort key starts with a character
	// that is neither a direction prefix nor part of a column name.
	ErrUnknownColumnPrefix = errors.New("unknown column prefix")
	// ErrInvalidSortKey is returned for a positional sort key of zero or out of range.
	ErrInvalidSortKey = errors.New("invalid sort key")
	// ErrRowCountMismatch is returned when a column's length differs from the table row count.
	ErrRowCountMismatch = errors.New("row count mismatch")
	// ErrDuplicateColumn is returned when adding a column whose name is already used.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrInvalidSampleSize is returned for a negative sample size or a fraction outside [0, 1].
	ErrInvalidSampleSize = errors.New("invalid sample size")
)

// Type and evaluation errors.
var (
	// ErrTypeMismatch is returned when an operation is applied to a column of an incompatible type.
	ErrTypeMismatch = errors.New("column type mismatch")
	// ErrEmptyFilter is returned when a composite filter has no sub-filters.
	ErrEmptyFilter = errors.New("composite filter requires at least one sub-filter")
	// ErrEmptySummary is returned when a summary names no target columns or no reducers.
	ErrEmptySummary = errors.New("summary requires at least one column and one reducer")
	// ErrInvalidTemporal is returned when calendar fields cannot be packed.
	ErrInvalidTemporal = errors.New("invalid temporal value")
	// ErrUnsupportedColumnType is returned for a column type tag that is not known.
	ErrUnsupportedColumnType = errors.New("unsupported column type")
)

// Storage errors.
var (
	// ErrInvalidHeader is returned when a column file header is malformed.
	ErrInvalidHeader = errors.New("invalid column file header")
	// ErrCorruptPayload is returned when a column payload cannot be decoded into values.
	ErrCorruptPayload = errors.New("corrupt column payload")
	// ErrChecksumMismatch is returned when a decoded payload does not match its recorded checksum.
	ErrChecksumMismatch = errors.New("column checksum mismatch")
	// ErrInvalidCompression is returned for an unknown compression type.
	ErrInvalidCompression = errors.New("invalid compression type")
	// ErrInvalidMetadata is returned when the table metadata file is malformed or inconsistent.
	ErrInvalidMetadata = errors.New("invalid table metadata")
	// ErrInvalidOption is returned when a configuration option carries an invalid value.
	ErrInvalidOption = errors.New("invalid option")
)

// ColumnError reports a failure while reading or writing one column file.
type ColumnError struct {
	Op   string // "write", "read" or "verify"
	ID   string // stable column id, also the data file name
	Name string // column name as stored in metadata
	Err  error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s column %q (id %s): %v", e.Op, e.Name, e.ID, e.Err)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

// CellError reports a raw input value that could not be parsed into a column.
type CellError struct {
	Row    int    // zero-based row the value was destined for
	Column string // column name
	Value  string // offending raw value
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d, column %q: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
