// Package coltab is an in-memory, column-oriented table engine with a
// compressed on-disk column store.
//
// # Core Features
//
//   - Typed columns with per-type missing-value sentinels (column)
//   - Roaring-bitmap row selections with set algebra (selection)
//   - Composable, type-checked predicates (filter)
//   - Stable multi-key sorting, group-by and summaries (table, aggregate)
//   - Parallel, checksummed column files with pluggable compression (storage)
//
// # Basic Usage
//
//	people, err := table.New("people",
//	    column.NewText("Name", "Ann", "Bob", "Cid"),
//	    column.NewInt("IQ", 120, 98, 110),
//	    column.NewString("City", "Oslo", "Rome", "Oslo"),
//	)
//
//	bright, err := people.Filter(filter.And(
//	    filter.Int("IQ").GreaterOrEqual(100),
//	    filter.Text("City").Equal("Oslo"),
//	))
//	byCity, err := people.Summarize([]string{"IQ"}, aggregate.Mean, aggregate.Count).By("City")
//
//	meta, err := coltab.Save("/data/people.saw", people)
//	loaded, err := coltab.Load("/data/people.saw")
//
// # Package Structure
//
// This package provides top-level wrappers around the storage package for
// the common cases. Use storage.Writer and storage.Reader directly to reuse
// a configuration across many tables or to verify damaged directories.
package coltab

import (
	"github.com/arloliu/coltab/storage"
	"github.com/arloliu/coltab/table"
)

// Save writes t into dir.
//
// Parameters:
//   - dir: Table directory, created if needed; a table already stored there is replaced
//   - t: Table to store
//   - opts: storage options such as storage.WithCompression or storage.WithFs
//
// Returns:
//   - *storage.TableMetadata: Description of the stored table
//   - error: errs.ErrInvalidOption, or *errs.ColumnError for the first failing column
func Save(dir string, t *table.Table, opts ...storage.Option) (*storage.TableMetadata, error) {
	w, err := storage.NewWriter(opts...)
	if err != nil {
		return nil, err
	}

	return w.Write(dir, t)
}

// Load reads the table stored in dir.
//
// Returns:
//   - *table.Table: The stored table with its original column order
//   - error: errs.ErrInvalidMetadata, or *errs.ColumnError for the first failing column
func Load(dir string, opts ...storage.Option) (*table.Table, error) {
	r, err := storage.NewReader(opts...)
	if err != nil {
		return nil, err
	}

	return r.Read(dir)
}

// ReadMetadata reads only the description of the table stored in dir.
func ReadMetadata(dir string, opts ...storage.Option) (*storage.TableMetadata, error) {
	r, err := storage.NewReader(opts...)
	if err != nil {
		return nil, err
	}

	return r.ReadMetadata(dir)
}
