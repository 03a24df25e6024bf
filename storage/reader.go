package storage

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/compress"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/internal/hash"
	"github.com/arloliu/coltab/internal/pool"
	"github.com/arloliu/coltab/section"
	"github.com/arloliu/coltab/table"
)

// Reader loads tables written by Writer.
type Reader struct {
	cfg *config
}

// NewReader creates a Reader. Compression and byte order options are
// accepted but unused; every column file records its own.
func NewReader(opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Reader{cfg: cfg}, nil
}

// ReadMetadata loads and validates metadata.json of the table in dir.
func (r *Reader) ReadMetadata(dir string) (*TableMetadata, error) {
	return readMetadata(r.cfg.fs, dir)
}

// Read loads the table stored in dir.
//
// Column files are decoded in parallel. The first failing column stops
// columns that have not started yet; the table is assembled in stored
// column order only when every column succeeded.
//
// Parameters:
//   - dir: Table directory
//
// Returns:
//   - *table.Table: The loaded table
//   - error: ErrInvalidMetadata, or *errs.ColumnError wrapping the first column failure
func (r *Reader) Read(dir string) (*table.Table, error) {
	meta, err := r.ReadMetadata(dir)
	if err != nil {
		return nil, err
	}

	var (
		g       errgroup.Group
		failed  atomic.Bool
		mu      sync.Mutex
		results = make(map[string]column.Column, len(meta.Columns))
	)
	g.SetLimit(r.cfg.concurrency)
	for _, cm := range meta.Columns {
		g.Go(func() error {
			if failed.Load() {
				return nil
			}
			col, err := r.readColumn(dir, cm)
			if err != nil {
				failed.Store(true)
				r.cfg.logger.Warn("column read failed",
					zap.String("id", cm.ID), zap.String("name", cm.Name), zap.Error(err))

				return &errs.ColumnError{Op: "read", ID: cm.ID, Name: cm.Name, Err: err}
			}
			r.cfg.logger.Debug("column read",
				zap.String("id", cm.ID), zap.String("name", cm.Name), zap.Int("rows", cm.Size))

			mu.Lock()
			results[cm.ID] = col
			mu.Unlock()

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cols := make([]column.Column, len(meta.Columns))
	for i, cm := range meta.Columns {
		cols[i] = results[cm.ID]
	}

	t, err := table.New(meta.Name, cols...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidMetadata, err)
	}

	return t, nil
}

// ColumnReport is the verification outcome of one column file.
type ColumnReport struct {
	ColumnMetadata
	// Compression is read from the file header; zero when the header is unreadable.
	Compression string
	// Err is nil when the file decoded and matched its checksum.
	Err error
}

// VerifyReport lists the outcome of every column of a stored table in stored order.
type VerifyReport struct {
	Metadata *TableMetadata
	Columns  []ColumnReport
}

// OK reports whether every column verified.
func (v *VerifyReport) OK() bool {
	return len(v.Failed()) == 0
}

// Failed returns the reports of columns that did not verify.
func (v *VerifyReport) Failed() []ColumnReport {
	var out []ColumnReport
	for _, c := range v.Columns {
		if c.Err != nil {
			out = append(out, c)
		}
	}

	return out
}

// Verify decodes every column of the table in dir and checks it against its
// metadata. Unlike Read it never stops early: a damaged column is recorded
// in its report and the remaining columns are still checked.
//
// Returns:
//   - *VerifyReport: Per-column results
//   - error: Only when the metadata itself cannot be read
func (r *Reader) Verify(dir string) (*VerifyReport, error) {
	meta, err := r.ReadMetadata(dir)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{Metadata: meta, Columns: make([]ColumnReport, len(meta.Columns))}

	var g errgroup.Group
	g.SetLimit(r.cfg.concurrency)
	for i, cm := range meta.Columns {
		g.Go(func() error {
			rep := ColumnReport{ColumnMetadata: cm}
			if header, err := r.readHeader(dir, cm); err == nil {
				rep.Compression = header.Flag.Compression().String()
			}
			if _, err := r.readColumn(dir, cm); err != nil {
				rep.Err = &errs.ColumnError{Op: "verify", ID: cm.ID, Name: cm.Name, Err: err}
				r.cfg.logger.Warn("column verification failed",
					zap.String("id", cm.ID), zap.String("name", cm.Name), zap.Error(err))
			}
			report.Columns[i] = rep

			return nil
		})
	}
	_ = g.Wait()

	return report, nil
}

func (r *Reader) readHeader(dir string, cm ColumnMetadata) (section.ColumnHeader, error) {
	f, err := r.cfg.fs.Open(filepath.Join(dir, cm.ID))
	if err != nil {
		return section.ColumnHeader{}, err
	}
	defer f.Close()

	return section.ReadColumnHeader(f)
}

func (r *Reader) readColumn(dir string, cm ColumnMetadata) (column.Column, error) {
	f, err := r.cfg.fs.Open(filepath.Join(dir, cm.ID))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := section.ReadColumnHeader(f)
	if err != nil {
		return nil, err
	}
	if header.Flag.Type() != cm.Type {
		return nil, fmt.Errorf("%w: file holds %s, metadata declares %s", errs.ErrInvalidHeader, header.Flag.Type(), cm.Type)
	}
	if header.Rows() != cm.Size {
		return nil, fmt.Errorf("%w: file holds %d rows, metadata declares %d", errs.ErrInvalidHeader, header.RowCount, cm.Size)
	}

	codec, err := compress.GetCodec(header.Flag.Compression())
	if err != nil {
		return nil, err
	}
	zr, err := codec.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptPayload, err)
	}
	defer zr.Close()

	buf := pool.GetColumnBuffer()
	defer pool.PutColumnBuffer(buf)

	digest := hash.NewDigest()
	if _, err := io.Copy(io.MultiWriter(buf, digest), zr); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptPayload, err)
	}
	if cm.Checksum != "" && digest.Hex() != cm.Checksum {
		return nil, fmt.Errorf("%w: payload %s, metadata %s", errs.ErrChecksumMismatch, digest.Hex(), cm.Checksum)
	}

	return decodeColumn(cm.Name, cm.Type, cm.Size, header.Flag.GetEndianEngine(), buf.Bytes())
}
