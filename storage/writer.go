package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/compress"
	"github.com/arloliu/coltab/endian"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/internal/hash"
	"github.com/arloliu/coltab/section"
	"github.com/arloliu/coltab/table"
)

// Writer persists tables as a directory of column files.
//
// A Writer holds only configuration and is safe for concurrent use, but two
// writes into the same directory at once are not coordinated.
type Writer struct {
	cfg *config
}

// NewWriter creates a Writer.
//
// Parameters:
//   - opts: WithFs, WithConcurrency, WithCompression, WithLogger, WithBigEndian, WithLittleEndian
//
// Returns:
//   - *Writer: Configured writer
//   - error: ErrInvalidOption if any option is rejected
func NewWriter(opts ...Option) (*Writer, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Writer{cfg: cfg}, nil
}

// Write stores t into dir, creating it if needed.
//
// Column files are written in parallel, at most Concurrency at a time. The
// first failing column stops columns that have not started yet and is
// returned as an *errs.ColumnError; in that case the files written by this
// call are removed and any table previously stored in dir stays readable.
// On success metadata.json is replaced last and the column files of the
// previous table are removed.
//
// Parameters:
//   - dir: Table directory
//   - t: Table to store
//
// Returns:
//   - *TableMetadata: Description of the stored table
//   - error: *errs.ColumnError wrapping the first column failure, or a filesystem error
func (w *Writer) Write(dir string, t *table.Table) (*TableMetadata, error) {
	fs := w.cfg.fs
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create table directory: %w", err)
	}
	previous := previousColumnIDs(fs, dir)

	cols := t.Columns()
	meta := &TableMetadata{
		Version:     FormatVersion,
		Name:        t.Name(),
		RowCount:    t.RowCount(),
		Compression: w.cfg.compression,
		Columns:     make([]ColumnMetadata, len(cols)),
	}
	for i, col := range cols {
		meta.Columns[i] = ColumnMetadata{
			ID:   uuid.NewString(),
			Name: col.Name(),
			Type: col.Type(),
			Size: col.Len(),
		}
	}

	var (
		g      errgroup.Group
		failed atomic.Bool
	)
	g.SetLimit(w.cfg.concurrency)
	for i, col := range cols {
		cm := &meta.Columns[i]
		g.Go(func() error {
			if failed.Load() {
				return nil
			}
			res, err := w.writeColumn(filepath.Join(dir, cm.ID), col)
			if err != nil {
				failed.Store(true)
				w.cfg.logger.Warn("column write failed",
					zap.String("id", cm.ID), zap.String("name", cm.Name), zap.Error(err))

				return &errs.ColumnError{Op: "write", ID: cm.ID, Name: cm.Name, Err: err}
			}
			cm.Checksum = res.checksum
			cm.EncodedSize = res.stats.OriginalSize
			cm.StoredSize = res.stats.CompressedSize
			w.cfg.logger.Debug("column written",
				zap.String("id", cm.ID), zap.String("name", cm.Name), zap.Int("rows", cm.Size),
				zap.Int64("encoded_bytes", cm.EncodedSize), zap.Int64("stored_bytes", cm.StoredSize))

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		w.removeColumns(dir, meta.Columns)
		return nil, err
	}

	if err := writeMetadata(fs, dir, meta); err != nil {
		w.removeColumns(dir, meta.Columns)
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	for _, id := range previous {
		if err := fs.Remove(filepath.Join(dir, id)); err != nil {
			w.cfg.logger.Warn("remove stale column file", zap.String("id", id), zap.Error(err))
		}
	}
	stats := meta.TotalStats()
	w.cfg.logger.Debug("table written",
		zap.String("dir", dir), zap.String("name", meta.Name),
		zap.Int("columns", len(meta.Columns)), zap.Int("rows", meta.RowCount),
		zap.Float64("compression_ratio", stats.CompressionRatio()))

	return meta, nil
}

// SaveTable stores t in a new directory under parent named after the table,
// with unsafe characters replaced and TableExtension appended.
//
// Returns:
//   - string: The table directory
//   - *TableMetadata: Description of the stored table
//   - error: Same as Write
func (w *Writer) SaveTable(parent string, t *table.Table) (string, *TableMetadata, error) {
	dir := filepath.Join(parent, SanitizeName(t.Name())+TableExtension)
	meta, err := w.Write(dir, t)
	if err != nil {
		return "", nil, err
	}

	return dir, meta, nil
}

// SanitizeName turns a table name into a portable file name: letters, digits,
// '-', '_' and '.' are kept and every other rune becomes '_'. An empty name
// becomes "table".
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "table"
	}

	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.') {
			return r
		}

		return '_'
	}, name)
}

// columnResult is what writing one column file yields for its metadata.
type columnResult struct {
	checksum string
	stats    compress.Stats
}

// countingWriter counts the bytes passed to w.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}

// writeColumn writes one column file and returns the payload checksum and
// its size before and after compression.
func (w *Writer) writeColumn(path string, col column.Column) (columnResult, error) {
	var res columnResult
	p, err := encodeColumn(col, w.cfg.engine)
	if err != nil {
		return res, err
	}
	defer p.Finish()

	codec, err := compress.GetCodec(w.cfg.compression)
	if err != nil {
		return res, err
	}

	f, err := w.cfg.fs.Create(path)
	if err != nil {
		return res, err
	}
	defer f.Close()

	header := section.NewColumnHeader(col.Type(), w.cfg.compression, col.Len())
	if endian.IsBigEndian(w.cfg.engine) {
		header.Flag.WithBigEndian()
	}
	if _, err := header.WriteTo(f); err != nil {
		return res, err
	}

	counter := &countingWriter{w: f}
	zw, err := codec.NewWriter(counter)
	if err != nil {
		return res, err
	}
	body := p.Bytes()
	if _, err := zw.Write(body); err != nil {
		_ = zw.Close()
		return res, err
	}
	if err := zw.Close(); err != nil {
		return res, err
	}
	if err := f.Close(); err != nil {
		return res, err
	}

	res.checksum = hash.Checksum(body)
	res.stats = compress.Stats{
		Algorithm:      codec.Type(),
		OriginalSize:   int64(p.Size()),
		CompressedSize: counter.n,
	}

	return res, nil
}

func (w *Writer) removeColumns(dir string, cols []ColumnMetadata) {
	for _, c := range cols {
		if err := w.cfg.fs.Remove(filepath.Join(dir, c.ID)); err != nil && !isNotExist(err) {
			w.cfg.logger.Warn("remove partial column file", zap.String("id", c.ID), zap.Error(err))
		}
	}
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
