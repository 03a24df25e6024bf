package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/section"
	"github.com/arloliu/coltab/table"
	"github.com/arloliu/coltab/temporal"
)

// mixedTable has one column of every type; the last row is missing everywhere.
func mixedTable(t *testing.T) *table.Table {
	t.Helper()

	cols := []column.Column{
		column.NewShort("Short", 1, -2, 3, 400, 5),
		column.NewInt("Int", 10, -20, 30, 1<<30, 0),
		column.NewLong("Long", 1<<40, -1, 0, 7, 9),
		column.NewFloat("Float", 1.5, -0.25, 3, 0, 1e10),
		column.NewDouble("Double", 3.14159, -2.5e-300, 0, 1e300, 42),
		column.NewBool("Member", true, false, true, true, false),
		column.NewText("Note", "plain", "héllo wörld", "with space", "x", "y"),
		column.NewString("City", "Oslo", "Rome", "Oslo", "", "Lima"),
		column.NewDate("Born",
			temporal.MustDate(1990, time.January, 5),
			temporal.MustDate(-44, time.March, 15),
			temporal.MustDate(2024, time.February, 29),
			temporal.MustDate(1970, time.January, 1),
			temporal.MustDate(2000, time.December, 31),
		),
		column.NewTime("Alarm",
			temporal.MustTime(7, 30, 0, 0),
			temporal.MustTime(0, 0, 0, 0),
			temporal.MustTime(23, 59, 59, 999),
			temporal.MustTime(12, 0, 1, 5),
			temporal.MustTime(6, 6, 6, 6),
		),
		column.NewDateTime("Seen",
			temporal.MustDateTime(time.Date(2021, 5, 6, 7, 8, 9, 10e6, time.UTC)),
			temporal.MustDateTime(time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC)),
			temporal.MustDateTime(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)),
			temporal.MustDateTime(time.Date(1999, 12, 31, 23, 59, 59, 999e6, time.UTC)),
			temporal.MustDateTime(time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)),
		),
	}
	for _, c := range cols {
		c.AppendMissing()
	}

	tbl, err := table.New("mixed", cols...)
	require.NoError(t, err)

	return tbl
}

func requireSameTable(t *testing.T, want, got *table.Table) {
	t.Helper()

	require.Equal(t, want.Name(), got.Name())
	require.Equal(t, want.ColumnNames(), got.ColumnNames())
	require.Equal(t, want.RowCount(), got.RowCount())
	for i := range want.ColumnCount() {
		wc, gc := want.ColumnAt(i), got.ColumnAt(i)
		require.Equal(t, wc.Type(), gc.Type(), "column %s", wc.Name())
		for row := range wc.Len() {
			require.Equal(t, wc.IsMissingAt(row), gc.IsMissingAt(row), "column %s row %d", wc.Name(), row)
			if !wc.IsMissingAt(row) {
				require.Equal(t, wc.String(row), gc.String(row), "column %s row %d", wc.Name(), row)
			}
		}
	}
}

func newPair(t *testing.T, fs afero.Fs, opts ...Option) (*Writer, *Reader) {
	t.Helper()

	opts = append([]Option{WithFs(fs)}, opts...)
	w, err := NewWriter(opts...)
	require.NoError(t, err)
	r, err := NewReader(opts...)
	require.NoError(t, err)

	return w, r
}

func TestWriter_RoundTrip(t *testing.T) {
	compressions := []format.CompressionType{
		format.CompressionNone, format.CompressionS2, format.CompressionZstd, format.CompressionLZ4,
	}
	for _, ct := range compressions {
		for _, bigEndian := range []bool{false, true} {
			name := ct.String() + " little endian"
			byteOrder := WithLittleEndian()
			if bigEndian {
				name = ct.String() + " big endian"
				byteOrder = WithBigEndian()
			}

			t.Run(name, func(t *testing.T) {
				want := mixedTable(t)
				w, r := newPair(t, afero.NewMemMapFs(), WithCompression(ct), byteOrder, WithConcurrency(3))

				meta, err := w.Write("/tables/mixed", want)
				require.NoError(t, err)
				require.Equal(t, ct, meta.Compression)
				require.Len(t, meta.Columns, want.ColumnCount())

				got, err := r.Read("/tables/mixed")
				require.NoError(t, err)
				requireSameTable(t, want, got)
			})
		}
	}

	t.Run("Empty table", func(t *testing.T) {
		want, err := table.New("empty", column.NewInt("A"), column.NewString("B"), column.NewText("C"))
		require.NoError(t, err)
		w, r := newPair(t, afero.NewMemMapFs())

		_, err = w.Write("/empty", want)
		require.NoError(t, err)
		got, err := r.Read("/empty")
		require.NoError(t, err)
		requireSameTable(t, want, got)
	})

	t.Run("Column names that are not file names", func(t *testing.T) {
		want, err := table.New("odd",
			column.NewInt("a/b", 1, 2),
			column.NewInt("  spaced  ", 3, 4),
			column.NewInt("metadata.json", 5, 6),
		)
		require.NoError(t, err)
		w, r := newPair(t, afero.NewMemMapFs())

		_, err = w.Write("/odd", want)
		require.NoError(t, err)
		got, err := r.Read("/odd")
		require.NoError(t, err)
		requireSameTable(t, want, got)
	})
}

func TestWriter_Metadata(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, r := newPair(t, fs)
	want := mixedTable(t)

	meta, err := w.Write("/m", want)
	require.NoError(t, err)

	raw, err := afero.ReadFile(fs, "/m/"+MetadataFileName)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.EqualValues(t, FormatVersion, doc["version"])
	require.Equal(t, "mixed", doc["name"])
	require.EqualValues(t, 6, doc["rowCount"])
	require.Equal(t, "S2", doc["compression"])

	first := doc["columns"].([]any)[0].(map[string]any)
	require.Equal(t, "Short", first["name"])
	require.Equal(t, "Short", first["type"])
	require.EqualValues(t, 6, first["size"])
	require.Len(t, first["checksum"], 16)

	loaded, err := r.ReadMetadata("/m")
	require.NoError(t, err)
	require.Equal(t, meta, loaded)
	require.Equal(t, want.ColumnNames(), loaded.ColumnNames())

	t.Run("Column file header", func(t *testing.T) {
		cm := loaded.Columns[4]
		data, err := afero.ReadFile(fs, filepath.Join("/m", cm.ID))
		require.NoError(t, err)
		h, err := section.ParseColumnHeader(data)
		require.NoError(t, err)
		require.Equal(t, format.TypeDouble, h.Flag.Type())
		require.Equal(t, format.CompressionS2, h.Flag.Compression())
		require.Equal(t, 6, h.Rows())
	})
}

func TestWriter_Overwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, r := newPair(t, fs)

	first, err := w.Write("/t", mixedTable(t))
	require.NoError(t, err)

	second, err := table.New("second", column.NewDouble("X", 1, 2, 3))
	require.NoError(t, err)
	meta, err := w.Write("/t", second)
	require.NoError(t, err)

	entries, err := afero.ReadDir(fs, "/t")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, cm := range first.Columns {
		_, err := fs.Stat(filepath.Join("/t", cm.ID))
		require.True(t, os.IsNotExist(err))
	}
	require.NotEqual(t, first.Columns[0].ID, meta.Columns[0].ID)

	got, err := r.Read("/t")
	require.NoError(t, err)
	requireSameTable(t, second, got)
}

type failingCreateFs struct {
	afero.Fs
}

func (failingCreateFs) Create(string) (afero.File, error) {
	return nil, errors.New("disk full")
}

func TestWriter_Failure(t *testing.T) {
	base := afero.NewMemMapFs()
	w, r := newPair(t, base)
	before := mixedTable(t)
	_, err := w.Write("/t", before)
	require.NoError(t, err)

	broken, err := NewWriter(WithFs(failingCreateFs{Fs: base}), WithConcurrency(1))
	require.NoError(t, err)

	replacement, err := table.New("replacement", column.NewInt("A", 1))
	require.NoError(t, err)
	_, err = broken.Write("/t", replacement)

	var colErr *errs.ColumnError
	require.ErrorAs(t, err, &colErr)
	require.Equal(t, "write", colErr.Op)
	require.Equal(t, "A", colErr.Name)
	require.ErrorContains(t, err, "disk full")

	// the previous table is untouched
	got, err := r.Read("/t")
	require.NoError(t, err)
	requireSameTable(t, before, got)
}

func corruptPayload(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.Greater(t, len(data), section.HeaderSize)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
}

func TestReader_Failures(t *testing.T) {
	setup := func(t *testing.T) (afero.Fs, *Reader, *TableMetadata) {
		t.Helper()
		fs := afero.NewMemMapFs()
		w, r := newPair(t, fs, WithCompression(format.CompressionNone))
		meta, err := w.Write("/t", mixedTable(t))
		require.NoError(t, err)

		return fs, r, meta
	}

	t.Run("Corrupt column", func(t *testing.T) {
		fs, r, meta := setup(t)
		target := meta.Columns[2]
		corruptPayload(t, fs, filepath.Join("/t", target.ID))

		_, err := r.Read("/t")
		var colErr *errs.ColumnError
		require.ErrorAs(t, err, &colErr)
		require.Equal(t, "read", colErr.Op)
		require.Equal(t, target.ID, colErr.ID)
		require.Equal(t, "Long", colErr.Name)
		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("Corrupt dictionary size without checksum", func(t *testing.T) {
		fs, r, meta := setup(t)
		target := meta.Columns[7]
		path := filepath.Join("/t", target.ID)
		data, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		copy(data[section.HeaderSize:], []byte{0x7f, 0x7f, 0x7f, 0x7f})
		require.NoError(t, afero.WriteFile(fs, path, data, 0o644))

		meta.Columns[7].Checksum = ""
		raw, err := json.Marshal(meta)
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(fs, "/t/"+MetadataFileName, raw, 0o644))

		_, err = r.Read("/t")
		var colErr *errs.ColumnError
		require.ErrorAs(t, err, &colErr)
		require.Equal(t, "City", colErr.Name)
		require.ErrorIs(t, err, errs.ErrCorruptPayload)
	})

	t.Run("Missing column file", func(t *testing.T) {
		fs, r, meta := setup(t)
		require.NoError(t, fs.Remove(filepath.Join("/t", meta.Columns[7].ID)))

		_, err := r.Read("/t")
		var colErr *errs.ColumnError
		require.ErrorAs(t, err, &colErr)
		require.Equal(t, "City", colErr.Name)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Header disagrees with metadata", func(t *testing.T) {
		fs, r, meta := setup(t)
		path := filepath.Join("/t", meta.Columns[1].ID)
		data, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		data[section.TypeOffset] = byte(format.TypeFloat)
		require.NoError(t, afero.WriteFile(fs, path, data, 0o644))

		_, err = r.Read("/t")
		require.ErrorIs(t, err, errs.ErrInvalidHeader)
	})

	t.Run("Missing metadata", func(t *testing.T) {
		_, r := newPair(t, afero.NewMemMapFs())
		_, err := r.Read("/nowhere")
		require.ErrorIs(t, err, errs.ErrInvalidMetadata)
	})

	t.Run("Invalid metadata", func(t *testing.T) {
		fs, r, meta := setup(t)
		meta.Columns[0].Size = 99
		raw, err := json.Marshal(meta)
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(fs, "/t/"+MetadataFileName, raw, 0o644))

		_, err = r.Read("/t")
		require.ErrorIs(t, err, errs.ErrInvalidMetadata)
	})
}

func TestReader_Verify(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, r := newPair(t, fs, WithCompression(format.CompressionNone))
	meta, err := w.Write("/t", mixedTable(t))
	require.NoError(t, err)

	report, err := r.Verify("/t")
	require.NoError(t, err)
	require.True(t, report.OK())
	require.Equal(t, "None", report.Columns[0].Compression)

	corruptPayload(t, fs, filepath.Join("/t", meta.Columns[0].ID))
	require.NoError(t, fs.Remove(filepath.Join("/t", meta.Columns[5].ID)))

	report, err = r.Verify("/t")
	require.NoError(t, err)
	require.False(t, report.OK())
	require.Len(t, report.Columns, len(meta.Columns))

	failed := report.Failed()
	require.Len(t, failed, 2)
	require.Equal(t, "Short", failed[0].Name)
	require.ErrorIs(t, failed[0].Err, errs.ErrChecksumMismatch)
	require.Equal(t, "Member", failed[1].Name)
	require.ErrorIs(t, failed[1].Err, os.ErrNotExist)

	for i, c := range report.Columns {
		if i != 0 && i != 5 {
			require.NoError(t, c.Err, c.Name)
		}
	}
}

func TestWriter_SaveTable(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, r := newPair(t, fs)
	tbl := mixedTable(t)
	tbl.SetName("Q3 sales / EU")

	dir, _, err := w.SaveTable("/data", tbl)
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/data", "Q3_sales___EU.saw"), dir)

	got, err := r.Read(dir)
	require.NoError(t, err)
	require.Equal(t, "Q3 sales / EU", got.Name())
}

func TestSanitizeName(t *testing.T) {
	require.Equal(t, "table", SanitizeName("  "))
	require.Equal(t, "a-b_c.d", SanitizeName("a-b_c.d"))
	require.Equal(t, "caf_", SanitizeName("café"))
	require.Equal(t, "x_y", SanitizeName("x:y"))
}

func TestOptions(t *testing.T) {
	cases := []struct {
		name string
		opt  Option
	}{
		{"Zero concurrency", WithConcurrency(0)},
		{"Unknown compression", WithCompression(format.CompressionType(42))},
		{"Nil filesystem", WithFs(nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWriter(tc.opt)
			require.ErrorIs(t, err, errs.ErrInvalidOption)
			_, err = NewReader(tc.opt)
			require.ErrorIs(t, err, errs.ErrInvalidOption)
		})
	}

	t.Run("Defaults", func(t *testing.T) {
		cfg, err := newConfig()
		require.NoError(t, err)
		require.Equal(t, DefaultConcurrency, cfg.concurrency)
		require.Equal(t, DefaultCompression, cfg.compression)
	})
}

func TestWriter_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	fs := afero.NewMemMapFs()
	w, _ := newPair(t, fs, WithLogger(zap.New(core)))

	tbl := mixedTable(t)
	_, err := w.Write("/t", tbl)
	require.NoError(t, err)

	require.Equal(t, tbl.ColumnCount(), logs.FilterMessage("column written").Len())
	require.Equal(t, 1, logs.FilterField(zap.Int64("encoded_bytes", 2*6)).Len())
	require.Equal(t, 1, logs.FilterMessage("table written").Len())
	require.Contains(t, logs.FilterMessage("table written").All()[0].ContextMap(), "compression_ratio")
}

func TestWriter_CompressionStats(t *testing.T) {
	t.Run("Uncompressed sizes match the files", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		w, r := newPair(t, fs, WithCompression(format.CompressionNone))
		meta, err := w.Write("/t", mixedTable(t))
		require.NoError(t, err)

		require.EqualValues(t, 2*6, meta.Columns[0].EncodedSize)
		require.EqualValues(t, 8*6, meta.Columns[2].EncodedSize)
		for i, cm := range meta.Columns {
			info, err := fs.Stat(filepath.Join("/t", cm.ID))
			require.NoError(t, err)
			require.Equal(t, info.Size()-section.HeaderSize, cm.StoredSize, cm.Name)
			require.Equal(t, cm.EncodedSize, cm.StoredSize, cm.Name)
			require.InDelta(t, 1.0, meta.Stats(i).CompressionRatio(), 1e-12)
		}

		loaded, err := r.ReadMetadata("/t")
		require.NoError(t, err)
		require.Equal(t, meta.TotalStats(), loaded.TotalStats())
	})

	t.Run("Repetitive column shrinks", func(t *testing.T) {
		tbl, err := table.New("zeros", column.NewLong("z", make([]int64, 4096)...))
		require.NoError(t, err)

		w, _ := newPair(t, afero.NewMemMapFs(), WithCompression(format.CompressionZstd))
		meta, err := w.Write("/z", tbl)
		require.NoError(t, err)

		stats := meta.TotalStats()
		require.Equal(t, format.CompressionZstd, stats.Algorithm)
		require.EqualValues(t, 8*4096, stats.OriginalSize)
		require.Less(t, stats.CompressedSize, stats.OriginalSize)
		require.Greater(t, stats.SpaceSavings(), 50.0)
	})

	t.Run("Negative sizes are invalid", func(t *testing.T) {
		w, _ := newPair(t, afero.NewMemMapFs())
		meta, err := w.Write("/n", mixedTable(t))
		require.NoError(t, err)
		meta.Columns[0].StoredSize = -1
		require.ErrorIs(t, meta.Validate(), errs.ErrInvalidMetadata)
	})
}

func TestStorage_OnDisk(t *testing.T) {
	parent := t.TempDir()
	w, err := NewWriter(WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	r, err := NewReader()
	require.NoError(t, err)

	want := mixedTable(t)
	dir, _, err := w.SaveTable(parent, want)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, MetadataFileName))
	require.NoError(t, err)
	require.False(t, info.IsDir())

	got, err := r.Read(dir)
	require.NoError(t, err)
	requireSameTable(t, want, got)
}
