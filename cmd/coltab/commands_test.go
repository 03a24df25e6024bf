package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/storage"
	"github.com/arloliu/coltab/table"
)

func saveSample(t *testing.T) (string, *storage.TableMetadata) {
	t.Helper()

	tbl, err := table.New("people",
		column.NewText("Name", "Ann", "Bob", "Cid"),
		column.NewInt("IQ", 120, 98, 110),
		column.NewString("City", "Oslo", "Rome", "Oslo"),
	)
	require.NoError(t, err)

	w, err := storage.NewWriter()
	require.NoError(t, err)
	dir, meta, err := w.SaveTable(t.TempDir(), tbl)
	require.NoError(t, err)

	return dir, meta
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), err
}

func TestDescribe(t *testing.T) {
	dir, _ := saveSample(t)

	out, err := run(t, "describe", dir)
	require.NoError(t, err)
	require.Contains(t, out, "compression: S2")
	require.Contains(t, out, "table: people")
	require.Contains(t, out, "rows: 3")
	require.Contains(t, out, "Column Name")
	require.Contains(t, out, "City")
	require.Contains(t, out, "String")
	require.Contains(t, out, "Stored Bytes")
}

func TestHead(t *testing.T) {
	dir, _ := saveSample(t)

	out, err := run(t, "head", "--rows", "2", dir)
	require.NoError(t, err)
	require.Contains(t, out, "Ann")
	require.Contains(t, out, "Bob")
	require.NotContains(t, out, "Cid")
	require.Contains(t, out, "... 1 more rows")
}

func TestVerify(t *testing.T) {
	t.Run("Healthy table", func(t *testing.T) {
		dir, _ := saveSample(t)

		out, err := run(t, "verify", dir)
		require.NoError(t, err)
		require.Contains(t, out, "3 columns verified")
	})

	t.Run("Missing column file", func(t *testing.T) {
		dir, meta := saveSample(t)
		require.NoError(t, os.Remove(filepath.Join(dir, meta.Columns[1].ID)))

		out, err := run(t, "verify", dir)
		require.ErrorIs(t, err, errVerifyFailed)
		require.Contains(t, out, "FAILED")
		require.Contains(t, out, `"IQ"`)
	})

	t.Run("Not a table", func(t *testing.T) {
		_, err := run(t, "verify", t.TempDir())
		require.ErrorIs(t, err, errs.ErrInvalidMetadata)
	})
}

func TestRecompress(t *testing.T) {
	dir, _ := saveSample(t)
	dst := filepath.Join(t.TempDir(), "copy.saw")

	out, err := run(t, "recompress", "--compression", "lz4", "--output", dst, dir)
	require.NoError(t, err)
	require.Contains(t, out, "wrote 3 columns, 3 rows")
	require.Regexp(t, `\d+ bytes encoded, \d+ bytes stored, ratio \d+\.\d{3}, -?\d+\.\d% saved`, out)

	r, err := storage.NewReader()
	require.NoError(t, err)
	meta, err := r.ReadMetadata(dst)
	require.NoError(t, err)
	require.Equal(t, format.CompressionLZ4, meta.Compression)

	_, err = run(t, "recompress", "--compression", "brotli", dir)
	require.Error(t, err)
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	dir, _ := saveSample(t)

	_, err := run(t, "--log-level", "loud", "describe", dir)
	require.ErrorContains(t, err, "invalid log level")
}
