package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/endian"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
)

func TestDecodeString_CorruptDictionary(t *testing.T) {
	le := endian.GetLittleEndianEngine()

	t.Run("Size beyond payload", func(t *testing.T) {
		_, err := decodeString("c", le, []byte{0xff, 0xff, 0xff, 0x7f, 0x01, 'a'}, 0)
		require.ErrorIs(t, err, errs.ErrCorruptPayload)
	})

	t.Run("Negative size", func(t *testing.T) {
		_, err := decodeString("c", le, []byte{0xff, 0xff, 0xff, 0xff}, 0)
		require.ErrorIs(t, err, errs.ErrCorruptPayload)
	})

	t.Run("Short header", func(t *testing.T) {
		_, err := decodeString("c", le, []byte{0x01}, 0)
		require.ErrorIs(t, err, errs.ErrCorruptPayload)
	})

	t.Run("Size fits but entries are truncated", func(t *testing.T) {
		_, err := decodeString("c", le, []byte{0x02, 0, 0, 0, 0x01, 'a'}, 0)
		require.ErrorIs(t, err, errs.ErrCorruptPayload)
	})
}

func TestDecodeColumn_HugeRowCount(t *testing.T) {
	le := endian.GetLittleEndianEngine()

	_, err := decodeColumn("t", format.TypeText, 1<<40, le, []byte{0x01, 'a'})
	require.ErrorIs(t, err, errs.ErrCorruptPayload)

	_, err = decodeColumn("l", format.TypeLong, 1<<60, le, nil)
	require.ErrorIs(t, err, errs.ErrCorruptPayload)
}

func TestEncodeColumn_RoundTrip(t *testing.T) {
	le := endian.GetLittleEndianEngine()
	src := column.NewString("City", "Oslo", "Rome", "Oslo")

	p, err := encodeColumn(src, le)
	require.NoError(t, err)
	defer p.Finish()
	require.Equal(t, len(p.Bytes()), p.Size())

	got, err := decodeColumn("City", format.TypeString, src.Len(), le, p.Bytes())
	require.NoError(t, err)
	for row := range src.Len() {
		require.Equal(t, src.String(row), got.String(row))
	}
}
