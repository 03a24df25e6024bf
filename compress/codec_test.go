package compress

import (
	"bytes"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
)

func payload(n int) []byte {
	rng := rand.New(rand.NewPCG(42, 42))
	out := make([]byte, n)
	for i := range out {
		// repetitive enough to compress
		out[i] = byte(rng.IntN(8))
	}

	return out
}

func roundTrip(t *testing.T, codec Codec, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw, err := codec.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	compressed := buf.Len()

	zr, err := codec.NewReader(&buf)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.NoError(t, zr.Close())

	if codec.Type() != format.CompressionNone && len(data) > 4096 {
		require.Less(t, compressed, len(data))
	}

	return got
}

func TestCodecs_RoundTrip(t *testing.T) {
	for _, typ := range []format.CompressionType{
		format.CompressionNone, format.CompressionS2, format.CompressionZstd, format.CompressionLZ4,
	} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)
			require.Equal(t, typ, codec.Type())

			for _, size := range []int{0, 1, 1000, 1 << 20} {
				data := payload(size)
				require.Equal(t, len(data), len(roundTrip(t, codec, data)))
				require.True(t, bytes.Equal(data, roundTrip(t, codec, data)))
			}
		})
	}
}

func TestCodecs_CloseLeavesUnderlyingOpen(t *testing.T) {
	var buf bytes.Buffer
	zw, err := NewS2Codec().NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	// the buffer is still usable after the stream is closed
	_, err = buf.Write([]byte("trailer"))
	require.NoError(t, err)
}

func TestCodecs_CorruptInput(t *testing.T) {
	for _, codec := range []Codec{NewS2Codec(), NewZstdCodec(), NewLZ4Codec()} {
		t.Run(codec.Type().String(), func(t *testing.T) {
			zr, err := codec.NewReader(bytes.NewReader([]byte("definitely not a compressed stream")))
			if err != nil {
				return
			}
			_, err = io.ReadAll(zr)
			require.Error(t, err)
		})
	}
}

func TestGetCodec_Invalid(t *testing.T) {
	_, err := GetCodec(format.CompressionType(99))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestStats(t *testing.T) {
	s := Stats{Algorithm: format.CompressionS2, OriginalSize: 200, CompressedSize: 50}
	require.InDelta(t, 0.25, s.CompressionRatio(), 1e-12)
	require.InDelta(t, 75.0, s.SpaceSavings(), 1e-12)
	require.Zero(t, Stats{}.CompressionRatio())

	t.Run("Add sums byte counts", func(t *testing.T) {
		total := s.Add(Stats{Algorithm: format.CompressionLZ4, OriginalSize: 100, CompressedSize: 100})
		require.Equal(t, format.CompressionS2, total.Algorithm)
		require.EqualValues(t, 300, total.OriginalSize)
		require.EqualValues(t, 150, total.CompressedSize)
		require.InDelta(t, 50.0, total.SpaceSavings(), 1e-12)
	})
}
