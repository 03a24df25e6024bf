package compress

import (
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/coltab/format"
)

// LZ4Codec writes LZ4 frame streams. Decompression is the fastest of the
// built-in codecs.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

// NewLZ4Codec creates an LZ4 codec.
func NewLZ4Codec() LZ4Codec { return LZ4Codec{} }

func (LZ4Codec) Type() format.CompressionType { return format.CompressionLZ4 }

func (LZ4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.ConcurrencyOption(1)); err != nil {
		return nil, err
	}

	return zw, nil
}

func (LZ4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}
