package compress

import (
	"io"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/coltab/format"
)

// S2Codec writes Snappy-compatible framed streams with the S2 encoder, so
// any Snappy stream reader can decode its output.
type S2Codec struct{}

var _ Codec = S2Codec{}

// NewS2Codec creates an S2 codec.
func NewS2Codec() S2Codec { return S2Codec{} }

func (S2Codec) Type() format.CompressionType { return format.CompressionS2 }

func (S2Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w, s2.WriterSnappyCompat(), s2.WriterConcurrency(1)), nil
}

func (S2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}
