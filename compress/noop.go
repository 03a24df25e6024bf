package compress

import (
	"io"

	"github.com/arloliu/coltab/format"
)

// NoOpCodec passes bytes through unchanged.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

// NewNoOpCodec creates a pass-through codec.
func NewNoOpCodec() NoOpCodec { return NoOpCodec{} }

func (NoOpCodec) Type() format.CompressionType { return format.CompressionNone }

func (NoOpCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{Writer: w}, nil
}

func (NoOpCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}
