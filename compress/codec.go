package compress

import (
	"fmt"
	"io"

	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
)

// Codec wraps byte streams with one compression algorithm.
//
// Writers returned by NewWriter must be closed to flush the final frame.
// Closing a writer or reader never closes the underlying stream.
type Codec interface {
	// Type returns the compression type stored in column headers.
	Type() format.CompressionType
	// NewWriter returns a writer compressing into w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
	// NewReader returns a reader decompressing from r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Stats summarizes one compressed stream.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// CompressionRatio returns compressed size over original size; 0 for empty input.
func (s Stats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the percentage of bytes saved by compression.
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// Add returns the byte counts of s and o summed; the algorithm of s is kept.
func (s Stats) Add(o Stats) Stats {
	s.OriginalSize += o.OriginalSize
	s.CompressedSize += o.CompressedSize

	return s
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec returns the codec for a compression type.
//
// Parameters:
//   - compressionType: Compression type from a column header or option
//
// Returns:
//   - Codec: Shared, stateless codec
//   - error: ErrInvalidCompression for unknown types
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
