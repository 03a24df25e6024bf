package compress

import "github.com/arloliu/coltab/format"

// ZstdCodec writes Zstandard streams. It gives the best ratio of the built-in
// codecs and suits tables that are written once and read rarely.
//
// The default build uses the pure Go klauspost/compress implementation;
// building with the gozstd tag switches to the cgo libzstd binding. Both
// produce standard Zstandard frames and can read each other's output.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

// NewZstdCodec creates a Zstandard codec.
func NewZstdCodec() ZstdCodec { return ZstdCodec{} }

func (ZstdCodec) Type() format.CompressionType { return format.CompressionZstd }
