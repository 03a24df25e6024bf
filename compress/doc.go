// Package compress provides the streaming compression codecs used for
// column files.
//
// Each column file stores its payload as one compressed stream. The codec is
// chosen per table and recorded in every column header, so readers never
// guess:
//
//	codec, err := compress.GetCodec(format.CompressionS2)
//	zw, err := codec.NewWriter(file)
//	_, err = zw.Write(payload)
//	err = zw.Close() // flushes; file stays open
//
// # Supported Algorithms
//
//   - None: bytes are stored as-is.
//   - S2: Snappy-compatible framing from klauspost/compress. Fast in both
//     directions with a moderate ratio; the default.
//   - Zstd: best ratio, slower to write.
//   - LZ4: LZ4 frames from pierrec/lz4; fastest to read.
//
// Codecs are stateless and safe for concurrent use; each call to NewWriter or
// NewReader returns an independent stream.
package compress
