//go:build gozstd

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

const gozstdLevel = 3

type gozstdWriter struct {
	*gozstd.Writer
}

func (w gozstdWriter) Close() error {
	defer w.Release()
	return w.Writer.Close()
}

type gozstdReader struct {
	*gozstd.Reader
}

func (r gozstdReader) Close() error {
	r.Release()
	return nil
}

func (ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gozstdWriter{Writer: gozstd.NewWriterLevel(w, gozstdLevel)}, nil
}

func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gozstdReader{Reader: gozstd.NewReader(r)}, nil
}
