package blob

import (
	"errors"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const (
	CodecGzip = "gzip"
	CodecZstd = "zstd"
	CodecLZ4  = "lz4"
)

func codecOf(path string) string {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CodecGzip
	case strings.HasSuffix(path, ".zst"):
		return CodecZstd
	case strings.HasSuffix(path, ".lz4"):
		return CodecLZ4
	}
	return ""
}

func decompress(r io.ReadCloser, path string) (io.ReadCloser, error) {
	switch codecOf(path) {
	case CodecGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			r.Close()
			return nil, err
		}
		return &readCloser{Reader: gz, closers: []io.Closer{gz, r}}, nil
	case CodecZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			r.Close()
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), r}}, nil
	case CodecLZ4:
		return &readCloser{Reader: lz4.NewReader(r), closers: []io.Closer{r}}, nil
	}
	return r, nil
}

func compress(w Writer, path string) (Writer, error) {
	switch codecOf(path) {
	case CodecGzip:
		return &compressWriter{WriteCloser: gzip.NewWriter(w), inner: w}, nil
	case CodecZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			w.Abort()
			return nil, err
		}
		return &compressWriter{WriteCloser: zw, inner: w}, nil
	case CodecLZ4:
		return &compressWriter{WriteCloser: lz4.NewWriter(w), inner: w}, nil
	}
	return w, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// compressWriter flushes the compressor before closing the destination.
type compressWriter struct {
	io.WriteCloser
	inner Writer
}

func (w *compressWriter) Close() error {
	if err := w.WriteCloser.Close(); err != nil {
		return errors.Join(err, w.inner.Abort())
	}
	return w.inner.Close()
}

func (w *compressWriter) Abort() error {
	w.WriteCloser.Close()
	return w.inner.Abort()
}
