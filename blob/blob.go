// Package blob opens the input and output documents of a run. A location is
// a local path, "-" for the standard streams, or s3://bucket/key for an S3
// compatible object store. Locations ending in .gz, .zst or .lz4 are
// compressed transparently.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrUnsupportedScheme = errors.New("unsupported location scheme")

const Stdio = "-"

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

// Opener resolves locations. The S3 client is built on first use.
type Opener struct {
	Config Config

	clientOnce sync.Once
	client     *minio.Client
	clientErr  error
}

func NewOpener(c Config) *Opener {
	return &Opener{Config: c}
}

// Location is a parsed location.
type Location struct {
	Scheme string // "file" or "s3"
	Bucket string
	Key    string
	Path   string
}

func Parse(location string) (Location, error) {

	if location == "" {
		return Location{}, errors.New("empty location")
	}

	scheme, rest, found := strings.Cut(location, "://")
	if !found {
		return Location{Scheme: "file", Path: location}, nil
	}

	switch scheme {
	case "file":
		return Location{Scheme: "file", Path: rest}, nil
	case "s3":
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("location '%s' must be s3://bucket/key", location)
		}
		return Location{Scheme: "s3", Bucket: bucket, Key: key, Path: rest}, nil
	}

	return Location{}, fmt.Errorf("%w '%s'", ErrUnsupportedScheme, scheme)
}

func (o *Opener) s3() (*minio.Client, error) {
	o.clientOnce.Do(func() {
		if o.Config.Endpoint == "" {
			o.clientErr = errors.New("s3 endpoint is not configured")
			return
		}
		o.client, o.clientErr = minio.New(o.Config.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(o.Config.AccessKey, o.Config.SecretKey, ""),
			Secure: o.Config.Secure,
		})
	})
	return o.client, o.clientErr
}

// Open returns a reader over the decompressed content of location.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {

	if location == Stdio {
		return io.NopCloser(os.Stdin), nil
	}

	l, err := Parse(location)
	if err != nil {
		return nil, err
	}

	var r io.ReadCloser
	switch l.Scheme {
	case "file":
		r, err = os.Open(l.Path)
	case "s3":
		r, err = o.openObject(ctx, l)
	}
	if err != nil {
		return nil, fmt.Errorf("open '%s': %w", location, err)
	}

	return decompress(r, l.Path)
}

func (o *Opener) openObject(ctx context.Context, l Location) (io.ReadCloser, error) {
	client, err := o.s3()
	if err != nil {
		return nil, err
	}
	obj, err := client.GetObject(ctx, l.Bucket, l.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy, Stat surfaces missing objects before reading
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// Writer is the destination of a location. The content becomes visible at
// the location only once Close returns nil; Abort discards it.
type Writer interface {
	io.WriteCloser
	Abort() error
}

// Create returns a writer that compresses into location.
func (o *Opener) Create(ctx context.Context, location string) (Writer, error) {

	if location == Stdio {
		return nopWriter{os.Stdout}, nil
	}

	l, err := Parse(location)
	if err != nil {
		return nil, err
	}

	var w Writer
	switch l.Scheme {
	case "file":
		w, err = createFile(l.Path)
	case "s3":
		w, err = o.createObject(ctx, l)
	}
	if err != nil {
		return nil, fmt.Errorf("create '%s': %w", location, err)
	}

	return compress(w, l.Path)
}

func (o *Opener) createObject(ctx context.Context, l Location) (Writer, error) {
	client, err := o.s3()
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	w := &objectWriter{
		pw:   pw,
		done: make(chan error, 1),
	}

	go func() {
		_, err := client.PutObject(ctx, l.Bucket, l.Key, pr, -1, minio.PutObjectOptions{
			ContentType: contentType(l.Path),
		})
		_ = pr.CloseWithError(err)
		w.done <- err
	}()

	return w, nil
}

var errAborted = errors.New("write aborted")

type objectWriter struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *objectWriter) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

// Abort fails the upload, so the object is never created.
func (w *objectWriter) Abort() error {
	w.pw.CloseWithError(errAborted)
	<-w.done
	return nil
}

// fileWriter writes a temporary file next to path and renames it on Close.
type fileWriter struct {
	*os.File
	path string
}

func createFile(path string) (*fileWriter, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &fileWriter{File: f, path: path}, nil
}

func (w *fileWriter) Close() error {
	if err := w.File.Close(); err != nil {
		os.Remove(w.File.Name())
		return err
	}
	if err := os.Rename(w.File.Name(), w.path); err != nil {
		os.Remove(w.File.Name())
		return err
	}
	return nil
}

func (w *fileWriter) Abort() error {
	w.File.Close()
	return os.Remove(w.File.Name())
}

type nopWriter struct {
	io.Writer
}

func (nopWriter) Close() error { return nil }

func (nopWriter) Abort() error { return nil }

func contentType(path string) string {
	if codecOf(path) == "" {
		return "application/json"
	}
	return "application/octet-stream"
}
