package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulldump/biff"
)

const document = `[{"set":[1,2,3]},{"set":[4,5,6]}]`

func TestParse(t *testing.T) {

	biff.Alternative("Local path", func(a *biff.A) {
		l, err := Parse("input.json")
		biff.AssertNil(err)
		biff.AssertEqual(l, Location{Scheme: "file", Path: "input.json"})
	})

	biff.Alternative("File scheme", func(a *biff.A) {
		l, err := Parse("file:///tmp/a.json")
		biff.AssertNil(err)
		biff.AssertEqual(l, Location{Scheme: "file", Path: "/tmp/a.json"})
	})

	biff.Alternative("S3", func(a *biff.A) {
		l, err := Parse("s3://bucket/dir/a.json.gz")
		biff.AssertNil(err)
		biff.AssertEqual(l, Location{Scheme: "s3", Bucket: "bucket", Key: "dir/a.json.gz", Path: "bucket/dir/a.json.gz"})
	})

	biff.Alternative("S3 without key", func(a *biff.A) {
		_, err := Parse("s3://bucket")
		biff.AssertNotNil(err)
	})

	biff.Alternative("Empty", func(a *biff.A) {
		_, err := Parse("")
		biff.AssertNotNil(err)
	})

	biff.Alternative("Unsupported scheme", func(a *biff.A) {
		_, err := Parse("ftp://host/file.json")
		biff.AssertTrue(errors.Is(err, ErrUnsupportedScheme))
	})
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	opener := NewOpener(Config{})
	ctx := context.Background()

	for _, name := range []string{"plain.json", "data.json.gz", "data.json.zst", "data.json.lz4"} {
		biff.Alternative(name, func(a *biff.A) {
			location := filepath.Join(dir, name)

			w, err := opener.Create(ctx, location)
			biff.AssertNil(err)
			_, err = io.WriteString(w, document)
			biff.AssertNil(err)
			biff.AssertNil(w.Close())

			r, err := opener.Open(ctx, location)
			biff.AssertNil(err)
			defer r.Close()

			content, err := io.ReadAll(r)
			biff.AssertNil(err)
			biff.AssertEqual(string(content), document)
		})
	}
}

func TestCompressedOnDisk(t *testing.T) {
	location := filepath.Join(t.TempDir(), "data.json.gz")

	w, err := NewOpener(Config{}).Create(context.Background(), location)
	biff.AssertNil(err)
	_, err = io.WriteString(w, document)
	biff.AssertNil(err)
	biff.AssertNil(w.Close())

	raw, err := os.ReadFile(location)
	biff.AssertNil(err)
	// gzip magic number
	biff.AssertEqual(raw[:2], []byte{0x1f, 0x8b})
}

func TestCreate_VisibleOnlyAfterClose(t *testing.T) {

	for _, name := range []string{"out.json", "out.json.zst"} {
		biff.Alternative(name, func(a *biff.A) {
			dir := t.TempDir()
			location := filepath.Join(dir, name)

			w, err := NewOpener(Config{}).Create(context.Background(), location)
			biff.AssertNil(err)
			_, err = io.WriteString(w, document)
			biff.AssertNil(err)

			_, err = os.Stat(location)
			biff.AssertTrue(os.IsNotExist(err))

			a.Alternative("Close publishes", func(a *biff.A) {
				biff.AssertNil(w.Close())
				_, err := os.Stat(location)
				biff.AssertNil(err)
				biff.AssertEqual(len(entries(dir)), 1)
			})

			a.Alternative("Abort leaves nothing", func(a *biff.A) {
				biff.AssertNil(w.Abort())
				_, err := os.Stat(location)
				biff.AssertTrue(os.IsNotExist(err))
				biff.AssertEqual(len(entries(dir)), 0)
			})
		})
	}
}

func TestCreate_KeepsPreviousOnAbort(t *testing.T) {
	location := filepath.Join(t.TempDir(), "out.json")
	biff.AssertNil(os.WriteFile(location, []byte("previous"), 0644))

	w, err := NewOpener(Config{}).Create(context.Background(), location)
	biff.AssertNil(err)
	io.WriteString(w, `[[1],[1,`)
	biff.AssertNil(w.Abort())

	content, err := os.ReadFile(location)
	biff.AssertNil(err)
	biff.AssertEqual(string(content), "previous")
}

func entries(dir string) []string {
	list, err := os.ReadDir(dir)
	if err != nil {
		panic(err)
	}
	names := []string{}
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}

func TestOpen_Missing(t *testing.T) {
	_, err := NewOpener(Config{}).Open(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	biff.AssertTrue(errors.Is(err, os.ErrNotExist))
}

func TestOpen_S3WithoutEndpoint(t *testing.T) {
	_, err := NewOpener(Config{}).Open(context.Background(), "s3://bucket/input.json")
	biff.AssertNotNil(err)
	biff.AssertTrue(strings.Contains(err.Error(), "s3 endpoint is not configured"))
}

func TestCodecOf(t *testing.T) {
	biff.AssertEqual(codecOf("a.json.gz"), CodecGzip)
	biff.AssertEqual(codecOf("a.json.zst"), CodecZstd)
	biff.AssertEqual(codecOf("a.json.lz4"), CodecLZ4)
	biff.AssertEqual(codecOf("a.json"), "")
	biff.AssertEqual(contentType("a.json"), "application/json")
}
