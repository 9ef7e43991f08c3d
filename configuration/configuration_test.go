package configuration

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/itemclosure/keys"
	"github.com/fulldump/itemclosure/service"
	"github.com/fulldump/itemclosure/store"
)

func TestDefault(t *testing.T) {
	c := Default()
	c.Input = "input.json"
	biff.AssertNil(c.Validate())
	biff.AssertEqual(c.Representation, keys.RepresentationSequence)
	biff.AssertEqual(c.Workers, 1)
}

func TestValidate(t *testing.T) {

	biff.Alternative("Missing input", func(a *biff.A) {
		c := Default()
		biff.AssertNotNil(c.Validate())

		a.Alternative("Serve does not need input", func(a *biff.A) {
			c.Serve = true
			biff.AssertNil(c.Validate())
		})
	})

	biff.Alternative("Unknown representation", func(a *biff.A) {
		c := Default()
		c.Input = "-"
		c.Representation = "hashonly"
		biff.AssertTrue(errors.Is(c.Validate(), keys.ErrUnknownRepresentation))
	})

	biff.Alternative("Unknown backend", func(a *biff.A) {
		c := Default()
		c.Input = "-"
		c.Backend = "hashmap"
		biff.AssertTrue(errors.Is(c.Validate(), store.ErrUnknownBackend))
	})

	biff.Alternative("Bad filter", func(a *biff.A) {
		c := Default()
		c.Input = "-"
		c.Filter = "{support"
		biff.AssertNotNil(c.Validate())
	})

	biff.Alternative("Bad log format", func(a *biff.A) {
		c := Default()
		c.Input = "-"
		c.LogFormat = "xml"
		biff.AssertNotNil(c.Validate())
	})

	biff.Alternative("Max itemset", func(a *biff.A) {
		c := Default()
		c.Serve = true
		biff.AssertEqual(c.MaxItemset, service.DefaultMaxItemset)

		a.Alternative("Zero", func(a *biff.A) {
			c.MaxItemset = 0
			biff.AssertNotNil(c.Validate())
		})
	})
}

func TestRedacted(t *testing.T) {

	biff.Alternative("Secret key is masked", func(a *biff.A) {
		c := Default()
		c.S3AccessKey = "minio"
		c.S3SecretKey = "minio123"

		r := c.Redacted()
		biff.AssertEqual(r.S3SecretKey, "******")
		biff.AssertEqual(r.S3AccessKey, "minio")
		biff.AssertEqual(c.S3SecretKey, "minio123")

		b, err := json.Marshal(r)
		biff.AssertNil(err)
		biff.AssertFalse(strings.Contains(string(b), "minio123"))
	})

	biff.Alternative("Empty secret stays empty", func(a *biff.A) {
		biff.AssertEqual(Default().Redacted().S3SecretKey, "")
	})
}

func TestArgs(t *testing.T) {

	biff.Alternative("Input only", func(a *biff.A) {
		ordered, input, err := Args([]string{"input.json"})
		biff.AssertNil(err)
		biff.AssertEqual(input, "input.json")
		biff.AssertEqual(ordered, []string{"--", "input.json"})
	})

	biff.Alternative("Flags before input", func(a *biff.A) {
		ordered, input, err := Args([]string{"-representation", "bitmask", "input.json"})
		biff.AssertNil(err)
		biff.AssertEqual(input, "input.json")
		biff.AssertEqual(ordered, []string{"-representation", "bitmask", "--", "input.json"})
	})

	biff.Alternative("Flags after input", func(a *biff.A) {
		ordered, input, err := Args([]string{"in.json", "-representation", "bitmask", "-pretty"})
		biff.AssertNil(err)
		biff.AssertEqual(input, "in.json")
		biff.AssertEqual(ordered, []string{"-representation", "bitmask", "-pretty", "--", "in.json"})
	})

	biff.Alternative("Inline values and stdin", func(a *biff.A) {
		ordered, input, err := Args([]string{"-", "-output=out.json.gz", "-showconfig"})
		biff.AssertNil(err)
		biff.AssertEqual(input, "-")
		biff.AssertEqual(ordered, []string{"-output=out.json.gz", "-showconfig", "--", "-"})
	})

	biff.Alternative("No input", func(a *biff.A) {
		ordered, input, err := Args([]string{"-workers", "4"})
		biff.AssertNil(err)
		biff.AssertEqual(input, "")
		biff.AssertEqual(ordered, []string{"-workers", "4"})
	})

	biff.Alternative("Double dash", func(a *biff.A) {
		_, input, err := Args([]string{"-serve", "--", "-odd-name.json"})
		biff.AssertNil(err)
		biff.AssertEqual(input, "-odd-name.json")
	})

	biff.Alternative("Two inputs", func(a *biff.A) {
		_, _, err := Args([]string{"a.json", "b.json"})
		biff.AssertNotNil(err)
	})
}
