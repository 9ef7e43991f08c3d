package configuration

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fulldump/itemclosure/expander"
	"github.com/fulldump/itemclosure/itemset"
	"github.com/fulldump/itemclosure/logger"
	"github.com/fulldump/itemclosure/service"
)

type Configuration struct {
	Input          string `usage:"input location: path, - for stdin or s3://bucket/key"`
	Output         string `usage:"write the expanded itemsets to this location"`
	Representation string `usage:"key representation: sequence, bitmask, bitvector or digest"`
	Hash           string `usage:"digest hash: fnv, xxhash or maphash"`
	Backend        string `usage:"store backend: map, syncmap, swiss or btree"`
	Width          uint   `usage:"bitvector width, 0 to use 1 + max item"`
	Workers        int    `usage:"expand itemsets in parallel with this many workers"`
	Filter         string `usage:"JSON condition on records, e.g. {\"support\":{\"$gte\":10}}"`
	Pretty         bool   `usage:"indent output"`

	LogLevel  string `usage:"log level: debug, info, warn or error"`
	LogFormat string `usage:"log format: text or json"`

	Serve      bool   `usage:"serve the HTTP API instead of running a batch"`
	HttpAddr   string `usage:"HTTP address"`
	MaxItemset int    `usage:"largest itemset accepted by the HTTP API"`

	S3Endpoint  string `usage:"S3 compatible endpoint for s3:// locations"`
	S3AccessKey string `usage:"S3 access key"`
	S3SecretKey string `usage:"S3 secret key"`
	S3Secure    bool   `usage:"use TLS to reach the S3 endpoint"`

	EnableCompression bool `usage:"gzip HTTP responses"`

	Version    bool `usage:"show version and exit"`
	ShowBanner bool `usage:"show big banner"`
	ShowConfig bool `usage:"print config"`
}

func Default() Configuration {
	o := expander.DefaultOptions()
	return Configuration{
		Representation: o.Representation,
		Hash:           o.Hash,
		Backend:        o.Backend,
		Workers:        o.Workers,
		LogLevel:       "info",
		LogFormat:      logger.FormatText,
		HttpAddr:       "127.0.0.1:8080",
		MaxItemset:     service.DefaultMaxItemset,
		S3Secure:       true,
	}
}

func (c *Configuration) Options() expander.Options {
	return expander.Options{
		Representation: c.Representation,
		Hash:           c.Hash,
		Backend:        c.Backend,
		Width:          c.Width,
		Workers:        c.Workers,
	}
}

func (c *Configuration) Validate() error {

	if err := c.Options().Validate(); err != nil {
		return err
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("unknown log format '%s'", c.LogFormat)
	}

	if _, err := itemset.ParseFilter(c.Filter); err != nil {
		return err
	}

	if c.MaxItemset < 1 {
		return fmt.Errorf("maxitemset must be positive, got %d", c.MaxItemset)
	}

	if !c.Serve && c.Input == "" {
		return fmt.Errorf("missing input, pass -input or a positional argument")
	}

	return nil
}

// Redacted returns a copy of c safe to print.
func (c Configuration) Redacted() Configuration {
	if c.S3SecretKey != "" {
		c.S3SecretKey = "******"
	}
	return c
}

// SplitArgs separates command line flags, with their values, from positional
// arguments. The flag package stops at the first positional argument, so
// `itemclosure in.json -representation bitmask` must be reordered before
// parsing: see Args.
func SplitArgs(args []string) (flags, positional []string) {

	bools := map[string]bool{}
	t := reflect.TypeOf(Configuration{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Bool {
			bools[strings.ToLower(f.Name)] = true
		}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") || bools[strings.ToLower(name)] {
			continue
		}
		if i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}

	return flags, positional
}

// Args reorders args with flags first and returns the positional input. At
// most one positional argument is accepted.
func Args(args []string) (ordered []string, input string, err error) {
	flags, positional := SplitArgs(args)
	if len(positional) > 1 {
		return nil, "", fmt.Errorf("unexpected arguments %q, only one input is accepted", positional[1:])
	}
	ordered = flags
	if len(positional) == 1 {
		input = positional[0]
		ordered = append(ordered, "--", input)
	}
	return ordered, input, nil
}
