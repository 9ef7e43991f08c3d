package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/itemclosure/blob"
	"github.com/fulldump/itemclosure/bootstrap"
	"github.com/fulldump/itemclosure/configuration"
	"github.com/fulldump/itemclosure/expander"
	"github.com/fulldump/itemclosure/itemset"
	"github.com/fulldump/itemclosure/logger"
)

var VERSION = "dev"

var banner = `
 _ _                      _                           
(_) |_ ___ _ __ ___   ___| | ___  ___ _   _ _ __ ___  
| | __/ _ \ '_ ' _ \ / __| |/ _ \/ __| | | | '__/ _ \ 
| | ||  __/ | | | | | (__| | (_) \__ \ |_| | | |  __/ 
|_|\__\___|_| |_| |_|\___|_|\___/|___/\__,_|_|  \___| 
                                   version ` + VERSION + `
`

func main() {

	// flags may follow the input, the flag package stops at the first
	// positional argument
	args, input, err := configuration.Args(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err.Error())
		os.Exit(2)
	}
	os.Args = append(os.Args[:1], args...)

	c := configuration.Default()
	goconfig.Read(&c)
	if c.Input == "" {
		c.Input = input
	}

	if c.Version {
		fmt.Println("Version:", VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c.Redacted())
	}

	if err := c.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err.Error())
		os.Exit(2)
	}

	l, err := logger.New(c.LogFormat, c.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err.Error())
		os.Exit(2)
	}

	if c.Serve {
		bootstrap.VERSION = VERSION
		start, _, err := bootstrap.Bootstrap(&c, l)
		if err != nil {
			l.Error("bootstrap", "error", err)
			os.Exit(1)
		}
		start()
		return
	}

	count, err := run(context.Background(), &c, l)
	if err != nil {
		l.Error("run", "error", err)
		os.Exit(1)
	}

	fmt.Println("Exploder result:", count)
}

// run expands the input and writes the output, if any, only once the
// expansion succeeded.
func run(ctx context.Context, c *configuration.Configuration, l *logger.Logger) (int, error) {

	filter, err := itemset.ParseFilter(c.Filter)
	if err != nil {
		return 0, err
	}

	opener := blob.NewOpener(blob.Config{
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Secure:    c.S3Secure,
	})

	batch, err := load(ctx, opener, c.Input, filter)
	l.LogLoad(ctx, c.Input, batchLen(batch), err)
	if err != nil {
		return 0, err
	}

	o := c.Options()
	report, err := expander.Run(ctx, batch, o)
	if err != nil {
		l.LogRun(ctx, logger.Run{Representation: o.Representation, Backend: o.Backend}, err)
		return 0, err
	}
	l.LogRun(ctx, logger.Run{
		Representation: report.Representation,
		Backend:        report.Backend,
		Hash:           report.Hash,
		Lossy:          report.Lossy,
		Itemsets:       report.Itemsets,
		Items:          report.Items,
		Count:          report.Count,
		Calls:          report.Calls,
		Workers:        report.Workers,
		Elapsed:        report.Elapsed,
	}, nil)

	if c.Output != "" {
		err := writeOutput(ctx, opener, c.Output, func(w io.Writer) error {
			return report.WriteJSON(w, c.Pretty)
		})
		if err != nil {
			return 0, fmt.Errorf("write '%s': %w", c.Output, err)
		}
	}

	return report.Count, nil
}

// writeOutput publishes what write produces at location, or nothing if write
// fails.
func writeOutput(ctx context.Context, opener *blob.Opener, location string, write func(w io.Writer) error) error {
	w, err := opener.Create(ctx, location)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}

func load(ctx context.Context, opener *blob.Opener, location string, filter map[string]interface{}) (*itemset.Batch, error) {
	r, err := opener.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return itemset.Load(r, itemset.LoadOptions{Filter: filter})
}

func batchLen(b *itemset.Batch) int {
	if b == nil {
		return 0
	}
	return b.Len()
}
