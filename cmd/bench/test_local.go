package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fulldump/itemclosure/expander"
	"github.com/fulldump/itemclosure/itemset"
	"github.com/fulldump/itemclosure/keys"
	"github.com/fulldump/itemclosure/store"
)

// TestLocal expands the same batch with every representation and backend.
func TestLocal(c Config) {

	batch, err := itemset.FromRecords(Generate(c))
	if err != nil {
		panic(err)
	}
	fmt.Printf("itemsets: %d, items: %d, largest: %d\n", batch.Len(), batch.Items(), batch.Largest())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REPRESENTATION\tBACKEND\tWORKERS\tCOUNT\tCALLS\tELAPSED")
	for _, representation := range keys.Representations() {
		for _, backend := range store.Backends() {
			for _, workers := range []int{1, c.Workers} {
				o := expander.DefaultOptions()
				o.Representation = representation
				o.Backend = backend
				o.Workers = workers

				report, err := expander.Run(context.Background(), batch, o)
				if err != nil {
					fmt.Fprintf(w, "%s\t%s\t%d\terror: %s\n", representation, backend, workers, err)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n", representation, backend, report.Workers, report.Count, report.Calls, report.Elapsed)
			}
		}
	}
	w.Flush()
}
