package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/doctext"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	raw, err := os.ReadFile(c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot read %s: %v\n", c.Path, err)
		return err
	}

	outcomes := deps.Processor.IngestManifest(deps.Ctx, raw, c.Dataset)
	if len(outcomes) == 0 {
		fmt.Fprintln(deps.Stdout, "Manifest references no documents.")
		return nil
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", o.URL, doctext.ErrorMessage(o.Err))
			continue
		}
		fmt.Fprintf(deps.Stdout, "  done %s\n", o.URL)
	}

	fmt.Fprintf(deps.Stdout, "Processed %d of %d documents\n", len(outcomes)-failed, len(outcomes))
	return nil
}
