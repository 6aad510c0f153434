package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/doctext"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot open %s: %v\n", c.Path, err)
		return err
	}
	defer f.Close()

	name := c.Name
	if name == "" {
		name = filepath.Base(c.Path)
	}

	res := &doctext.Resource{
		DatasetID: c.Dataset,
		Name:      name,
		Format:    c.Format,
	}
	if err := deps.Resources.CreateResource(deps.Ctx, res); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doctext.ErrorMessage(err))
		return err
	}

	if _, err := deps.Files.Save(res.ID, f); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doctext.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added resource %q (%s)\n", name, res.ID)

	if c.NoText {
		return nil
	}

	return processResource(deps, res.ID)
}

// processResource runs extraction for one resource, reporting skips as
// information rather than failures.
func processResource(deps *Dependencies, id string) error {
	err := deps.Processor.ProcessResource(deps.Ctx, id)
	if doctext.ErrorCode(err) == doctext.EUNSUPPORTED {
		fmt.Fprintf(deps.Stdout, "Skipped %s: %s\n", id, doctext.ErrorMessage(err))
		return nil
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doctext.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Extracted text for %s\n", id)
	return nil
}
