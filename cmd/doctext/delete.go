package main

import (
	"fmt"

	"github.com/fwojciec/doctext"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Resources.DeleteResource(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doctext.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted resource %s\n", c.ID)
	return nil
}
