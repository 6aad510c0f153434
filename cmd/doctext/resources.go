package main

import (
	"fmt"

	"github.com/fwojciec/doctext"
)

// Run executes the resources command.
func (c *ResourcesCmd) Run(deps *Dependencies) error {
	filter := doctext.ResourceFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Dataset != "" {
		filter.DatasetID = &c.Dataset
	}

	resources, err := deps.Resources.FindResources(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doctext.ErrorMessage(err))
		return err
	}

	if len(resources) == 0 {
		fmt.Fprintln(deps.Stdout, "No resources found. Use 'doctext add' to create one.")
		return nil
	}

	for _, r := range resources {
		extracted := " "
		if _, ok := r.Extras[doctext.ExtrasTextKey]; ok {
			extracted = "*"
		}
		fmt.Fprintf(deps.Stdout, "%s %s  %s  %s\n", extracted, r.ID, r.DatasetID, r.Source())
	}

	return nil
}
