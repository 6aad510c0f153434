package main

// Run executes the process command.
func (c *ProcessCmd) Run(deps *Dependencies) error {
	return processResource(deps, c.ID)
}
