package main

import (
	"fmt"
	"net/http"

	dochttp "github.com/fwojciec/doctext/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	handler := dochttp.NewActionHandler(deps.Processor, deps.Logger)

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", c.Addr)

	srv := &http.Server{Addr: c.Addr, Handler: handler.Router()}
	return srv.ListenAndServe()
}
