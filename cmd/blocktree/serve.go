package main

import (
	"fmt"

	"github.com/factex/blocktree"
	bthttp "github.com/factex/blocktree/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	cfg, err := bthttp.LoadConfig(c.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blocktree.ErrorMessage(err))
		return err
	}
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	server, err := bthttp.NewServer(cfg, deps.Logger, deps.Converter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blocktree.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", cfg.Addr)
	return server.ListenAndServe()
}
