package main

import (
	"fmt"

	"github.com/factex/blocktree"
)

// Run executes the groups command.
func (c *GroupsCmd) Run(deps *Dependencies) error {
	applyParsing(deps.Pipeline, c.Selector, nil)

	tree, err := deps.Pipeline.FromSource(deps.Ctx, c.Source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blocktree.ErrorMessage(err))
		return err
	}

	var opts []blocktree.ClusterOption
	if c.Depth > 0 {
		opts = append(opts, blocktree.WithClusterDepth(c.Depth))
	}
	groups := tree.SimilarSenseTexts(opts...)

	if c.JSON {
		return printJSON(deps.Stdout, struct {
			Groups [][]string `json:"groups"`
		}{Groups: groups})
	}

	if out := blocktree.FormatGroups(groups); out != "" {
		fmt.Fprintln(deps.Stdout, out)
	}
	return nil
}
