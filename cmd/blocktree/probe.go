package main

import (
	"fmt"

	"github.com/factex/blocktree"
	"github.com/factex/blocktree/extract"
	"github.com/factex/blocktree/goquery"
	"github.com/factex/blocktree/html"
)

// Run executes the probe command. It fetches the page plainly and with
// the browser and reports whether rendering uncovers more content.
func (c *ProbeCmd) Run(deps *Dependencies) error {
	var parser blocktree.Parser
	if c.Selector != "" {
		parser = goquery.NewParser(c.Selector)
	} else {
		parser = html.NewParser()
	}

	plain, err := deps.Pipeline.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		// A page the plain fetcher cannot retrieve at all needs the
		// browser, no comparison required.
		fmt.Fprintf(deps.Stdout, "%s needs --render: plain fetch failed (%s)\n",
			c.URL, blocktree.ErrorMessage(err))
		return nil
	}

	rendered, err := deps.RenderFetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blocktree.ErrorMessage(err))
		return err
	}

	if extract.NeedsRendering(plain, rendered, parser) {
		fmt.Fprintf(deps.Stdout, "%s needs --render: the browser sees more content\n", c.URL)
	} else {
		fmt.Fprintf(deps.Stdout, "%s extracts fine without --render\n", c.URL)
	}
	return nil
}
