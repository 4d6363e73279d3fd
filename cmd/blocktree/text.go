package main

import (
	"fmt"

	"github.com/factex/blocktree"
)

// Run executes the text command.
func (c *TextCmd) Run(deps *Dependencies) error {
	applyParsing(deps.Pipeline, c.Selector, c.Skip)

	exs := make([]*blocktree.Extraction, 0, len(c.Sources))
	for _, source := range c.Sources {
		tree, err := deps.Pipeline.FromSource(deps.Ctx, source)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", blocktree.ErrorMessage(err))
			return err
		}

		texts := tree.TextNodes()
		if c.Markdown {
			markdown, err := deps.Converter.Convert(tree.HTML())
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", blocktree.ErrorMessage(err))
				return err
			}
			texts = []string{markdown}
		}
		exs = append(exs, &blocktree.Extraction{URL: source, Texts: texts})
	}

	if c.JSON {
		if len(exs) == 1 {
			return printJSON(deps.Stdout, struct {
				Texts []string `json:"texts"`
			}{Texts: exs[0].Texts})
		}
		type page struct {
			URL   string   `json:"url"`
			Texts []string `json:"texts"`
		}
		pages := make([]page, len(exs))
		for i, ex := range exs {
			pages[i] = page{URL: ex.URL, Texts: ex.Texts}
		}
		return printJSON(deps.Stdout, struct {
			Pages []page `json:"pages"`
		}{Pages: pages})
	}

	// A single source prints bare blocks; several print with per-page
	// headers.
	var out string
	if len(exs) == 1 {
		out = blocktree.FormatTexts(exs[0].Texts)
	} else {
		out = blocktree.FormatExtractions(exs)
	}
	if out != "" {
		fmt.Fprintln(deps.Stdout, out)
	}
	return nil
}
