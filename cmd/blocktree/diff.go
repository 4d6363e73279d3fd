package main

import (
	"fmt"
	"path/filepath"

	"github.com/factex/blocktree"
	"github.com/factex/blocktree/fs"
)

// Run executes the diff command.
func (c *DiffCmd) Run(deps *Dependencies) error {
	applyParsing(deps.Pipeline, c.Selector, nil)

	// Template discovery is opt-in on the command line; without the flag
	// an empty template list means a plain extraction.
	if !c.Discover {
		deps.Pipeline.Finder = nil
	}

	var opts []blocktree.SubtractOption
	if c.Greedy {
		opts = append(opts, blocktree.WithGreedyAlignment())
	}
	if c.Classes {
		opts = append(opts, blocktree.WithClassAwareAlignment())
	}

	var tree *blocktree.Tree
	var err error
	if c.Cross {
		tree, err = deps.Pipeline.CrossSources(deps.Ctx, c.Primary, c.Templates, opts...)
	} else {
		tree, err = deps.Pipeline.DiffSources(deps.Ctx, c.Primary, c.Templates, opts...)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blocktree.ErrorMessage(err))
		return err
	}

	if c.Out != "" {
		writer := fs.NewWriter(c.Out)
		ex := &blocktree.Extraction{URL: c.Primary, Texts: tree.TextNodes()}
		if err := writer.WriteExtraction(deps.Ctx, ex); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", blocktree.ErrorMessage(err))
			return err
		}
		path, _ := fs.URLToPath(c.Primary)
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", filepath.Join(c.Out, path))
		return nil
	}

	if c.Markdown {
		markdown, err := deps.Converter.Convert(tree.HTML())
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", blocktree.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, markdown)
		return nil
	}

	if c.JSON {
		return printJSON(deps.Stdout, struct {
			Texts []string `json:"texts"`
		}{Texts: tree.TextNodes()})
	}

	if out := blocktree.FormatTexts(tree.TextNodes()); out != "" {
		fmt.Fprintln(deps.Stdout, out)
	}
	return nil
}
