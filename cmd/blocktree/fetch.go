package main

import (
	"fmt"
	"path/filepath"

	"github.com/factex/blocktree"
	"github.com/factex/blocktree/extract"
	"github.com/factex/blocktree/fs"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	deps.Pipeline.Concurrency = c.Concurrency

	results := deps.Pipeline.FromURLs(deps.Ctx, c.URLs, func(done, total int, url string, err error) {
		if err != nil {
			fmt.Fprintf(deps.Stderr, "[%d/%d] failed %s: %s\n", done, total, url, blocktree.ErrorMessage(err))
			return
		}
		fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", done, total, url)
	})

	trees := make([]*blocktree.Tree, len(results))
	for i, res := range results {
		trees[i] = res.Tree
	}

	texts := make([][]string, len(results))
	if c.Dedup {
		texts = extract.DedupTexts(trees)
	} else {
		for i, tree := range trees {
			if tree != nil {
				texts[i] = tree.TextNodes()
			}
		}
	}

	// All pages land in a temp directory first; the batch becomes
	// visible only on Commit.
	store := fs.NewFileStore(c.Out, c.Name)
	saved, failed := 0, 0
	for i, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		ex := &blocktree.Extraction{URL: res.URL, Texts: texts[i]}
		if err := store.WriteExtraction(deps.Ctx, ex); err != nil {
			_ = store.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s\n", blocktree.ErrorMessage(err))
			return err
		}
		saved++
	}

	if saved == 0 {
		_ = store.Abort()
		return blocktree.Errorf(blocktree.EINTERNAL, "no pages could be extracted")
	}
	if err := store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blocktree.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d pages to %s (%d failed)\n",
		saved, filepath.Join(c.Out, c.Name), failed)
	return nil
}
