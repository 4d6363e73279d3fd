package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/factex/blocktree"
	"github.com/factex/blocktree/extract"
	"github.com/factex/blocktree/goquery"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Pipeline  *extract.Pipeline
	Converter blocktree.Converter

	// RenderFetcher is the browser-backed fetcher the probe command
	// compares against the pipeline's plain fetcher.
	RenderFetcher blocktree.Fetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Render  bool          `help:"Fetch pages with a headless browser"`
	Timeout time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Cache   string        `help:"SQLite page cache path (or BLOCKTREE_CACHE)"`
	RPS     float64       `name:"rps" default:"2" help:"Per-domain requests per second"`
	Verbose bool          `short:"v" help:"Log fetches to stderr"`

	Text   TextCmd   `cmd:"" help:"Extract text blocks from pages"`
	Groups GroupsCmd `cmd:"" help:"Group text blocks that share a sense"`
	Diff   DiffCmd   `cmd:"" help:"Subtract template pages and extract what remains"`
	Fetch  FetchCmd  `cmd:"" help:"Extract a batch of URLs into files"`
	Probe  ProbeCmd  `cmd:"" help:"Check whether a page needs browser rendering"`
	Serve  ServeCmd  `cmd:"" help:"Run the extraction HTTP API"`
}

// TextCmd is the "text" subcommand.
type TextCmd struct {
	Sources  []string `arg:"" help:"Page URLs or file paths"`
	Selector string   `short:"s" help:"Scope parsing to a CSS selector match"`
	Skip     []string `help:"Replace the default set of discarded tags"`
	Markdown bool     `short:"m" help:"Emit pages as Markdown instead of blocks"`
	JSON     bool     `help:"Emit JSON"`
}

// GroupsCmd is the "groups" subcommand.
type GroupsCmd struct {
	Source   string `arg:"" help:"Page URL or file path"`
	Selector string `short:"s" help:"Scope parsing to a CSS selector match"`
	Depth    int    `short:"d" help:"Bound the grouping signature to the last N tags"`
	JSON     bool   `help:"Emit JSON"`
}

// DiffCmd is the "diff" subcommand.
type DiffCmd struct {
	Primary   string   `arg:"" help:"Page to extract"`
	Templates []string `arg:"" optional:"" help:"Template pages to subtract"`
	Selector  string   `short:"s" help:"Scope parsing to a CSS selector match"`
	Discover  bool     `help:"Discover template pages from the site when none are given"`
	Greedy    bool     `help:"Tolerate reordered template children"`
	Classes   bool     `help:"Require aligned nodes to share a style class"`
	Cross     bool     `help:"Keep only content shared with the templates"`
	Markdown  bool     `short:"m" help:"Emit the result as Markdown instead of blocks"`
	JSON      bool     `help:"Emit JSON"`
	Out       string   `short:"o" help:"Write the result under this directory instead of stdout"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URLs        []string `arg:"" help:"Pages to extract"`
	Out         string   `short:"o" default:"." help:"Base path for output"`
	Name        string   `default:"extracted" help:"Name of the batch directory under the base path"`
	Concurrency int      `short:"c" default:"10" help:"Concurrent fetch limit"`
	Dedup       bool     `help:"Suppress texts repeated across pages"`
}

// ProbeCmd is the "probe" subcommand.
type ProbeCmd struct {
	URL      string `arg:"" help:"Page URL to probe"`
	Selector string `short:"s" help:"Scope parsing to a CSS selector match"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Config string `help:"YAML config file path"`
	Addr   string `help:"Listen address override"`
}

// applyParsing points the pipeline at a selector-scoped parser and
// replaces the skip set when asked. The zero values leave the pipeline's
// defaults alone.
func applyParsing(p *extract.Pipeline, selector string, skip []string) {
	if selector != "" {
		p.Parser = goquery.NewParser(selector)
	}
	if len(skip) > 0 {
		p.BuildOptions = append(p.BuildOptions, blocktree.WithSkipTags(skip...))
	}
}

// printJSON writes v indented to w.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
