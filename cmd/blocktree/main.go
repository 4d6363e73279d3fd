package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/factex/blocktree"
	"github.com/factex/blocktree/extract"
	"github.com/factex/blocktree/htmltomarkdown"
	bthttp "github.com/factex/blocktree/http"
	"github.com/factex/blocktree/rod"
	btslog "github.com/factex/blocktree/slog"
	"github.com/factex/blocktree/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// Load .env if present; real environment variables take precedence.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database backing the page cache, when one is configured.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("blocktree"),
		kong.Description("Extract readable text blocks from markup pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'blocktree --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = slog.New(slog.NewTextHandler(stderr, nil))
	deps.Converter = htmltomarkdown.NewConverter()

	// The serve command builds its own stack from the config file; every
	// other command extracts locally and needs a fetcher for URL sources.
	if cmd != "serve" {
		// Probe always compares the plain fetch against the browser.
		if cmd == "probe" {
			cli.Render = false
		}

		fetcher, err := m.openFetcher(cli, stderr, deps.Logger)
		if err != nil {
			return err
		}
		defer fetcher.Close()
		defer m.Close()

		deps.Pipeline = &extract.Pipeline{
			Fetcher: fetcher,
			Limiter: extract.NewDomainLimiter(cli.RPS),
			Finder:  bthttp.NewTemplateFinder(nil),
			Log: func(format string, logArgs ...any) {
				fmt.Fprintf(stderr, format+"\n", logArgs...)
			},
		}

		if cmd == "probe" {
			browser, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer browser.Close()
			deps.RenderFetcher = browser
		}
	}

	return kongCtx.Run(deps)
}

// openFetcher builds the fetcher chain the flags ask for: plain HTTP or
// a headless browser, optionally behind the SQLite page cache and the
// logging decorator.
func (m *Main) openFetcher(cli *CLI, stderr io.Writer, logger *slog.Logger) (blocktree.Fetcher, error) {
	var fetcher blocktree.Fetcher
	if cli.Render {
		rodFetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rodFetcher
	} else {
		fetcher = bthttp.NewFetcher(bthttp.WithTimeout(cli.Timeout))
	}

	if path := cachePath(cli); path != "" {
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set BLOCKTREE_CACHE to use a different cache path\n")
			return nil, fmt.Errorf("failed to open page cache at %q: %w", path, err)
		}
		fetcher = extract.NewCachingFetcher(fetcher, sqlite.NewPageService(m.DB))
	}

	if cli.Verbose {
		fetcher = btslog.NewLoggingFetcher(fetcher, logger)
	}
	return fetcher, nil
}

func cachePath(cli *CLI) string {
	if cli.Cache != "" {
		return cli.Cache
	}
	return os.Getenv("BLOCKTREE_CACHE")
}
