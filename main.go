package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mcncl/gbln/internal/config"
	"github.com/mcncl/gbln/internal/errors"
	"github.com/mcncl/gbln/internal/logging"
)

// cli defines the command-line interface
type cli struct {
	Debug      bool   `help:"Enable debug logging." short:"d"`
	Config     string `help:"Path to a config file. Defaults to the nearest .gbln.yml." short:"c" type:"path"`
	Pretty     bool   `help:"Write the indented dialect instead of mini."`
	NoCompress bool   `help:"Do not compress written files." name:"no-compress"`
	Level      int    `help:"Compression level 0-9 (-1 keeps the configured level)." default:"-1"`
	Indent     int    `help:"Indent width for pretty output (-1 keeps the configured width)." default:"-1"`

	Fmt      FmtCmd      `cmd:"" help:"Print a GBLN file in the indented dialect."`
	Mini     MiniCmd     `cmd:"" help:"Print a GBLN file in the mini dialect."`
	Check    CheckCmd    `cmd:"" help:"Validate GBLN files."`
	Pack     PackCmd     `cmd:"" help:"Write a GBLN file in the I/O format."`
	Unpack   UnpackCmd   `cmd:"" help:"Decompress an I/O format file to text."`
	ToJSON   ToJSONCmd   `cmd:"" name:"to-json" help:"Convert GBLN to JSON."`
	FromJSON FromJSONCmd `cmd:"" name:"from-json" help:"Convert JSON to GBLN."`
	Browse   BrowseCmd   `cmd:"" help:"Explore a GBLN file interactively."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// CLI holds the parsed command line
var CLI cli

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
)

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("gbln"),
		kong.Description("Read, write and convert GBLN documents"),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	ctx, err := newContext(&CLI)
	if err != nil {
		report(os.Stderr, err, isTerminal(os.Stderr))
		os.Exit(1)
	}

	if err := kctx.Run(ctx); err != nil {
		report(os.Stderr, err, isTerminal(os.Stderr))
		os.Exit(1)
	}
}

// newContext sets up logging and resolves the effective config:
// flags > config file > defaults.
func newContext(c *cli) (*Context, error) {
	logger, err := logging.New(c.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	logging.Set(logger)

	path := c.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(path, c.overrides())
	if err != nil {
		return nil, err
	}

	return &Context{
		Debug:  c.Debug,
		Config: cfg,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

// overrides returns only the flags that were actually given.
func (c *cli) overrides() config.Overrides {
	var o config.Overrides
	if c.Pretty {
		pretty := true
		o.Pretty = &pretty
	}
	if c.NoCompress {
		noCompress := true
		o.NoCompress = &noCompress
	}
	if c.Level >= 0 {
		level := uint8(255)
		if c.Level < 255 {
			level = uint8(c.Level)
		}
		o.Level = &level
	}
	if c.Indent >= 0 {
		indent := c.Indent
		o.Indent = &indent
	}
	return o
}

// report writes a user-friendly error and its remediation hint
func report(w io.Writer, err error, color bool) {
	msg := errors.UserFriendlyError(err)
	hint, hasHint := errors.Suggestion(err)
	if color {
		msg = errorStyle.Render(msg)
		if hasHint {
			hint = hintStyle.Render(hint)
		}
	}
	_, _ = fmt.Fprintln(w, msg)
	if hasHint {
		_, _ = fmt.Fprintf(w, "hint: %s\n", hint)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
