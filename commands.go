package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/gbln/internal/bridge"
	"github.com/mcncl/gbln/internal/codec"
	"github.com/mcncl/gbln/internal/errors"
	"github.com/mcncl/gbln/internal/formatter"
	"github.com/mcncl/gbln/internal/value"
)

// FmtCmd prints a document in the indented dialect
type FmtCmd struct {
	File string `arg:"" optional:"" type:"path" help:"GBLN file, compressed or not. Reads stdin when omitted."`
}

func (c *FmtCmd) Run(ctx *Context) error {
	v, err := readValue(ctx, c.File)
	if err != nil {
		return err
	}
	return writeText(ctx.Stdout, formatter.Pretty(v, ctx.Config.Indent))
}

// MiniCmd prints a document in the mini dialect
type MiniCmd struct {
	File string `arg:"" optional:"" type:"path" help:"GBLN file, compressed or not. Reads stdin when omitted."`
}

func (c *MiniCmd) Run(ctx *Context) error {
	v, err := readValue(ctx, c.File)
	if err != nil {
		return err
	}
	return writeText(ctx.Stdout, formatter.Mini(v))
}

// CheckCmd validates files and reports each result
type CheckCmd struct {
	Files []string `arg:"" type:"path" help:"GBLN files to validate."`
}

func (c *CheckCmd) Run(ctx *Context) error {
	failed := 0
	for _, path := range c.Files {
		if _, err := codec.ReadIO(path); err != nil {
			failed++
			_, _ = fmt.Fprintf(ctx.Stdout, "FAIL %s: %s\n", path, errors.UserFriendlyError(err))
			continue
		}
		_, _ = fmt.Fprintf(ctx.Stdout, "ok   %s\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(c.Files))
	}
	return nil
}

// PackCmd writes a document using the effective config
type PackCmd struct {
	Input  string `arg:"" optional:"" type:"path" help:"GBLN input file. Reads stdin when omitted."`
	Output string `help:"Output path. Defaults to the input name with the format's extension." short:"o" type:"path"`
}

func (c *PackCmd) Run(ctx *Context) error {
	v, err := readValue(ctx, c.Input)
	if err != nil {
		return err
	}

	out := c.Output
	if out == "" {
		if c.Input == "" {
			return errors.NewIOError("an output path is required when reading stdin", errors.ErrInvalidFilePath).
				WithSuggestion("pass --output")
		}
		out = strings.TrimSuffix(c.Input, ".gbln") + ctx.Config.Extension()
	}

	if err := codec.WriteIO(v, out, ctx.Config); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ctx.Stderr, "Packed to %s\n", out)
	return nil
}

// UnpackCmd writes a document as uncompressed text
type UnpackCmd struct {
	Input  string `arg:"" type:"path" help:"GBLN input file."`
	Output string `help:"Output path. Writes to stdout when omitted." short:"o" type:"path"`
}

func (c *UnpackCmd) Run(ctx *Context) error {
	v, err := codec.ReadIO(c.Input)
	if err != nil {
		return err
	}

	cfg := ctx.Config
	cfg.Compress = false
	if c.Output != "" {
		return codec.WriteIO(v, c.Output, cfg)
	}

	data, err := codec.Encode(v, cfg)
	if err != nil {
		return err
	}
	return writeText(ctx.Stdout, strings.TrimSuffix(string(data), "\n"))
}

// ToJSONCmd converts a document to JSON
type ToJSONCmd struct {
	File    string `arg:"" optional:"" type:"path" help:"GBLN file, compressed or not. Reads stdin when omitted."`
	Compact bool   `help:"Write JSON on one line."`
}

func (c *ToJSONCmd) Run(ctx *Context) error {
	v, err := readValue(ctx, c.File)
	if err != nil {
		return err
	}
	indent := ""
	if !c.Compact {
		indent = strings.Repeat(" ", ctx.Config.Indent)
	}
	data, err := bridge.ToJSON(v, indent)
	if err != nil {
		return err
	}
	_, err = ctx.Stdout.Write(data)
	if err != nil {
		return errors.NewIOError("failed to write to stdout", err)
	}
	return nil
}

// FromJSONCmd converts JSON to a document
type FromJSONCmd struct {
	File string `arg:"" optional:"" type:"path" help:"JSON file. Reads stdin when omitted."`
	Keys string `help:"Rewrite keys as snake, camel or kebab case." placeholder:"CASE"`
}

func (c *FromJSONCmd) Run(ctx *Context) error {
	kc, err := bridge.ParseKeyCase(c.Keys)
	if err != nil {
		return err
	}
	data, err := readInput(ctx, c.File)
	if err != nil {
		return err
	}
	v, err := bridge.FromJSON(bytes.NewReader(data), kc)
	if err != nil {
		return err
	}
	return render(ctx, v)
}

// BrowseCmd opens the interactive tree browser
type BrowseCmd struct {
	File string `arg:"" type:"path" help:"GBLN file, compressed or not."`
}

func (c *BrowseCmd) Run(ctx *Context) error {
	return runBrowse(c.File)
}

// VersionCmd prints the version
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "gbln version %s\n", Version)
	return err
}

// render writes v as text in the configured dialect
func render(ctx *Context, v *value.Value) error {
	if ctx.Config.MiniMode {
		return writeText(ctx.Stdout, formatter.Mini(v))
	}
	return writeText(ctx.Stdout, formatter.Pretty(v, ctx.Config.Indent))
}

// readInput reads a file, or stdin when path is empty
func readInput(ctx *Context, path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.CodeIO, fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
			}
			return nil, errors.NewIOError(fmt.Sprintf("failed to read file '%s'", path), err)
		}
		return data, nil
	}

	// Refuse to block on an interactive terminal
	if f, ok := ctx.Stdin.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return nil, errors.NewIOError("failed to access stdin", err)
		}
		if info.Mode()&os.ModeCharDevice != 0 {
			return nil, errors.Wrap(errors.CodeUnexpectedEOF, "no input provided", errors.ErrEmptyInput).
				WithSuggestion("pass a file or pipe data on stdin")
		}
	}

	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return nil, errors.NewIOError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return nil, errors.Wrap(errors.CodeUnexpectedEOF, "empty input received from stdin", errors.ErrEmptyInput)
	}
	return data, nil
}

// readValue reads a document from a file or stdin, decompressing if needed
func readValue(ctx *Context, path string) (*value.Value, error) {
	if path != "" {
		return codec.ReadIO(path)
	}
	data, err := readInput(ctx, "")
	if err != nil {
		return nil, err
	}
	return codec.Decode(data)
}

func writeText(w io.Writer, text string) error {
	if _, err := fmt.Fprintln(w, text); err != nil {
		return errors.NewIOError("failed to write output", err)
	}
	return nil
}
