package abi

import (
	"github.com/mcncl/gbln/internal/codec"
	"github.com/mcncl/gbln/internal/config"
)

func (b *Boundary) ConfigDefault() Config     { return config.Default() }
func (b *Boundary) ConfigDevelopment() Config { return config.Development() }
func (b *Boundary) ConfigIOFormat() Config    { return config.IOFormat() }

// WriteIO writes the tree at h to path. A nil cfg uses the I/O preset.
func (b *Boundary) WriteIO(h Handle, path string, cfg *Config) Code {
	v, err := b.lookup(h)
	if err != nil {
		return b.record(err)
	}
	c := config.IOFormat()
	if cfg != nil {
		c = *cfg
	}
	return b.record(codec.WriteIO(v, path, c))
}

// ReadIO reads a file written by WriteIO, compressed or not, into a new
// owned tree.
func (b *Boundary) ReadIO(path string) (Code, Handle) {
	v, err := codec.ReadIO(path)
	if err != nil {
		return b.record(err), NullHandle
	}
	b.errs.Clear()
	return CodeOK, b.arena.Own(v)
}
