package abi

import (
	"go.uber.org/zap"

	"github.com/mcncl/gbln/internal/config"
	"github.com/mcncl/gbln/internal/errors"
	"github.com/mcncl/gbln/internal/formatter"
	"github.com/mcncl/gbln/internal/handle"
	"github.com/mcncl/gbln/internal/logging"
	"github.com/mcncl/gbln/internal/marshal"
	"github.com/mcncl/gbln/internal/parser"
	"github.com/mcncl/gbln/internal/value"
)

type (
	Handle = handle.Handle
	Kind   = value.Kind
	Code   = errors.Code
	Config = config.Config
	Ptr    = marshal.Ptr
	Record = errors.Record
)

// NullHandle is the null handle.
const NullHandle = handle.Null

const (
	KindI8     = value.KindI8
	KindI16    = value.KindI16
	KindI32    = value.KindI32
	KindI64    = value.KindI64
	KindU8     = value.KindU8
	KindU16    = value.KindU16
	KindU32    = value.KindU32
	KindU64    = value.KindU64
	KindF32    = value.KindF32
	KindF64    = value.KindF64
	KindStr    = value.KindStr
	KindBool   = value.KindBool
	KindNull   = value.KindNull
	KindObject = value.KindObject
	KindArray  = value.KindArray
)

const (
	CodeOK                 = errors.CodeOK
	CodeUnexpectedChar     = errors.CodeUnexpectedChar
	CodeUnterminatedString = errors.CodeUnterminatedString
	CodeUnexpectedToken    = errors.CodeUnexpectedToken
	CodeUnexpectedEOF      = errors.CodeUnexpectedEOF
	CodeInvalidSyntax      = errors.CodeInvalidSyntax
	CodeIntOutOfRange      = errors.CodeIntOutOfRange
	CodeStringTooLong      = errors.CodeStringTooLong
	CodeTypeMismatch       = errors.CodeTypeMismatch
	CodeInvalidTypeHint    = errors.CodeInvalidTypeHint
	CodeDuplicateKey       = errors.CodeDuplicateKey
	CodeNullPointer        = errors.CodeNullPointer
	CodeIO                 = errors.CodeIO
)

// Boundary owns the handle table, the error slots and the string allocator.
type Boundary struct {
	arena *handle.Arena
	errs  *errors.Channel
	alloc marshal.Allocator
}

// Option configures a Boundary.
type Option func(*Boundary)

// WithAllocator sets where returned strings live. The default keeps them in
// Go memory.
func WithAllocator(a marshal.Allocator) Option {
	return func(b *Boundary) {
		b.alloc = a
	}
}

// WithThreadID sets the function that identifies the calling thread for the
// error slots. The default is the OS thread id.
func WithThreadID(fn func() uint64) Option {
	return func(b *Boundary) {
		b.errs = errors.NewChannel(fn)
	}
}

// New creates a Boundary
func New(opts ...Option) *Boundary {
	b := &Boundary{
		arena: handle.NewArena(),
		errs:  errors.NewChannel(nil),
		alloc: marshal.NewHeapAllocator(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// record stores err (or clears the slot on nil) for the calling thread.
func (b *Boundary) record(err error) Code {
	if err != nil {
		logging.L().Debug("boundary call failed", zap.Error(err))
	}
	return b.errs.Set(err)
}

// NullArgument records a NullPointer failure for a missing argument. The
// export layer calls it when a foreign caller passes NULL.
func (b *Boundary) NullArgument(name string) Code {
	return b.record(errors.NewNullPointerError(name+" must not be null", errors.ErrNilHandle))
}

func (b *Boundary) resolve(h Handle) *value.Value {
	v, ok := b.arena.Resolve(h)
	if !ok {
		return nil
	}
	return v
}

func (b *Boundary) lookup(h Handle) (*value.Value, error) {
	if h == NullHandle {
		return nil, errors.NewNullPointerError("null handle", errors.ErrNilHandle)
	}
	v, ok := b.arena.Resolve(h)
	if !ok {
		return nil, errors.NewNullPointerError("handle is not live", errors.ErrStaleHandle)
	}
	return v, nil
}

// Parse parses GBLN text into a new owned tree.
func (b *Boundary) Parse(text string) (Code, Handle) {
	v, err := parser.ParseString(text)
	if err != nil {
		return b.record(err), NullHandle
	}
	b.errs.Clear()
	return CodeOK, b.arena.Own(v)
}

// ParseFile parses the GBLN text file at path into a new owned tree.
func (b *Boundary) ParseFile(path string) (Code, Handle) {
	v, err := parser.ParseFile(path)
	if err != nil {
		return b.record(err), NullHandle
	}
	b.errs.Clear()
	return CodeOK, b.arena.Own(v)
}

// Free releases an owned handle and everything borrowed from it. Null is a
// no-op; freed, stale and borrowed handles are ignored.
func (b *Boundary) Free(h Handle) {
	b.arena.Release(h)
}

// ToString renders the tree in mini form. It returns 0 on failure.
func (b *Boundary) ToString(h Handle) Ptr {
	return b.render(h, formatter.Options{})
}

// ToStringPretty renders the tree in the indented form.
func (b *Boundary) ToStringPretty(h Handle) Ptr {
	return b.render(h, formatter.Options{Pretty: true, Indent: config.Development().Indent})
}

func (b *Boundary) render(h Handle, opts formatter.Options) Ptr {
	v, err := b.lookup(h)
	if err != nil {
		b.record(err)
		return 0
	}
	p, err := b.alloc.CString(formatter.Render(v, opts))
	if err != nil {
		b.record(err)
		return 0
	}
	b.errs.Clear()
	return p
}

// StringFree releases a string returned by this Boundary. Null is a no-op.
func (b *Boundary) StringFree(p Ptr) {
	b.alloc.Free(p)
}

// LastErrorMessage returns a copy of the calling thread's last error message,
// or 0 when the last fallible call succeeded.
func (b *Boundary) LastErrorMessage() Ptr {
	rec, ok := b.errs.Last()
	if !ok {
		return 0
	}
	p, err := b.alloc.CString(rec.Message)
	if err != nil {
		return 0
	}
	return p
}

// LastErrorSuggestion returns a copy of the calling thread's last remediation
// hint, or 0 when there is none.
func (b *Boundary) LastErrorSuggestion() Ptr {
	rec, ok := b.errs.Last()
	if !ok || !rec.HasSuggestion {
		return 0
	}
	p, err := b.alloc.CString(rec.Suggestion)
	if err != nil {
		return 0
	}
	return p
}

// LastError returns the calling thread's last error record.
func (b *Boundary) LastError() (Record, bool) {
	return b.errs.Last()
}

// GoString reads a string returned by this Boundary without freeing it.
func (b *Boundary) GoString(p Ptr) string {
	return b.alloc.GoString(p)
}

// Stats counts live resources.
type Stats struct {
	Owned    int
	Borrowed int
	Strings  int
}

// Stats reports live handles and live string allocations.
func (b *Boundary) Stats() Stats {
	s := b.arena.Stats()
	return Stats{
		Owned:    s.Owned,
		Borrowed: s.Borrowed,
		Strings:  b.alloc.Live(),
	}
}
