package abi

import (
	"github.com/mcncl/gbln/internal/errors"
	"github.com/mcncl/gbln/internal/value"
)

// Constructors return owned handles.

func (b *Boundary) NewI8(v int8) Handle   { return b.arena.Own(value.I8(v)) }
func (b *Boundary) NewI16(v int16) Handle { return b.arena.Own(value.I16(v)) }
func (b *Boundary) NewI32(v int32) Handle { return b.arena.Own(value.I32(v)) }
func (b *Boundary) NewI64(v int64) Handle { return b.arena.Own(value.I64(v)) }

func (b *Boundary) NewU8(v uint8) Handle   { return b.arena.Own(value.U8(v)) }
func (b *Boundary) NewU16(v uint16) Handle { return b.arena.Own(value.U16(v)) }
func (b *Boundary) NewU32(v uint32) Handle { return b.arena.Own(value.U32(v)) }
func (b *Boundary) NewU64(v uint64) Handle { return b.arena.Own(value.U64(v)) }

func (b *Boundary) NewF32(v float32) Handle { return b.arena.Own(value.F32(v)) }
func (b *Boundary) NewF64(v float64) Handle { return b.arena.Own(value.F64(v)) }

func (b *Boundary) NewBool(v bool) Handle { return b.arena.Own(value.Bool(v)) }
func (b *Boundary) NewNull() Handle       { return b.arena.Own(value.Null()) }
func (b *Boundary) NewObject() Handle     { return b.arena.Own(value.NewObject()) }
func (b *Boundary) NewArray() Handle      { return b.arena.Own(value.NewArray()) }

// NewStr copies content into a string value bounded by maxLen bytes. Content
// over the bound fails with StringTooLong and returns the null handle.
func (b *Boundary) NewStr(content string, maxLen int) Handle {
	v, err := value.Str(content, maxLen)
	if err != nil {
		b.record(err)
		return NullHandle
	}
	b.errs.Clear()
	return b.arena.Own(v)
}

// ObjectInsert moves val into obj under key. On success val's handle is
// consumed; on failure the caller keeps it and must still free it.
func (b *Boundary) ObjectInsert(obj Handle, key string, val Handle) Code {
	err := b.arena.Mutate(obj, val, func(target, v *value.Value) error {
		if target.Kind() != KindObject {
			return errors.Newf(errors.CodeTypeMismatch, "cannot insert into %s", target.Kind()).
				WithSuggestion("create the target with NewObject")
		}
		return target.Insert(key, v)
	})
	return b.record(err)
}

// ArrayPush appends val to arr. Ownership follows ObjectInsert.
func (b *Boundary) ArrayPush(arr Handle, val Handle) Code {
	err := b.arena.Mutate(arr, val, func(target, v *value.Value) error {
		if target.Kind() != KindArray {
			return errors.Newf(errors.CodeTypeMismatch, "cannot push onto %s", target.Kind()).
				WithSuggestion("create the target with NewArray")
		}
		return target.Push(v)
	})
	return b.record(err)
}
