package abi

// Accessors return the zero value and false for null, stale or freed handles
// and for kind mismatches. They never convert between kinds and never touch
// the error slot.

func (b *Boundary) AsI8(h Handle) (int8, bool)   { return b.resolve(h).AsI8() }
func (b *Boundary) AsI16(h Handle) (int16, bool) { return b.resolve(h).AsI16() }
func (b *Boundary) AsI32(h Handle) (int32, bool) { return b.resolve(h).AsI32() }
func (b *Boundary) AsI64(h Handle) (int64, bool) { return b.resolve(h).AsI64() }

func (b *Boundary) AsU8(h Handle) (uint8, bool)   { return b.resolve(h).AsU8() }
func (b *Boundary) AsU16(h Handle) (uint16, bool) { return b.resolve(h).AsU16() }
func (b *Boundary) AsU32(h Handle) (uint32, bool) { return b.resolve(h).AsU32() }
func (b *Boundary) AsU64(h Handle) (uint64, bool) { return b.resolve(h).AsU64() }

func (b *Boundary) AsF32(h Handle) (float32, bool) { return b.resolve(h).AsF32() }
func (b *Boundary) AsF64(h Handle) (float64, bool) { return b.resolve(h).AsF64() }

func (b *Boundary) AsBool(h Handle) (bool, bool) { return b.resolve(h).AsBool() }

// AsString returns a caller-owned copy of a string value. Nothing is
// allocated when h is not a string.
func (b *Boundary) AsString(h Handle) (Ptr, bool) {
	s, ok := b.resolve(h).AsString()
	if !ok {
		return 0, false
	}
	p, err := b.alloc.CString(s)
	if err != nil {
		return 0, false
	}
	return p, true
}

// IsNull reports whether h is a null value. The null handle counts as null.
func (b *Boundary) IsNull(h Handle) bool {
	return b.resolve(h).IsNull()
}

// ValueType returns the kind of h; the null handle reports KindNull.
func (b *Boundary) ValueType(h Handle) Kind {
	return b.resolve(h).Kind()
}

// ObjectGet returns a borrowed handle to the field named key, or the null
// handle when h is not an object or has no such field.
func (b *Boundary) ObjectGet(h Handle, key string) Handle {
	child, ok := b.resolve(h).Get(key)
	if !ok {
		return NullHandle
	}
	return b.arena.Borrow(h, child)
}

// ArrayGet returns a borrowed handle to element i, or the null handle when h
// is not an array or i is out of range.
func (b *Boundary) ArrayGet(h Handle, i int) Handle {
	child, ok := b.resolve(h).Index(i)
	if !ok {
		return NullHandle
	}
	return b.arena.Borrow(h, child)
}

// ArrayLen returns the element count of an array, 0 otherwise.
func (b *Boundary) ArrayLen(h Handle) int {
	v := b.resolve(h)
	if v.Kind() != KindArray {
		return 0
	}
	return v.Len()
}

// ObjectLen returns the field count of an object, 0 otherwise.
func (b *Boundary) ObjectLen(h Handle) int {
	v := b.resolve(h)
	if v.Kind() != KindObject {
		return 0
	}
	return v.Len()
}

// ObjectKeys returns a caller-owned array of caller-owned key strings and its
// length. An empty object, or anything that is not an object, yields (0, 0).
// Release the result with KeysFree.
func (b *Boundary) ObjectKeys(h Handle) (Ptr, int) {
	keys := b.resolve(h).Keys()
	if len(keys) == 0 {
		return 0, 0
	}
	ptrs := make([]Ptr, 0, len(keys))
	for _, k := range keys {
		p, err := b.alloc.CString(k)
		if err != nil {
			for _, done := range ptrs {
				b.alloc.Free(done)
			}
			return 0, 0
		}
		ptrs = append(ptrs, p)
	}
	return b.alloc.StringArray(ptrs), len(ptrs)
}

// KeysFree releases an array returned by ObjectKeys together with its keys.
func (b *Boundary) KeysFree(p Ptr, n int) {
	b.alloc.FreeArray(p, n)
}

// Keys reads an ObjectKeys result into Go strings without freeing it.
func (b *Boundary) Keys(p Ptr, n int) []string {
	ptrs := b.alloc.ReadArray(p, n)
	out := make([]string, len(ptrs))
	for i, kp := range ptrs {
		out[i] = b.alloc.GoString(kp)
	}
	return out
}
