// Package value implements the GBLN value tree: a closed sum over fifteen
// kinds with exact-width scalar accessors and mutable object/array containers.
package value

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/gbln/internal/errors"
)

// Kind is the type tag of a Value. The numbering is part of the C ABI.
type Kind uint8

const (
	KindI8     Kind = 0
	KindI16    Kind = 1
	KindI32    Kind = 2
	KindI64    Kind = 3
	KindU8     Kind = 4
	KindU16    Kind = 5
	KindU32    Kind = 6
	KindU64    Kind = 7
	KindF32    Kind = 8
	KindF64    Kind = 9
	KindStr    Kind = 10
	KindBool   Kind = 11
	KindNull   Kind = 12
	KindObject Kind = 13
	KindArray  Kind = 14
)

// String returns the kind name as used in type hints.
func (k Kind) String() string {
	switch k {
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindStr:
		return "str"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// IsScalar reports whether the kind is neither object nor array.
func (k Kind) IsScalar() bool {
	return k != KindObject && k != KindArray
}

// Value is one node of a GBLN tree. The kind never changes after
// construction; only object and array nodes are mutated, by adding children.
//
// A tree is not safe for concurrent mutation.
type Value struct {
	kind Kind

	// Scalar payload (only one valid based on kind)
	intVal   int64
	uintVal  uint64
	floatVal float64
	strVal   string
	maxLen   int
	boolVal  bool

	// Container payload
	objVal map[string]*Value
	arrVal []*Value
}

// ============================================================
// Constructors
// ============================================================

func I8(v int8) *Value   { return &Value{kind: KindI8, intVal: int64(v)} }
func I16(v int16) *Value { return &Value{kind: KindI16, intVal: int64(v)} }
func I32(v int32) *Value { return &Value{kind: KindI32, intVal: int64(v)} }
func I64(v int64) *Value { return &Value{kind: KindI64, intVal: v} }

func U8(v uint8) *Value   { return &Value{kind: KindU8, uintVal: uint64(v)} }
func U16(v uint16) *Value { return &Value{kind: KindU16, uintVal: uint64(v)} }
func U32(v uint32) *Value { return &Value{kind: KindU32, uintVal: uint64(v)} }
func U64(v uint64) *Value { return &Value{kind: KindU64, uintVal: v} }

func F32(v float32) *Value { return &Value{kind: KindF32, floatVal: float64(v)} }
func F64(v float64) *Value { return &Value{kind: KindF64, floatVal: v} }

// Bool creates a boolean value.
func Bool(v bool) *Value { return &Value{kind: KindBool, boolVal: v} }

// Null creates a null value.
func Null() *Value { return &Value{kind: KindNull} }

// NewObject creates an empty object.
func NewObject() *Value {
	return &Value{kind: KindObject, objVal: make(map[string]*Value)}
}

// NewArray creates an empty array.
func NewArray() *Value {
	return &Value{kind: KindArray}
}

// Str creates a string value bounded by maxLen bytes. Content longer than the
// bound is rejected, never truncated.
func Str(content string, maxLen int) (*Value, error) {
	if maxLen < 0 {
		return nil, errors.Newf(errors.CodeStringTooLong, "negative string bound %d", maxLen)
	}
	if err := CheckText(content); err != nil {
		return nil, err
	}
	if len(content) > maxLen {
		return nil, errors.Newf(errors.CodeStringTooLong,
			"string too long: %d bytes (max: %d)", len(content), maxLen).
			WithSuggestion(suggestStringBound(len(content)))
	}
	return &Value{kind: KindStr, strVal: content, maxLen: maxLen}, nil
}

// CheckText rejects content that cannot cross a NUL-terminated boundary.
func CheckText(s string) error {
	if !utf8.ValidString(s) {
		return errors.New(errors.CodeInvalidSyntax, "string is not valid UTF-8")
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		return errors.Newf(errors.CodeInvalidSyntax, "string contains a NUL byte at offset %d", i).
			WithSuggestion("NUL bytes cannot cross the C boundary; remove or encode them")
	}
	return nil
}

func suggestStringBound(n int) string {
	bound := 2
	for bound < n {
		bound *= 2
	}
	return "use a larger string type (s" + strconv.Itoa(bound) + " or larger)"
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the type tag. A nil value reports KindNull.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is nil or a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

func (v *Value) AsI8() (int8, bool) {
	if v == nil || v.kind != KindI8 {
		return 0, false
	}
	return int8(v.intVal), true
}

func (v *Value) AsI16() (int16, bool) {
	if v == nil || v.kind != KindI16 {
		return 0, false
	}
	return int16(v.intVal), true
}

func (v *Value) AsI32() (int32, bool) {
	if v == nil || v.kind != KindI32 {
		return 0, false
	}
	return int32(v.intVal), true
}

func (v *Value) AsI64() (int64, bool) {
	if v == nil || v.kind != KindI64 {
		return 0, false
	}
	return v.intVal, true
}

func (v *Value) AsU8() (uint8, bool) {
	if v == nil || v.kind != KindU8 {
		return 0, false
	}
	return uint8(v.uintVal), true
}

func (v *Value) AsU16() (uint16, bool) {
	if v == nil || v.kind != KindU16 {
		return 0, false
	}
	return uint16(v.uintVal), true
}

func (v *Value) AsU32() (uint32, bool) {
	if v == nil || v.kind != KindU32 {
		return 0, false
	}
	return uint32(v.uintVal), true
}

func (v *Value) AsU64() (uint64, bool) {
	if v == nil || v.kind != KindU64 {
		return 0, false
	}
	return v.uintVal, true
}

func (v *Value) AsF32() (float32, bool) {
	if v == nil || v.kind != KindF32 {
		return 0, false
	}
	return float32(v.floatVal), true
}

func (v *Value) AsF64() (float64, bool) {
	if v == nil || v.kind != KindF64 {
		return 0, false
	}
	return v.floatVal, true
}

func (v *Value) AsString() (string, bool) {
	if v == nil || v.kind != KindStr {
		return "", false
	}
	return v.strVal, true
}

func (v *Value) AsBool() (bool, bool) {
	if v == nil || v.kind != KindBool {
		return false, false
	}
	return v.boolVal, true
}

// MaxLen returns the declared byte bound of a string value.
func (v *Value) MaxLen() (int, bool) {
	if v == nil || v.kind != KindStr {
		return 0, false
	}
	return v.maxLen, true
}

// Float returns the payload of an f32 or f64 value widened to float64.
func (v *Value) Float() (float64, bool) {
	if v == nil || (v.kind != KindF32 && v.kind != KindF64) {
		return 0, false
	}
	return v.floatVal, true
}

// Int returns the payload of any signed integer kind.
func (v *Value) Int() (int64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.kind {
	case KindI8, KindI16, KindI32, KindI64:
		return v.intVal, true
	}
	return 0, false
}

// Uint returns the payload of any unsigned integer kind.
func (v *Value) Uint() (uint64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.kind {
	case KindU8, KindU16, KindU32, KindU64:
		return v.uintVal, true
	}
	return 0, false
}

// Equal reports whether two trees are observationally equal: same kinds,
// same scalars (floats bit-for-bit), same key sets and same array order.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a.IsNull() && b.IsNull()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindI8, KindI16, KindI32, KindI64:
		return a.intVal == b.intVal
	case KindU8, KindU16, KindU32, KindU64:
		return a.uintVal == b.uintVal
	case KindF32:
		return math.Float32bits(float32(a.floatVal)) == math.Float32bits(float32(b.floatVal))
	case KindF64:
		return math.Float64bits(a.floatVal) == math.Float64bits(b.floatVal)
	case KindStr:
		return a.strVal == b.strVal && a.maxLen == b.maxLen
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNull:
		return true
	case KindObject:
		if len(a.objVal) != len(b.objVal) {
			return false
		}
		for k, av := range a.objVal {
			bv, ok := b.objVal[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.arrVal) != len(b.arrVal) {
			return false
		}
		for i := range a.arrVal {
			if !Equal(a.arrVal[i], b.arrVal[i]) {
				return false
			}
		}
		return true
	}
	return false
}
