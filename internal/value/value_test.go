package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/gbln/internal/errors"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindI8, "i8"},
		{KindU64, "u64"},
		{KindF32, "f32"},
		{KindStr, "str"},
		{KindBool, "bool"},
		{KindNull, "null"},
		{KindObject, "object"},
		{KindArray, "array"},
		{Kind(200), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestKind_Numbering(t *testing.T) {
	assert.Equal(t, Kind(0), KindI8)
	assert.Equal(t, Kind(7), KindU64)
	assert.Equal(t, Kind(10), KindStr)
	assert.Equal(t, Kind(12), KindNull)
	assert.Equal(t, Kind(14), KindArray)
}

func TestAccessors_ExactKindOnly(t *testing.T) {
	v := U32(12345)

	got, ok := v.AsU32()
	assert.True(t, ok)
	assert.Equal(t, uint32(12345), got)

	_, ok = v.AsI8()
	assert.False(t, ok)
	_, ok = v.AsU64()
	assert.False(t, ok, "no widening between unsigned kinds")
	_, ok = v.AsString()
	assert.False(t, ok)
}

func TestAccessors_Extremes(t *testing.T) {
	i8, ok := I8(math.MinInt8).AsI8()
	require.True(t, ok)
	assert.Equal(t, int8(math.MinInt8), i8)

	i64, ok := I64(math.MaxInt64).AsI64()
	require.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), i64)

	u64, ok := U64(math.MaxUint64).AsU64()
	require.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64), u64)

	f32, ok := F32(3.14).AsF32()
	require.True(t, ok)
	assert.Equal(t, float32(3.14), f32)
}

func TestAccessors_NilValue(t *testing.T) {
	var v *Value
	assert.Equal(t, KindNull, v.Kind())
	assert.True(t, v.IsNull())
	_, ok := v.AsBool()
	assert.False(t, ok)
	assert.Equal(t, 0, v.Len())
	assert.Nil(t, v.Keys())
}

func TestStr(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		code    errors.Code
	}{
		{name: "fits", content: "Alice", maxLen: 32},
		{name: "exactly at bound", content: "12345678", maxLen: 8},
		{name: "empty", content: "", maxLen: 0},
		{name: "multibyte counted in bytes", content: "héllo", maxLen: 6},
		{name: "over bound", content: "VeryLongString", maxLen: 8, code: errors.CodeStringTooLong},
		{name: "multibyte over bound", content: "héllo", maxLen: 5, code: errors.CodeStringTooLong},
		{name: "interior NUL", content: "a\x00b", maxLen: 8, code: errors.CodeInvalidSyntax},
		{name: "invalid utf8", content: "\xff\xfe", maxLen: 8, code: errors.CodeInvalidSyntax},
		{name: "negative bound", content: "", maxLen: -1, code: errors.CodeStringTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Str(tt.content, tt.maxLen)
			if tt.code != errors.CodeOK {
				require.Error(t, err)
				assert.Nil(t, v)
				assert.Equal(t, tt.code, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			s, ok := v.AsString()
			assert.True(t, ok)
			assert.Equal(t, tt.content, s)
			n, _ := v.MaxLen()
			assert.Equal(t, tt.maxLen, n)
		})
	}
}

func TestStr_SuggestsLargerBound(t *testing.T) {
	_, err := Str("VeryLongString", 8)
	s, ok := errors.Suggestion(err)
	require.True(t, ok)
	assert.Equal(t, "use a larger string type (s16 or larger)", s)
}

func TestObject_InsertGetKeys(t *testing.T) {
	obj := NewObject()
	require.NoError(t, obj.Insert("name", mustStr(t, "Alice", 32)))
	require.NoError(t, obj.Insert("age", U8(25)))
	require.NoError(t, obj.Insert("active", Bool(true)))

	assert.Equal(t, 3, obj.Len())
	assert.Equal(t, []string{"active", "age", "name"}, obj.Keys())

	age, ok := obj.Get("age")
	require.True(t, ok)
	n, ok := age.AsU8()
	assert.True(t, ok)
	assert.Equal(t, uint8(25), n)

	_, ok = obj.Get("missing")
	assert.False(t, ok)
}

func TestObject_DuplicateKeyKeepsFirst(t *testing.T) {
	obj := NewObject()
	require.NoError(t, obj.Insert("id", U32(1)))

	err := obj.Insert("id", U32(2))
	require.Error(t, err)
	assert.Equal(t, errors.CodeDuplicateKey, errors.CodeOf(err))

	s, ok := errors.Suggestion(err)
	assert.True(t, ok)
	assert.Equal(t, "use a different key name", s)

	id, _ := obj.Get("id")
	n, _ := id.AsU32()
	assert.Equal(t, uint32(1), n)
	assert.Equal(t, 1, obj.Len())
}

func TestObject_InsertErrors(t *testing.T) {
	assert.Equal(t, errors.CodeTypeMismatch, errors.CodeOf(NewArray().Insert("k", Null())))
	assert.Equal(t, errors.CodeNullPointer, errors.CodeOf(NewObject().Insert("k", nil)))
	assert.Equal(t, errors.CodeInvalidSyntax, errors.CodeOf(NewObject().Insert("has space", Null())))
}

func TestValidKey(t *testing.T) {
	valid := []string{"id", "user_name", "a.b", "héllo", "x-1", "a:b"}
	for _, k := range valid {
		assert.NoError(t, ValidKey(k), k)
	}

	invalid := []string{"", "a b", "a\tb", "a{", "b]", "c(", "d>", "e:|f", "g\x01", "\xff"}
	for _, k := range invalid {
		assert.Equal(t, errors.CodeInvalidSyntax, errors.CodeOf(ValidKey(k)), "%q", k)
	}
}

func TestArray_PushIndex(t *testing.T) {
	arr := NewArray()
	for i := int64(1); i <= 5; i++ {
		require.NoError(t, arr.Push(I64(i)))
	}
	assert.Equal(t, 5, arr.Len())

	third, ok := arr.Index(2)
	require.True(t, ok)
	n, _ := third.AsI64()
	assert.Equal(t, int64(3), n)

	_, ok = arr.Index(5)
	assert.False(t, ok)
	_, ok = arr.Index(-1)
	assert.False(t, ok)

	assert.Equal(t, errors.CodeTypeMismatch, errors.CodeOf(NewObject().Push(Null())))
}

func TestEqual(t *testing.T) {
	build := func() *Value {
		obj := NewObject()
		arr := NewArray()
		_ = arr.Push(I8(-1))
		_ = arr.Push(F64(2.5))
		_ = obj.Insert("list", arr)
		_ = obj.Insert("name", mustStr(t, "Bob", 16))
		_ = obj.Insert("none", Null())
		return obj
	}

	assert.True(t, Equal(build(), build()))
	assert.True(t, Equal(nil, Null()))

	other := build()
	_ = other.Insert("extra", Bool(false))
	assert.False(t, Equal(build(), other))

	assert.False(t, Equal(I8(1), I16(1)), "kinds differ")
	assert.False(t, Equal(F64(0), F64(math.Copysign(0, -1))), "floats compare bitwise")
	assert.True(t, Equal(F64(math.NaN()), F64(math.NaN())))
	assert.False(t, Equal(mustStr(t, "a", 4), mustStr(t, "a", 8)), "bound is part of the value")
}

func TestWalk(t *testing.T) {
	obj := NewObject()
	arr := NewArray()
	_ = arr.Push(U8(1))
	_ = arr.Push(U8(2))
	_ = obj.Insert("b", arr)
	_ = obj.Insert("a", Null())

	var kinds []Kind
	Walk(obj, func(v *Value) { kinds = append(kinds, v.Kind()) })
	assert.Equal(t, []Kind{KindObject, KindNull, KindArray, KindU8, KindU8}, kinds)
}

func mustStr(t *testing.T, s string, n int) *Value {
	t.Helper()
	v, err := Str(s, n)
	require.NoError(t, err)
	return v
}
