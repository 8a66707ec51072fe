package parser

import (
	stderrors "errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/gbln/internal/errors"
	"github.com/mcncl/gbln/internal/value"
)

func mustStr(t *testing.T, s string, n int) *value.Value {
	t.Helper()
	v, err := value.Str(s, n)
	require.NoError(t, err)
	return v
}

func object(t *testing.T, fields ...any) *value.Value {
	t.Helper()
	obj := value.NewObject()
	for i := 0; i < len(fields); i += 2 {
		require.NoError(t, obj.Insert(fields[i].(string), fields[i+1].(*value.Value)))
	}
	return obj
}

func array(t *testing.T, elems ...*value.Value) *value.Value {
	t.Helper()
	arr := value.NewArray()
	for _, e := range elems {
		require.NoError(t, arr.Push(e))
	}
	return arr
}

func TestParse_TypedObject(t *testing.T) {
	root, err := Parse(strings.NewReader("{id<u32>(12345)name<s32>(Alice)}"))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	id, ok := root.Get("id")
	require.True(t, ok)
	n, ok := id.AsU32()
	assert.True(t, ok)
	assert.Equal(t, uint32(12345), n)

	_, ok = id.AsI8()
	assert.False(t, ok, "exact-width accessors never convert")

	name, ok := root.Get("name")
	require.True(t, ok)
	s, ok := name.AsString()
	assert.True(t, ok)
	assert.Equal(t, "Alice", s)
	maxLen, _ := name.MaxLen()
	assert.Equal(t, 32, maxLen)
}

func TestParseString_Documents(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(t *testing.T) *value.Value
	}{
		{
			name:  "bare field infers string",
			input: "name(Alice)",
			expected: func(t *testing.T) *value.Value {
				return object(t, "name", mustStr(t, "Alice", 5))
			},
		},
		{
			name:  "nested field sequence",
			input: "user{id<u32>(12345)name<s32>(Alice)}",
			expected: func(t *testing.T) *value.Value {
				return object(t, "user", object(t, "id", value.U32(12345), "name", mustStr(t, "Alice", 32)))
			},
		},
		{
			name:  "inferred scalars",
			input: "{name(Alice)age(25)active(true)score(98.5)}",
			expected: func(t *testing.T) *value.Value {
				return object(t,
					"name", mustStr(t, "Alice", 5),
					"age", value.I64(25),
					"active", value.Bool(true),
					"score", value.F64(98.5),
				)
			},
		},
		{
			name:  "bareword array",
			input: "numbers[1 2 3 4 5]",
			expected: func(t *testing.T) *value.Value {
				return object(t, "numbers", array(t, value.I64(1), value.I64(2), value.I64(3), value.I64(4), value.I64(5)))
			},
		},
		{
			name:  "typed array",
			input: "tags<s16>[rust-lang python-dev]",
			expected: func(t *testing.T) *value.Value {
				return object(t, "tags", array(t, mustStr(t, "rust-lang", 16), mustStr(t, "python-dev", 16)))
			},
		},
		{
			name:  "negative numbers",
			input: "temps[-15 -5 0 5 15]",
			expected: func(t *testing.T) *value.Value {
				return object(t, "temps", array(t, value.I64(-15), value.I64(-5), value.I64(0), value.I64(5), value.I64(15)))
			},
		},
		{
			name:  "explicit null",
			input: "{optional<n>()}",
			expected: func(t *testing.T) *value.Value {
				return object(t, "optional", value.Null())
			},
		},
		{
			name:  "bool hint short form and spaced string",
			input: "{name<s32>(Alice Johnson)active<b>(t)}",
			expected: func(t *testing.T) *value.Value {
				return object(t, "name", mustStr(t, "Alice Johnson", 32), "active", value.Bool(true))
			},
		},
		{
			name:  "comments and whitespace",
			input: ":| header\n{\n  a<i8>(1) :| trailing\n  b<u8>(2)\n}\n",
			expected: func(t *testing.T) *value.Value {
				return object(t, "a", value.I8(1), "b", value.U8(2))
			},
		},
		{
			name:  "escaped literal",
			input: `{s<s32>(a\)b\\c\nd)}`,
			expected: func(t *testing.T) *value.Value {
				return object(t, "s", mustStr(t, "a)b\\c\nd", 32))
			},
		},
		{
			name:  "root array with mixed elements",
			input: "[<i8>(1) (x) {k(v)} [] ()]",
			expected: func(t *testing.T) *value.Value {
				return array(t, value.I8(1), mustStr(t, "x", 1), object(t, "k", mustStr(t, "v", 1)), value.NewArray(), value.Null())
			},
		},
		{
			name:  "typed root array",
			input: "<u16>[(1)(2)]",
			expected: func(t *testing.T) *value.Value {
				return array(t, value.U16(1), value.U16(2))
			},
		},
		{
			name:  "root scalar",
			input: "<f32>(1.5)",
			expected: func(t *testing.T) *value.Value {
				return value.F32(1.5)
			},
		},
		{
			name:  "root literal",
			input: "(hello)",
			expected: func(t *testing.T) *value.Value {
				return mustStr(t, "hello", 5)
			},
		},
		{
			name:  "empty containers",
			input: "{o{}a[]}",
			expected: func(t *testing.T) *value.Value {
				return object(t, "o", value.NewObject(), "a", value.NewArray())
			},
		},
		{
			name:  "large unsigned inferred as u64",
			input: "big(18446744073709551615)",
			expected: func(t *testing.T) *value.Value {
				return object(t, "big", value.U64(math.MaxUint64))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.input)
			require.NoError(t, err)
			want := tt.expected(t)
			assert.True(t, value.Equal(want, got), "ParseString(%q) tree mismatch", tt.input)
		})
	}
}

func TestParseString_IntegerExtremes(t *testing.T) {
	input := "{" +
		"i8min<i8>(-128)i8max<i8>(127)" +
		"i16min<i16>(-32768)i16max<i16>(32767)" +
		"i32min<i32>(-2147483648)i32max<i32>(2147483647)" +
		"i64min<i64>(-9223372036854775808)i64max<i64>(9223372036854775807)" +
		"u8max<u8>(255)u16max<u16>(65535)u32max<u32>(4294967295)u64max<u64>(18446744073709551615)" +
		"}"
	root, err := ParseString(input)
	require.NoError(t, err)

	get := func(k string) *value.Value {
		v, ok := root.Get(k)
		require.True(t, ok, k)
		return v
	}

	i8, _ := get("i8min").AsI8()
	assert.Equal(t, int8(math.MinInt8), i8)
	i8, _ = get("i8max").AsI8()
	assert.Equal(t, int8(math.MaxInt8), i8)
	i16, _ := get("i16min").AsI16()
	assert.Equal(t, int16(math.MinInt16), i16)
	i32, _ := get("i32max").AsI32()
	assert.Equal(t, int32(math.MaxInt32), i32)
	i64, _ := get("i64min").AsI64()
	assert.Equal(t, int64(math.MinInt64), i64)
	i64, _ = get("i64max").AsI64()
	assert.Equal(t, int64(math.MaxInt64), i64)
	u8, _ := get("u8max").AsU8()
	assert.Equal(t, uint8(math.MaxUint8), u8)
	u16, _ := get("u16max").AsU16()
	assert.Equal(t, uint16(math.MaxUint16), u16)
	u32, _ := get("u32max").AsU32()
	assert.Equal(t, uint32(math.MaxUint32), u32)
	u64, _ := get("u64max").AsU64()
	assert.Equal(t, uint64(math.MaxUint64), u64)
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"empty input", "", errors.CodeUnexpectedEOF},
		{"whitespace only", "  \n\t", errors.CodeUnexpectedEOF},
		{"comment only", ":| nothing here", errors.CodeUnexpectedEOF},
		{"i8 out of range", "{age<i8>(999)}", errors.CodeIntOutOfRange},
		{"u8 negative", "{age<u8>(-1)}", errors.CodeIntOutOfRange},
		{"u32 overflow", "{id<u32>(4294967296)}", errors.CodeIntOutOfRange},
		{"inferred overflow", "{n(99999999999999999999)}", errors.CodeIntOutOfRange},
		{"inferred negative overflow", "{n(-9223372036854775809)}", errors.CodeIntOutOfRange},
		{"f32 overflow", "{f<f32>(1e40)}", errors.CodeIntOutOfRange},
		{"non numeric for int hint", "{age<i32>(abc)}", errors.CodeTypeMismatch},
		{"non numeric for float hint", "{x<f64>(abc)}", errors.CodeTypeMismatch},
		{"bad bool", "{ok<b>(yes)}", errors.CodeTypeMismatch},
		{"non empty null", "{x<n>(0)}", errors.CodeTypeMismatch},
		{"hint on object", "{o<i8>{}}", errors.CodeTypeMismatch},
		{"container in typed array", "{a<i8>[{}]}", errors.CodeTypeMismatch},
		{"conflicting element hint", "<i8>[<s5>(hi)]", errors.CodeTypeMismatch},
		{"wider element hint", "{a<i8>[(1) <i16>(2)]}", errors.CodeTypeMismatch},
		{"other string bound in typed array", "{a<s4>[<s8>(x)]}", errors.CodeTypeMismatch},
		{"hinted container in typed array", "{a<i8>[<i8>[(1)]]}", errors.CodeTypeMismatch},
		{"string over bound", "{name<s4>(Alice)}", errors.CodeStringTooLong},
		{"unknown hint", "{x<i128>(1)}", errors.CodeInvalidTypeHint},
		{"empty hint", "{x<>(1)}", errors.CodeInvalidTypeHint},
		{"duplicate field", "{a(1)a(2)}", errors.CodeDuplicateKey},
		{"duplicate top-level field", "a(1)a(2)", errors.CodeDuplicateKey},
		{"unterminated literal", "{name(Alice", errors.CodeUnterminatedString},
		{"unterminated escape", `{name(Alice\`, errors.CodeUnterminatedString},
		{"unterminated hint", "{x<i8", errors.CodeUnexpectedEOF},
		{"unclosed object", "{a(1)", errors.CodeUnexpectedEOF},
		{"unclosed array", "a[1 2", errors.CodeUnexpectedEOF},
		{"missing value", "{a}", errors.CodeUnexpectedToken},
		{"word after field name", "{a b(1)}", errors.CodeUnexpectedToken},
		{"trailing data", "{a(1)}{b(2)}", errors.CodeUnexpectedToken},
		{"stray close paren", "{a)}", errors.CodeUnexpectedChar},
		{"stray close angle", ">", errors.CodeUnexpectedChar},
		{"control character", "{a(1)\x01}", errors.CodeUnexpectedChar},
		{"nul outside literal", "{a(1)\x00}", errors.CodeUnexpectedChar},
		{"nul inside literal", "{a(x\x00y)}", errors.CodeInvalidSyntax},
		{"invalid utf8", "{a(\xff)}", errors.CodeInvalidSyntax},
		{"space in hint", "{a<s 8>(x)}", errors.CodeUnexpectedChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseString(tt.input)
			require.Error(t, err)
			assert.Nil(t, v)
			assert.Equal(t, tt.code, errors.CodeOf(err), "error: %v", err)
		})
	}
}

func TestParseString_ErrorsCarryPosition(t *testing.T) {
	_, err := ParseString("{\n  age<i8>(999)\n}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2:10")

	_, err = ParseString("{a(1)a(2)}")
	require.Error(t, err)
	s, ok := errors.Suggestion(err)
	assert.True(t, ok)
	assert.Equal(t, "use a different key name", s)
}

func TestParseString_TypedArrayElementHints(t *testing.T) {
	v, err := ParseString("<u8>[(1) <u8>(2)]")
	require.NoError(t, err)
	assert.True(t, value.Equal(array(t, value.U8(1), value.U8(2)), v))

	_, err = ParseString("<i8>[<s5>(hi)]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicts with array hint <i8>")
	s, ok := errors.Suggestion(err)
	assert.True(t, ok)
	assert.Equal(t, "drop the element hint or use an untyped array", s)
}

func TestParseString_EmptyInputSentinel(t *testing.T) {
	_, err := ParseString("")
	if !stderrors.Is(err, errors.ErrEmptyInput) {
		t.Errorf("ParseString(\"\") err = %v, want ErrEmptyInput in chain", err)
	}
}

func TestParseHint(t *testing.T) {
	valid := map[string]Hint{
		"i8":   {Kind: value.KindI8},
		"u64":  {Kind: value.KindU64},
		"f32":  {Kind: value.KindF32},
		"b":    {Kind: value.KindBool},
		"n":    {Kind: value.KindNull},
		"s0":   {Kind: value.KindStr, MaxLen: 0},
		"s128": {Kind: value.KindStr, MaxLen: 128},
	}
	for text, want := range valid {
		got, err := ParseHint(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got)
		assert.Equal(t, text, got.String())
	}

	for _, text := range []string{"", "s", "s-1", "str", "int", "I8", "s99999999999999999999999"} {
		_, err := ParseHint(text)
		assert.Equal(t, errors.CodeInvalidTypeHint, errors.CodeOf(err), text)
	}
}

func TestInfer(t *testing.T) {
	tests := []struct {
		text string
		kind value.Kind
	}{
		{"", value.KindNull},
		{"t", value.KindBool},
		{"false", value.KindBool},
		{"42", value.KindI64},
		{"-0", value.KindI64},
		{"3.14", value.KindF64},
		{"-.5", value.KindF64},
		{"1e10", value.KindF64},
		{"2.5E-3", value.KindF64},
		{"1.2.3", value.KindStr},
		{"1e", value.KindStr},
		{"-", value.KindStr},
		{"NaN", value.KindStr},
		{"True", value.KindStr},
		{"rust-lang", value.KindStr},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v, err := Infer(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestParseFile_SimpleObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product.gbln")
	if err := os.WriteFile(path, []byte("product{name<s32>(Laptop)price<f64>(1200.5)}"), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	root, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v, wantErr nil", err)
	}

	product, ok := root.Get("product")
	require.True(t, ok)
	price, ok := product.Get("price")
	require.True(t, ok)
	f, ok := price.AsF64()
	assert.True(t, ok)
	assert.Equal(t, 1200.5, f)
}

func TestParseFile_NonExistentFile(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nonexistent.gbln"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeIO, errors.CodeOf(err))
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))
}

func TestParseFile_EmptyPath(t *testing.T) {
	_, err := ParseFile("")
	if err == nil {
		t.Fatalf("ParseFile() with empty path, err = nil, want error")
	}
	if !strings.Contains(err.Error(), "file path is empty") {
		t.Errorf("ParseFile() with empty path, err = %v, want error containing 'file path is empty'", err)
	}
}

func TestParseFile_EmptyFileContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gbln")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	_, err := ParseFile(path)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrFileEmpty))
	assert.Equal(t, errors.CodeUnexpectedEOF, errors.CodeOf(err))
}
