package parser

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/gbln/internal/errors"
	"github.com/mcncl/gbln/internal/value"
)

// Hint is a parsed type annotation such as <u32> or <s64>.
type Hint struct {
	Kind   value.Kind
	MaxLen int
}

// String renders the hint body as it appears between angle brackets.
func (h Hint) String() string {
	switch h.Kind {
	case value.KindStr:
		return "s" + strconv.Itoa(h.MaxLen)
	case value.KindBool:
		return "b"
	case value.KindNull:
		return "n"
	}
	return h.Kind.String()
}

var hintKinds = map[string]value.Kind{
	"i8":  value.KindI8,
	"i16": value.KindI16,
	"i32": value.KindI32,
	"i64": value.KindI64,
	"u8":  value.KindU8,
	"u16": value.KindU16,
	"u32": value.KindU32,
	"u64": value.KindU64,
	"f32": value.KindF32,
	"f64": value.KindF64,
	"b":   value.KindBool,
	"n":   value.KindNull,
}

// ParseHint parses the text between angle brackets.
func ParseHint(text string) (Hint, error) {
	if k, ok := hintKinds[text]; ok {
		return Hint{Kind: k}, nil
	}
	if digits, ok := strings.CutPrefix(text, "s"); ok && isDigits(digits) {
		n, err := strconv.Atoi(digits)
		if err == nil {
			return Hint{Kind: value.KindStr, MaxLen: n}, nil
		}
	}
	return Hint{}, errors.Newf(errors.CodeInvalidTypeHint, "unknown type hint <%s>", text).
		WithSuggestion("valid hints are i8 i16 i32 i64 u8 u16 u32 u64 f32 f64 b n and s<N>")
}

// HintFor returns the hint that reproduces v's kind, or false for containers.
func HintFor(v *value.Value) (Hint, bool) {
	k := v.Kind()
	if !k.IsScalar() {
		return Hint{}, false
	}
	h := Hint{Kind: k}
	if n, ok := v.MaxLen(); ok {
		h.MaxLen = n
	}
	return h, true
}

// typed converts literal text under an explicit hint.
func typed(h Hint, text string) (*value.Value, error) {
	switch h.Kind {
	case value.KindI8, value.KindI16, value.KindI32, value.KindI64:
		n, err := parseSigned(text, h)
		if err != nil {
			return nil, err
		}
		switch h.Kind {
		case value.KindI8:
			return value.I8(int8(n)), nil
		case value.KindI16:
			return value.I16(int16(n)), nil
		case value.KindI32:
			return value.I32(int32(n)), nil
		}
		return value.I64(n), nil

	case value.KindU8, value.KindU16, value.KindU32, value.KindU64:
		n, err := parseUnsigned(text, h)
		if err != nil {
			return nil, err
		}
		switch h.Kind {
		case value.KindU8:
			return value.U8(uint8(n)), nil
		case value.KindU16:
			return value.U16(uint16(n)), nil
		case value.KindU32:
			return value.U32(uint32(n)), nil
		}
		return value.U64(n), nil

	case value.KindF32, value.KindF64:
		bits := 64
		if h.Kind == value.KindF32 {
			bits = 32
		}
		f, err := strconv.ParseFloat(text, bits)
		if err != nil {
			if stderrors.Is(err, strconv.ErrRange) {
				return nil, errors.Newf(errors.CodeIntOutOfRange, "%s out of range for %s", text, h)
			}
			return nil, errors.Newf(errors.CodeTypeMismatch, "expected %s, found %q", h, text)
		}
		if bits == 32 {
			return value.F32(float32(f)), nil
		}
		return value.F64(f), nil

	case value.KindStr:
		return value.Str(text, h.MaxLen)

	case value.KindBool:
		if b, ok := parseBool(text); ok {
			return value.Bool(b), nil
		}
		return nil, errors.Newf(errors.CodeTypeMismatch, "expected boolean (t, f, true, false), found %q", text)

	case value.KindNull:
		if text != "" {
			return nil, errors.Newf(errors.CodeTypeMismatch, "null literal must be empty, found %q", text)
		}
		return value.Null(), nil
	}
	return nil, errors.Newf(errors.CodeInvalidTypeHint, "type hint <%s> does not apply to a literal", h)
}

// Infer picks a kind for literal text that has no hint.
func Infer(text string) (*value.Value, error) {
	if text == "" {
		return value.Null(), nil
	}
	if b, ok := parseBool(text); ok {
		return value.Bool(b), nil
	}
	if isInteger(text) {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return value.I64(n), nil
		}
		if text[0] != '-' {
			if n, err := strconv.ParseUint(text, 10, 64); err == nil {
				return value.U64(n), nil
			}
		}
		return nil, errors.Newf(errors.CodeIntOutOfRange, "integer %s does not fit in 64 bits", text).
			WithSuggestion("quote large numbers with a string hint such as <s32>")
	}
	if isDecimal(text) {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.Newf(errors.CodeIntOutOfRange, "%s out of range for f64", text)
		}
		return value.F64(f), nil
	}
	return value.Str(text, len(text))
}

func parseSigned(text string, h Hint) (int64, error) {
	if !isInteger(text) {
		return 0, errors.Newf(errors.CodeTypeMismatch, "expected %s, found %q", h, text)
	}
	n, err := strconv.ParseInt(text, 10, bitSize(h.Kind))
	if err != nil {
		return 0, rangeError(text, h)
	}
	return n, nil
}

func parseUnsigned(text string, h Hint) (uint64, error) {
	if !isInteger(text) {
		return 0, errors.Newf(errors.CodeTypeMismatch, "expected %s, found %q", h, text)
	}
	if rest, neg := strings.CutPrefix(text, "-"); neg {
		if strings.Trim(rest, "0") != "" {
			return 0, rangeError(text, h)
		}
		return 0, nil
	}
	n, err := strconv.ParseUint(text, 10, bitSize(h.Kind))
	if err != nil {
		return 0, rangeError(text, h)
	}
	return n, nil
}

func rangeError(text string, h Hint) error {
	return errors.Newf(errors.CodeIntOutOfRange, "%s out of range for %s", text, h).
		WithSuggestion(fmt.Sprintf("use a wider integer type than %s", h))
}

func bitSize(k value.Kind) int {
	switch k {
	case value.KindI8, value.KindU8:
		return 8
	case value.KindI16, value.KindU16:
		return 16
	case value.KindI32, value.KindU32:
		return 32
	}
	return 64
}

func parseBool(text string) (bool, bool) {
	switch text {
	case "t", "true":
		return true, true
	case "f", "false":
		return false, true
	}
	return false, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isInteger matches -?[0-9]+
func isInteger(s string) bool {
	return isDigits(strings.TrimPrefix(s, "-"))
}

// isDecimal matches -?[0-9]*(\.[0-9]*)?([eE][+-]?[0-9]+)? with at least one
// mantissa digit and either a fraction or an exponent.
func isDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	mantissa, hasExp := s, false
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		exp := s[i+1:]
		if exp != "" && (exp[0] == '+' || exp[0] == '-') {
			exp = exp[1:]
		}
		if !isDigits(exp) {
			return false
		}
		mantissa, hasExp = s[:i], true
	}
	intPart, frac, hasFrac := strings.Cut(mantissa, ".")
	if !hasFrac && !hasExp {
		return false
	}
	if intPart == "" && frac == "" {
		return false
	}
	return (intPart == "" || isDigits(intPart)) && (frac == "" || isDigits(frac))
}
