// Package bridge converts between value trees and JSON.
package bridge

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/gbln/internal/errors"
	"github.com/mcncl/gbln/internal/parser"
	"github.com/mcncl/gbln/internal/value"
)

// KeyCase selects how JSON keys are rewritten on import.
type KeyCase string

const (
	KeyCaseAsIs  KeyCase = ""
	KeyCaseSnake KeyCase = "snake"
	KeyCaseCamel KeyCase = "camel"
	KeyCaseKebab KeyCase = "kebab"
)

// ParseKeyCase validates a key-case name.
func ParseKeyCase(s string) (KeyCase, error) {
	switch kc := KeyCase(s); kc {
	case KeyCaseAsIs, KeyCaseSnake, KeyCaseCamel, KeyCaseKebab:
		return kc, nil
	}
	return "", fmt.Errorf("unknown key case %q (want snake, camel or kebab)", s)
}

// Apply rewrites key in the selected case.
func (kc KeyCase) Apply(key string) string {
	switch kc {
	case KeyCaseSnake:
		return strcase.ToSnake(key)
	case KeyCaseCamel:
		return strcase.ToLowerCamel(key)
	case KeyCaseKebab:
		return strcase.ToKebab(key)
	}
	return key
}

// ToJSON renders v as JSON. Integers keep full 64-bit precision; NaN and
// infinities have no JSON form and fail with TypeMismatch.
func ToJSON(v *value.Value, indent string) ([]byte, error) {
	native, err := toNative(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(native); err != nil {
		return nil, errors.Wrap(errors.CodeInvalidSyntax, "failed to encode JSON", err)
	}
	return buf.Bytes(), nil
}

func toNative(v *value.Value) (any, error) {
	switch v.Kind() {
	case value.KindI8, value.KindI16, value.KindI32, value.KindI64:
		n, _ := v.Int()
		return json.Number(fmt.Sprint(n)), nil
	case value.KindU8, value.KindU16, value.KindU32, value.KindU64:
		n, _ := v.Uint()
		return json.Number(fmt.Sprint(n)), nil
	case value.KindF32, value.KindF64:
		f, _ := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.Newf(errors.CodeTypeMismatch, "%v has no JSON representation", f)
		}
		if v.Kind() == value.KindF32 {
			return float32(f), nil
		}
		return f, nil
	case value.KindStr:
		s, _ := v.AsString()
		return s, nil
	case value.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case value.KindObject:
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			n, err := toNative(child)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	case value.KindArray:
		out := make([]any, 0, v.Len())
		for i, e := range v.Elements() {
			n, err := toNative(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out = append(out, n)
		}
		return out, nil
	}
	return nil, nil
}

// FromJSON decodes one JSON document into a value tree. Numbers are typed
// the way unhinted GBLN literals are; strings are bounded by their byte
// length. Keys are rewritten with kc, and two keys that collapse to the same
// name fail with DuplicateKey.
func FromJSON(r io.Reader, kc KeyCase) (*value.Value, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber() // Ensure numbers are read as json.Number

	var root any
	if err := decoder.Decode(&root); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.CodeUnexpectedEOF, "input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.Wrap(errors.CodeInvalidSyntax, fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset), err)
		}
		return nil, errors.Wrap(errors.CodeInvalidSyntax, "failed to decode JSON", err)
	}

	// Check for trailing data after the first JSON value.
	var trailing any
	if err := decoder.Decode(&trailing); !stderrors.Is(err, io.EOF) {
		return nil, errors.New(errors.CodeUnexpectedToken, "multiple JSON values found at the root")
	}

	return fromNative(root, kc)
}

func fromNative(n any, kc KeyCase) (*value.Value, error) {
	switch x := n.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(x), nil
	case json.Number:
		v, err := parser.Infer(x.String())
		if err != nil {
			return nil, err
		}
		return v, nil
	case string:
		return value.Str(x, len(x))
	case map[string]any:
		obj := value.NewObject()
		for k, child := range x {
			cv, err := fromNative(child, kc)
			if err != nil {
				return nil, err
			}
			key := kc.Apply(k)
			if _, exists := obj.Get(key); exists {
				return nil, errors.Newf(errors.CodeDuplicateKey, "JSON keys collide as %q", key).
					WithSuggestion("choose a different --keys case or rename the source keys")
			}
			if err := obj.Insert(key, cv); err != nil {
				return nil, err
			}
		}
		return obj, nil
	case []any:
		arr := value.NewArray()
		for _, child := range x {
			cv, err := fromNative(child, kc)
			if err != nil {
				return nil, err
			}
			if err := arr.Push(cv); err != nil {
				return nil, err
			}
		}
		return arr, nil
	}
	return nil, errors.Newf(errors.CodeTypeMismatch, "unsupported JSON value of type %T", n)
}
