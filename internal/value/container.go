package value

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mcncl/gbln/internal/errors"
)

// keyDelimiters are the characters that end a bare word in the text format.
const keyDelimiters = "{}[]()<>"

// ValidKey checks that k can be written as a field name and read back.
func ValidKey(k string) error {
	if k == "" {
		return errors.New(errors.CodeInvalidSyntax, "object key is empty")
	}
	if !utf8.ValidString(k) {
		return errors.New(errors.CodeInvalidSyntax, "object key is not valid UTF-8")
	}
	if strings.Contains(k, ":|") {
		return errors.Newf(errors.CodeInvalidSyntax, "object key %q contains a comment marker", k)
	}
	for _, r := range k {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(keyDelimiters, r) {
			return errors.Newf(errors.CodeInvalidSyntax, "object key %q contains %q", k, r).
				WithSuggestion("keys may not contain whitespace or any of " + keyDelimiters)
		}
	}
	return nil
}

// Get returns the child stored under key.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.kind != KindObject {
		return nil, false
	}
	child, ok := v.objVal[key]
	return child, ok
}

// Insert adds child under key. An existing key is never overwritten.
func (v *Value) Insert(key string, child *Value) error {
	if v == nil || child == nil {
		return errors.NewNullPointerError("insert on a null value", errors.ErrNilHandle)
	}
	if v.kind != KindObject {
		return errors.Newf(errors.CodeTypeMismatch, "cannot insert into %s", v.kind)
	}
	if err := ValidKey(key); err != nil {
		return err
	}
	if _, exists := v.objVal[key]; exists {
		return errors.Newf(errors.CodeDuplicateKey, "duplicate key: %s", key).
			WithSuggestion("use a different key name")
	}
	v.objVal[key] = child
	return nil
}

// Keys returns the object's keys in sorted order.
func (v *Value) Keys() []string {
	if v == nil || v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.objVal))
	for k := range v.objVal {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Index returns the i-th array element.
func (v *Value) Index(i int) (*Value, bool) {
	if v == nil || v.kind != KindArray || i < 0 || i >= len(v.arrVal) {
		return nil, false
	}
	return v.arrVal[i], true
}

// Push appends child to the array.
func (v *Value) Push(child *Value) error {
	if v == nil || child == nil {
		return errors.NewNullPointerError("push on a null value", errors.ErrNilHandle)
	}
	if v.kind != KindArray {
		return errors.Newf(errors.CodeTypeMismatch, "cannot push onto %s", v.kind)
	}
	v.arrVal = append(v.arrVal, child)
	return nil
}

// Len returns the number of entries of an object or elements of an array,
// and 0 for scalars.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindObject:
		return len(v.objVal)
	case KindArray:
		return len(v.arrVal)
	}
	return 0
}

// Elements returns the array's elements. The slice must not be modified.
func (v *Value) Elements() []*Value {
	if v == nil || v.kind != KindArray {
		return nil
	}
	return v.arrVal
}

// Walk visits v and every descendant depth first. Object children are
// visited in key order.
func Walk(v *Value, fn func(*Value)) {
	if v == nil {
		return
	}
	fn(v)
	switch v.kind {
	case KindObject:
		for _, k := range v.Keys() {
			Walk(v.objVal[k], fn)
		}
	case KindArray:
		for _, e := range v.arrVal {
			Walk(e, fn)
		}
	}
}
