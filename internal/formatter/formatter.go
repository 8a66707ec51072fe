// Package formatter renders value trees as GBLN text.
package formatter

import (
	"strconv"
	"strings"

	"github.com/mcncl/gbln/internal/value"
)

// Options controls the layout of rendered text.
type Options struct {
	// Pretty selects the indented dialect; otherwise output is mini.
	Pretty bool
	// Indent is the number of spaces per nesting level in pretty output.
	Indent int
}

// Formatter renders values with a fixed set of options
type Formatter struct {
	opts Options
}

// NewFormatter creates a new Formatter instance
func NewFormatter(opts Options) *Formatter {
	if opts.Indent < 0 {
		opts.Indent = 0
	}
	return &Formatter{opts: opts}
}

// Format renders v. Keys are written in sorted order and every scalar carries
// its type hint, so parsing the output reproduces an equal tree.
func (f *Formatter) Format(v *value.Value) string {
	var sb strings.Builder
	f.writeValue(&sb, v, 0)
	return sb.String()
}

// Mini renders v without structural whitespace.
func Mini(v *value.Value) string {
	return NewFormatter(Options{}).Format(v)
}

// Pretty renders v with one field or element per line.
func Pretty(v *value.Value, indent int) string {
	return NewFormatter(Options{Pretty: true, Indent: indent}).Format(v)
}

// Render is the entry point used by the codec and the boundary.
func Render(v *value.Value, opts Options) string {
	return NewFormatter(opts).Format(v)
}

func (f *Formatter) writeValue(sb *strings.Builder, v *value.Value, depth int) {
	switch v.Kind() {
	case value.KindObject:
		f.writeObject(sb, v, depth)
	case value.KindArray:
		f.writeArray(sb, v, depth)
	default:
		writeScalar(sb, v, true)
	}
}

func (f *Formatter) writeObject(sb *strings.Builder, v *value.Value, depth int) {
	keys := v.Keys()
	if len(keys) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteByte('{')
	for _, k := range keys {
		child, _ := v.Get(k)
		f.newline(sb, depth+1)
		sb.WriteString(k)
		f.writeValue(sb, child, depth+1)
	}
	f.newline(sb, depth)
	sb.WriteByte('}')
}

func (f *Formatter) writeArray(sb *strings.Builder, v *value.Value, depth int) {
	elems := v.Elements()
	if len(elems) == 0 {
		sb.WriteString("[]")
		return
	}

	hint, uniform := uniformHint(elems)
	if uniform {
		sb.WriteByte('<')
		sb.WriteString(hint)
		sb.WriteByte('>')
	}
	sb.WriteByte('[')
	for _, e := range elems {
		f.newline(sb, depth+1)
		if uniform {
			writeScalar(sb, e, false)
		} else {
			f.writeValue(sb, e, depth+1)
		}
	}
	f.newline(sb, depth)
	sb.WriteByte(']')
}

func (f *Formatter) newline(sb *strings.Builder, depth int) {
	if !f.opts.Pretty {
		return
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", depth*f.opts.Indent))
}

// uniformHint reports whether every element is a scalar of one kind (and one
// string bound), returning the shared hint.
func uniformHint(elems []*value.Value) (string, bool) {
	first := HintText(elems[0])
	if first == "" {
		return "", false
	}
	for _, e := range elems[1:] {
		if HintText(e) != first {
			return "", false
		}
	}
	return first, true
}

// HintText returns the type hint that reproduces v's kind, or "" for
// containers.
func HintText(v *value.Value) string {
	switch k := v.Kind(); k {
	case value.KindStr:
		n, _ := v.MaxLen()
		return "s" + strconv.Itoa(n)
	case value.KindBool:
		return "b"
	case value.KindNull:
		return "n"
	case value.KindObject, value.KindArray:
		return ""
	default:
		return k.String()
	}
}

func writeScalar(sb *strings.Builder, v *value.Value, withHint bool) {
	if withHint {
		sb.WriteByte('<')
		sb.WriteString(HintText(v))
		sb.WriteByte('>')
	}
	sb.WriteByte('(')
	sb.WriteString(Literal(v))
	sb.WriteByte(')')
}

// Literal returns the escaped literal text of a scalar.
func Literal(v *value.Value) string {
	switch v.Kind() {
	case value.KindI8, value.KindI16, value.KindI32, value.KindI64:
		n, _ := v.Int()
		return strconv.FormatInt(n, 10)
	case value.KindU8, value.KindU16, value.KindU32, value.KindU64:
		n, _ := v.Uint()
		return strconv.FormatUint(n, 10)
	case value.KindF32:
		f, _ := v.AsF32()
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case value.KindF64:
		f, _ := v.AsF64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case value.KindStr:
		s, _ := v.AsString()
		return Escape(s)
	case value.KindBool:
		if b, _ := v.AsBool(); b {
			return "t"
		}
		return "f"
	}
	return ""
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`(`, `\(`,
	`)`, `\)`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// Escape makes s safe to place between literal parentheses.
func Escape(s string) string {
	return escaper.Replace(s)
}
