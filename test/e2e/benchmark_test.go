package e2e_test

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcncl/gbln/abi"
	"github.com/mcncl/gbln/internal/codec"
	"github.com/mcncl/gbln/internal/config"
	"github.com/mcncl/gbln/internal/parser"
)

// generateNested creates a deeply nested document
func generateNested(depth int, width int) string {
	if depth <= 0 {
		return "{leaf<s8>(data)count<u16>(42)enabled<b>(t)ratio<f64>(0.25)}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i := 0; i < width; i++ {
		fmt.Fprintf(&sb, "nested_%d_%d", depth, i)
		sb.WriteString(generateNested(depth-1, width))
	}
	sb.WriteByte('}')
	return sb.String()
}

// generateWide creates an object with many fields at the same level
func generateWide(fieldCount int) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i := 0; i < fieldCount; i++ {
		// Mix different types of fields
		switch i % 5 {
		case 0:
			fmt.Fprintf(&sb, "string_field_%d<s16>(value_%d)", i, i)
		case 1:
			fmt.Fprintf(&sb, "int_field_%d<i32>(%d)", i, i)
		case 2:
			fmt.Fprintf(&sb, "bool_field_%d<b>(%t)", i, i%2 == 0)
		case 3:
			fmt.Fprintf(&sb, "float_field_%d<f64>(%g)", i, float64(i)+0.5)
		case 4:
			fmt.Fprintf(&sb, "object_field_%d{id<u32>(%d)name<s16>(Object %d)}", i, i, i)
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

// generateArray creates an array of records
func generateArray(n int) string {
	r := rand.New(rand.NewSource(1))
	var sb strings.Builder
	sb.WriteString("{items[")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "{id<u64>(%d)score<f32>(%g)tags<s8>[(a)(bb)(ccc)]}", r.Uint64(), r.Float32())
	}
	sb.WriteString("]}")
	return sb.String()
}

func BenchmarkParse(b *testing.B) {
	inputs := map[string]string{
		"deep":  generateNested(5, 3),
		"wide":  generateWide(1000),
		"array": generateArray(1000),
	}
	for name, input := range inputs {
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(input)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := parser.ParseString(input); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRender(b *testing.B) {
	bd := abi.New()
	code, h := bd.Parse(generateArray(1000))
	require.Equal(b, abi.CodeOK, code)
	defer bd.Free(h)

	b.Run("mini", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			bd.StringFree(bd.ToString(h))
		}
	})
	b.Run("pretty", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			bd.StringFree(bd.ToStringPretty(h))
		}
	})
}

func BenchmarkCodec(b *testing.B) {
	v, err := parser.ParseString(generateWide(1000))
	require.NoError(b, err)

	for _, level := range []uint8{1, 6, 9} {
		cfg := config.IOFormat()
		cfg.CompressionLevel = level
		data, err := codec.Encode(v, cfg)
		require.NoError(b, err)

		b.Run(fmt.Sprintf("encode-level-%d", level), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := codec.Encode(v, cfg); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run(fmt.Sprintf("decode-level-%d", level), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := codec.Decode(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkWriteReadIO(b *testing.B) {
	bd := abi.New()
	code, h := bd.Parse(generateNested(4, 4))
	require.Equal(b, abi.CodeOK, code)
	defer bd.Free(h)
	path := filepath.Join(b.TempDir(), "bench.io.gbln.gz")

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if code := bd.WriteIO(h, path, nil); code != abi.CodeOK {
			b.Fatalf("WriteIO: %v", code)
		}
		code, read := bd.ReadIO(path)
		if code != abi.CodeOK {
			b.Fatalf("ReadIO: %v", code)
		}
		bd.Free(read)
	}
}

func BenchmarkConstructFree(b *testing.B) {
	bd := abi.New()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		obj := bd.NewObject()
		arr := bd.NewArray()
		for j := 0; j < 16; j++ {
			bd.ArrayPush(arr, bd.NewU32(uint32(j)))
		}
		bd.ObjectInsert(obj, "items", arr)
		bd.ObjectInsert(obj, "name", bd.NewStr("bench", 8))
		bd.Free(obj)
	}
	if s := bd.Stats(); s != (abi.Stats{}) {
		b.Fatalf("leaked: %+v", s)
	}
}
