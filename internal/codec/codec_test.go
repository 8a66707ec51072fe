package codec

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/gbln/internal/config"
	"github.com/mcncl/gbln/internal/errors"
	"github.com/mcncl/gbln/internal/parser"
	"github.com/mcncl/gbln/internal/value"
)

func sample(t *testing.T) *value.Value {
	t.Helper()
	v, err := parser.ParseString("user{id<u32>(12345)name<s32>(Alice)tags<s16>[rust-lang python-dev]score<f64>(98.5)}")
	require.NoError(t, err)
	return v
}

func TestWriteReadIO_RoundTrip(t *testing.T) {
	uncompressed := config.IOFormat()
	uncompressed.Compress = false

	level0 := config.IOFormat()
	level0.CompressionLevel = 0

	level9 := config.IOFormat()
	level9.CompressionLevel = 9

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"io format", config.IOFormat()},
		{"development", config.Development()},
		{"mini uncompressed", uncompressed},
		{"store only", level0},
		{"best compression", level9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := sample(t)
			path := filepath.Join(t.TempDir(), "data"+tt.cfg.Extension())

			require.NoError(t, WriteIO(original, path, tt.cfg))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Compress, IsCompressed(data))

			got, err := ReadIO(path)
			require.NoError(t, err)
			assert.True(t, value.Equal(original, got))
		})
	}
}

func TestWriteIO_UncompressedIsReadableText(t *testing.T) {
	cfg := config.IOFormat()
	cfg.Compress = false
	path := filepath.Join(t.TempDir(), "plain.io.gbln")

	require.NoError(t, WriteIO(sample(t), path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"{user{id<u32>(12345)name<s32>(Alice)score<f64>(98.5)tags<s16>[(rust-lang)(python-dev)]}}",
		string(data))
}

func TestEncode_PrettyEndsWithNewline(t *testing.T) {
	data, err := Encode(sample(t), config.Development())
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])
	assert.Contains(t, string(data), "\n    id<u32>(12345)\n")
}

func TestEncode_InvalidConfig(t *testing.T) {
	cfg := config.IOFormat()
	cfg.CompressionLevel = 12
	_, err := Encode(sample(t), cfg)
	require.Error(t, err)
	assert.Equal(t, errors.CodeIO, errors.CodeOf(err))

	_, err = Encode(nil, config.IOFormat())
	assert.Equal(t, errors.CodeNullPointer, errors.CodeOf(err))
}

func TestIsCompressed(t *testing.T) {
	assert.True(t, IsCompressed([]byte{0x1f, 0x8b, 0x08, 0x00}))
	assert.False(t, IsCompressed([]byte{0x1f, 0x8b}))
	assert.False(t, IsCompressed([]byte("{a(1)}")))
	assert.False(t, IsCompressed(nil))
}

func TestReadIO_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadIO(filepath.Join(dir, "missing.io.gbln.gz"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeIO, errors.CodeOf(err))
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))

	_, err = ReadIO("")
	assert.Equal(t, errors.CodeIO, errors.CodeOf(err))

	malformed := filepath.Join(dir, "malformed.gbln")
	require.NoError(t, os.WriteFile(malformed, []byte("{a<i8>(999)}"), 0o644))
	_, err = ReadIO(malformed)
	assert.Equal(t, errors.CodeIntOutOfRange, errors.CodeOf(err), "parse errors surface verbatim")

	corrupt := filepath.Join(dir, "corrupt.io.gbln.gz")
	require.NoError(t, os.WriteFile(corrupt, []byte{0x1f, 0x8b, 0x08, 0x00, 0xde, 0xad, 0xbe, 0xef}, 0o644))
	_, err = ReadIO(corrupt)
	assert.Equal(t, errors.CodeIO, errors.CodeOf(err))
}

func TestWriteIO_UnwritablePath(t *testing.T) {
	err := WriteIO(sample(t), filepath.Join(t.TempDir(), "no", "such", "dir", "x.gbln"), config.IOFormat())
	require.Error(t, err)
	assert.Equal(t, errors.CodeIO, errors.CodeOf(err))
}

func TestDecode_TruncatedCompressedData(t *testing.T) {
	data, err := Encode(sample(t), config.IOFormat())
	require.NoError(t, err)

	_, err = Decode(data[:len(data)/2])
	assert.Equal(t, errors.CodeIO, errors.CodeOf(err))
}
