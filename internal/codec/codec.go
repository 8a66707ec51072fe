// Package codec persists value trees as GBLN text, optionally gzip
// compressed.
package codec

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/mcncl/gbln/internal/config"
	"github.com/mcncl/gbln/internal/errors"
	"github.com/mcncl/gbln/internal/formatter"
	"github.com/mcncl/gbln/internal/logging"
	"github.com/mcncl/gbln/internal/parser"
	"github.com/mcncl/gbln/internal/value"
)

// gzipMagic is the gzip member header: ID1, ID2 and the deflate method byte.
var gzipMagic = []byte{0x1f, 0x8b, 0x08}

// IsCompressed reports whether data starts with a gzip header. Text output
// always starts with '{', '[', '<' or '(' and the lexer rejects control
// characters, so text can never be mistaken for compressed data.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}

// Encode renders v according to cfg.
func Encode(v *value.Value, cfg config.Config) ([]byte, error) {
	if v == nil {
		return nil, errors.NewNullPointerError("cannot encode a null value", errors.ErrNilHandle)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var text string
	if cfg.MiniMode {
		text = formatter.Mini(v)
	} else {
		text = formatter.Pretty(v, cfg.Indent) + "\n"
	}
	if !cfg.Compress {
		return []byte(text), nil
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, int(cfg.CompressionLevel))
	if err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("invalid compression level %d", cfg.CompressionLevel), err)
	}
	if _, err := io.WriteString(zw, text); err != nil {
		return nil, errors.NewIOError("failed to compress output", err)
	}
	if err := zw.Close(); err != nil {
		return nil, errors.NewIOError("failed to compress output", err)
	}
	return buf.Bytes(), nil
}

// Decode parses data produced by Encode, decompressing first when the gzip
// header is present.
func Decode(data []byte) (*value.Value, error) {
	if IsCompressed(data) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.NewIOError("corrupt compressed data", err)
		}
		defer func() { _ = zr.Close() }()

		plain, err := io.ReadAll(zr)
		if err != nil {
			return nil, errors.NewIOError("corrupt compressed data", err)
		}
		data = plain
	}
	return parser.ParseBytes(data)
}

// WriteIO encodes v and writes it to path in one call. A crash mid-write can
// leave a partial file.
func WriteIO(v *value.Value, path string, cfg config.Config) error {
	data, err := Encode(v, cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to write '%s'", path), err)
	}
	logging.L().Debug("wrote file",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
		zap.Bool("mini", cfg.MiniMode),
		zap.Bool("compressed", cfg.Compress))
	return nil
}

// ReadIO reads and decodes the file at path.
func ReadIO(path string) (*value.Value, error) {
	if path == "" {
		return nil, errors.Wrap(errors.CodeIO, "file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.CodeIO, fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
		}
		return nil, errors.NewIOError(fmt.Sprintf("failed to read '%s'", path), err)
	}
	logging.L().Debug("read file",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
		zap.Bool("compressed", IsCompressed(data)))
	return Decode(data)
}
