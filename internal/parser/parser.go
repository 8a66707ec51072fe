// Package parser turns GBLN text into a value tree.
package parser

import (
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/gbln/internal/errors" // Custom errors package
	"github.com/mcncl/gbln/internal/value"
)

// Parse reads GBLN text from reader and returns the root value.
func Parse(reader io.Reader) (*value.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewIOError("failed to read input", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a complete GBLN document held in memory.
func ParseBytes(data []byte) (*value.Value, error) {
	p := &parser{lex: newLexer(string(data))}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokEOF {
		return nil, errors.Wrap(errors.CodeUnexpectedEOF, "input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	root, err := p.parseDocument()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.unexpected("after the document")
	}
	return root, nil
}

// ParseString parses GBLN from a string
func ParseString(input string) (*value.Value, error) {
	return ParseBytes([]byte(input))
}

// ParseFile parses GBLN from a file path
func ParseFile(filePath string) (*value.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.Wrap(errors.CodeIO, "file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.CodeIO, fmt.Sprintf("file '%s' not found", filePath), errors.ErrFileNotFound)
		}
		return nil, errors.NewIOError(fmt.Sprintf("failed to read file '%s'", filePath), err)
	}
	if len(data) == 0 {
		return nil, errors.Wrap(errors.CodeUnexpectedEOF, fmt.Sprintf("input file '%s' is empty", filePath), errors.ErrFileEmpty)
	}
	return ParseBytes(data)
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) unexpected(context string) error {
	if p.tok.kind == tokEOF {
		return errors.Newf(errors.CodeUnexpectedEOF, "unexpected end of input %s", context)
	}
	found := p.tok.kind.String()
	if p.tok.kind == tokWord {
		found = fmt.Sprintf("word %q", p.tok.text)
	}
	return errors.Newf(errors.CodeUnexpectedToken, "unexpected %s at %s %s", found, p.tok.pos, context)
}

// at appends the source position to a freshly built validation error.
func at(err error, pos Position) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		e.Message = fmt.Sprintf("%s at %s", e.Message, pos)
		return e
	}
	return err
}

func (p *parser) parseDocument() (*value.Value, error) {
	switch p.tok.kind {
	case tokLBrace:
		return p.parseObject()
	case tokLBracket:
		return p.parseArray(nil)
	case tokLiteral:
		return p.scalar(nil)
	case tokHint:
		return p.parseHinted()
	case tokWord:
		// A bare field sequence is an object without braces.
		obj := value.NewObject()
		for p.tok.kind == tokWord {
			if err := p.parseField(obj); err != nil {
				return nil, err
			}
		}
		return obj, nil
	}
	return nil, p.unexpected("at the start of the document")
}

// parseHinted handles `<hint>(literal)` and `<hint>[elements]`.
func (p *parser) parseHinted() (*value.Value, error) {
	h, err := p.hint()
	if err != nil {
		return nil, err
	}
	switch p.tok.kind {
	case tokLiteral:
		return p.scalar(&h)
	case tokLBracket:
		return p.parseArray(&h)
	case tokLBrace:
		return nil, p.hintOnObject(h)
	}
	return nil, p.unexpected(fmt.Sprintf("after type hint <%s>", h))
}

// hint consumes a hint token.
func (p *parser) hint() (Hint, error) {
	tok := p.tok
	h, err := ParseHint(tok.text)
	if err != nil {
		return Hint{}, at(err, tok.pos)
	}
	if err := p.advance(); err != nil {
		return Hint{}, err
	}
	return h, nil
}

func (p *parser) hintOnObject(h Hint) error {
	return errors.Newf(errors.CodeTypeMismatch, "type hint <%s> cannot apply to an object at %s", h, p.tok.pos).
		WithSuggestion("remove the hint; objects are untyped")
}

// scalar consumes a literal or word token.
func (p *parser) scalar(h *Hint) (*value.Value, error) {
	tok := p.tok
	var (
		v   *value.Value
		err error
	)
	if h != nil {
		v, err = typed(*h, tok.text)
	} else {
		v, err = Infer(tok.text)
	}
	if err != nil {
		return nil, at(err, tok.pos)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *parser) parseObject() (*value.Value, error) {
	open := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	obj := value.NewObject()
	for {
		switch p.tok.kind {
		case tokRBrace:
			if err := p.advance(); err != nil {
				return nil, err
			}
			return obj, nil
		case tokWord:
			if err := p.parseField(obj); err != nil {
				return nil, err
			}
		case tokEOF:
			return nil, errors.Newf(errors.CodeUnexpectedEOF, "unclosed '{' opened at %s", open)
		default:
			return nil, p.unexpected("where a field name was expected")
		}
	}
}

func (p *parser) parseField(obj *value.Value) error {
	key := p.tok
	if err := p.advance(); err != nil {
		return err
	}

	var h *Hint
	if p.tok.kind == tokHint {
		parsed, err := p.hint()
		if err != nil {
			return err
		}
		h = &parsed
	}

	var (
		v   *value.Value
		err error
	)
	switch p.tok.kind {
	case tokLiteral:
		v, err = p.scalar(h)
	case tokLBrace:
		if h != nil {
			return p.hintOnObject(*h)
		}
		v, err = p.parseObject()
	case tokLBracket:
		v, err = p.parseArray(h)
	default:
		return p.unexpected(fmt.Sprintf("where the value of field %q was expected", key.text))
	}
	if err != nil {
		return err
	}

	if _, exists := obj.Get(key.text); exists {
		return errors.Newf(errors.CodeDuplicateKey, "duplicate key %q at %s", key.text, key.pos).
			WithSuggestion("use a different key name")
	}
	if err := obj.Insert(key.text, v); err != nil {
		return at(err, key.pos)
	}
	return nil
}

// typedElement parses a hinted element of an array typed h. The element hint
// may only restate h.
func (p *parser) typedElement(h Hint) (*value.Value, error) {
	pos := p.tok.pos
	eh, err := p.hint()
	if err != nil {
		return nil, err
	}
	if eh != h {
		return nil, errors.Newf(errors.CodeTypeMismatch,
			"element hint <%s> conflicts with array hint <%s> at %s", eh, h, pos).
			WithSuggestion("drop the element hint or use an untyped array")
	}
	if p.tok.kind != tokLiteral {
		return nil, errors.Newf(errors.CodeTypeMismatch,
			"array typed <%s> cannot contain a container at %s", h, p.tok.pos)
	}
	return p.scalar(&h)
}

// parseArray parses `[elements]`. Under a hint, untyped scalar elements take
// the hint and nested containers are rejected.
func (p *parser) parseArray(h *Hint) (*value.Value, error) {
	open := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	arr := value.NewArray()
	for {
		var (
			elem *value.Value
			err  error
		)
		switch p.tok.kind {
		case tokRBracket:
			if err := p.advance(); err != nil {
				return nil, err
			}
			return arr, nil
		case tokEOF:
			return nil, errors.Newf(errors.CodeUnexpectedEOF, "unclosed '[' opened at %s", open)
		case tokWord, tokLiteral:
			elem, err = p.scalar(h)
		case tokHint:
			if h == nil {
				elem, err = p.parseHinted()
			} else {
				elem, err = p.typedElement(*h)
			}
		case tokLBrace, tokLBracket:
			if h != nil {
				return nil, errors.Newf(errors.CodeTypeMismatch,
					"array typed <%s> cannot contain a container at %s", h, p.tok.pos)
			}
			if p.tok.kind == tokLBrace {
				elem, err = p.parseObject()
			} else {
				elem, err = p.parseArray(nil)
			}
		default:
			return nil, p.unexpected("inside an array")
		}
		if err != nil {
			return nil, err
		}
		if err := arr.Push(elem); err != nil {
			return nil, err
		}
	}
}
