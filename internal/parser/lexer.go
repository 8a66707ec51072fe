package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mcncl/gbln/internal/errors"
)

// Position is a 1-based line and column (in runes) within the input.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokHint
	tokLiteral
	tokWord
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokHint:
		return "type hint"
	case tokLiteral:
		return "literal"
	case tokWord:
		return "word"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

const (
	delimiters    = "{}[]()<>"
	commentMarker = ":|"
)

// lexer splits GBLN text into tokens. Literal escapes are decoded here so the
// parser only ever sees final content.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) pos() Position {
	return Position{Line: l.line, Col: l.col}
}

// peek decodes the rune at the current offset without consuming it.
func (l *lexer) peek() (rune, int, error) {
	if l.off >= len(l.src) {
		return 0, 0, nil
	}
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	if r == utf8.RuneError && size == 1 {
		return 0, 0, errors.Newf(errors.CodeInvalidSyntax, "invalid UTF-8 at %s", l.pos())
	}
	return r, size, nil
}

func (l *lexer) advance(r rune, size int) {
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) atEOF() bool {
	return l.off >= len(l.src)
}

// skipTrivia consumes whitespace and comments.
func (l *lexer) skipTrivia() error {
	for !l.atEOF() {
		if strings.HasPrefix(l.src[l.off:], commentMarker) {
			for !l.atEOF() && l.src[l.off] != '\n' {
				r, size, err := l.peek()
				if err != nil {
					return err
				}
				l.advance(r, size)
			}
			continue
		}
		r, size, err := l.peek()
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			return nil
		}
		l.advance(r, size)
	}
	return nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipTrivia(); err != nil {
		return token{}, err
	}
	start := l.pos()
	if l.atEOF() {
		return token{kind: tokEOF, pos: start}, nil
	}

	r, size, err := l.peek()
	if err != nil {
		return token{}, err
	}

	switch r {
	case '{':
		l.advance(r, size)
		return token{kind: tokLBrace, pos: start}, nil
	case '}':
		l.advance(r, size)
		return token{kind: tokRBrace, pos: start}, nil
	case '[':
		l.advance(r, size)
		return token{kind: tokLBracket, pos: start}, nil
	case ']':
		l.advance(r, size)
		return token{kind: tokRBracket, pos: start}, nil
	case '<':
		l.advance(r, size)
		return l.lexHint(start)
	case '(':
		l.advance(r, size)
		return l.lexLiteral(start)
	case ')', '>':
		return token{}, errors.Newf(errors.CodeUnexpectedChar, "unexpected character %q at %s", r, start)
	}

	if unicode.IsControl(r) {
		return token{}, errors.Newf(errors.CodeUnexpectedChar, "unexpected control character %U at %s", r, start)
	}
	return l.lexWord(start)
}

func (l *lexer) lexHint(start Position) (token, error) {
	var sb strings.Builder
	for {
		if l.atEOF() {
			return token{}, errors.Newf(errors.CodeUnexpectedEOF, "unterminated type hint starting at %s", start)
		}
		r, size, err := l.peek()
		if err != nil {
			return token{}, err
		}
		if r == '>' {
			l.advance(r, size)
			return token{kind: tokHint, text: sb.String(), pos: start}, nil
		}
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(delimiters, r) {
			return token{}, errors.Newf(errors.CodeUnexpectedChar, "unexpected character %q in type hint at %s", r, l.pos())
		}
		sb.WriteRune(r)
		l.advance(r, size)
	}
}

func (l *lexer) lexLiteral(start Position) (token, error) {
	var sb strings.Builder
	for {
		if l.atEOF() {
			return token{}, errors.Newf(errors.CodeUnterminatedString, "unterminated literal starting at %s", start).
				WithSuggestion("close the literal with ')' or escape it as '\\)'")
		}
		r, size, err := l.peek()
		if err != nil {
			return token{}, err
		}
		if r == 0 {
			return token{}, errors.Newf(errors.CodeInvalidSyntax, "NUL byte in literal at %s", l.pos())
		}
		l.advance(r, size)

		switch r {
		case ')':
			return token{kind: tokLiteral, text: sb.String(), pos: start}, nil
		case '\\':
			if l.atEOF() {
				return token{}, errors.Newf(errors.CodeUnterminatedString, "unterminated literal starting at %s", start)
			}
			esc, escSize, err := l.peek()
			if err != nil {
				return token{}, err
			}
			if esc == 0 {
				return token{}, errors.Newf(errors.CodeInvalidSyntax, "NUL byte in literal at %s", l.pos())
			}
			l.advance(esc, escSize)
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteRune(esc)
			}
		default:
			sb.WriteRune(r)
		}
	}
}

func (l *lexer) lexWord(start Position) (token, error) {
	begin := l.off
	for !l.atEOF() {
		if strings.HasPrefix(l.src[l.off:], commentMarker) {
			break
		}
		r, size, err := l.peek()
		if err != nil {
			return token{}, err
		}
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(delimiters, r) {
			break
		}
		l.advance(r, size)
	}
	return token{kind: tokWord, text: l.src[begin:l.off], pos: start}, nil
}
