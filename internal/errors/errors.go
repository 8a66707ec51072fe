package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// Code is the stable error code reported across the boundary.
// Values are persisted and compared by consumers: never renumber them.
type Code int32

const (
	CodeOK                 Code = 0
	CodeUnexpectedChar     Code = 1
	CodeUnterminatedString Code = 2
	CodeUnexpectedToken    Code = 3
	CodeUnexpectedEOF      Code = 4
	CodeInvalidSyntax      Code = 5
	CodeIntOutOfRange      Code = 6
	CodeStringTooLong      Code = 7
	CodeTypeMismatch       Code = 8
	CodeInvalidTypeHint    Code = 9
	CodeDuplicateKey       Code = 10
	CodeNullPointer        Code = 11
	CodeIO                 Code = 12
)

// String returns the snake-case name of the code
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeUnexpectedChar:
		return "unexpected_char"
	case CodeUnterminatedString:
		return "unterminated_string"
	case CodeUnexpectedToken:
		return "unexpected_token"
	case CodeUnexpectedEOF:
		return "unexpected_eof"
	case CodeInvalidSyntax:
		return "invalid_syntax"
	case CodeIntOutOfRange:
		return "int_out_of_range"
	case CodeStringTooLong:
		return "string_too_long"
	case CodeTypeMismatch:
		return "type_mismatch"
	case CodeInvalidTypeHint:
		return "invalid_type_hint"
	case CodeDuplicateKey:
		return "duplicate_key"
	case CodeNullPointer:
		return "null_pointer"
	case CodeIO:
		return "io"
	default:
		return fmt.Sprintf("code(%d)", int32(c))
	}
}

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrNilHandle       = errors.New("null handle")
	ErrStaleHandle     = errors.New("handle is stale or already freed")
	ErrBorrowedHandle  = errors.New("handle is a borrowed reference")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeLexical    ErrorType = "lexical"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeBoundary   ErrorType = "boundary"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// TypeOf returns the taxonomy class a code belongs to
func TypeOf(c Code) ErrorType {
	switch c {
	case CodeUnexpectedChar, CodeUnterminatedString, CodeUnexpectedToken, CodeUnexpectedEOF, CodeInvalidSyntax:
		return ErrorTypeLexical
	case CodeIntOutOfRange, CodeStringTooLong, CodeTypeMismatch, CodeInvalidTypeHint, CodeDuplicateKey:
		return ErrorTypeValidation
	case CodeNullPointer, CodeIO:
		return ErrorTypeBoundary
	default:
		return ErrorTypeUnknown
	}
}

// Error is a coded error with an optional remediation suggestion
type Error struct {
	Type       ErrorType
	Code       Code
	Message    string
	Suggestion string
	Err        error
}

// Error implements error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithSuggestion sets the remediation hint and returns the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// New creates a coded error
func New(code Code, message string) *Error {
	return &Error{
		Type:    TypeOf(code),
		Code:    code,
		Message: message,
	}
}

// Newf creates a coded error with a formatted message
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a coded error around an underlying cause
func Wrap(code Code, message string, err error) *Error {
	return &Error{
		Type:    TypeOf(code),
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewIOError creates a new error related to file access
func NewIOError(message string, err error) *Error {
	return Wrap(CodeIO, message, err)
}

// NewNullPointerError creates a new error for a missing or invalid handle argument
func NewNullPointerError(message string, err error) *Error {
	return Wrap(CodeNullPointer, message, err)
}

// As returns the *Error in err's chain. Foreign errors are classified: filesystem
// errors become IO, anything else InvalidSyntax.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return Wrap(CodeIO, pathErr.Op+" "+pathErr.Path, err)
	}
	return Wrap(CodeInvalidSyntax, err.Error(), nil)
}

// CodeOf returns the code carried by err, CodeOK for nil
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	return As(err).Code
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var e *Error
	if errors.As(err, &e) {
		var msg string
		switch e.Type {
		case ErrorTypeLexical:
			msg = fmt.Sprintf("Syntax error: %s", e.Message)
		case ErrorTypeValidation:
			msg = fmt.Sprintf("Validation error: %s", e.Message)
		case ErrorTypeBoundary:
			if e.Code == CodeIO {
				msg = fmt.Sprintf("I/O error: %s", e.Message)
			} else {
				msg = fmt.Sprintf("Handle error: %s", e.Message)
			}
		default:
			msg = fmt.Sprintf("Error: %s", e.Message)
		}
		if e.Err != nil && e.Code == CodeIO {
			msg += fmt.Sprintf(" (%v)", e.Err)
		}
		return msg
	}

	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide GBLN data."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	return fmt.Sprintf("Error: %v", err)
}

// Suggestion returns the remediation hint carried by err, if any
func Suggestion(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Suggestion != "" {
		return e.Suggestion, true
	}
	return "", false
}
