package primitive

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by CodeError and URIError through errors.Is.
var (
	ErrEmpty                     = errors.New("value is empty")
	ErrLeadingTrailingWhitespace = errors.New("leading or trailing whitespace")
	ErrInvalidWhitespace         = errors.New("tab, newline or carriage return")
	ErrMultipleSpaces            = errors.New("consecutive spaces")
	ErrInvalidPattern            = errors.New("does not match code pattern")
	ErrInvalidCharacters         = errors.New("control characters")
	ErrUUIDNotLowercase          = errors.New("urn:uuid must be lowercase")
	ErrInvalidFormat             = errors.New("invalid uri format")
)

// CodeErrorKind identifies which code rule rejected a value.
type CodeErrorKind int

// Code rule kinds, in the order they are checked.
const (
	CodeEmpty CodeErrorKind = iota + 1
	CodeLeadingTrailingWhitespace
	CodeInvalidWhitespace
	CodeMultipleSpaces
	CodeInvalidPattern
)

// String returns the string representation of the kind.
func (k CodeErrorKind) String() string {
	switch k {
	case CodeEmpty:
		return "Empty"
	case CodeLeadingTrailingWhitespace:
		return "LeadingTrailingWhitespace"
	case CodeInvalidWhitespace:
		return "InvalidWhitespace"
	case CodeMultipleSpaces:
		return "MultipleSpaces"
	case CodeInvalidPattern:
		return "InvalidPattern"
	default:
		return fmt.Sprintf("CodeErrorKind(%d)", int(k))
	}
}

func (k CodeErrorKind) sentinel() error {
	switch k {
	case CodeEmpty:
		return ErrEmpty
	case CodeLeadingTrailingWhitespace:
		return ErrLeadingTrailingWhitespace
	case CodeInvalidWhitespace:
		return ErrInvalidWhitespace
	case CodeMultipleSpaces:
		return ErrMultipleSpaces
	case CodeInvalidPattern:
		return ErrInvalidPattern
	default:
		return nil
	}
}

// CodeError reports the first code rule a value violated.
type CodeError struct {
	Kind  CodeErrorKind
	Value string
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("invalid code %q: %v", e.Value, e.Kind.sentinel())
}

func (e *CodeError) Unwrap() error {
	return e.Kind.sentinel()
}

// URIErrorKind identifies which uri rule rejected a value.
type URIErrorKind int

// URI rule kinds, in the order they are checked.
const (
	URIEmpty URIErrorKind = iota + 1
	URIInvalidCharacters
	URIUUIDNotLowercase
	URIInvalidFormat
)

// String returns the string representation of the kind.
func (k URIErrorKind) String() string {
	switch k {
	case URIEmpty:
		return "Empty"
	case URIInvalidCharacters:
		return "InvalidCharacters"
	case URIUUIDNotLowercase:
		return "UuidNotLowercase"
	case URIInvalidFormat:
		return "InvalidFormat"
	default:
		return fmt.Sprintf("URIErrorKind(%d)", int(k))
	}
}

func (k URIErrorKind) sentinel() error {
	switch k {
	case URIEmpty:
		return ErrEmpty
	case URIInvalidCharacters:
		return ErrInvalidCharacters
	case URIUUIDNotLowercase:
		return ErrUUIDNotLowercase
	case URIInvalidFormat:
		return ErrInvalidFormat
	default:
		return nil
	}
}

// URIError reports the first uri rule a value violated.
type URIError struct {
	Kind  URIErrorKind
	Value string
}

func (e *URIError) Error() string {
	return fmt.Sprintf("invalid uri %q: %v", e.Value, e.Kind.sentinel())
}

func (e *URIError) Unwrap() error {
	return e.Kind.sentinel()
}
