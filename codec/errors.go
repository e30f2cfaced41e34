package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DecodeErrorKind classifies a decoding failure.
type DecodeErrorKind int

// Decoding failure kinds.
const (
	// KindMalformed is a syntax error, truncated input or trailing data.
	KindMalformed DecodeErrorKind = iota + 1
	// KindTypeMismatch is a JSON value of the wrong shape for its field.
	KindTypeMismatch
	// KindMissingField is an absent or null required field.
	KindMissingField
	// KindUnknownField is a key the schema does not define. Keys that differ
	// from a defined key only in case are rejected in every mode; any other
	// undefined key only in strict mode.
	KindUnknownField
	// KindInvalidValue is a code or uri that failed validation.
	KindInvalidValue
	// KindChoiceConflict is more than one variant of a choice field.
	KindChoiceConflict
	// KindUnknownResourceType is a discriminator no decoder handles.
	KindUnknownResourceType
)

// String returns the string representation of the kind.
func (k DecodeErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "Malformed"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindMissingField:
		return "MissingField"
	case KindUnknownField:
		return "UnknownField"
	case KindInvalidValue:
		return "InvalidValue"
	case KindChoiceConflict:
		return "ChoiceConflict"
	case KindUnknownResourceType:
		return "UnknownResourceType"
	default:
		return "DecodeErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

var (
	errTrailingData    = errors.New("unexpected data after top-level value")
	errRequired        = errors.New("required field is absent")
	errChoiceConflict  = errors.New("more than one choice variant present")
	errEmptyInput      = errors.New("empty input")
	errDiscriminator   = errors.New("resourceType is not a string")
	errUnsupportedType = errors.New("unsupported resource type")
	errUndefinedKey    = errors.New("key is not defined (keys are case-sensitive)")
)

// ErrUnsupportedResource is returned by Encode for resource values this
// package has no encoder for.
var ErrUnsupportedResource = errors.New("codec: unsupported resource")

// DecodeError is the single error type returned by every decoder.
// No partial value is ever returned alongside it.
type DecodeError struct {
	Kind DecodeErrorKind
	// Path is the dotted field path, e.g. "contact[0].name.family". It is
	// empty for errors at the document root.
	Path string
	// Offset is the byte offset of a syntax error, or -1 when unknown.
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode: ")
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *DecodeError of the given kind.
func IsKind(err error, kind DecodeErrorKind) bool {
	var de *DecodeError
	return errors.As(err, &de) && de.Kind == kind
}

func newDecodeError(kind DecodeErrorKind, path string, err error) *DecodeError {
	return &DecodeError{Kind: kind, Path: path, Offset: -1, Err: err}
}

func missing(path string) error {
	return newDecodeError(KindMissingField, path, errRequired)
}

func invalid(path string, err error) error {
	return newDecodeError(KindInvalidValue, path, err)
}

// classify maps an encoding/json error onto a DecodeError.
func classify(err error) *DecodeError {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &syntaxErr):
		de := newDecodeError(KindMalformed, "", err)
		de.Offset = syntaxErr.Offset
		return de
	case errors.As(err, &typeErr):
		de := newDecodeError(KindTypeMismatch, typeErr.Field, err)
		de.Offset = typeErr.Offset
		return de
	case errors.Is(err, io.EOF):
		return newDecodeError(KindMalformed, "", errEmptyInput)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return newDecodeError(KindMalformed, "", err)
	}

	// encoding/json reports unknown fields with an unexported error type.
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return newDecodeError(KindUnknownField, strings.Trim(field, `"`), err)
	}
	return newDecodeError(KindMalformed, "", err)
}
