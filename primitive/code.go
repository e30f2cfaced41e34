// Package primitive provides the constrained FHIR primitive types code and
// uri. Values are validated when constructed and never change afterwards.
package primitive

import (
	"strings"
)

// Code is a FHIR code: one or more non-whitespace tokens separated by
// single spaces. The zero value is not a valid code and marks an unset
// field.
type Code struct {
	value string
}

// NewCode validates s and returns it as a Code.
func NewCode(s string) (Code, error) {
	if err := ValidateCode(s); err != nil {
		return Code{}, err
	}
	return Code{value: s}, nil
}

// MustCode is like NewCode but panics if s is not a valid code.
// It is meant for literals.
func MustCode(s string) Code {
	c, err := NewCode(s)
	if err != nil {
		panic(err)
	}
	return c
}

// UncheckedCode wraps s without validating it. The caller asserts that s
// is already a valid code, for example because it was read back from a
// store this package wrote.
func UncheckedCode(s string) Code {
	return Code{value: s}
}

// String returns the underlying value.
func (c Code) String() string {
	return c.value
}

// IsZero reports whether c is the zero value.
func (c Code) IsZero() bool {
	return c.value == ""
}

// Validate re-runs the code rules against c.
func (c Code) Validate() error {
	return ValidateCode(c.value)
}

// Tokens splits the code on single spaces.
func (c Code) Tokens() []string {
	return strings.Split(c.value, " ")
}

// TokenCount returns len(c.Tokens()).
func (c Code) TokenCount() int {
	return strings.Count(c.value, " ") + 1
}

// IsSingleToken reports whether the code has exactly one token.
func (c Code) IsSingleToken() bool {
	return c.TokenCount() == 1
}

// IsMultiToken reports whether the code has more than one token.
func (c Code) IsMultiToken() bool {
	return c.TokenCount() > 1
}

// Compare orders codes by their underlying value.
func (c Code) Compare(other Code) int {
	return strings.Compare(c.value, other.value)
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text is
// validated; on failure c is left unchanged.
func (c *Code) UnmarshalText(text []byte) error {
	v, err := NewCode(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
