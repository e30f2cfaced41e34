package primitive

import (
	"strings"

	"github.com/google/uuid"
)

// URI is a FHIR uri. The zero value is not a valid uri and marks an unset
// field.
type URI struct {
	value string
}

// NewURI validates s and returns it as a URI.
func NewURI(s string) (URI, error) {
	if err := ValidateURI(s); err != nil {
		return URI{}, err
	}
	return URI{value: s}, nil
}

// MustURI is like NewURI but panics if s is not a valid uri.
// It is meant for literals.
func MustURI(s string) URI {
	u, err := NewURI(s)
	if err != nil {
		panic(err)
	}
	return u
}

// UncheckedURI wraps s without validating it. The caller asserts that s
// is already a valid uri.
func UncheckedURI(s string) URI {
	return URI{value: s}
}

// NewUUIDURI returns a fresh random urn:uuid uri.
func NewUUIDURI() URI {
	return URI{value: uuidPrefix + uuid.NewString()}
}

// String returns the underlying value.
func (u URI) String() string {
	return u.value
}

// IsZero reports whether u is the zero value.
func (u URI) IsZero() bool {
	return u.value == ""
}

// Validate re-runs the uri rules against u.
func (u URI) Validate() error {
	return ValidateURI(u.value)
}

// IsUUID reports whether u uses the urn:uuid scheme.
func (u URI) IsUUID() bool {
	return strings.HasPrefix(u.value, uuidPrefix)
}

// UUID parses the identifier of a urn:uuid uri.
func (u URI) UUID() (uuid.UUID, bool) {
	if !u.IsUUID() {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimPrefix(u.value, uuidPrefix))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// IsAbsolute reports whether u contains a "://" scheme separator.
func (u URI) IsAbsolute() bool {
	return strings.Contains(u.value, "://")
}

// IsRelative is the negation of IsAbsolute.
func (u URI) IsRelative() bool {
	return !u.IsAbsolute()
}

// Fragment returns everything after the first '#'. The second result is
// false when u has no '#'.
func (u URI) Fragment() (string, bool) {
	_, frag, found := strings.Cut(u.value, "#")
	return frag, found
}

// Compare orders uris by their underlying value.
func (u URI) Compare(other URI) int {
	return strings.Compare(u.value, other.value)
}

// MarshalText implements encoding.TextMarshaler.
func (u URI) MarshalText() ([]byte, error) {
	return []byte(u.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text is
// validated; on failure u is left unchanged.
func (u *URI) UnmarshalText(text []byte) error {
	v, err := NewURI(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
