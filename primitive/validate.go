package primitive

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const uuidPrefix = "urn:uuid:"

// ValidateCode checks raw against the code rules and returns a *CodeError
// for the first rule it violates.
//
// Rules are checked in a fixed order: empty, leading/trailing whitespace,
// tab/newline/carriage return, consecutive spaces, and finally the
// token pattern (single-space separated runs of non-whitespace).
func ValidateCode(raw string) error {
	if kind, ok := checkCode(raw); !ok {
		return &CodeError{Kind: kind, Value: raw}
	}
	return nil
}

func checkCode(raw string) (CodeErrorKind, bool) {
	if raw == "" {
		return CodeEmpty, false
	}
	if strings.TrimSpace(raw) != raw {
		return CodeLeadingTrailingWhitespace, false
	}
	if strings.ContainsAny(raw, "\t\n\r") {
		return CodeInvalidWhitespace, false
	}
	if strings.Contains(raw, "  ") {
		return CodeMultipleSpaces, false
	}
	if !utf8.ValidString(raw) {
		return CodeInvalidPattern, false
	}
	// Remaining whitespace other than U+0020 (vertical tab, form feed,
	// no-break space and friends) cannot separate or appear in a token.
	for _, r := range raw {
		if r != ' ' && unicode.IsSpace(r) {
			return CodeInvalidPattern, false
		}
	}
	return 0, true
}

// ValidateURI checks raw against the uri rules and returns a *URIError
// for the first rule it violates.
//
// Rules are checked in a fixed order: empty, control characters,
// lowercase urn:uuid, and scheme shape. The scheme rule only applies when
// the value contains "://": the part before it must be non-empty and made
// of letters, digits, '+', '-' or '.'.
func ValidateURI(raw string) error {
	if kind, ok := checkURI(raw); !ok {
		return &URIError{Kind: kind, Value: raw}
	}
	return nil
}

func checkURI(raw string) (URIErrorKind, bool) {
	if raw == "" {
		return URIEmpty, false
	}
	if !utf8.ValidString(raw) {
		return URIInvalidCharacters, false
	}
	for _, r := range raw {
		if unicode.IsControl(r) {
			return URIInvalidCharacters, false
		}
	}
	if strings.HasPrefix(raw, uuidPrefix) && raw != strings.ToLower(raw) {
		return URIUUIDNotLowercase, false
	}
	if !validScheme(raw) {
		return URIInvalidFormat, false
	}
	return 0, true
}

func validScheme(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	scheme, _, found := strings.Cut(trimmed, "://")
	if !found {
		return true
	}
	if scheme == "" {
		return false
	}
	for _, r := range scheme {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		if r == '+' || r == '-' || r == '.' {
			continue
		}
		return false
	}
	return true
}
