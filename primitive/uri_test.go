package primitive

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateURI(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    URIErrorKind
		wantErr error
	}{
		{"http", "http://hl7.org/fhir", 0, nil},
		{"relative", "Patient/123", 0, nil},
		{"urn oid", "urn:oid:1.2.3", 0, nil},
		{"uuid lowercase", "urn:uuid:c757873d-ec9a-4326-a141-556f43239520", 0, nil},
		{"scheme with plus", "svn+ssh://host/repo", 0, nil},
		{"fragment", "http://hl7.org/fhir#x", 0, nil},
		{"inner space", "a b", 0, nil},
		{"empty", "", URIEmpty, ErrEmpty},
		{"newline", "http://a\nb", URIInvalidCharacters, ErrInvalidCharacters},
		{"nul", "a\x00", URIInvalidCharacters, ErrInvalidCharacters},
		{"c1 control", "a\u0085", URIInvalidCharacters, ErrInvalidCharacters},
		{"invalid utf8", "http://\xff", URIInvalidCharacters, ErrInvalidCharacters},
		{"uuid uppercase", "urn:uuid:C757873D-EC9A-4326-A141-556F43239520", URIUUIDNotLowercase, ErrUUIDNotLowercase},
		{"control wins over uuid case", "urn:uuid:ABC\t", URIInvalidCharacters, ErrInvalidCharacters},
		{"missing scheme", "://host", URIInvalidFormat, ErrInvalidFormat},
		{"bad scheme", "ht tp://host", URIInvalidFormat, ErrInvalidFormat},
		{"underscore scheme", "my_scheme://host", URIInvalidFormat, ErrInvalidFormat},
		{"whitespace only", "   ", URIInvalidFormat, ErrInvalidFormat},
		{"padded scheme", "  http://host", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURI(tt.value)
			if tt.want == 0 {
				if err != nil {
					t.Fatalf("ValidateURI(%q) = %v; want nil", tt.value, err)
				}
				return
			}

			var uriErr *URIError
			if !errors.As(err, &uriErr) {
				t.Fatalf("ValidateURI(%q) = %v; want *URIError", tt.value, err)
			}
			if uriErr.Kind != tt.want {
				t.Errorf("Kind = %v; want %v", uriErr.Kind, tt.want)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantErr)
			}
		})
	}
}

func TestURIQueries(t *testing.T) {
	tests := []struct {
		value    string
		uuid     bool
		absolute bool
		fragment string
		hasFrag  bool
	}{
		{"http://hl7.org/fhir/StructureDefinition/Patient", false, true, "", false},
		{"http://hl7.org/fhir#section", false, true, "section", true},
		{"Patient/1#a#b", false, false, "a#b", true},
		{"urn:uuid:c757873d-ec9a-4326-a141-556f43239520", true, false, "", false},
		{"x#", false, false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			u := MustURI(tt.value)
			if u.IsUUID() != tt.uuid {
				t.Errorf("IsUUID() = %v; want %v", u.IsUUID(), tt.uuid)
			}
			if u.IsAbsolute() != tt.absolute {
				t.Errorf("IsAbsolute() = %v; want %v", u.IsAbsolute(), tt.absolute)
			}
			if u.IsRelative() == u.IsAbsolute() {
				t.Error("IsRelative() must negate IsAbsolute()")
			}
			frag, ok := u.Fragment()
			if frag != tt.fragment || ok != tt.hasFrag {
				t.Errorf("Fragment() = (%q, %v); want (%q, %v)", frag, ok, tt.fragment, tt.hasFrag)
			}
		})
	}
}

func TestNewUUIDURI(t *testing.T) {
	u := NewUUIDURI()
	if err := u.Validate(); err != nil {
		t.Fatalf("NewUUIDURI() produced invalid uri: %v", err)
	}
	if !u.IsUUID() {
		t.Errorf("IsUUID() = false for %q", u)
	}
	id, ok := u.UUID()
	if !ok {
		t.Fatalf("UUID() failed for %q", u)
	}
	if "urn:uuid:"+id.String() != u.String() {
		t.Errorf("UUID() = %s; want suffix of %s", id, u)
	}
	if u == NewUUIDURI() {
		t.Error("NewUUIDURI() returned the same value twice")
	}
}

func TestURIUUIDNotParsable(t *testing.T) {
	if _, ok := MustURI("urn:uuid:not-a-uuid").UUID(); ok {
		t.Error("UUID() should fail for a malformed identifier")
	}
	if _, ok := MustURI("http://x").UUID(); ok {
		t.Error("UUID() should fail for a non-uuid uri")
	}
}

func TestUncheckedURI(t *testing.T) {
	u := UncheckedURI("urn:uuid:ABC")
	if !strings.HasSuffix(u.String(), "ABC") {
		t.Errorf("String() = %q", u)
	}
	if err := u.Validate(); !errors.Is(err, ErrUUIDNotLowercase) {
		t.Errorf("Validate() = %v; want ErrUUIDNotLowercase", err)
	}
}

func TestURIText(t *testing.T) {
	var u URI
	if err := u.UnmarshalText([]byte("http://example.org")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if err := u.UnmarshalText([]byte("")); !errors.Is(err, ErrEmpty) {
		t.Errorf("UnmarshalText(\"\") = %v; want ErrEmpty", err)
	}
	text, _ := u.MarshalText()
	if string(text) != "http://example.org" {
		t.Errorf("MarshalText() = %s", text)
	}
}
