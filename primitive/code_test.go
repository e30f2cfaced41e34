package primitive

// Value-level tests use the testing package alone.

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateCode(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    CodeErrorKind
		wantErr error
	}{
		{"simple", "active", 0, nil},
		{"multi token", "http://x 123", 0, nil},
		{"hyphenated", "entered-in-error", 0, nil},
		{"unicode", "código", 0, nil},
		{"empty", "", CodeEmpty, ErrEmpty},
		{"leading space", " active", CodeLeadingTrailingWhitespace, ErrLeadingTrailingWhitespace},
		{"trailing space", "active ", CodeLeadingTrailingWhitespace, ErrLeadingTrailingWhitespace},
		{"trailing newline", "active\n", CodeLeadingTrailingWhitespace, ErrLeadingTrailingWhitespace},
		{"only spaces", "   ", CodeLeadingTrailingWhitespace, ErrLeadingTrailingWhitespace},
		{"inner tab", "a\tb", CodeInvalidWhitespace, ErrInvalidWhitespace},
		{"inner newline", "a\nb", CodeInvalidWhitespace, ErrInvalidWhitespace},
		{"inner carriage return", "a\rb", CodeInvalidWhitespace, ErrInvalidWhitespace},
		{"double space", "a  b", CodeMultipleSpaces, ErrMultipleSpaces},
		{"tab wins over double space", "a\tb  c", CodeInvalidWhitespace, ErrInvalidWhitespace},
		{"leading space wins over double space", " a  b", CodeLeadingTrailingWhitespace, ErrLeadingTrailingWhitespace},
		{"trailing space wins over double space", "a  b ", CodeLeadingTrailingWhitespace, ErrLeadingTrailingWhitespace},
		{"leading space wins over tab", " a\tb", CodeLeadingTrailingWhitespace, ErrLeadingTrailingWhitespace},
		{"no-break space", "a\u00a0b", CodeInvalidPattern, ErrInvalidPattern},
		{"vertical tab", "a\vb", CodeInvalidPattern, ErrInvalidPattern},
		{"invalid utf8", "a\xffb", CodeInvalidPattern, ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCode(tt.value)
			if tt.want == 0 {
				if err != nil {
					t.Fatalf("ValidateCode(%q) = %v; want nil", tt.value, err)
				}
				return
			}

			var codeErr *CodeError
			if !errors.As(err, &codeErr) {
				t.Fatalf("ValidateCode(%q) = %v; want *CodeError", tt.value, err)
			}
			if codeErr.Kind != tt.want {
				t.Errorf("Kind = %v; want %v", codeErr.Kind, tt.want)
			}
			if codeErr.Value != tt.value {
				t.Errorf("Value = %q; want %q", codeErr.Value, tt.value)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantErr)
			}
		})
	}
}

func TestNewCode(t *testing.T) {
	c, err := NewCode("final")
	if err != nil {
		t.Fatalf("NewCode() error = %v", err)
	}
	if c.String() != "final" {
		t.Errorf("String() = %q; want %q", c.String(), "final")
	}

	c, err = NewCode("bad  code")
	if err == nil {
		t.Fatal("NewCode() expected error")
	}
	if !c.IsZero() {
		t.Errorf("NewCode() on failure returned %q; want zero", c.String())
	}
}

func TestUncheckedCode(t *testing.T) {
	c := UncheckedCode("bad  code")
	if c.String() != "bad  code" {
		t.Errorf("String() = %q", c.String())
	}
	if err := c.Validate(); !errors.Is(err, ErrMultipleSpaces) {
		t.Errorf("Validate() = %v; want ErrMultipleSpaces", err)
	}
}

func TestMustCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCode() did not panic")
		}
	}()
	MustCode("")
}

func TestCodeTokens(t *testing.T) {
	tests := []struct {
		value  string
		tokens []string
		single bool
	}{
		{"active", []string{"active"}, true},
		{"http://x 123", []string{"http://x", "123"}, false},
		{"a b c", []string{"a", "b", "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c := MustCode(tt.value)
			got := c.Tokens()
			if len(got) != len(tt.tokens) {
				t.Fatalf("Tokens() = %v; want %v", got, tt.tokens)
			}
			for i := range got {
				if got[i] != tt.tokens[i] {
					t.Errorf("Tokens()[%d] = %q; want %q", i, got[i], tt.tokens[i])
				}
			}
			if c.TokenCount() != len(got) {
				t.Errorf("TokenCount() = %d; want %d", c.TokenCount(), len(got))
			}
			if c.IsSingleToken() != tt.single {
				t.Errorf("IsSingleToken() = %v; want %v", c.IsSingleToken(), tt.single)
			}
			if c.IsMultiToken() == c.IsSingleToken() {
				t.Errorf("IsMultiToken() = %v; want %v", c.IsMultiToken(), !c.IsSingleToken())
			}
		})
	}
}

func TestCodeCompare(t *testing.T) {
	a, b := MustCode("a"), MustCode("b")
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 || a.Compare(MustCode("a")) != 0 {
		t.Error("Compare() does not order by value")
	}

	seen := map[Code]int{a: 1}
	if seen[MustCode("a")] != 1 {
		t.Error("equal codes should be equal map keys")
	}
}

func TestCodeText(t *testing.T) {
	var holder struct {
		Status Code `json:"status"`
	}

	if err := json.Unmarshal([]byte(`{"status":"active"}`), &holder); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if holder.Status.String() != "active" {
		t.Errorf("Status = %q; want active", holder.Status)
	}

	out, err := json.Marshal(holder)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"status":"active"}` {
		t.Errorf("Marshal() = %s", out)
	}

	err = json.Unmarshal([]byte(`{"status":" active"}`), &holder)
	if !errors.Is(err, ErrLeadingTrailingWhitespace) {
		t.Errorf("Unmarshal() error = %v; want ErrLeadingTrailingWhitespace", err)
	}
	if holder.Status.String() != "active" {
		t.Errorf("failed UnmarshalText changed value to %q", holder.Status)
	}
}

func TestCodeErrorKindString(t *testing.T) {
	if CodeMultipleSpaces.String() != "MultipleSpaces" {
		t.Errorf("String() = %q", CodeMultipleSpaces.String())
	}
	if CodeErrorKind(42).String() != "CodeErrorKind(42)" {
		t.Errorf("String() = %q", CodeErrorKind(42).String())
	}
}
