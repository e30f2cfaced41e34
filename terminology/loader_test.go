package terminology

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const acuityBundle = `{
	"resourceType": "Bundle",
	"type": "collection",
	"entry": [
		{"resource": {
			"resourceType": "ValueSet",
			"url": "http://example.org/ValueSet/acuity",
			"status": "active",
			"compose": {"include": [{"system": "http://example.org/CodeSystem/acuity"}]}
		}},
		{"resource": {"resourceType": "Patient", "id": "ignored"}},
		{"resource": {
			"resourceType": "CodeSystem",
			"url": "http://example.org/CodeSystem/acuity",
			"status": "active",
			"content": "complete",
			"concept": [{"code": "routine"}, {"code": "urgent"}]
		}},
		{"resource": {"resourceType": "CodeSystem", "status": "draft", "content": "complete"}}
	]
}`

func TestLoadJSONBundle(t *testing.T) {
	s := NewEmpty()
	stats, err := s.LoadJSON([]byte(acuityBundle))
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	want := LoadStats{CodeSystems: 1, ValueSets: 1, Errors: 1}
	if stats != want {
		t.Errorf("LoadJSON() stats = %+v; want %+v", stats, want)
	}

	v, err := s.ValidateCode(context.Background(), "", "urgent", "http://example.org/ValueSet/acuity")
	if err != nil || !v.Valid {
		t.Errorf("ValidateCode() = %+v, %v", v, err)
	}
}

func TestLoadJSONErrors(t *testing.T) {
	s := NewEmpty()
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"no resourceType", `{"url": "http://example.org"}`},
		{"unsupported type", `{"resourceType": "Patient"}`},
		{"code system without url", `{"resourceType": "CodeSystem", "status": "draft"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.LoadJSON([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"ValueSet-acuity.json": `{"resourceType": "ValueSet", "url": "http://example.org/ValueSet/acuity",
			"compose": {"include": [{"system": "http://example.org/CodeSystem/acuity"}]}}`,
		"CodeSystem-acuity.json": `{"resourceType": "CodeSystem", "url": "http://example.org/CodeSystem/acuity",
			"concept": [{"code": "routine"}]}`,
		"package.json": `{"name": "example.terminology"}`,
		"broken.json":  `{`,
		"notes.txt":    `ignored`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	s := NewEmpty()
	stats, err := s.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	want := LoadStats{CodeSystems: 1, ValueSets: 1, Errors: 1}
	if stats != want {
		t.Errorf("LoadDir() stats = %+v; want %+v", stats, want)
	}

	if _, err := s.LoadDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
