package fhirresources

import (
	"strings"
	"testing"
)

func TestFHIRVersion(t *testing.T) {
	if R4.String() != "4.0.1" {
		t.Errorf("R4.String() = %q, want %q", R4.String(), "4.0.1")
	}
	if R4.Release() != "R4" {
		t.Errorf("R4.Release() = %q, want %q", R4.Release(), "R4")
	}
	if got := FHIRVersion("5.0.0").Release(); got != "" {
		t.Errorf("Release() of unknown version = %q, want empty", got)
	}
}

func TestVersion(t *testing.T) {
	if strings.Count(Version, ".") != 2 {
		t.Errorf("Version %q is not major.minor.patch", Version)
	}
}
