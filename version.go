package fhirresources

// Version is the release of this module.
const Version = "0.1.0"

// FHIRVersion represents a FHIR specification version.
type FHIRVersion string

// R4 is FHIR Release 4 (4.0.1), the release the resource model follows.
const R4 FHIRVersion = "4.0.1"

// String returns the version string.
func (v FHIRVersion) String() string {
	return string(v)
}

// Release returns the short release name ("R4") for a known version, or
// the empty string.
func (v FHIRVersion) Release() string {
	switch v {
	case R4:
		return "R4"
	default:
		return ""
	}
}
