package datatype

import (
	"strings"

	"github.com/gofhir/resources/primitive"
)

// Reference points from one resource to another.
type Reference struct {
	Reference  *string
	Type       *primitive.URI
	Identifier *string
	Display    *string
}

// NewReference creates a literal reference such as "Patient/123".
func NewReference(ref string) Reference {
	return Reference{Reference: &ref}
}

// ReferenceTo creates a literal reference to the resource of the given
// type and id.
func ReferenceTo(resourceType, id string) Reference {
	return NewReference(resourceType + "/" + id)
}

// ResourceType returns the type part of a relative "Type/id" reference.
func (r Reference) ResourceType() (string, bool) {
	typ, _, ok := r.split()
	return typ, ok
}

// ResourceID returns the id part of a relative "Type/id" reference.
// A trailing "/_history/version" suffix is dropped.
func (r Reference) ResourceID() (string, bool) {
	_, id, ok := r.split()
	return id, ok
}

func (r Reference) split() (string, string, bool) {
	if r.Reference == nil {
		return "", "", false
	}
	ref := *r.Reference
	if strings.HasPrefix(ref, "#") || strings.Contains(ref, "://") || strings.HasPrefix(ref, "urn:") {
		return "", "", false
	}
	if i := strings.Index(ref, "/_history/"); i >= 0 {
		ref = ref[:i]
	}
	typ, id, found := strings.Cut(ref, "/")
	if !found || typ == "" || id == "" || strings.Contains(id, "/") {
		return "", "", false
	}
	return typ, id, true
}
