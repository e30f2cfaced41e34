package datatype

import (
	"github.com/gofhir/resources/primitive"
)

// Identifier is a business identifier for a resource.
type Identifier struct {
	Use    primitive.Code
	System primitive.URI
	Value  string
	Period *Period
}

// NewIdentifier creates an Identifier with no period.
func NewIdentifier(use primitive.Code, system primitive.URI, value string) Identifier {
	return Identifier{Use: use, System: system, Value: value}
}

// Matches reports whether id has the given system and value.
func (id Identifier) Matches(system primitive.URI, value string) bool {
	return id.System == system && id.Value == value
}

// Period is a time range given by two date-time strings.
type Period struct {
	Start string
	End   string
}

// NewPeriod creates a Period.
func NewPeriod(start, end string) Period {
	return Period{Start: start, End: end}
}
