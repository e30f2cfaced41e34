package datatype

import (
	"github.com/gofhir/resources/primitive"
)

// Coding is a reference to a code defined by a terminology system.
type Coding struct {
	System       *primitive.URI
	Version      *string
	Code         *primitive.Code
	Display      *string
	UserSelected *bool
}

// NewCoding creates a Coding with system and code set.
func NewCoding(system primitive.URI, code primitive.Code) Coding {
	return Coding{System: &system, Code: &code}
}

// Is reports whether c carries the given system and code.
func (c Coding) Is(system primitive.URI, code primitive.Code) bool {
	return c.System != nil && c.Code != nil && *c.System == system && *c.Code == code
}

// CodeableConcept is a concept given by zero or more codings and/or text.
type CodeableConcept struct {
	Coding []Coding
	Text   *string
}

// NewCodeableConcept creates a CodeableConcept from codings.
func NewCodeableConcept(codings ...Coding) CodeableConcept {
	if len(codings) == 0 {
		return CodeableConcept{}
	}
	return CodeableConcept{Coding: append([]Coding(nil), codings...)}
}

// TextConcept creates a CodeableConcept carrying only text.
func TextConcept(text string) CodeableConcept {
	return CodeableConcept{Text: &text}
}

// HasCoding reports whether any coding matches system and code.
func (cc CodeableConcept) HasCoding(system primitive.URI, code primitive.Code) bool {
	for _, c := range cc.Coding {
		if c.Is(system, code) {
			return true
		}
	}
	return false
}

// AddCoding appends a coding.
func (cc *CodeableConcept) AddCoding(c Coding) {
	cc.Coding = append(cc.Coding, c)
}
