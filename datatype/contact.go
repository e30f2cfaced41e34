package datatype

import (
	"strings"

	"github.com/gofhir/resources/primitive"
)

// ContactPoint is a phone number, email address or other contact detail.
type ContactPoint struct {
	System primitive.Code
	Value  string
	Use    *primitive.Code
	Rank   *int32
	Period *Period
}

// NewContactPoint creates a ContactPoint.
func NewContactPoint(system primitive.Code, value string) ContactPoint {
	return ContactPoint{System: system, Value: value}
}

// Address is a postal or physical address.
type Address struct {
	Use        *primitive.Code
	Type       *primitive.Code
	Text       *string
	Line       []string
	City       *string
	District   *string
	State      *string
	PostalCode *string
	Country    *string
	Period     *Period
}

// AddLine appends a street line.
func (a *Address) AddLine(line string) {
	a.Line = append(a.Line, line)
}

// HumanName is a person's name.
type HumanName struct {
	Use    primitive.Code
	Text   string
	Family string
	Given  []string
	Prefix []string
	Suffix []string
	Period *Period
}

// NewHumanName creates a HumanName with the required fields.
func NewHumanName(use primitive.Code, text, family string) HumanName {
	return HumanName{Use: use, Text: text, Family: family}
}

// AddGiven appends a given name.
func (n *HumanName) AddGiven(given string) {
	n.Given = append(n.Given, given)
}

// AddPrefix appends a prefix.
func (n *HumanName) AddPrefix(prefix string) {
	n.Prefix = append(n.Prefix, prefix)
}

// AddSuffix appends a suffix.
func (n *HumanName) AddSuffix(suffix string) {
	n.Suffix = append(n.Suffix, suffix)
}

// Display renders the name as prefixes, given names, family name and
// suffixes separated by spaces. Text is returned as is when set.
func (n HumanName) Display() string {
	if n.Text != "" {
		return n.Text
	}
	parts := make([]string, 0, len(n.Prefix)+len(n.Given)+len(n.Suffix)+1)
	parts = append(parts, n.Prefix...)
	parts = append(parts, n.Given...)
	if n.Family != "" {
		parts = append(parts, n.Family)
	}
	parts = append(parts, n.Suffix...)
	return strings.Join(parts, " ")
}
