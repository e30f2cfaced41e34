package terminology

import (
	"github.com/gofhir/fhir/r4"
)

// Canonical urls of the built-in value sets.
const (
	AccountStatus        = "http://hl7.org/fhir/ValueSet/account-status"
	AdministrativeGender = "http://hl7.org/fhir/ValueSet/administrative-gender"
	LinkType             = "http://hl7.org/fhir/ValueSet/link-type"
	ContactPointSystem   = "http://hl7.org/fhir/ValueSet/contact-point-system"
	ContactPointUse      = "http://hl7.org/fhir/ValueSet/contact-point-use"
	IdentifierUse        = "http://hl7.org/fhir/ValueSet/identifier-use"
	NameUse              = "http://hl7.org/fhir/ValueSet/name-use"
	AddressUse           = "http://hl7.org/fhir/ValueSet/address-use"
	AddressType          = "http://hl7.org/fhir/ValueSet/address-type"
)

type builtin struct {
	valueSet string
	system   string
	concepts [][2]string // code, display
}

var builtins = []builtin{
	{AccountStatus, "http://hl7.org/fhir/account-status", [][2]string{
		{"active", "Active"},
		{"inactive", "Inactive"},
		{"entered-in-error", "Entered in error"},
		{"on-hold", "On Hold"},
		{"unknown", "Unknown"},
	}},
	{AdministrativeGender, "http://hl7.org/fhir/administrative-gender", [][2]string{
		{"male", "Male"},
		{"female", "Female"},
		{"other", "Other"},
		{"unknown", "Unknown"},
	}},
	{LinkType, "http://hl7.org/fhir/link-type", [][2]string{
		{"replaced-by", "Replaced-by"},
		{"replaces", "Replaces"},
		{"refer", "Refer"},
		{"seealso", "See also"},
	}},
	{ContactPointSystem, "http://hl7.org/fhir/contact-point-system", [][2]string{
		{"phone", "Phone"},
		{"fax", "Fax"},
		{"email", "Email"},
		{"pager", "Pager"},
		{"url", "URL"},
		{"sms", "SMS"},
		{"other", "Other"},
	}},
	{ContactPointUse, "http://hl7.org/fhir/contact-point-use", [][2]string{
		{"home", "Home"},
		{"work", "Work"},
		{"temp", "Temp"},
		{"old", "Old"},
		{"mobile", "Mobile"},
	}},
	{IdentifierUse, "http://hl7.org/fhir/identifier-use", [][2]string{
		{"usual", "Usual"},
		{"official", "Official"},
		{"temp", "Temp"},
		{"secondary", "Secondary"},
		{"old", "Old"},
	}},
	{NameUse, "http://hl7.org/fhir/name-use", [][2]string{
		{"usual", "Usual"},
		{"official", "Official"},
		{"temp", "Temp"},
		{"nickname", "Nickname"},
		{"anonymous", "Anonymous"},
		{"old", "Old"},
		{"maiden", "Name changed for Marriage"},
	}},
	{AddressUse, "http://hl7.org/fhir/address-use", [][2]string{
		{"home", "Home"},
		{"work", "Work"},
		{"temp", "Temporary"},
		{"old", "Old / Incorrect"},
		{"billing", "Billing"},
	}},
	{AddressType, "http://hl7.org/fhir/address-type", [][2]string{
		{"postal", "Postal"},
		{"physical", "Physical"},
		{"both", "Postal & Physical"},
	}},
}

// loadBuiltins registers each built-in code system and a value set that
// includes all of it.
func (s *Service) loadBuiltins() {
	for _, b := range builtins {
		cs := &r4.CodeSystem{Url: ptr(b.system)}
		for _, c := range b.concepts {
			cs.Concept = append(cs.Concept, r4.CodeSystemConcept{
				Code:    ptr(c[0]),
				Display: ptr(c[1]),
			})
		}
		vs := &r4.ValueSet{
			Url: ptr(b.valueSet),
			Compose: &r4.ValueSetCompose{
				Include: []r4.ValueSetComposeInclude{{System: ptr(b.system)}},
			},
		}
		// Both have urls, so neither load can fail.
		_ = s.LoadCodeSystem(cs)
		_ = s.LoadValueSet(vs)
	}
}

func ptr(s string) *string {
	return &s
}
