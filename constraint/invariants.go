package constraint

import (
	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/resource"
)

// Invariant is a rule a resource must satisfy, written as a FHIRPath
// expression evaluated from the resource root.
type Invariant struct {
	// Key identifies the invariant, e.g. "pat-1".
	Key string

	// Severity of a violation. Error makes the result invalid.
	Severity fv.IssueSeverity

	// Human is the human-readable description.
	Human string

	// Expression must evaluate to true (or empty) for the rule to hold.
	Expression string

	// Path is the element the rule is reported against.
	Path string
}

// PatientInvariants are the rules checked for Patient resources.
var PatientInvariants = []Invariant{
	{
		Key:        "pat-1",
		Severity:   fv.SeverityError,
		Human:      "SHALL at least contain a contact's details or a reference to an organization",
		Expression: "contact.all(name.exists() or telecom.exists() or address.exists() or organization.exists())",
		Path:       "Patient.contact",
	},
}

// AccountInvariants are the rules checked for Account resources.
var AccountInvariants = []Invariant{
	{
		Key:        "acc-bal-1",
		Severity:   fv.SeverityWarning,
		Human:      "Balance amounts should state their currency",
		Expression: "balance.all(amount.currency.exists())",
		Path:       "Account.balance",
	},
	{
		Key:        "acc-cov-1",
		Severity:   fv.SeverityError,
		Human:      "Coverage priorities SHALL be unique",
		Expression: "coverage.priority.isDistinct()",
		Path:       "Account.coverage",
	},
}

// DefaultInvariants returns the built-in rules keyed by resource type.
func DefaultInvariants() map[string][]Invariant {
	return map[string][]Invariant{
		resource.TypePatient: append([]Invariant(nil), PatientInvariants...),
		resource.TypeAccount: append([]Invariant(nil), AccountInvariants...),
	}
}
