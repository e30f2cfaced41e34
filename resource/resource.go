// Package resource provides the Account and Patient resources and their
// backbone elements.
//
// Resources are plain trees of values. Fields are set or appended
// directly; nothing is validated on mutation because every constrained
// leaf is a primitive.Code or primitive.URI that was validated when it
// was built.
package resource

// Resource type names.
const (
	TypeAccount = "Account"
	TypePatient = "Patient"
)

// Resource is implemented by every resource in this package.
type Resource interface {
	// ResourceType returns the resourceType discriminator.
	ResourceType() string
}

// Deceased is the Patient.deceased[x] choice: either a boolean or a
// date-time, never both.
type Deceased struct {
	dateTime   string
	boolean    bool
	isDateTime bool
}

// DeceasedBoolean returns the boolean variant.
func DeceasedBoolean(b bool) *Deceased {
	return &Deceased{boolean: b}
}

// DeceasedDateTime returns the date-time variant.
func DeceasedDateTime(dt string) *Deceased {
	return &Deceased{dateTime: dt, isDateTime: true}
}

// Boolean returns the value of the boolean variant.
func (d Deceased) Boolean() (bool, bool) {
	return d.boolean, !d.isDateTime
}

// DateTime returns the value of the date-time variant.
func (d Deceased) DateTime() (string, bool) {
	return d.dateTime, d.isDateTime
}

// IsDeceased reports whether the patient is known to be deceased. A
// date-time always counts as deceased.
func (d Deceased) IsDeceased() bool {
	return d.isDateTime || d.boolean
}

// MultipleBirth is the Patient.multipleBirth[x] choice: either a boolean or
// a birth order integer.
type MultipleBirth struct {
	integer   int32
	boolean   bool
	isInteger bool
}

// MultipleBirthBoolean returns the boolean variant.
func MultipleBirthBoolean(b bool) *MultipleBirth {
	return &MultipleBirth{boolean: b}
}

// MultipleBirthInteger returns the birth order variant.
func MultipleBirthInteger(order int32) *MultipleBirth {
	return &MultipleBirth{integer: order, isInteger: true}
}

// Boolean returns the value of the boolean variant.
func (m MultipleBirth) Boolean() (bool, bool) {
	return m.boolean, !m.isInteger
}

// Integer returns the value of the birth order variant.
func (m MultipleBirth) Integer() (int32, bool) {
	return m.integer, m.isInteger
}
