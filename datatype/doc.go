// Package datatype provides the FHIR composite data types shared by
// resources: Identifier, Period, Money, Coding, CodeableConcept, Reference,
// ContactPoint, Address and HumanName.
//
// Composites do not validate themselves. Every constrained field is a
// primitive.Code or primitive.URI, which is valid from construction, so a
// composite is valid whenever its children are.
//
// Optional fields are pointers (nil means absent). Repeated fields are
// slices; nil and empty are the same list. Constructors take the required
// fields only:
//
//	id := datatype.NewIdentifier(
//	    primitive.MustCode("official"),
//	    primitive.MustURI("http://hospital.example/mrn"),
//	    "12345",
//	)
//	id.Period = &datatype.Period{Start: "2020-01-01", End: "2030-01-01"}
package datatype

// Ptr returns a pointer to v. It is a convenience for populating optional
// fields from literals.
func Ptr[T any](v T) *T {
	return &v
}
