package resource

import (
	"github.com/gofhir/resources/datatype"
	"github.com/gofhir/resources/primitive"
)

// Patient holds demographics and administrative information about a
// person receiving care.
type Patient struct {
	resourceType string

	Identifier           []datatype.Identifier
	Active               *bool
	Name                 []datatype.HumanName
	Telecom              []datatype.ContactPoint
	Gender               *primitive.Code
	BirthDate            *string
	Deceased             *Deceased
	Address              []datatype.Address
	MaritalStatus        *datatype.CodeableConcept
	MultipleBirth        *MultipleBirth
	Photo                []string
	Contact              []PatientContact
	Communication        []PatientCommunication
	GeneralPractitioner  []datatype.Reference
	ManagingOrganization *datatype.Reference
	Link                 []PatientLink
}

// NewPatient returns an empty Patient.
func NewPatient() *Patient {
	return &Patient{resourceType: TypePatient}
}

// NewPatientWithResourceType returns an empty Patient whose discriminator
// is rt instead of "Patient".
func NewPatientWithResourceType(rt string) *Patient {
	return &Patient{resourceType: rt}
}

// ResourceType returns the resourceType discriminator.
func (p *Patient) ResourceType() string {
	return p.resourceType
}

// SetResourceType replaces the discriminator.
func (p *Patient) SetResourceType(rt string) {
	p.resourceType = rt
}

// AddIdentifier appends an identifier.
func (p *Patient) AddIdentifier(id datatype.Identifier) {
	p.Identifier = append(p.Identifier, id)
}

// AddName appends a name.
func (p *Patient) AddName(n datatype.HumanName) {
	p.Name = append(p.Name, n)
}

// AddTelecom appends a contact point.
func (p *Patient) AddTelecom(cp datatype.ContactPoint) {
	p.Telecom = append(p.Telecom, cp)
}

// AddAddress appends an address.
func (p *Patient) AddAddress(a datatype.Address) {
	p.Address = append(p.Address, a)
}

// AddPhoto appends a photo.
func (p *Patient) AddPhoto(photo string) {
	p.Photo = append(p.Photo, photo)
}

// AddContact appends a contact party.
func (p *Patient) AddContact(c PatientContact) {
	p.Contact = append(p.Contact, c)
}

// AddCommunication appends a communication language.
func (p *Patient) AddCommunication(c PatientCommunication) {
	p.Communication = append(p.Communication, c)
}

// AddGeneralPractitioner appends a general practitioner reference.
func (p *Patient) AddGeneralPractitioner(ref datatype.Reference) {
	p.GeneralPractitioner = append(p.GeneralPractitioner, ref)
}

// AddLink appends a link to another patient or related person.
func (p *Patient) AddLink(l PatientLink) {
	p.Link = append(p.Link, l)
}

// OfficialName returns the first name whose use is "official".
func (p *Patient) OfficialName() (datatype.HumanName, bool) {
	for _, n := range p.Name {
		if n.Use.String() == "official" {
			return n, true
		}
	}
	return datatype.HumanName{}, false
}

// PatientContact is a contact party for the patient, such as a guardian
// or next of kin.
type PatientContact struct {
	Relationship []datatype.CodeableConcept
	Name         *datatype.HumanName
	Telecom      []datatype.ContactPoint
	Address      *datatype.Address
	Gender       *primitive.Code
	Organization *datatype.Reference
	Period       *datatype.Period
}

// PatientCommunication is a language the patient can use.
type PatientCommunication struct {
	Language  datatype.CodeableConcept
	Preferred *bool
}

// NewPatientCommunication creates a PatientCommunication.
func NewPatientCommunication(language datatype.CodeableConcept) PatientCommunication {
	return PatientCommunication{Language: language}
}

// PatientLink links to another patient or related person record.
type PatientLink struct {
	Other datatype.Reference
	Type  primitive.Code
}

// NewPatientLink creates a PatientLink.
func NewPatientLink(other datatype.Reference, typ primitive.Code) PatientLink {
	return PatientLink{Other: other, Type: typ}
}
