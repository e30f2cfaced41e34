package codec

import (
	"strconv"

	"github.com/gofhir/resources/datatype"
	"github.com/gofhir/resources/primitive"
	"github.com/gofhir/resources/resource"
)

// reader converts wire structs into domain values. The first failure
// aborts the conversion; nothing built so far escapes.
type reader struct {
	trusted bool
}

func at(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}

func index(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

func readList[W, D any](path string, in []W, fn func(string, *W) (D, error)) ([]D, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]D, 0, len(in))
	for i := range in {
		d, err := fn(index(path, i), &in[i])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func readOptional[W, D any](path string, in *W, fn func(string, *W) (D, error)) (*D, error) {
	if in == nil {
		return nil, nil
	}
	d, err := fn(path, in)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func readRequired[W, D any](path string, in *W, fn func(string, *W) (D, error)) (D, error) {
	if in == nil {
		var zero D
		return zero, missing(path)
	}
	return fn(path, in)
}

func requiredString(path string, s *string) (string, error) {
	if s == nil {
		return "", missing(path)
	}
	return *s, nil
}

func stringList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return in
}

func (r reader) code(path, s string) (primitive.Code, error) {
	if r.trusted {
		return primitive.UncheckedCode(s), nil
	}
	c, err := primitive.NewCode(s)
	if err != nil {
		return primitive.Code{}, invalid(path, err)
	}
	return c, nil
}

func (r reader) optionalCode(path string, s *string) (*primitive.Code, error) {
	if s == nil {
		return nil, nil
	}
	c, err := r.code(path, *s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r reader) requiredCode(path string, s *string) (primitive.Code, error) {
	if s == nil {
		return primitive.Code{}, missing(path)
	}
	return r.code(path, *s)
}

func (r reader) uri(path, s string) (primitive.URI, error) {
	if r.trusted {
		return primitive.UncheckedURI(s), nil
	}
	u, err := primitive.NewURI(s)
	if err != nil {
		return primitive.URI{}, invalid(path, err)
	}
	return u, nil
}

func (r reader) optionalURI(path string, s *string) (*primitive.URI, error) {
	if s == nil {
		return nil, nil
	}
	u, err := r.uri(path, *s)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r reader) requiredURI(path string, s *string) (primitive.URI, error) {
	if s == nil {
		return primitive.URI{}, missing(path)
	}
	return r.uri(path, *s)
}

// --- data types ---

func (r reader) period(path string, w *periodJSON) (datatype.Period, error) {
	start, err := requiredString(at(path, "start"), w.Start)
	if err != nil {
		return datatype.Period{}, err
	}
	end, err := requiredString(at(path, "end"), w.End)
	if err != nil {
		return datatype.Period{}, err
	}
	return datatype.NewPeriod(start, end), nil
}

func (r reader) identifier(path string, w *identifierJSON) (datatype.Identifier, error) {
	var id datatype.Identifier
	var err error
	if id.Use, err = r.requiredCode(at(path, "use"), w.Use); err != nil {
		return id, err
	}
	if id.System, err = r.requiredURI(at(path, "system"), w.System); err != nil {
		return id, err
	}
	if id.Value, err = requiredString(at(path, "value"), w.Value); err != nil {
		return id, err
	}
	if id.Period, err = readOptional(at(path, "period"), w.Period, r.period); err != nil {
		return id, err
	}
	return id, nil
}

func (r reader) money(path string, w *moneyJSON) (datatype.Money, error) {
	currency, err := r.optionalCode(at(path, "currency"), w.Currency)
	if err != nil {
		return datatype.Money{}, err
	}
	return datatype.Money{Value: w.Value, Currency: currency}, nil
}

func (r reader) coding(path string, w *codingJSON) (datatype.Coding, error) {
	c := datatype.Coding{
		Version:      w.Version,
		Display:      w.Display,
		UserSelected: w.UserSelected,
	}
	var err error
	if c.System, err = r.optionalURI(at(path, "system"), w.System); err != nil {
		return c, err
	}
	if c.Code, err = r.optionalCode(at(path, "code"), w.Code); err != nil {
		return c, err
	}
	return c, nil
}

func (r reader) codeableConcept(path string, w *codeableConceptJSON) (datatype.CodeableConcept, error) {
	codings, err := readList(at(path, "coding"), w.Coding, r.coding)
	if err != nil {
		return datatype.CodeableConcept{}, err
	}
	return datatype.CodeableConcept{Coding: codings, Text: w.Text}, nil
}

func (r reader) reference(path string, w *referenceJSON) (datatype.Reference, error) {
	typ, err := r.optionalURI(at(path, "type"), w.Type)
	if err != nil {
		return datatype.Reference{}, err
	}
	return datatype.Reference{
		Reference:  w.Reference,
		Type:       typ,
		Identifier: w.Identifier,
		Display:    w.Display,
	}, nil
}

func (r reader) contactPoint(path string, w *contactPointJSON) (datatype.ContactPoint, error) {
	cp := datatype.ContactPoint{Rank: w.Rank}
	var err error
	if cp.System, err = r.requiredCode(at(path, "system"), w.System); err != nil {
		return cp, err
	}
	if cp.Value, err = requiredString(at(path, "value"), w.Value); err != nil {
		return cp, err
	}
	if cp.Use, err = r.optionalCode(at(path, "use"), w.Use); err != nil {
		return cp, err
	}
	if cp.Period, err = readOptional(at(path, "period"), w.Period, r.period); err != nil {
		return cp, err
	}
	return cp, nil
}

func (r reader) address(path string, w *addressJSON) (datatype.Address, error) {
	a := datatype.Address{
		Text:       w.Text,
		Line:       stringList(w.Line),
		City:       w.City,
		District:   w.District,
		State:      w.State,
		PostalCode: w.PostalCode,
		Country:    w.Country,
	}
	var err error
	if a.Use, err = r.optionalCode(at(path, "use"), w.Use); err != nil {
		return a, err
	}
	if a.Type, err = r.optionalCode(at(path, "type"), w.Type); err != nil {
		return a, err
	}
	if a.Period, err = readOptional(at(path, "period"), w.Period, r.period); err != nil {
		return a, err
	}
	return a, nil
}

func (r reader) humanName(path string, w *humanNameJSON) (datatype.HumanName, error) {
	n := datatype.HumanName{
		Given:  stringList(w.Given),
		Prefix: stringList(w.Prefix),
		Suffix: stringList(w.Suffix),
	}
	var err error
	if n.Use, err = r.requiredCode(at(path, "use"), w.Use); err != nil {
		return n, err
	}
	if n.Text, err = requiredString(at(path, "text"), w.Text); err != nil {
		return n, err
	}
	if n.Family, err = requiredString(at(path, "family"), w.Family); err != nil {
		return n, err
	}
	if n.Period, err = readOptional(at(path, "period"), w.Period, r.period); err != nil {
		return n, err
	}
	return n, nil
}

// --- Account ---

func (r reader) account(w *accountJSON) (*resource.Account, error) {
	rt, err := requiredString("resourceType", w.ResourceType)
	if err != nil {
		return nil, err
	}
	a := resource.NewAccountWithResourceType(rt)

	if a.Identifier, err = readList("identifier", w.Identifier, r.identifier); err != nil {
		return nil, err
	}
	if a.Status, err = r.optionalCode("status", w.Status); err != nil {
		return nil, err
	}
	if a.BillingStatus, err = readOptional("billingStatus", w.BillingStatus, r.codeableConcept); err != nil {
		return nil, err
	}
	if a.Type, err = readOptional("type", w.Type, r.codeableConcept); err != nil {
		return nil, err
	}
	a.Name = w.Name
	if a.Subject, err = readList("subject", w.Subject, r.reference); err != nil {
		return nil, err
	}
	if a.ServicePeriod, err = readOptional("servicePeriod", w.ServicePeriod, r.period); err != nil {
		return nil, err
	}
	if a.Coverage, err = readList("coverage", w.Coverage, r.accountCoverage); err != nil {
		return nil, err
	}
	if a.Owner, err = readOptional("owner", w.Owner, r.reference); err != nil {
		return nil, err
	}
	a.Description = w.Description
	if a.Guarantor, err = readList("guarantor", w.Guarantor, r.accountGuarantor); err != nil {
		return nil, err
	}
	if a.Diagnosis, err = readList("diagnosis", w.Diagnosis, r.accountDiagnosis); err != nil {
		return nil, err
	}
	if a.Procedure, err = readList("procedure", w.Procedure, r.accountProcedure); err != nil {
		return nil, err
	}
	if a.RelatedAccount, err = readList("relatedAccount", w.RelatedAccount, r.accountRelatedAccount); err != nil {
		return nil, err
	}
	if a.Currency, err = readOptional("currency", w.Currency, r.codeableConcept); err != nil {
		return nil, err
	}
	if a.Balance, err = readList("balance", w.Balance, r.accountBalance); err != nil {
		return nil, err
	}
	a.CalculatedAt = w.CalculatedAt
	return a, nil
}

func (r reader) accountCoverage(path string, w *accountCoverageJSON) (resource.AccountCoverage, error) {
	coverage, err := readRequired(at(path, "coverage"), w.Coverage, r.reference)
	if err != nil {
		return resource.AccountCoverage{}, err
	}
	return resource.AccountCoverage{Coverage: coverage, Priority: w.Priority}, nil
}

func (r reader) accountGuarantor(path string, w *accountGuarantorJSON) (resource.AccountGuarantor, error) {
	g := resource.AccountGuarantor{OnHold: w.OnHold}
	var err error
	if g.Party, err = readRequired(at(path, "party"), w.Party, r.reference); err != nil {
		return g, err
	}
	if g.Period, err = readOptional(at(path, "period"), w.Period, r.period); err != nil {
		return g, err
	}
	return g, nil
}

func (r reader) accountDiagnosis(path string, w *accountDiagnosisJSON) (resource.AccountDiagnosis, error) {
	d := resource.AccountDiagnosis{
		Sequence:        w.Sequence,
		DateOfDiagnosis: w.DateOfDiagnosis,
		OnAdmission:     w.OnAdmission,
	}
	var err error
	if d.Condition, err = readRequired(at(path, "condition"), w.Condition, r.reference); err != nil {
		return d, err
	}
	if d.Type, err = readList(at(path, "type"), w.Type, r.codeableConcept); err != nil {
		return d, err
	}
	if d.PackageCode, err = readList(at(path, "packageCode"), w.PackageCode, r.codeableConcept); err != nil {
		return d, err
	}
	return d, nil
}

func (r reader) accountProcedure(path string, w *accountProcedureJSON) (resource.AccountProcedure, error) {
	p := resource.AccountProcedure{
		Sequence:      w.Sequence,
		DateOfService: w.DateOfService,
	}
	var err error
	if p.Code, err = readRequired(at(path, "code"), w.Code, r.reference); err != nil {
		return p, err
	}
	if p.Type, err = readList(at(path, "type"), w.Type, r.codeableConcept); err != nil {
		return p, err
	}
	if p.PackageCode, err = readList(at(path, "packageCode"), w.PackageCode, r.codeableConcept); err != nil {
		return p, err
	}
	if p.Device, err = readList(at(path, "device"), w.Device, r.reference); err != nil {
		return p, err
	}
	return p, nil
}

func (r reader) accountRelatedAccount(path string, w *accountRelatedAccountJSON) (resource.AccountRelatedAccount, error) {
	ra := resource.AccountRelatedAccount{}
	var err error
	if ra.Relationship, err = readOptional(at(path, "relationship"), w.Relationship, r.codeableConcept); err != nil {
		return ra, err
	}
	if ra.Account, err = readRequired(at(path, "account"), w.Account, r.reference); err != nil {
		return ra, err
	}
	return ra, nil
}

func (r reader) accountBalance(path string, w *accountBalanceJSON) (resource.AccountBalance, error) {
	b := resource.AccountBalance{Estimate: w.Estimate}
	var err error
	if b.Aggregate, err = readOptional(at(path, "aggregate"), w.Aggregate, r.codeableConcept); err != nil {
		return b, err
	}
	if b.Term, err = readOptional(at(path, "term"), w.Term, r.codeableConcept); err != nil {
		return b, err
	}
	if b.Amount, err = readRequired(at(path, "amount"), w.Amount, r.money); err != nil {
		return b, err
	}
	return b, nil
}

// --- Patient ---

func (r reader) patient(w *patientJSON) (*resource.Patient, error) {
	rt, err := requiredString("resourceType", w.ResourceType)
	if err != nil {
		return nil, err
	}
	p := resource.NewPatientWithResourceType(rt)

	if p.Identifier, err = readList("identifier", w.Identifier, r.identifier); err != nil {
		return nil, err
	}
	p.Active = w.Active
	if p.Name, err = readList("name", w.Name, r.humanName); err != nil {
		return nil, err
	}
	if p.Telecom, err = readList("telecom", w.Telecom, r.contactPoint); err != nil {
		return nil, err
	}
	if p.Gender, err = r.optionalCode("gender", w.Gender); err != nil {
		return nil, err
	}
	p.BirthDate = w.BirthDate

	switch {
	case w.DeceasedBoolean != nil && w.DeceasedDateTime != nil:
		return nil, newDecodeError(KindChoiceConflict, "deceased[x]", errChoiceConflict)
	case w.DeceasedBoolean != nil:
		p.Deceased = resource.DeceasedBoolean(*w.DeceasedBoolean)
	case w.DeceasedDateTime != nil:
		p.Deceased = resource.DeceasedDateTime(*w.DeceasedDateTime)
	}

	if p.Address, err = readList("address", w.Address, r.address); err != nil {
		return nil, err
	}
	if p.MaritalStatus, err = readOptional("maritalStatus", w.MaritalStatus, r.codeableConcept); err != nil {
		return nil, err
	}

	switch {
	case w.MultipleBirthBoolean != nil && w.MultipleBirthInteger != nil:
		return nil, newDecodeError(KindChoiceConflict, "multipleBirth[x]", errChoiceConflict)
	case w.MultipleBirthBoolean != nil:
		p.MultipleBirth = resource.MultipleBirthBoolean(*w.MultipleBirthBoolean)
	case w.MultipleBirthInteger != nil:
		p.MultipleBirth = resource.MultipleBirthInteger(*w.MultipleBirthInteger)
	}

	p.Photo = stringList(w.Photo)
	if p.Contact, err = readList("contact", w.Contact, r.patientContact); err != nil {
		return nil, err
	}
	if p.Communication, err = readList("communication", w.Communication, r.patientCommunication); err != nil {
		return nil, err
	}
	if p.GeneralPractitioner, err = readList("generalPractitioner", w.GeneralPractitioner, r.reference); err != nil {
		return nil, err
	}
	if p.ManagingOrganization, err = readOptional("managingOrganization", w.ManagingOrganization, r.reference); err != nil {
		return nil, err
	}
	if p.Link, err = readList("link", w.Link, r.patientLink); err != nil {
		return nil, err
	}
	return p, nil
}

func (r reader) patientContact(path string, w *patientContactJSON) (resource.PatientContact, error) {
	c := resource.PatientContact{}
	var err error
	if c.Relationship, err = readList(at(path, "relationship"), w.Relationship, r.codeableConcept); err != nil {
		return c, err
	}
	if c.Name, err = readOptional(at(path, "name"), w.Name, r.humanName); err != nil {
		return c, err
	}
	if c.Telecom, err = readList(at(path, "telecom"), w.Telecom, r.contactPoint); err != nil {
		return c, err
	}
	if c.Address, err = readOptional(at(path, "address"), w.Address, r.address); err != nil {
		return c, err
	}
	if c.Gender, err = r.optionalCode(at(path, "gender"), w.Gender); err != nil {
		return c, err
	}
	if c.Organization, err = readOptional(at(path, "organization"), w.Organization, r.reference); err != nil {
		return c, err
	}
	if c.Period, err = readOptional(at(path, "period"), w.Period, r.period); err != nil {
		return c, err
	}
	return c, nil
}

func (r reader) patientCommunication(path string, w *patientCommunicationJSON) (resource.PatientCommunication, error) {
	language, err := readRequired(at(path, "language"), w.Language, r.codeableConcept)
	if err != nil {
		return resource.PatientCommunication{}, err
	}
	return resource.PatientCommunication{Language: language, Preferred: w.Preferred}, nil
}

func (r reader) patientLink(path string, w *patientLinkJSON) (resource.PatientLink, error) {
	l := resource.PatientLink{}
	var err error
	if l.Other, err = readRequired(at(path, "other"), w.Other, r.reference); err != nil {
		return l, err
	}
	if l.Type, err = r.requiredCode(at(path, "type"), w.Type); err != nil {
		return l, err
	}
	return l, nil
}
