package codec

import (
	"github.com/gofhir/resources/datatype"
	"github.com/gofhir/resources/primitive"
	"github.com/gofhir/resources/resource"
)

func writeList[D, W any](in []D, fn func(D) W) []W {
	out := make([]W, 0, len(in))
	for _, d := range in {
		out = append(out, fn(d))
	}
	return out
}

func writeOptional[D, W any](in *D, fn func(D) W) *W {
	if in == nil {
		return nil
	}
	w := fn(*in)
	return &w
}

func writeStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func str(s string) *string {
	return &s
}

func codeString(c *primitive.Code) *string {
	if c == nil {
		return nil
	}
	return str(c.String())
}

func uriString(u *primitive.URI) *string {
	if u == nil {
		return nil
	}
	return str(u.String())
}

// --- data types ---

func writePeriod(p datatype.Period) periodJSON {
	return periodJSON{Start: str(p.Start), End: str(p.End)}
}

func writeIdentifier(id datatype.Identifier) identifierJSON {
	return identifierJSON{
		Use:    str(id.Use.String()),
		System: str(id.System.String()),
		Value:  str(id.Value),
		Period: writeOptional(id.Period, writePeriod),
	}
}

func writeMoney(m datatype.Money) moneyJSON {
	return moneyJSON{Value: m.Value, Currency: codeString(m.Currency)}
}

func writeCoding(c datatype.Coding) codingJSON {
	return codingJSON{
		System:       uriString(c.System),
		Version:      c.Version,
		Code:         codeString(c.Code),
		Display:      c.Display,
		UserSelected: c.UserSelected,
	}
}

func writeCodeableConcept(cc datatype.CodeableConcept) codeableConceptJSON {
	return codeableConceptJSON{
		Coding: writeList(cc.Coding, writeCoding),
		Text:   cc.Text,
	}
}

func writeReference(r datatype.Reference) referenceJSON {
	return referenceJSON{
		Reference:  r.Reference,
		Type:       uriString(r.Type),
		Identifier: r.Identifier,
		Display:    r.Display,
	}
}

func writeContactPoint(cp datatype.ContactPoint) contactPointJSON {
	return contactPointJSON{
		System: str(cp.System.String()),
		Value:  str(cp.Value),
		Use:    codeString(cp.Use),
		Rank:   cp.Rank,
		Period: writeOptional(cp.Period, writePeriod),
	}
}

func writeAddress(a datatype.Address) addressJSON {
	return addressJSON{
		Use:        codeString(a.Use),
		Type:       codeString(a.Type),
		Text:       a.Text,
		Line:       writeStrings(a.Line),
		City:       a.City,
		District:   a.District,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Period:     writeOptional(a.Period, writePeriod),
	}
}

func writeHumanName(n datatype.HumanName) humanNameJSON {
	return humanNameJSON{
		Use:    str(n.Use.String()),
		Text:   str(n.Text),
		Family: str(n.Family),
		Given:  writeStrings(n.Given),
		Prefix: writeStrings(n.Prefix),
		Suffix: writeStrings(n.Suffix),
		Period: writeOptional(n.Period, writePeriod),
	}
}

// --- Account ---

func writeAccount(a *resource.Account) accountJSON {
	return accountJSON{
		ResourceType:   str(a.ResourceType()),
		Identifier:     writeList(a.Identifier, writeIdentifier),
		Status:         codeString(a.Status),
		BillingStatus:  writeOptional(a.BillingStatus, writeCodeableConcept),
		Type:           writeOptional(a.Type, writeCodeableConcept),
		Name:           a.Name,
		Subject:        writeList(a.Subject, writeReference),
		ServicePeriod:  writeOptional(a.ServicePeriod, writePeriod),
		Coverage:       writeList(a.Coverage, writeAccountCoverage),
		Owner:          writeOptional(a.Owner, writeReference),
		Description:    a.Description,
		Guarantor:      writeList(a.Guarantor, writeAccountGuarantor),
		Diagnosis:      writeList(a.Diagnosis, writeAccountDiagnosis),
		Procedure:      writeList(a.Procedure, writeAccountProcedure),
		RelatedAccount: writeList(a.RelatedAccount, writeAccountRelatedAccount),
		Currency:       writeOptional(a.Currency, writeCodeableConcept),
		Balance:        writeList(a.Balance, writeAccountBalance),
		CalculatedAt:   a.CalculatedAt,
	}
}

func writeAccountCoverage(c resource.AccountCoverage) accountCoverageJSON {
	return accountCoverageJSON{
		Coverage: writeOptional(&c.Coverage, writeReference),
		Priority: c.Priority,
	}
}

func writeAccountGuarantor(g resource.AccountGuarantor) accountGuarantorJSON {
	return accountGuarantorJSON{
		Party:  writeOptional(&g.Party, writeReference),
		OnHold: g.OnHold,
		Period: writeOptional(g.Period, writePeriod),
	}
}

func writeAccountDiagnosis(d resource.AccountDiagnosis) accountDiagnosisJSON {
	return accountDiagnosisJSON{
		Sequence:        d.Sequence,
		Condition:       writeOptional(&d.Condition, writeReference),
		DateOfDiagnosis: d.DateOfDiagnosis,
		Type:            writeList(d.Type, writeCodeableConcept),
		OnAdmission:     d.OnAdmission,
		PackageCode:     writeList(d.PackageCode, writeCodeableConcept),
	}
}

func writeAccountProcedure(p resource.AccountProcedure) accountProcedureJSON {
	return accountProcedureJSON{
		Sequence:      p.Sequence,
		Code:          writeOptional(&p.Code, writeReference),
		DateOfService: p.DateOfService,
		Type:          writeList(p.Type, writeCodeableConcept),
		PackageCode:   writeList(p.PackageCode, writeCodeableConcept),
		Device:        writeList(p.Device, writeReference),
	}
}

func writeAccountRelatedAccount(ra resource.AccountRelatedAccount) accountRelatedAccountJSON {
	return accountRelatedAccountJSON{
		Relationship: writeOptional(ra.Relationship, writeCodeableConcept),
		Account:      writeOptional(&ra.Account, writeReference),
	}
}

func writeAccountBalance(b resource.AccountBalance) accountBalanceJSON {
	return accountBalanceJSON{
		Aggregate: writeOptional(b.Aggregate, writeCodeableConcept),
		Term:      writeOptional(b.Term, writeCodeableConcept),
		Estimate:  b.Estimate,
		Amount:    writeOptional(&b.Amount, writeMoney),
	}
}

// --- Patient ---

func writePatient(p *resource.Patient) patientJSON {
	w := patientJSON{
		ResourceType:         str(p.ResourceType()),
		Identifier:           writeList(p.Identifier, writeIdentifier),
		Active:               p.Active,
		Name:                 writeList(p.Name, writeHumanName),
		Telecom:              writeList(p.Telecom, writeContactPoint),
		Gender:               codeString(p.Gender),
		BirthDate:            p.BirthDate,
		Address:              writeList(p.Address, writeAddress),
		MaritalStatus:        writeOptional(p.MaritalStatus, writeCodeableConcept),
		Photo:                writeStrings(p.Photo),
		Contact:              writeList(p.Contact, writePatientContact),
		Communication:        writeList(p.Communication, writePatientCommunication),
		GeneralPractitioner:  writeList(p.GeneralPractitioner, writeReference),
		ManagingOrganization: writeOptional(p.ManagingOrganization, writeReference),
		Link:                 writeList(p.Link, writePatientLink),
	}

	if p.Deceased != nil {
		if dt, ok := p.Deceased.DateTime(); ok {
			w.DeceasedDateTime = str(dt)
		} else {
			b, _ := p.Deceased.Boolean()
			w.DeceasedBoolean = &b
		}
	}
	if p.MultipleBirth != nil {
		if order, ok := p.MultipleBirth.Integer(); ok {
			w.MultipleBirthInteger = &order
		} else {
			b, _ := p.MultipleBirth.Boolean()
			w.MultipleBirthBoolean = &b
		}
	}
	return w
}

func writePatientContact(c resource.PatientContact) patientContactJSON {
	return patientContactJSON{
		Relationship: writeList(c.Relationship, writeCodeableConcept),
		Name:         writeOptional(c.Name, writeHumanName),
		Telecom:      writeList(c.Telecom, writeContactPoint),
		Address:      writeOptional(c.Address, writeAddress),
		Gender:       codeString(c.Gender),
		Organization: writeOptional(c.Organization, writeReference),
		Period:       writeOptional(c.Period, writePeriod),
	}
}

func writePatientCommunication(c resource.PatientCommunication) patientCommunicationJSON {
	return patientCommunicationJSON{
		Language:  writeOptional(&c.Language, writeCodeableConcept),
		Preferred: c.Preferred,
	}
}

func writePatientLink(l resource.PatientLink) patientLinkJSON {
	return patientLinkJSON{
		Other: writeOptional(&l.Other, writeReference),
		Type:  str(l.Type.String()),
	}
}
