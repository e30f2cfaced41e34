package codec

// Wire structs mirror the JSON layout exactly. Required fields are
// pointers without omitempty so a missing key decodes to nil; optional
// fields carry omitempty; repeated fields never carry omitempty and are
// always written as arrays.

type periodJSON struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type identifierJSON struct {
	Use    *string     `json:"use"`
	System *string     `json:"system"`
	Value  *string     `json:"value"`
	Period *periodJSON `json:"period,omitempty"`
}

type moneyJSON struct {
	Value    *float64 `json:"value,omitempty"`
	Currency *string  `json:"currency,omitempty"`
}

type codingJSON struct {
	System       *string `json:"system,omitempty"`
	Version      *string `json:"version,omitempty"`
	Code         *string `json:"code,omitempty"`
	Display      *string `json:"display,omitempty"`
	UserSelected *bool   `json:"userSelected,omitempty"`
}

type codeableConceptJSON struct {
	Coding []codingJSON `json:"coding"`
	Text   *string      `json:"text,omitempty"`
}

type referenceJSON struct {
	Reference  *string `json:"reference,omitempty"`
	Type       *string `json:"type,omitempty"`
	Identifier *string `json:"identifier,omitempty"`
	Display    *string `json:"display,omitempty"`
}

type contactPointJSON struct {
	System *string     `json:"system"`
	Value  *string     `json:"value"`
	Use    *string     `json:"use,omitempty"`
	Rank   *int32      `json:"rank,omitempty"`
	Period *periodJSON `json:"period,omitempty"`
}

type addressJSON struct {
	Use        *string     `json:"use,omitempty"`
	Type       *string     `json:"type,omitempty"`
	Text       *string     `json:"text,omitempty"`
	Line       []string    `json:"line"`
	City       *string     `json:"city,omitempty"`
	District   *string     `json:"district,omitempty"`
	State      *string     `json:"state,omitempty"`
	PostalCode *string     `json:"postalCode,omitempty"`
	Country    *string     `json:"country,omitempty"`
	Period     *periodJSON `json:"period,omitempty"`
}

type humanNameJSON struct {
	Use    *string     `json:"use"`
	Text   *string     `json:"text"`
	Family *string     `json:"family"`
	Given  []string    `json:"given"`
	Prefix []string    `json:"prefix"`
	Suffix []string    `json:"suffix"`
	Period *periodJSON `json:"period,omitempty"`
}

type accountJSON struct {
	ResourceType   *string                     `json:"resourceType"`
	Identifier     []identifierJSON            `json:"identifier"`
	Status         *string                     `json:"status,omitempty"`
	BillingStatus  *codeableConceptJSON        `json:"billingStatus,omitempty"`
	Type           *codeableConceptJSON        `json:"type,omitempty"`
	Name           *string                     `json:"name,omitempty"`
	Subject        []referenceJSON             `json:"subject"`
	ServicePeriod  *periodJSON                 `json:"servicePeriod,omitempty"`
	Coverage       []accountCoverageJSON       `json:"coverage"`
	Owner          *referenceJSON              `json:"owner,omitempty"`
	Description    *string                     `json:"description,omitempty"`
	Guarantor      []accountGuarantorJSON      `json:"guarantor"`
	Diagnosis      []accountDiagnosisJSON      `json:"diagnosis"`
	Procedure      []accountProcedureJSON      `json:"procedure"`
	RelatedAccount []accountRelatedAccountJSON `json:"relatedAccount"`
	Currency       *codeableConceptJSON        `json:"currency,omitempty"`
	Balance        []accountBalanceJSON        `json:"balance"`
	CalculatedAt   *string                     `json:"calculatedAt,omitempty"`
}

type accountCoverageJSON struct {
	Coverage *referenceJSON `json:"coverage"`
	Priority *string        `json:"priority,omitempty"`
}

type accountGuarantorJSON struct {
	Party  *referenceJSON `json:"party"`
	OnHold *bool          `json:"onHold,omitempty"`
	Period *periodJSON    `json:"period,omitempty"`
}

type accountDiagnosisJSON struct {
	Sequence        *string               `json:"sequence,omitempty"`
	Condition       *referenceJSON        `json:"condition"`
	DateOfDiagnosis *string               `json:"dateOfDiagnosis,omitempty"`
	Type            []codeableConceptJSON `json:"type"`
	OnAdmission     *bool                 `json:"onAdmission,omitempty"`
	PackageCode     []codeableConceptJSON `json:"packageCode"`
}

type accountProcedureJSON struct {
	Sequence      *string               `json:"sequence,omitempty"`
	Code          *referenceJSON        `json:"code"`
	DateOfService *string               `json:"dateOfService,omitempty"`
	Type          []codeableConceptJSON `json:"type"`
	PackageCode   []codeableConceptJSON `json:"packageCode"`
	Device        []referenceJSON       `json:"device"`
}

type accountRelatedAccountJSON struct {
	Relationship *codeableConceptJSON `json:"relationship,omitempty"`
	Account      *referenceJSON       `json:"account"`
}

type accountBalanceJSON struct {
	Aggregate *codeableConceptJSON `json:"aggregate,omitempty"`
	Term      *codeableConceptJSON `json:"term,omitempty"`
	Estimate  *bool                `json:"estimate,omitempty"`
	Amount    *moneyJSON           `json:"amount"`
}

type patientJSON struct {
	ResourceType         *string                    `json:"resourceType"`
	Identifier           []identifierJSON           `json:"identifier"`
	Active               *bool                      `json:"active,omitempty"`
	Name                 []humanNameJSON            `json:"name"`
	Telecom              []contactPointJSON         `json:"telecom"`
	Gender               *string                    `json:"gender,omitempty"`
	BirthDate            *string                    `json:"birthDate,omitempty"`
	DeceasedBoolean      *bool                      `json:"deceasedBoolean,omitempty"`
	DeceasedDateTime     *string                    `json:"deceasedDateTime,omitempty"`
	Address              []addressJSON              `json:"address"`
	MaritalStatus        *codeableConceptJSON       `json:"maritalStatus,omitempty"`
	MultipleBirthBoolean *bool                      `json:"multipleBirthBoolean,omitempty"`
	MultipleBirthInteger *int32                     `json:"multipleBirthInteger,omitempty"`
	Photo                []string                   `json:"photo"`
	Contact              []patientContactJSON       `json:"contact"`
	Communication        []patientCommunicationJSON `json:"communication"`
	GeneralPractitioner  []referenceJSON            `json:"generalPractitioner"`
	ManagingOrganization *referenceJSON             `json:"managingOrganization,omitempty"`
	Link                 []patientLinkJSON          `json:"link"`
}

type patientContactJSON struct {
	Relationship []codeableConceptJSON `json:"relationship"`
	Name         *humanNameJSON        `json:"name,omitempty"`
	Telecom      []contactPointJSON    `json:"telecom"`
	Address      *addressJSON          `json:"address,omitempty"`
	Gender       *string               `json:"gender,omitempty"`
	Organization *referenceJSON        `json:"organization,omitempty"`
	Period       *periodJSON           `json:"period,omitempty"`
}

type patientCommunicationJSON struct {
	Language  *codeableConceptJSON `json:"language"`
	Preferred *bool                `json:"preferred,omitempty"`
}

type patientLinkJSON struct {
	Other *referenceJSON `json:"other"`
	Type  *string        `json:"type"`
}
