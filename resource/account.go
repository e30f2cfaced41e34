package resource

import (
	"github.com/shopspring/decimal"

	"github.com/gofhir/resources/datatype"
	"github.com/gofhir/resources/primitive"
)

// Account tracks charges for a patient, cost centre or other subject.
type Account struct {
	resourceType string

	Identifier     []datatype.Identifier
	Status         *primitive.Code
	BillingStatus  *datatype.CodeableConcept
	Type           *datatype.CodeableConcept
	Name           *string
	Subject        []datatype.Reference
	ServicePeriod  *datatype.Period
	Coverage       []AccountCoverage
	Owner          *datatype.Reference
	Description    *string
	Guarantor      []AccountGuarantor
	Diagnosis      []AccountDiagnosis
	Procedure      []AccountProcedure
	RelatedAccount []AccountRelatedAccount
	Currency       *datatype.CodeableConcept
	Balance        []AccountBalance
	CalculatedAt   *string
}

// NewAccount returns an empty Account.
func NewAccount() *Account {
	return &Account{resourceType: TypeAccount}
}

// NewAccountWithResourceType returns an empty Account whose discriminator
// is rt instead of "Account".
func NewAccountWithResourceType(rt string) *Account {
	return &Account{resourceType: rt}
}

// ResourceType returns the resourceType discriminator.
func (a *Account) ResourceType() string {
	return a.resourceType
}

// SetResourceType replaces the discriminator.
func (a *Account) SetResourceType(rt string) {
	a.resourceType = rt
}

// AddIdentifier appends an identifier.
func (a *Account) AddIdentifier(id datatype.Identifier) {
	a.Identifier = append(a.Identifier, id)
}

// AddSubject appends a subject reference.
func (a *Account) AddSubject(ref datatype.Reference) {
	a.Subject = append(a.Subject, ref)
}

// AddCoverage appends a coverage element.
func (a *Account) AddCoverage(c AccountCoverage) {
	a.Coverage = append(a.Coverage, c)
}

// AddGuarantor appends a guarantor element.
func (a *Account) AddGuarantor(g AccountGuarantor) {
	a.Guarantor = append(a.Guarantor, g)
}

// AddDiagnosis appends a diagnosis element.
func (a *Account) AddDiagnosis(d AccountDiagnosis) {
	a.Diagnosis = append(a.Diagnosis, d)
}

// AddProcedure appends a procedure element.
func (a *Account) AddProcedure(p AccountProcedure) {
	a.Procedure = append(a.Procedure, p)
}

// AddRelatedAccount appends a related account element.
func (a *Account) AddRelatedAccount(r AccountRelatedAccount) {
	a.RelatedAccount = append(a.RelatedAccount, r)
}

// AddBalance appends a balance element.
func (a *Account) AddBalance(b AccountBalance) {
	a.Balance = append(a.Balance, b)
}

// TotalBalance sums the amounts of all balances in currency. Amounts
// without a value or in another currency are skipped.
func (a *Account) TotalBalance(currency primitive.Code) decimal.Decimal {
	total := decimal.Zero
	for _, b := range a.Balance {
		if !b.Amount.InCurrency(currency) {
			continue
		}
		if v, ok := b.Amount.Decimal(); ok {
			total = total.Add(v)
		}
	}
	return total
}

// AccountCoverage is an insurance plan that pays for the account.
type AccountCoverage struct {
	Coverage datatype.Reference
	Priority *string
}

// NewAccountCoverage creates an AccountCoverage.
func NewAccountCoverage(coverage datatype.Reference) AccountCoverage {
	return AccountCoverage{Coverage: coverage}
}

// AccountGuarantor is a party responsible for balancing the account.
type AccountGuarantor struct {
	Party  datatype.Reference
	OnHold *bool
	Period *datatype.Period
}

// NewAccountGuarantor creates an AccountGuarantor.
func NewAccountGuarantor(party datatype.Reference) AccountGuarantor {
	return AccountGuarantor{Party: party}
}

// AccountDiagnosis is a diagnosis relevant to the account.
type AccountDiagnosis struct {
	Sequence        *string
	Condition       datatype.Reference
	DateOfDiagnosis *string
	Type            []datatype.CodeableConcept
	OnAdmission     *bool
	PackageCode     []datatype.CodeableConcept
}

// NewAccountDiagnosis creates an AccountDiagnosis.
func NewAccountDiagnosis(condition datatype.Reference) AccountDiagnosis {
	return AccountDiagnosis{Condition: condition}
}

// AccountProcedure is a procedure relevant to the account.
type AccountProcedure struct {
	Sequence      *string
	Code          datatype.Reference
	DateOfService *string
	Type          []datatype.CodeableConcept
	PackageCode   []datatype.CodeableConcept
	Device        []datatype.Reference
}

// NewAccountProcedure creates an AccountProcedure.
func NewAccountProcedure(code datatype.Reference) AccountProcedure {
	return AccountProcedure{Code: code}
}

// AccountRelatedAccount links to another account.
type AccountRelatedAccount struct {
	Relationship *datatype.CodeableConcept
	Account      datatype.Reference
}

// NewAccountRelatedAccount creates an AccountRelatedAccount.
func NewAccountRelatedAccount(account datatype.Reference) AccountRelatedAccount {
	return AccountRelatedAccount{Account: account}
}

// AccountBalance is a calculated balance for the account.
type AccountBalance struct {
	Aggregate *datatype.CodeableConcept
	Term      *datatype.CodeableConcept
	Estimate  *bool
	Amount    datatype.Money
}

// NewAccountBalance creates an AccountBalance.
func NewAccountBalance(amount datatype.Money) AccountBalance {
	return AccountBalance{Amount: amount}
}
