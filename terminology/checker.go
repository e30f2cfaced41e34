package terminology

import (
	"context"
	"fmt"

	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/datatype"
	"github.com/gofhir/resources/primitive"
	"github.com/gofhir/resources/resource"
)

// binding is one code found in a resource together with the value set it
// must come from.
type binding struct {
	path     string
	code     primitive.Code
	valueSet string
}

type bindings []binding

func (b *bindings) add(path string, code primitive.Code, valueSet string) {
	if code.IsZero() {
		return
	}
	*b = append(*b, binding{path: path, code: code, valueSet: valueSet})
}

func (b *bindings) addOptional(path string, code *primitive.Code, valueSet string) {
	if code != nil {
		b.add(path, *code, valueSet)
	}
}

func (b *bindings) identifiers(path string, ids []datatype.Identifier) {
	for i, id := range ids {
		b.add(fmt.Sprintf("%s[%d].use", path, i), id.Use, IdentifierUse)
	}
}

func (b *bindings) name(path string, n datatype.HumanName) {
	b.add(path+".use", n.Use, NameUse)
}

func (b *bindings) telecom(path string, cps []datatype.ContactPoint) {
	for i, cp := range cps {
		p := fmt.Sprintf("%s[%d]", path, i)
		b.add(p+".system", cp.System, ContactPointSystem)
		b.addOptional(p+".use", cp.Use, ContactPointUse)
	}
}

func (b *bindings) address(path string, a datatype.Address) {
	b.addOptional(path+".use", a.Use, AddressUse)
	b.addOptional(path+".type", a.Type, AddressType)
}

// Checker reports codes outside their required value set.
type Checker struct {
	svc     *Service
	metrics *fv.Metrics
}

// NewChecker creates a Checker backed by svc.
func NewChecker(svc *Service) *Checker {
	return &Checker{svc: svc}
}

// WithMetrics records reported issues into m.
func (c *Checker) WithMetrics(m *fv.Metrics) *Checker {
	c.metrics = m
	return c
}

// Check dispatches on the resource type.
func (c *Checker) Check(ctx context.Context, res resource.Resource) (*fv.Result, error) {
	switch r := res.(type) {
	case *resource.Account:
		return c.CheckAccount(ctx, r)
	case *resource.Patient:
		return c.CheckPatient(ctx, r)
	default:
		result := fv.NewResult()
		if res != nil {
			result.ResourceType = res.ResourceType()
		}
		result.AddIssue(fv.Warning(fv.IssueTypeNotSupported).
			Diagnostics(fmt.Sprintf("no terminology bindings for %T", res)).
			Source(fv.SourceTerminology).
			Build())
		return result, nil
	}
}

// CheckAccount checks the coded elements of a.
func (c *Checker) CheckAccount(ctx context.Context, a *resource.Account) (*fv.Result, error) {
	var b bindings
	b.identifiers("Account.identifier", a.Identifier)
	b.addOptional("Account.status", a.Status, AccountStatus)
	return c.run(ctx, a.ResourceType(), b)
}

// CheckPatient checks the coded elements of p, including its contacts and
// links.
func (c *Checker) CheckPatient(ctx context.Context, p *resource.Patient) (*fv.Result, error) {
	var b bindings
	b.identifiers("Patient.identifier", p.Identifier)
	for i, n := range p.Name {
		b.name(fmt.Sprintf("Patient.name[%d]", i), n)
	}
	b.telecom("Patient.telecom", p.Telecom)
	b.addOptional("Patient.gender", p.Gender, AdministrativeGender)
	for i, a := range p.Address {
		b.address(fmt.Sprintf("Patient.address[%d]", i), a)
	}
	for i, ct := range p.Contact {
		path := fmt.Sprintf("Patient.contact[%d]", i)
		if ct.Name != nil {
			b.name(path+".name", *ct.Name)
		}
		b.telecom(path+".telecom", ct.Telecom)
		if ct.Address != nil {
			b.address(path+".address", *ct.Address)
		}
		b.addOptional(path+".gender", ct.Gender, AdministrativeGender)
	}
	for i, l := range p.Link {
		b.add(fmt.Sprintf("Patient.link[%d].type", i), l.Type, LinkType)
	}
	return c.run(ctx, p.ResourceType(), b)
}

func (c *Checker) run(ctx context.Context, resourceType string, b bindings) (*fv.Result, error) {
	result := fv.NewResult()
	result.ResourceType = resourceType
	result.Ran(fv.SourceTerminology)

	for _, bd := range b {
		v, err := c.svc.ValidateCode(ctx, "", bd.code.String(), bd.valueSet)
		if err != nil {
			return nil, fmt.Errorf("terminology: %s: %w", bd.path, err)
		}
		if v.Valid {
			continue
		}
		issue := fv.Error(fv.IssueTypeCodeInvalid).
			Diagnostics(v.Message).
			At(bd.path).
			Source(fv.SourceTerminology).
			Build()
		c.metrics.RecordIssue(issue.Severity)
		result.AddIssue(issue)
	}
	return result, nil
}
