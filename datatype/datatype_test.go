package datatype

// Tests that compare resource trees use testify; assert.Equal reports
// the differing fields.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/resources/primitive"
)

func TestNewIdentifier(t *testing.T) {
	system := primitive.MustURI("http://hospital.example/mrn")
	id := NewIdentifier(primitive.MustCode("official"), system, "12345")

	assert.Equal(t, "official", id.Use.String())
	assert.Nil(t, id.Period)
	assert.True(t, id.Matches(system, "12345"))
	assert.False(t, id.Matches(system, "54321"))
}

func TestMoneyDecimal(t *testing.T) {
	m := NewMoney(100.10, primitive.MustCode("USD"))
	d, ok := m.Decimal()
	require.True(t, ok)
	assert.Equal(t, "100.1", d.String())
	assert.True(t, m.InCurrency(primitive.MustCode("USD")))
	assert.False(t, m.InCurrency(primitive.MustCode("EUR")))

	_, ok = Money{}.Decimal()
	assert.False(t, ok)
	assert.False(t, Money{}.InCurrency(primitive.MustCode("USD")))
}

func TestCodeableConcept(t *testing.T) {
	system := primitive.MustURI("http://snomed.info/sct")
	cc := NewCodeableConcept(NewCoding(system, primitive.MustCode("38341003")))

	assert.True(t, cc.HasCoding(system, primitive.MustCode("38341003")))
	assert.False(t, cc.HasCoding(system, primitive.MustCode("1")))

	cc.AddCoding(Coding{Display: Ptr("free text only")})
	assert.Len(t, cc.Coding, 2)

	assert.Nil(t, NewCodeableConcept().Coding)
	assert.Equal(t, "married", *TextConcept("married").Text)
}

func TestNewCodeableConceptCopies(t *testing.T) {
	codings := []Coding{{Display: Ptr("a")}}
	cc := NewCodeableConcept(codings...)
	codings[0].Display = Ptr("b")

	assert.Equal(t, "a", *cc.Coding[0].Display)
}

func TestReferenceParts(t *testing.T) {
	tests := []struct {
		name   string
		ref    Reference
		typ    string
		id     string
		wantOK bool
	}{
		{"relative", NewReference("Patient/123"), "Patient", "123", true},
		{"versioned", NewReference("Patient/123/_history/2"), "Patient", "123", true},
		{"built", ReferenceTo("Organization", "org-1"), "Organization", "org-1", true},
		{"absolute", NewReference("http://x.org/fhir/Patient/1"), "", "", false},
		{"contained", NewReference("#p1"), "", "", false},
		{"uuid", NewReference("urn:uuid:c757873d-ec9a-4326-a141-556f43239520"), "", "", false},
		{"display only", Reference{Display: Ptr("Dr. Who")}, "", "", false},
		{"no id", NewReference("Patient/"), "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok := tt.ref.ResourceType()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.typ, typ)

			id, ok := tt.ref.ResourceID()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestHumanNameDisplay(t *testing.T) {
	n := NewHumanName(primitive.MustCode("official"), "", "Chalmers")
	n.AddPrefix("Mr.")
	n.AddGiven("Peter")
	n.AddGiven("James")
	n.AddSuffix("Jr.")
	assert.Equal(t, "Mr. Peter James Chalmers Jr.", n.Display())

	n.Text = "Peter Chalmers"
	assert.Equal(t, "Peter Chalmers", n.Display())
}

func TestAddressLines(t *testing.T) {
	var a Address
	a.AddLine("534 Erewhon St")
	a.AddLine("Unit 2")
	assert.Equal(t, []string{"534 Erewhon St", "Unit 2"}, a.Line)
}

func TestContactPoint(t *testing.T) {
	cp := NewContactPoint(primitive.MustCode("phone"), "(03) 5555 6473")
	cp.Rank = Ptr(int32(1))

	assert.Equal(t, "phone", cp.System.String())
	assert.Nil(t, cp.Use)
	assert.Equal(t, int32(1), *cp.Rank)
}
