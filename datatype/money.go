package datatype

import (
	"github.com/shopspring/decimal"

	"github.com/gofhir/resources/primitive"
)

// Money is an amount with an optional currency code.
type Money struct {
	Value    *float64
	Currency *primitive.Code
}

// NewMoney creates a Money with both value and currency set.
func NewMoney(value float64, currency primitive.Code) Money {
	return Money{Value: &value, Currency: &currency}
}

// Decimal returns the value as a decimal. The second result is false when
// the value is absent.
func (m Money) Decimal() (decimal.Decimal, bool) {
	if m.Value == nil {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(*m.Value), true
}

// InCurrency reports whether m is expressed in currency.
func (m Money) InCurrency(currency primitive.Code) bool {
	return m.Currency != nil && *m.Currency == currency
}
