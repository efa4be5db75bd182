package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

// Money pairs a decimal amount with its currency.
type Money struct {
	Amount   decimal.Decimal
	Currency enums.Currency
}

func NewMoney(amount decimal.Decimal, currency enums.Currency) *Money {
	return &Money{Amount: amount, Currency: currency}
}

func ZeroMoney(currency enums.Currency) *Money {
	return &Money{Amount: decimal.Zero, Currency: currency}
}

// LessThan reports whether m is strictly cheaper than other. Currencies are
// assumed to match; callers resolve prices within a single-currency stack.
func (m *Money) LessThan(other *Money) bool {
	if m == nil || other == nil {
		return false
	}
	return m.Amount.LessThan(other.Amount)
}
