package pricing

import "github.com/shopspring/decimal"

// PriceTier is a single quantity breakpoint within a Price. A tier applies to
// any requested quantity at or above MinQty, until the next tier takes over.
//
// ListPrice may be nil when the backing record carried only a sale value; a
// tier with a nil list price cannot contribute to bundle aggregation.
type PriceTier struct {
	MinQty        int
	ListPrice     *decimal.Decimal
	SalePrice     *decimal.Decimal
	ComputedPrice *decimal.Decimal

	// PriceListGUID records which price list the tier was populated from,
	// so adjustments scoped to that list can be matched later.
	PriceListGUID string
}

// LowestUnitPrice returns the cheapest of the tier's list, sale and computed
// prices. Returns nil when the tier has no prices at all.
func (t *PriceTier) LowestUnitPrice() *decimal.Decimal {
	if t == nil {
		return nil
	}
	var lowest *decimal.Decimal
	for _, candidate := range []*decimal.Decimal{t.ListPrice, t.SalePrice, t.ComputedPrice} {
		if candidate == nil {
			continue
		}
		if lowest == nil || candidate.LessThan(*lowest) {
			lowest = candidate
		}
	}
	if lowest == nil {
		return nil
	}
	value := *lowest
	return &value
}

// SetComputedPriceIfLower stores amount as the computed price when no computed
// price is set yet or when amount undercuts the current one. Negative amounts
// are clamped to zero before comparison.
func (t *PriceTier) SetComputedPriceIfLower(amount decimal.Decimal) {
	if t == nil {
		return
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if t.ComputedPrice == nil || amount.LessThan(*t.ComputedPrice) {
		t.ComputedPrice = &amount
	}
}

// SamePricing reports whether two tiers carry identical list, sale and
// computed prices. Used to drop redundant breakpoints from aggregated tables.
func (t *PriceTier) SamePricing(other *PriceTier) bool {
	if t == nil || other == nil {
		return false
	}
	return decimalsEqual(t.ListPrice, other.ListPrice) &&
		decimalsEqual(t.SalePrice, other.SalePrice) &&
		decimalsEqual(t.ComputedPrice, other.ComputedPrice)
}

func (t *PriceTier) clone() *PriceTier {
	if t == nil {
		return nil
	}
	copied := &PriceTier{MinQty: t.MinQty, PriceListGUID: t.PriceListGUID}
	if t.ListPrice != nil {
		v := *t.ListPrice
		copied.ListPrice = &v
	}
	if t.SalePrice != nil {
		v := *t.SalePrice
		copied.SalePrice = &v
	}
	if t.ComputedPrice != nil {
		v := *t.ComputedPrice
		copied.ComputedPrice = &v
	}
	return copied
}

func decimalsEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
