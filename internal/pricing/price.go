package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

// Price is the resolved tier table for one priced entity in one currency.
// Tiers are keyed by their minimum quantity; lookups select the tier with the
// highest minimum quantity not exceeding the requested quantity.
type Price struct {
	currency enums.Currency
	tiers    map[int]*PriceTier
	scheme   *Scheme
}

func NewPrice(currency enums.Currency) *Price {
	return &Price{
		currency: currency,
		tiers:    make(map[int]*PriceTier),
	}
}

// NewZeroPrice builds a single-tier price of zero at quantity one. Used as the
// placeholder purchase-time price for bundles with no one-time charges.
func NewZeroPrice(currency enums.Currency) *Price {
	price := NewPrice(currency)
	zero := decimal.Zero
	price.AddOrUpdateTier(&PriceTier{MinQty: 1, ListPrice: &zero})
	return price
}

func (p *Price) Currency() enums.Currency {
	if p == nil {
		return ""
	}
	return p.currency
}

func (p *Price) SetCurrency(currency enums.Currency) {
	p.currency = currency
}

// AddOrUpdateTier installs the tier, replacing any existing tier at the same
// minimum quantity.
func (p *Price) AddOrUpdateTier(tier *PriceTier) {
	if tier == nil {
		return
	}
	p.tiers[tier.MinQty] = tier
}

func (p *Price) HasTiers() bool {
	return p != nil && len(p.tiers) > 0
}

// TierMinQuantities returns the tier breakpoints in ascending order.
func (p *Price) TierMinQuantities() []int {
	if p == nil {
		return nil
	}
	mins := make([]int, 0, len(p.tiers))
	for min := range p.tiers {
		mins = append(mins, min)
	}
	sort.Ints(mins)
	return mins
}

// TierByQty returns the tier governing the requested quantity, i.e. the one
// with the highest minimum quantity not exceeding qty. Nil when no tier
// applies (all breakpoints are above qty, or the table is empty).
func (p *Price) TierByQty(qty int) *PriceTier {
	if p == nil {
		return nil
	}
	var match *PriceTier
	for min, tier := range p.tiers {
		if min > qty {
			continue
		}
		if match == nil || min > match.MinQty {
			match = tier
		}
	}
	return match
}

// ListPrice returns the list price at the requested quantity, or nil when no
// tier applies or the applicable tier has no list price.
func (p *Price) ListPrice(qty int) *Money {
	tier := p.TierByQty(qty)
	if tier == nil || tier.ListPrice == nil {
		return nil
	}
	return NewMoney(*tier.ListPrice, p.currency)
}

// SalePrice returns the sale price at the requested quantity, or nil when the
// applicable tier has none.
func (p *Price) SalePrice(qty int) *Money {
	tier := p.TierByQty(qty)
	if tier == nil || tier.SalePrice == nil {
		return nil
	}
	return NewMoney(*tier.SalePrice, p.currency)
}

// LowestPrice returns the cheapest of list, sale and computed prices at the
// requested quantity.
func (p *Price) LowestPrice(qty int) *Money {
	tier := p.TierByQty(qty)
	if tier == nil {
		return nil
	}
	lowest := tier.LowestUnitPrice()
	if lowest == nil {
		return nil
	}
	return NewMoney(*lowest, p.currency)
}

// Scheme returns the full schedule-to-price mapping this price belongs to.
// Nil for prices that were never attached to a scheme.
func (p *Price) Scheme() *Scheme {
	if p == nil {
		return nil
	}
	return p.scheme
}

func (p *Price) SetScheme(scheme *Scheme) {
	p.scheme = scheme
}
