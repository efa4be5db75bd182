package pricing

import "github.com/angelmondragon/pricebook-backend/pkg/enums"

// Populator turns raw base amounts into price tiers.
type Populator struct{}

// Populate installs one tier per usable base amount on target and reports
// whether any tier was set. Amounts carrying neither a list nor a sale value
// are skipped. Existing tiers at the same quantity are replaced, which lets a
// stack walk layer higher-priority records over lower ones.
func (Populator) Populate(amounts []BaseAmount, currency enums.Currency, target *Price) bool {
	found := false
	for _, amount := range amounts {
		if amount.ListValue == nil && amount.SaleValue == nil {
			continue
		}
		tier := &PriceTier{
			MinQty:        amount.Quantity,
			PriceListGUID: amount.PriceListGUID,
		}
		if amount.ListValue != nil {
			v := *amount.ListValue
			tier.ListPrice = &v
		}
		if amount.SaleValue != nil {
			v := *amount.SaleValue
			tier.SalePrice = &v
		}
		target.AddOrUpdateTier(tier)
		found = true
	}
	if found {
		target.SetCurrency(currency)
	}
	return found
}
