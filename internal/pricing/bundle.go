package pricing

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	"github.com/angelmondragon/pricebook-backend/pkg/errors"
)

// PriceProvider supplies constituent prices to the bundle calculator. Each
// method returns a nil price (with nil error) when the item has no price in
// the current context.
type PriceProvider interface {
	ProductPrice(ctx context.Context, product *Product) (*Price, error)
	SKUPrice(ctx context.Context, sku *SKU) (*Price, error)
	BundlePrice(ctx context.Context, bundle *Bundle) (*Price, error)
	Currency() enums.Currency
}

// CalculatedBundle derives a bundle's price from the prices of its selected
// constituents. The aggregation walks the union of constituent tier
// breakpoints, converts each to bundle terms, and totals list, sale and
// computed amounts weighted by constituent quantity.
type CalculatedBundle struct {
	bundle   *Bundle
	provider PriceProvider
}

// NewCalculatedBundle wires a calculated bundle to its price provider. Only
// bundles flagged as calculated may be priced this way; anything else is a
// programming error surfaced as a usage error.
func NewCalculatedBundle(bundle *Bundle, provider PriceProvider) (*CalculatedBundle, error) {
	if bundle == nil {
		return nil, errors.New(errors.CodeUsage, "bundle is required")
	}
	if !bundle.Calculated {
		return nil, errors.New(errors.CodeUsage, "bundle "+bundle.Code+" is not a calculated bundle")
	}
	if provider == nil {
		return nil, errors.New(errors.CodeUsage, "price provider is required")
	}
	return &CalculatedBundle{bundle: bundle, provider: provider}, nil
}

// Price resolves the bundle's purchase-time price with the full scheme
// attached. Returns nil when any selected constituent is unpriced. A bundle
// whose selected constituents all bill on recurring schedules gets a zero
// purchase-time price so it stays purchasable.
func (b *CalculatedBundle) Price(ctx context.Context) (*Price, error) {
	scheme, err := b.pricingScheme(ctx)
	if err != nil {
		return nil, err
	}
	if scheme == nil {
		return nil, nil
	}

	var price *Price
	purchaseTime := scheme.PurchaseTimeSchedules()
	if len(purchaseTime) == 0 {
		price = NewZeroPrice(b.provider.Currency())
		if scheme.IsEmpty() {
			scheme.SetPriceForSchedule(PurchaseTimeSchedule(), price)
		}
	} else {
		price = scheme.PriceForSchedule(purchaseTime[0])
	}
	price.SetScheme(scheme)
	return price, nil
}

type constituentPrice struct {
	constituent *BundleConstituent
	price       *Price
}

func (b *CalculatedBundle) pricingScheme(ctx context.Context) (*Scheme, error) {
	scheme := NewScheme()
	if len(b.bundle.Constituents) == 0 {
		return scheme, nil
	}

	selected, err := b.selectedConstituentPrices(ctx)
	if err != nil {
		return nil, err
	}
	if selected == nil {
		return nil, nil
	}

	bundleMinTier, ok := bundleMinTierQuantity(selected)
	if !ok {
		return nil, nil
	}

	for _, schedule := range collectSchedules(selected) {
		scheme.SetPriceForSchedule(schedule, b.priceForSchedule(selected, schedule, bundleMinTier))
	}
	return scheme, nil
}

// selectedConstituentPrices resolves prices for the default selection: the
// first N constituents in declared order, where N comes from the selection
// rule (zero meaning all). Returns nil when any selected constituent has no
// price, which makes the whole bundle unpriced.
func (b *CalculatedBundle) selectedConstituentPrices(ctx context.Context) ([]constituentPrice, error) {
	itemsToSelect := b.itemsToSelect()
	selected := make([]constituentPrice, 0, itemsToSelect)
	for _, constituent := range b.bundle.Constituents {
		if len(selected) == itemsToSelect {
			break
		}
		price, err := b.constituentPrice(ctx, constituent)
		if err != nil {
			return nil, err
		}
		if price == nil {
			return nil, nil
		}
		selected = append(selected, constituentPrice{constituent: constituent, price: price})
	}
	return selected, nil
}

func (b *CalculatedBundle) itemsToSelect() int {
	rule := b.bundle.SelectionRule
	if rule == nil || rule.Parameter == 0 {
		return len(b.bundle.Constituents)
	}
	return rule.Parameter
}

func (b *CalculatedBundle) constituentPrice(ctx context.Context, constituent *BundleConstituent) (*Price, error) {
	switch constituent.Item.Kind {
	case enums.ConstituentItemProduct:
		return b.provider.ProductPrice(ctx, constituent.Item.Product)
	case enums.ConstituentItemSKU:
		return b.provider.SKUPrice(ctx, constituent.Item.SKU)
	case enums.ConstituentItemBundle:
		return b.provider.BundlePrice(ctx, constituent.Item.Bundle)
	default:
		return nil, errors.New(errors.CodeUsage, "unknown constituent item kind "+constituent.Item.Kind.String())
	}
}

// bundleMinTierQuantity finds the smallest bundle quantity at which every
// selected constituent has an applicable tier: the maximum over constituents
// of their first tier converted to bundle terms. Returns false when any
// constituent's price has no tiers at all.
func bundleMinTierQuantity(selected []constituentPrice) (int, bool) {
	bundleMinTier := 0
	for _, pair := range selected {
		mins := pair.price.Scheme().TierMinQuantities()
		if len(mins) == 0 {
			return 0, false
		}
		converted := BundleTierFromConstituentTier(mins[0], pair.constituent.Quantity)
		if converted > bundleMinTier {
			bundleMinTier = converted
		}
	}
	return bundleMinTier, true
}

// BundleTierFromConstituentTier converts a constituent tier breakpoint to
// bundle terms: the smallest bundle quantity whose constituent demand reaches
// the breakpoint, ceil(tierMin / quantity) in integer arithmetic.
func BundleTierFromConstituentTier(tierMin, quantity int) int {
	return (tierMin + quantity - 1) / quantity
}

func collectSchedules(selected []constituentPrice) []PriceSchedule {
	seen := make(map[PriceSchedule]struct{})
	var schedules []PriceSchedule
	for _, pair := range selected {
		for _, schedule := range pair.price.Scheme().Schedules() {
			if _, ok := seen[schedule]; ok {
				continue
			}
			seen[schedule] = struct{}{}
			schedules = append(schedules, schedule)
		}
	}
	sort.Slice(schedules, func(i, j int) bool {
		if schedules[i].Type != schedules[j].Type {
			return schedules[i].IsPurchaseTime()
		}
		return schedules[i].PaymentFrequency < schedules[j].PaymentFrequency
	})
	return schedules
}

// priceForSchedule aggregates one schedule's tier table. Candidate
// breakpoints are the union of every constituent's breakpoints converted to
// bundle terms plus the bundle minimum; anything below the minimum is
// skipped, and consecutive tiers with identical pricing collapse into one.
func (b *CalculatedBundle) priceForSchedule(selected []constituentPrice, schedule PriceSchedule, bundleMinTier int) *Price {
	currency := b.provider.Currency()

	schedulePrices := make([]constituentPrice, 0, len(selected))
	tierMins := map[int]struct{}{bundleMinTier: {}}
	for _, pair := range selected {
		price := pair.price.Scheme().PriceForSchedule(schedule)
		if price == nil {
			// Constituent does not participate in this schedule; it
			// contributes zero to the totals.
			price = NewZeroPrice(currency)
		}
		for _, min := range price.TierMinQuantities() {
			tierMins[BundleTierFromConstituentTier(min, pair.constituent.Quantity)] = struct{}{}
		}
		schedulePrices = append(schedulePrices, constituentPrice{constituent: pair.constituent, price: price})
	}

	mins := make([]int, 0, len(tierMins))
	for min := range tierMins {
		mins = append(mins, min)
	}
	sort.Ints(mins)

	result := NewPrice(currency)
	var previous *PriceTier
	for _, minQty := range mins {
		if minQty < bundleMinTier {
			continue
		}
		tier := b.tierAtQuantity(schedulePrices, minQty)
		if tier == nil || tier.SamePricing(previous) {
			continue
		}
		result.AddOrUpdateTier(tier)
		previous = tier
	}
	return result
}

// tierAtQuantity totals list, sale and computed prices across constituents at
// one bundle quantity. Each constituent is evaluated at its own demand
// (constituent quantity times bundle quantity); a constituent with no list
// price there voids the tier. Sale totals fall back to list for constituents
// without a sale price, and are only recorded when at least one constituent
// is on sale.
func (b *CalculatedBundle) tierAtQuantity(selected []constituentPrice, minQty int) *PriceTier {
	totalList := decimal.Zero
	totalSale := decimal.Zero
	totalComputed := decimal.Zero
	foundSale := false

	for _, pair := range selected {
		qty := pair.constituent.Quantity * minQty
		listPrice := pair.price.ListPrice(qty)
		if listPrice == nil {
			return nil
		}
		constituentQty := decimal.NewFromInt(int64(pair.constituent.Quantity))
		totalList = totalList.Add(listPrice.Amount.Mul(constituentQty))

		saleAmount := listPrice.Amount
		if salePrice := pair.price.SalePrice(qty); salePrice != nil {
			saleAmount = salePrice.Amount
			foundSale = true
		}
		totalSale = totalSale.Add(saleAmount.Mul(constituentQty))

		totalComputed = totalComputed.Add(constituentComputedAmount(pair.constituent, pair.price, qty))
	}

	tier := &PriceTier{MinQty: minQty}
	tier.ListPrice = &totalList
	if foundSale {
		tier.SalePrice = &totalSale
	}
	tier.SetComputedPriceIfLower(totalComputed)
	return tier
}

// constituentComputedAmount is the constituent's contribution to the computed
// total at the given demand: its lowest unit price plus any non-positive
// adjustment from the tier's source price list, floored at zero, times the
// constituent quantity. Markup adjustments never raise a calculated bundle's
// price.
func constituentComputedAmount(constituent *BundleConstituent, price *Price, qty int) decimal.Decimal {
	lowest := price.LowestPrice(qty)
	if lowest == nil {
		return decimal.Zero
	}
	amount := lowest.Amount
	if tier := price.TierByQty(qty); tier != nil {
		if adjustment := constituent.PriceAdjustmentForPriceList(tier.PriceListGUID); adjustment != nil {
			amount = amount.Add(decimal.Min(adjustment.Amount, decimal.Zero))
		}
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return amount.Mul(decimal.NewFromInt(int64(constituent.Quantity)))
}
