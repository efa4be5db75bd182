package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

// SKU is a sellable variant of a product. A SKU with a payment frequency
// bills on a recurring schedule; one without bills at purchase time.
type SKU struct {
	Code             string
	ProductCode      string
	StartDate        *time.Time
	EndDate          *time.Time
	PaymentFrequency *enums.PaymentFrequency
}

// PaymentSchedule returns the recurring schedule the SKU bills on, or nil for
// purchase-time SKUs.
func (s *SKU) PaymentSchedule() *PriceSchedule {
	if s == nil || s.PaymentFrequency == nil {
		return nil
	}
	schedule := RecurringSchedule(*s.PaymentFrequency)
	return &schedule
}

// WithinDateRange reports whether the SKU is sellable at the given instant.
// Open-ended bounds always pass.
func (s *SKU) WithinDateRange(now time.Time) bool {
	if s.StartDate != nil && now.Before(*s.StartDate) {
		return false
	}
	if s.EndDate != nil && now.After(*s.EndDate) {
		return false
	}
	return true
}

// Product is a catalog product with its sellable SKUs.
type Product struct {
	Code string
	Name string
	SKUs []*SKU
}

// SelectionRule governs how many constituents of a bundle are chosen by
// default. A zero parameter means every constituent.
type SelectionRule struct {
	Type      enums.SelectionRuleType
	Parameter int
}

// Bundle groups constituents under a selection rule. Calculated bundles
// derive their price from their constituents; assigned bundles carry their
// own base amounts like a plain product.
type Bundle struct {
	Code          string
	Name          string
	Calculated    bool
	SelectionRule *SelectionRule
	Constituents  []*BundleConstituent
}

// PriceAdjustment discounts one constituent's contribution within a specific
// price list.
type PriceAdjustment struct {
	GUID          string
	PriceListGUID string
	Amount        decimal.Decimal
}

// BundleConstituent is one entry of a bundle, carrying its quantity and any
// per-price-list adjustments resolved for the current lookup.
type BundleConstituent struct {
	GUID     string
	Quantity int
	Ordering int
	Item     ConstituentItem

	adjustments map[string]*PriceAdjustment
}

// SetPriceAdjustment records the adjustment that applies to this constituent
// within the given price list.
func (c *BundleConstituent) SetPriceAdjustment(priceListGUID string, adjustment *PriceAdjustment) {
	if c.adjustments == nil {
		c.adjustments = make(map[string]*PriceAdjustment)
	}
	c.adjustments[priceListGUID] = adjustment
}

// PriceAdjustmentForPriceList returns the adjustment scoped to the given
// price list, or nil when none applies.
func (c *BundleConstituent) PriceAdjustmentForPriceList(priceListGUID string) *PriceAdjustment {
	if c == nil || c.adjustments == nil {
		return nil
	}
	return c.adjustments[priceListGUID]
}

// ConstituentItem is a tagged union over the three things a constituent can
// reference. Exactly the field matching Kind is set.
type ConstituentItem struct {
	Kind    enums.ConstituentItemKind
	Product *Product
	SKU     *SKU
	Bundle  *Bundle
}

func ProductItem(product *Product) ConstituentItem {
	return ConstituentItem{Kind: enums.ConstituentItemProduct, Product: product}
}

func SKUItem(sku *SKU) ConstituentItem {
	return ConstituentItem{Kind: enums.ConstituentItemSKU, SKU: sku}
}

func BundleItem(bundle *Bundle) ConstituentItem {
	return ConstituentItem{Kind: enums.ConstituentItemBundle, Bundle: bundle}
}

// Code returns the referenced item's catalog code.
func (i ConstituentItem) Code() string {
	switch i.Kind {
	case enums.ConstituentItemProduct:
		if i.Product != nil {
			return i.Product.Code
		}
	case enums.ConstituentItemSKU:
		if i.SKU != nil {
			return i.SKU.Code
		}
	case enums.ConstituentItemBundle:
		if i.Bundle != nil {
			return i.Bundle.Code
		}
	}
	return ""
}
