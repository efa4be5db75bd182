package pricing

import (
	"context"
	"time"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	"github.com/angelmondragon/pricebook-backend/pkg/errors"
)

// AdjustmentResolver loads constituent price adjustments scoped to one price
// list, keyed by constituent GUID.
type AdjustmentResolver interface {
	FindByPriceListAndConstituents(ctx context.Context, priceListGUID string, constituentGUIDs []string) (map[string]*PriceAdjustment, error)
}

// LookupService resolves prices for SKUs, products and bundles against a
// price list stack. Base amounts are fetched in bulk once per lookup and
// filtered in memory while walking the stack from highest priority down.
type LookupService struct {
	dataSource  BaseAmountDataSource
	adjustments AdjustmentResolver
	finder      Finder
	populator   Populator
	now         func() time.Time
}

type LookupOption func(*LookupService)

// WithClock overrides the time source used for SKU date-window checks.
func WithClock(now func() time.Time) LookupOption {
	return func(s *LookupService) { s.now = now }
}

func NewLookupService(dataSource BaseAmountDataSource, adjustments AdjustmentResolver, opts ...LookupOption) *LookupService {
	svc := &LookupService{
		dataSource:  dataSource,
		adjustments: adjustments,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// SKUPrice resolves the price of a single SKU. The stack is walked from
// highest priority down; within a layer, product-level amounts are populated
// first and SKU-level amounts layered on top, and the first layer yielding
// any tier wins. Returns nil when no layer prices the SKU.
func (s *LookupService) SKUPrice(ctx context.Context, sku *SKU, stack *PriceListStack) (*Price, error) {
	if sku == nil {
		return nil, errors.New(errors.CodeUsage, "sku is required")
	}
	amounts, err := s.dataSource.GetBaseAmounts(ctx, stack.GUIDs(), []string{sku.Code, sku.ProductCode})
	if err != nil {
		return nil, err
	}
	return s.resolveSKU(sku, stack, amounts), nil
}

func (s *LookupService) resolveSKU(sku *SKU, stack *PriceListStack, amounts []BaseAmount) *Price {
	price := NewPrice(stack.Currency())
	for _, priceListGUID := range stack.DescendingPriority() {
		found := false
		// Recurring SKUs never inherit product-level pricing; a product
		// amount has no payment frequency to bill it under.
		if sku.PaymentFrequency == nil {
			productAmounts := s.finder.Filter(amounts, priceListGUID, enums.BaseAmountObjectTypeProduct, sku.ProductCode)
			if s.populator.Populate(productAmounts, stack.Currency(), price) {
				found = true
			}
		}
		skuAmounts := s.finder.Filter(amounts, priceListGUID, enums.BaseAmountObjectTypeSKU, sku.Code)
		if s.populator.Populate(skuAmounts, stack.Currency(), price) {
			found = true
		}
		if found {
			break
		}
	}
	if !price.HasTiers() {
		return nil
	}

	schedule := PurchaseTimeSchedule()
	if recurring := sku.PaymentSchedule(); recurring != nil {
		schedule = *recurring
	}
	scheme := NewScheme()
	scheme.SetPriceForSchedule(schedule, price)
	price.SetScheme(scheme)
	return price
}

// ProductPrice resolves the price of a product by merging its sellable SKUs'
// prices per schedule, keeping the cheapest tier at each breakpoint. Returns
// nil when no SKU is priced.
func (s *LookupService) ProductPrice(ctx context.Context, product *Product, stack *PriceListStack) (*Price, error) {
	if product == nil {
		return nil, errors.New(errors.CodeUsage, "product is required")
	}
	objectGUIDs := []string{product.Code}
	for _, sku := range product.SKUs {
		objectGUIDs = append(objectGUIDs, sku.Code)
	}
	amounts, err := s.dataSource.GetBaseAmounts(ctx, stack.GUIDs(), objectGUIDs)
	if err != nil {
		return nil, err
	}
	return s.resolveProduct(product, stack, amounts), nil
}

func (s *LookupService) resolveProduct(product *Product, stack *PriceListStack, amounts []BaseAmount) *Price {
	now := s.now()
	scheme := NewScheme()
	for _, sku := range product.SKUs {
		if !sku.WithinDateRange(now) {
			continue
		}
		skuPrice := s.resolveSKU(sku, stack, amounts)
		if skuPrice == nil {
			continue
		}
		for _, schedule := range skuPrice.Scheme().Schedules() {
			source := skuPrice.Scheme().PriceForSchedule(schedule)
			target := scheme.PriceForSchedule(schedule)
			if target == nil {
				target = NewPrice(stack.Currency())
				scheme.SetPriceForSchedule(schedule, target)
			}
			mergeLowestTiers(target, source)
		}
	}
	if scheme.IsEmpty() {
		return nil
	}

	schedules := scheme.Schedules()
	price := scheme.PriceForSchedule(schedules[0])
	price.SetScheme(scheme)
	return price
}

// mergeLowestTiers copies each of src's tiers into dst unless dst already has
// a cheaper tier at the same breakpoint.
func mergeLowestTiers(dst, src *Price) {
	for _, minQty := range src.TierMinQuantities() {
		candidate := src.TierByQty(minQty)
		existing, ok := dst.tiers[minQty]
		if ok {
			candidateLowest := candidate.LowestUnitPrice()
			existingLowest := existing.LowestUnitPrice()
			if candidateLowest == nil {
				continue
			}
			if existingLowest != nil && !candidateLowest.LessThan(*existingLowest) {
				continue
			}
		}
		dst.AddOrUpdateTier(candidate.clone())
	}
}

// BundlePrice resolves a bundle's price. Calculated bundles aggregate their
// constituents (with adjustments attached first); assigned bundles resolve
// from their own base amounts like a plain product.
func (s *LookupService) BundlePrice(ctx context.Context, bundle *Bundle, stack *PriceListStack) (*Price, error) {
	if bundle == nil {
		return nil, errors.New(errors.CodeUsage, "bundle is required")
	}
	if !bundle.Calculated {
		return s.assignedBundlePrice(ctx, bundle, stack)
	}

	if s.adjustments != nil {
		if err := s.attachAdjustments(ctx, bundle, stack); err != nil {
			return nil, err
		}
	}
	priced, err := NewCalculatedBundle(bundle, &stackProvider{svc: s, stack: stack})
	if err != nil {
		return nil, err
	}
	return priced.Price(ctx)
}

func (s *LookupService) assignedBundlePrice(ctx context.Context, bundle *Bundle, stack *PriceListStack) (*Price, error) {
	amounts, err := s.dataSource.GetBaseAmounts(ctx, stack.GUIDs(), []string{bundle.Code})
	if err != nil {
		return nil, err
	}
	price := NewPrice(stack.Currency())
	for _, priceListGUID := range stack.DescendingPriority() {
		matched := s.finder.Filter(amounts, priceListGUID, enums.BaseAmountObjectTypeProduct, bundle.Code)
		if s.populator.Populate(matched, stack.Currency(), price) {
			break
		}
	}
	if !price.HasTiers() {
		return nil, nil
	}
	scheme := NewScheme()
	scheme.SetPriceForSchedule(PurchaseTimeSchedule(), price)
	price.SetScheme(scheme)
	return price, nil
}

// attachAdjustments loads adjustments for every constituent in the bundle
// tree, one query per price list in the stack. Zero and markup adjustments
// are dropped: a calculated bundle's price only ever moves down.
func (s *LookupService) attachAdjustments(ctx context.Context, bundle *Bundle, stack *PriceListStack) error {
	constituents := collectConstituents(bundle, nil)
	if len(constituents) == 0 {
		return nil
	}
	guids := make([]string, 0, len(constituents))
	for _, constituent := range constituents {
		guids = append(guids, constituent.GUID)
	}

	for _, priceListGUID := range stack.GUIDs() {
		byConstituent, err := s.adjustments.FindByPriceListAndConstituents(ctx, priceListGUID, guids)
		if err != nil {
			return err
		}
		for _, constituent := range constituents {
			adjustment, ok := byConstituent[constituent.GUID]
			if !ok || adjustment == nil {
				continue
			}
			if adjustment.Amount.IsZero() || adjustment.Amount.IsPositive() {
				continue
			}
			constituent.SetPriceAdjustment(priceListGUID, adjustment)
		}
	}
	return nil
}

func collectConstituents(bundle *Bundle, acc []*BundleConstituent) []*BundleConstituent {
	for _, constituent := range bundle.Constituents {
		acc = append(acc, constituent)
		if constituent.Item.Kind == enums.ConstituentItemBundle && constituent.Item.Bundle != nil {
			acc = collectConstituents(constituent.Item.Bundle, acc)
		}
	}
	return acc
}

// stackProvider binds a LookupService and a stack into the PriceProvider
// shape the bundle calculator consumes.
type stackProvider struct {
	svc   *LookupService
	stack *PriceListStack
}

func (p *stackProvider) ProductPrice(ctx context.Context, product *Product) (*Price, error) {
	return p.svc.ProductPrice(ctx, product, p.stack)
}

func (p *stackProvider) SKUPrice(ctx context.Context, sku *SKU) (*Price, error) {
	return p.svc.SKUPrice(ctx, sku, p.stack)
}

func (p *stackProvider) BundlePrice(ctx context.Context, bundle *Bundle) (*Price, error) {
	return p.svc.BundlePrice(ctx, bundle, p.stack)
}

func (p *stackProvider) Currency() enums.Currency {
	return p.stack.Currency()
}
