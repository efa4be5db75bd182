package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricebook-backend/api/responses"
	"github.com/angelmondragon/pricebook-backend/api/validators"
	"github.com/angelmondragon/pricebook-backend/internal/pricing"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricebook-backend/pkg/errors"
	"github.com/angelmondragon/pricebook-backend/pkg/logger"
)

// StackResolver builds the price list stack a quote resolves against.
type StackResolver interface {
	StackForCatalog(ctx context.Context, catalogGUID, store string, currency enums.Currency) (*pricing.PriceListStack, error)
}

// CatalogSource loads priced catalog entities by code.
type CatalogSource interface {
	FindSKUByCode(ctx context.Context, code string) (*pricing.SKU, error)
	FindProductByCode(ctx context.Context, code string) (*pricing.Product, error)
	FindBundleByCode(ctx context.Context, code string) (*pricing.Bundle, error)
}

// PriceResolver resolves entity prices against a stack.
type PriceResolver interface {
	SKUPrice(ctx context.Context, sku *pricing.SKU, stack *pricing.PriceListStack) (*pricing.Price, error)
	ProductPrice(ctx context.Context, product *pricing.Product, stack *pricing.PriceListStack) (*pricing.Price, error)
	BundlePrice(ctx context.Context, bundle *pricing.Bundle, stack *pricing.PriceListStack) (*pricing.Price, error)
}

type quoteParams struct {
	CatalogGUID string
	Store       string
	Currency    enums.Currency
	Quantity    int
}

func parseQuoteParams(r *http.Request) (quoteParams, error) {
	catalogGUID := strings.TrimSpace(r.URL.Query().Get("catalog_guid"))
	if catalogGUID == "" {
		return quoteParams{}, pkgerrors.New(pkgerrors.CodeValidation, "catalog_guid is required")
	}

	currency, err := enums.ParseCurrency(strings.TrimSpace(r.URL.Query().Get("currency")))
	if err != nil {
		return quoteParams{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
	}

	quantity, err := validators.ParseQueryInt(r, "quantity", 1, 1, 1_000_000)
	if err != nil {
		return quoteParams{}, err
	}

	return quoteParams{
		CatalogGUID: catalogGUID,
		Store:       strings.TrimSpace(r.URL.Query().Get("store")),
		Currency:    currency,
		Quantity:    quantity,
	}, nil
}

// SKUPriceQuote resolves the price of one SKU within a catalog's stack.
func SKUPriceQuote(stacks StackResolver, catalog CatalogSource, prices PriceResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseQuoteParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sku, err := catalog.FindSKUByCode(r.Context(), chi.URLParam(r, "skuCode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stack, err := stacks.StackForCatalog(r.Context(), params.CatalogGUID, params.Store, params.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := prices.SKUPrice(r.Context(), sku, stack)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeQuote(r.Context(), logg, w, "sku", sku.Code, params, price)
	}
}

// ProductPriceQuote resolves the price of one product within a catalog's stack.
func ProductPriceQuote(stacks StackResolver, catalog CatalogSource, prices PriceResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseQuoteParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalog.FindProductByCode(r.Context(), chi.URLParam(r, "productCode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stack, err := stacks.StackForCatalog(r.Context(), params.CatalogGUID, params.Store, params.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := prices.ProductPrice(r.Context(), product, stack)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeQuote(r.Context(), logg, w, "product", product.Code, params, price)
	}
}

// BundlePriceQuote resolves the price of one bundle within a catalog's stack.
func BundlePriceQuote(stacks StackResolver, catalog CatalogSource, prices PriceResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseQuoteParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bundle, err := catalog.FindBundleByCode(r.Context(), chi.URLParam(r, "bundleCode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stack, err := stacks.StackForCatalog(r.Context(), params.CatalogGUID, params.Store, params.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := prices.BundlePrice(r.Context(), bundle, stack)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeQuote(r.Context(), logg, w, "bundle", bundle.Code, params, price)
	}
}

type priceQuoteResponse struct {
	ObjectType string             `json:"object_type"`
	ObjectCode string             `json:"object_code"`
	Currency   enums.Currency     `json:"currency"`
	Quantity   int                `json:"quantity"`
	Quote      *quoteValues       `json:"quote,omitempty"`
	Schedules  []scheduleResponse `json:"schedules"`
}

type quoteValues struct {
	ListPrice     *string `json:"list_price,omitempty"`
	SalePrice     *string `json:"sale_price,omitempty"`
	ComputedPrice *string `json:"computed_price,omitempty"`
	LowestPrice   *string `json:"lowest_price,omitempty"`
}

type scheduleResponse struct {
	Type             enums.PriceScheduleType `json:"type"`
	PaymentFrequency enums.PaymentFrequency  `json:"payment_frequency,omitempty"`
	Tiers            []tierResponse          `json:"tiers"`
}

type tierResponse struct {
	MinQty        int     `json:"min_qty"`
	ListPrice     *string `json:"list_price,omitempty"`
	SalePrice     *string `json:"sale_price,omitempty"`
	ComputedPrice *string `json:"computed_price,omitempty"`
}

func writeQuote(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, objectType, code string, params quoteParams, price *pricing.Price) {
	if price == nil || !price.HasTiers() {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no price found for "+objectType+" "+code))
		return
	}

	payload := priceQuoteResponse{
		ObjectType: objectType,
		ObjectCode: code,
		Currency:   price.Currency(),
		Quantity:   params.Quantity,
		Quote:      quoteAtQuantity(price, params.Quantity),
	}
	for _, schedule := range price.Scheme().Schedules() {
		payload.Schedules = append(payload.Schedules, buildSchedule(schedule, price.Scheme().PriceForSchedule(schedule)))
	}
	responses.WriteSuccess(w, payload)
}

func quoteAtQuantity(price *pricing.Price, qty int) *quoteValues {
	tier := price.TierByQty(qty)
	if tier == nil {
		return nil
	}
	values := &quoteValues{
		ListPrice:     decimalString(tier.ListPrice),
		SalePrice:     decimalString(tier.SalePrice),
		ComputedPrice: decimalString(tier.ComputedPrice),
	}
	if lowest := tier.LowestUnitPrice(); lowest != nil {
		values.LowestPrice = decimalString(lowest)
	}
	return values
}

func decimalString(value *decimal.Decimal) *string {
	if value == nil {
		return nil
	}
	s := value.String()
	return &s
}

func buildSchedule(schedule pricing.PriceSchedule, price *pricing.Price) scheduleResponse {
	out := scheduleResponse{
		Type:             schedule.Type,
		PaymentFrequency: schedule.PaymentFrequency,
	}
	for _, minQty := range price.TierMinQuantities() {
		tier := price.TierByQty(minQty)
		out.Tiers = append(out.Tiers, tierResponse{
			MinQty:        tier.MinQty,
			ListPrice:     decimalString(tier.ListPrice),
			SalePrice:     decimalString(tier.SalePrice),
			ComputedPrice: decimalString(tier.ComputedPrice),
		})
	}
	return out
}
