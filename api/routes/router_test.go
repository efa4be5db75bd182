package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricebook-backend/internal/adjustments"
	"github.com/angelmondragon/pricebook-backend/internal/baseamounts"
	"github.com/angelmondragon/pricebook-backend/internal/pricelists"
	"github.com/angelmondragon/pricebook-backend/internal/pricing"
	pkgAuth "github.com/angelmondragon/pricebook-backend/pkg/auth"
	"github.com/angelmondragon/pricebook-backend/pkg/auth/session"
	"github.com/angelmondragon/pricebook-backend/pkg/config"
	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricebook-backend/pkg/errors"
	"github.com/angelmondragon/pricebook-backend/pkg/logger"
	"github.com/angelmondragon/pricebook-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubPriceListService struct {
	stack *pricing.PriceListStack
}

func (s stubPriceListService) Create(ctx context.Context, input pricelists.CreatePriceListInput) (*models.PriceList, error) {
	return &models.PriceList{GUID: "pl-1", Name: input.Name, Currency: input.Currency}, nil
}

func (s stubPriceListService) Delete(ctx context.Context, guid string) error {
	return nil
}

func (s stubPriceListService) List(ctx context.Context) ([]models.PriceList, error) {
	return nil, nil
}

func (s stubPriceListService) Assign(ctx context.Context, input pricelists.AssignInput) (*models.PriceListAssignment, error) {
	return &models.PriceListAssignment{GUID: "asg-1", PriceListGUID: input.PriceListGUID, CatalogGUID: input.CatalogGUID, Priority: input.Priority}, nil
}

func (s stubPriceListService) Unassign(ctx context.Context, assignmentGUID string) error {
	return nil
}

func (s stubPriceListService) StackForCatalog(ctx context.Context, catalogGUID, store string, currency enums.Currency) (*pricing.PriceListStack, error) {
	if s.stack != nil {
		return s.stack, nil
	}
	return pricing.NewPriceListStack(currency, "pl-1"), nil
}

type stubBaseAmountService struct{}

func (stubBaseAmountService) Create(ctx context.Context, input baseamounts.CreateBaseAmountInput) (*models.BaseAmount, error) {
	return &models.BaseAmount{
		GUID:          "ba-1",
		PriceListGUID: input.PriceListGUID,
		ObjectGUID:    input.ObjectGUID,
		ObjectType:    input.ObjectType,
		Quantity:      int(input.Quantity.IntPart()),
		ListValue:     input.ListValue,
	}, nil
}

func (stubBaseAmountService) Update(ctx context.Context, guid string, input baseamounts.UpdateBaseAmountInput) (*models.BaseAmount, error) {
	return &models.BaseAmount{GUID: guid, ListValue: decimal.Zero}, nil
}

func (stubBaseAmountService) Delete(ctx context.Context, guid string) error {
	return nil
}

func (stubBaseAmountService) List(ctx context.Context, priceListGUID string, params pagination.Params) ([]models.BaseAmount, string, error) {
	return nil, "", nil
}

type stubAdjustmentService struct{}

func (stubAdjustmentService) Set(ctx context.Context, input adjustments.SetAdjustmentInput) (*models.PriceAdjustment, error) {
	return &models.PriceAdjustment{
		GUID:            "adj-1",
		PriceListGUID:   input.PriceListGUID,
		ConstituentGUID: input.ConstituentGUID,
		Amount:          input.Amount,
	}, nil
}

func (stubAdjustmentService) Remove(ctx context.Context, guid string) error {
	return nil
}

type stubCatalogSource struct {
	skuErr error
}

func (s stubCatalogSource) FindSKUByCode(ctx context.Context, code string) (*pricing.SKU, error) {
	if s.skuErr != nil {
		return nil, s.skuErr
	}
	return &pricing.SKU{Code: code, ProductCode: "PROD-1"}, nil
}

func (s stubCatalogSource) FindProductByCode(ctx context.Context, code string) (*pricing.Product, error) {
	return &pricing.Product{Code: code}, nil
}

func (s stubCatalogSource) FindBundleByCode(ctx context.Context, code string) (*pricing.Bundle, error) {
	return &pricing.Bundle{Code: code}, nil
}

type stubPriceResolver struct {
	price *pricing.Price
}

func (s stubPriceResolver) SKUPrice(ctx context.Context, sku *pricing.SKU, stack *pricing.PriceListStack) (*pricing.Price, error) {
	return s.price, nil
}

func (s stubPriceResolver) ProductPrice(ctx context.Context, product *pricing.Product, stack *pricing.PriceListStack) (*pricing.Price, error) {
	return s.price, nil
}

func (s stubPriceResolver) BundlePrice(ctx context.Context, bundle *pricing.Bundle, stack *pricing.PriceListStack) (*pricing.Price, error) {
	return s.price, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func testPrice(t *testing.T) *pricing.Price {
	t.Helper()
	price := pricing.NewPrice(enums.CurrencyUSD)
	listValue := decimal.RequireFromString("10.00")
	saleValue := decimal.RequireFromString("8.50")
	price.AddOrUpdateTier(&pricing.PriceTier{MinQty: 1, ListPrice: &listValue, SalePrice: &saleValue})
	bulkValue := decimal.RequireFromString("9.00")
	price.AddOrUpdateTier(&pricing.PriceTier{MinQty: 10, ListPrice: &bulkValue})
	scheme := pricing.NewScheme()
	scheme.SetPriceForSchedule(pricing.PurchaseTimeSchedule(), price)
	price.SetScheme(scheme)
	return price
}

func newTestRouter(cfg *config.Config, catalog stubCatalogSource, resolver stubPriceResolver) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil, // redis: rate limiting and idempotency disabled in tests
		stubPinger{},
		stubSessionManager{},
		stubPriceListService{},
		stubBaseAmountService{},
		stubAdjustmentService{},
		catalog,
		resolver,
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.APIRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		Subject: uuid.New(),
		Role:    role,
		JTI:     session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicPingNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig(), stubCatalogSource{}, stubPriceResolver{})
	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), stubCatalogSource{}, stubPriceResolver{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubCatalogSource{}, stubPriceResolver{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleViewer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestPriceListCreateRequiresWriter(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubCatalogSource{}, stubPriceResolver{})
	body := `{"name":"Retail","currency":"USD"}`

	viewer := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", strings.NewReader(body))
	viewer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleViewer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, viewer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer got %d", resp.Code)
	}

	editor := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", strings.NewReader(body))
	editor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleEditor))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, editor)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for editor got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPriceListDeleteRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubCatalogSource{}, stubPriceResolver{})

	editor := httptest.NewRequest(http.MethodDelete, "/api/v1/price-lists/pl-1", nil)
	editor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleEditor))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, editor)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for editor delete got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodDelete, "/api/v1/price-lists/pl-1", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete got %d", resp.Code)
	}
}

func TestSKUPriceQuoteReturnsTierTable(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubCatalogSource{}, stubPriceResolver{price: testPrice(t)})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/skus/SKU-1?catalog_guid=cat-1&currency=USD&quantity=10", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleViewer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Data struct {
			ObjectType string `json:"object_type"`
			ObjectCode string `json:"object_code"`
			Currency   string `json:"currency"`
			Quantity   int    `json:"quantity"`
			Quote      struct {
				ListPrice   *string `json:"list_price"`
				LowestPrice *string `json:"lowest_price"`
			} `json:"quote"`
			Schedules []struct {
				Type  string `json:"type"`
				Tiers []struct {
					MinQty int `json:"min_qty"`
				} `json:"tiers"`
			} `json:"schedules"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Data.ObjectType != "sku" || payload.Data.ObjectCode != "SKU-1" {
		t.Fatalf("unexpected object %s/%s", payload.Data.ObjectType, payload.Data.ObjectCode)
	}
	if payload.Data.Quote.ListPrice == nil || *payload.Data.Quote.ListPrice != "9" {
		t.Fatalf("expected bulk tier list price 9, got %v", payload.Data.Quote.ListPrice)
	}
	if len(payload.Data.Schedules) != 1 || len(payload.Data.Schedules[0].Tiers) != 2 {
		t.Fatalf("expected one schedule with two tiers, got %+v", payload.Data.Schedules)
	}
}

func TestSKUPriceQuoteRequiresCatalog(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubCatalogSource{}, stubPriceResolver{price: testPrice(t)})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/skus/SKU-1?currency=USD", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleViewer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without catalog_guid got %d", resp.Code)
	}
}

func TestSKUPriceQuoteNotFoundWhenUnpriced(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubCatalogSource{}, stubPriceResolver{price: nil})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/skus/SKU-404?catalog_guid=cat-1&currency=USD", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleViewer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unpriced sku got %d", resp.Code)
	}
}

func TestSKUPriceQuotePropagatesCatalogError(t *testing.T) {
	cfg := testConfig()
	catalog := stubCatalogSource{skuErr: pkgerrors.New(pkgerrors.CodeNotFound, "sku MISSING not found")}
	router := newTestRouter(cfg, catalog, stubPriceResolver{price: testPrice(t)})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/skus/MISSING?catalog_guid=cat-1&currency=USD", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleViewer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing sku got %d", resp.Code)
	}
}

func TestAdjustmentSetRequiresWriter(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubCatalogSource{}, stubPriceResolver{})
	body := `{"price_list_guid":"pl-1","constituent_guid":"bc-1","amount":"-2.00"}`

	viewer := httptest.NewRequest(http.MethodPut, "/api/v1/adjustments", strings.NewReader(body))
	viewer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleViewer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, viewer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer got %d", resp.Code)
	}

	editor := httptest.NewRequest(http.MethodPut, "/api/v1/adjustments", strings.NewReader(body))
	editor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleEditor))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, editor)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for editor got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestBaseAmountCreateValidatesBody(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubCatalogSource{}, stubPriceResolver{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/base-amounts", strings.NewReader(`{"price_list_guid":"pl-1"}`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleEditor))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete body got %d", resp.Code)
	}

	body := `{"price_list_guid":"pl-1","object_guid":"SKU-1","object_type":"sku","quantity":"1","list_value":"10.00"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/base-amounts", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleEditor))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), stubCatalogSource{}, stubPriceResolver{})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Pricebook-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}
