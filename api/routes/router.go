package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pricebook-backend/api/controllers"
	"github.com/angelmondragon/pricebook-backend/api/middleware"
	"github.com/angelmondragon/pricebook-backend/internal/adjustments"
	"github.com/angelmondragon/pricebook-backend/internal/baseamounts"
	"github.com/angelmondragon/pricebook-backend/internal/pricelists"
	"github.com/angelmondragon/pricebook-backend/pkg/auth/session"
	"github.com/angelmondragon/pricebook-backend/pkg/config"
	"github.com/angelmondragon/pricebook-backend/pkg/db"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	"github.com/angelmondragon/pricebook-backend/pkg/logger"
	"github.com/angelmondragon/pricebook-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	bigqueryP controllers.Pinger,
	sessionManager session.AccessSessionChecker,
	priceListService pricelists.Service,
	baseAmountService baseamounts.Service,
	adjustmentService adjustments.Service,
	catalogSource controllers.CatalogSource,
	priceResolver controllers.PriceResolver,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	readiness := map[string]controllers.Pinger{"database": dbP, "bigquery": bigqueryP}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		if redisClient != nil {
			policy := middleware.NewRateLimitPolicy("api", cfg.RateLimit.Window, cfg.RateLimit.Requests)
			r.Use(middleware.RateLimit(policy, redisClient, logg))
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/prices", func(r chi.Router) {
			r.Get("/skus/{skuCode}", controllers.SKUPriceQuote(priceListService, catalogSource, priceResolver, logg))
			r.Get("/products/{productCode}", controllers.ProductPriceQuote(priceListService, catalogSource, priceResolver, logg))
			r.Get("/bundles/{bundleCode}", controllers.BundlePriceQuote(priceListService, catalogSource, priceResolver, logg))
		})

		r.Route("/price-lists", func(r chi.Router) {
			r.Get("/", controllers.PriceListIndex(priceListService, logg))
			r.With(middleware.RequireWriter(logg)).Post("/", controllers.PriceListCreate(priceListService, logg))
			r.With(middleware.RequireRole(enums.RoleAdmin, logg)).Delete("/{priceListGUID}", controllers.PriceListDelete(priceListService, logg))
			r.With(middleware.RequireWriter(logg)).Post("/{priceListGUID}/assignments", controllers.PriceListAssign(priceListService, logg))
			r.With(middleware.RequireWriter(logg)).Delete("/assignments/{assignmentGUID}", controllers.PriceListUnassign(priceListService, logg))
		})

		r.Route("/base-amounts", func(r chi.Router) {
			r.Get("/", controllers.BaseAmountList(baseAmountService, logg))
			r.With(middleware.RequireWriter(logg)).Post("/", controllers.BaseAmountCreate(baseAmountService, logg))
			r.With(middleware.RequireWriter(logg)).Patch("/{baseAmountGUID}", controllers.BaseAmountUpdate(baseAmountService, logg))
			r.With(middleware.RequireWriter(logg)).Delete("/{baseAmountGUID}", controllers.BaseAmountDelete(baseAmountService, logg))
		})

		r.Route("/adjustments", func(r chi.Router) {
			r.With(middleware.RequireWriter(logg)).Put("/", controllers.AdjustmentSet(adjustmentService, logg))
			r.With(middleware.RequireWriter(logg)).Delete("/{adjustmentGUID}", controllers.AdjustmentRemove(adjustmentService, logg))
		})
	})

	return r
}
