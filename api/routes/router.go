package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/counterpos/api/controllers"
	"github.com/angelmondragon/counterpos/api/middleware"
	"github.com/angelmondragon/counterpos/api/responses"
	"github.com/angelmondragon/counterpos/internal/cart"
	"github.com/angelmondragon/counterpos/internal/catalog"
	"github.com/angelmondragon/counterpos/internal/checkout"
	"github.com/angelmondragon/counterpos/internal/maintenance"
	"github.com/angelmondragon/counterpos/internal/receipts"
	"github.com/angelmondragon/counterpos/internal/reports"
	"github.com/angelmondragon/counterpos/internal/resolve"
	"github.com/angelmondragon/counterpos/internal/sales"
	"github.com/angelmondragon/counterpos/internal/settings"
	"github.com/angelmondragon/counterpos/pkg/config"
	"github.com/angelmondragon/counterpos/pkg/db"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/angelmondragon/counterpos/pkg/logger"
	"github.com/angelmondragon/counterpos/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	catalogService catalog.Service,
	resolveService resolve.Service,
	carts *cart.Registry,
	cartService cart.Service,
	checkoutService checkout.Service,
	salesService sales.Service,
	receiptService receipts.Service,
	settingsService settings.Service,
	reportService reports.Service,
	maintenanceService maintenance.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "method not allowed").
			WithDetails(map[string]any{"method": req.Method}))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(catalogService, logg))
			r.Post("/", controllers.CategoryCreate(catalogService, logg))
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemList(catalogService, logg))
			r.Post("/", controllers.ItemCreate(catalogService, logg))
			r.Get("/{itemId}", controllers.ItemGet(catalogService, logg))
			r.Put("/{itemId}", controllers.ItemUpdate(catalogService, logg))
			r.Delete("/{itemId}", controllers.ItemDelete(catalogService, logg))
		})

		r.Get("/resolve", controllers.Resolve(resolveService, logg))
		r.Get("/suggest", controllers.Suggest(resolveService, logg))

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", controllers.CartCreate(carts, logg))
			r.Route("/{cartId}", func(r chi.Router) {
				r.Get("/", controllers.CartGet(carts, logg))
				r.Delete("/", controllers.CartDelete(carts, logg))
				r.Post("/lines", controllers.CartAddLine(carts, cartService, logg))
				r.Delete("/lines/{index}", controllers.CartRemoveLine(carts, cartService, logg))
				r.Post("/scan", controllers.CartScan(carts, cartService, resolveService, logg))
				r.Post("/new-item", controllers.CartAddNewItem(carts, cartService, logg))
				r.Post("/commit", controllers.CartCommit(carts, checkoutService, logg))
				r.Get("/receipt", controllers.CartReceipt(carts, receiptService, logg))
			})
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SaleList(salesService, logg))
			r.Get("/{saleId}", controllers.SaleGet(salesService, logg))
			r.Delete("/{saleId}", controllers.SaleDelete(salesService, logg))
			r.Get("/{saleId}/receipt", controllers.SaleReceipt(receiptService, logg))
		})

		r.Route("/sale-lines", func(r chi.Router) {
			r.Put("/{lineId}", controllers.SaleLineUpdate(salesService, logg))
			r.Delete("/{lineId}", controllers.SaleLineDelete(salesService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsGet(settingsService, logg))
			r.Put("/", controllers.SettingsSave(settingsService, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", controllers.ReportSummary(reportService, logg))
			r.Get("/latest-sale", controllers.ReportLatestSale(reportService, logg))
			r.Get("/stock-valuation", controllers.ReportStockValuation(reportService, logg))
		})

		r.Route("/maintenance", func(r chi.Router) {
			r.Post("/backup", controllers.MaintenanceBackup(maintenanceService, logg))
			r.Get("/stats", controllers.MaintenanceStats(maintenanceService, logg))
		})
	})

	return r
}
