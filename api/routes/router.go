package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sterlingmedical/medsupply-backend/api/controllers"
	cartcontrollers "github.com/sterlingmedical/medsupply-backend/api/controllers/cart"
	"github.com/sterlingmedical/medsupply-backend/api/middleware"
	"github.com/sterlingmedical/medsupply-backend/internal/auth"
	"github.com/sterlingmedical/medsupply-backend/internal/banners"
	"github.com/sterlingmedical/medsupply-backend/internal/cart"
	"github.com/sterlingmedical/medsupply-backend/internal/customers"
	"github.com/sterlingmedical/medsupply-backend/internal/notifications"
	"github.com/sterlingmedical/medsupply-backend/internal/orders"
	"github.com/sterlingmedical/medsupply-backend/internal/products"
	"github.com/sterlingmedical/medsupply-backend/internal/purchases"
	"github.com/sterlingmedical/medsupply-backend/internal/quotations"
	"github.com/sterlingmedical/medsupply-backend/internal/receipts"
	"github.com/sterlingmedical/medsupply-backend/internal/reports"
	"github.com/sterlingmedical/medsupply-backend/internal/settings"
	"github.com/sterlingmedical/medsupply-backend/pkg/auth/session"
	"github.com/sterlingmedical/medsupply-backend/pkg/config"
	"github.com/sterlingmedical/medsupply-backend/pkg/db"
	"github.com/sterlingmedical/medsupply-backend/pkg/logger"
	"github.com/sterlingmedical/medsupply-backend/pkg/metrics"
	"github.com/sterlingmedical/medsupply-backend/pkg/redis"
)

// Services bundles the wired domain services the router mounts.
type Services struct {
	Auth          auth.Service
	Products      products.Service
	Cart          cart.Service
	Orders        orders.Service
	Customers     customers.Service
	Purchases     purchases.Service
	Quotations    quotations.Service
	Receipts      receipts.Service
	Banners       banners.Service
	Settings      settings.Service
	Reports       reports.Service
	Notifications notifications.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.Store),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
	})

	// Storefront surface. Cart routes identify the shopper by the cart
	// token header, not by an authenticated session.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartToken(cfg.Store, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogList(svcs.Products, logg))
			r.Get("/products/{productId}", controllers.CatalogProduct(svcs.Products, logg))
			r.Get("/categories", controllers.CatalogCategories())
		})
		r.Get("/banners", controllers.ActiveBanners(svcs.Banners, logg))
		r.Get("/settings", controllers.PublicSettings(svcs.Settings, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(svcs.Cart, logg))
			r.Delete("/", cartcontrollers.CartClear(svcs.Cart, svcs.Notifications, logg))
			r.Post("/items", cartcontrollers.CartAddItem(svcs.Cart, svcs.Notifications, logg))
			r.Put("/items/{productId}", cartcontrollers.CartUpdateItem(svcs.Cart, svcs.Notifications, logg))
			r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(svcs.Cart, svcs.Notifications, logg))
		})
		r.Post("/checkout", controllers.Checkout(svcs.Orders, svcs.Notifications, logg))
	})

	// Back-office surface. Everything below requires a live staff session.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/me", controllers.AuthMe(svcs.Auth, logg))

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))
			r.Get("/", controllers.ListUsers(svcs.Auth, logg))
			r.Post("/", controllers.CreateUser(svcs.Auth, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(svcs.Products, logg))
			r.Post("/", controllers.AdminCreateProduct(svcs.Products, logg))
			r.Get("/{productId}", controllers.AdminGetProduct(svcs.Products, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Products, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminListCustomers(svcs.Customers, logg))
			r.Post("/", controllers.AdminCreateCustomer(svcs.Customers, logg))
			r.Get("/{customerId}", controllers.AdminGetCustomer(svcs.Customers, logg))
			r.Put("/{customerId}", controllers.AdminUpdateCustomer(svcs.Customers, logg))
			r.Delete("/{customerId}", controllers.AdminDeleteCustomer(svcs.Customers, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
			r.Post("/", controllers.AdminCreateOrder(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.AdminGetOrder(svcs.Orders, logg))
			r.Post("/{orderId}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
			r.Delete("/{orderId}", controllers.AdminDeleteOrder(svcs.Orders, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", controllers.AdminListPurchases(svcs.Purchases, logg))
			r.Post("/", controllers.AdminCreatePurchase(svcs.Purchases, logg))
			r.Get("/{purchaseId}", controllers.AdminGetPurchase(svcs.Purchases, logg))
			r.Post("/{purchaseId}/receive", controllers.AdminReceivePurchase(svcs.Purchases, logg))
			r.Post("/{purchaseId}/cancel", controllers.AdminCancelPurchase(svcs.Purchases, logg))
			r.Delete("/{purchaseId}", controllers.AdminDeletePurchase(svcs.Purchases, logg))
		})

		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", controllers.AdminListQuotations(svcs.Quotations, logg))
			r.Post("/", controllers.AdminCreateQuotation(svcs.Quotations, logg))
			r.Get("/{quotationId}", controllers.AdminGetQuotation(svcs.Quotations, logg))
			r.Put("/{quotationId}", controllers.AdminUpdateQuotation(svcs.Quotations, logg))
			r.Post("/{quotationId}/status", controllers.AdminUpdateQuotationStatus(svcs.Quotations, logg))
			r.Post("/{quotationId}/convert", controllers.AdminConvertQuotation(svcs.Quotations, logg))
			r.Delete("/{quotationId}", controllers.AdminDeleteQuotation(svcs.Quotations, logg))
		})

		r.Route("/receipts", func(r chi.Router) {
			r.Get("/", controllers.AdminListReceipts(svcs.Receipts, logg))
			r.Post("/", controllers.AdminCreateReceipt(svcs.Receipts, logg))
			r.Get("/{receiptId}", controllers.AdminGetReceipt(svcs.Receipts, logg))
			r.Post("/{receiptId}/void", controllers.AdminVoidReceipt(svcs.Receipts, logg))
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", controllers.AdminListBanners(svcs.Banners, logg))
			r.Post("/", controllers.AdminCreateBanner(svcs.Banners, logg))
			r.Put("/{bannerId}", controllers.AdminUpdateBanner(svcs.Banners, logg))
			r.Delete("/{bannerId}", controllers.AdminDeleteBanner(svcs.Banners, logg))
			r.Post("/reorder", controllers.AdminReorderBanners(svcs.Banners, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.AdminGetSettings(svcs.Settings, logg))
			r.Put("/", controllers.AdminUpdateSettings(svcs.Settings, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/profit-loss", controllers.AdminProfitLossReport(svcs.Reports, logg))
			r.Get("/margins", controllers.AdminProductMarginsReport(svcs.Reports, logg))
			r.Get("/low-stock", controllers.AdminLowStockReport(svcs.Reports, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.AdminListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.AdminMarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.AdminMarkAllNotificationsRead(svcs.Notifications, logg))
		})
	})

	return r
}
