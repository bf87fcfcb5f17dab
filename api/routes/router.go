package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tokoluma/luma-backend/api/controllers"
	"github.com/tokoluma/luma-backend/api/middleware"
	"github.com/tokoluma/luma-backend/internal/auth"
	"github.com/tokoluma/luma-backend/internal/cart"
	category "github.com/tokoluma/luma-backend/internal/categories"
	checkoutsvc "github.com/tokoluma/luma-backend/internal/checkout"
	"github.com/tokoluma/luma-backend/internal/dashboard"
	"github.com/tokoluma/luma-backend/internal/orders"
	"github.com/tokoluma/luma-backend/internal/pricing"
	product "github.com/tokoluma/luma-backend/internal/products"
	"github.com/tokoluma/luma-backend/internal/users"
	"github.com/tokoluma/luma-backend/internal/wishlist"
	"github.com/tokoluma/luma-backend/pkg/auth/session"
	"github.com/tokoluma/luma-backend/pkg/config"
	"github.com/tokoluma/luma-backend/pkg/db"
	"github.com/tokoluma/luma-backend/pkg/logger"
	"github.com/tokoluma/luma-backend/pkg/metrics"
	"github.com/tokoluma/luma-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	userService users.Service,
	productService product.Service,
	productRepo *product.Repository,
	categoryService category.Service,
	orderService orders.Service,
	checkoutService checkoutsvc.Service,
	wishlistService wishlist.Service,
	dashboardService dashboard.Service,
	cartManager *cart.Manager,
	priceCalc *pricing.Calculator,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(nil),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessionChecker, logg)).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	// Storefront catalog is world-readable.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(productService, logg))
		r.Get("/products/{slug}", controllers.ProductDetail(productService, logg))
		r.Get("/categories", controllers.CategoryList(categoryService, logg))
		r.Get("/categories/{slug}", controllers.CategoryDetail(categoryService, logg))
		r.Get("/payment-methods", controllers.PaymentMethods())

		// Carts work for guests too: a profile header names the slot, a
		// bearer token (when present) pins its identity.
		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, sessionChecker, logg))
			r.Use(middleware.ProfileContext(logg))
			r.Get("/", controllers.CartFetch(cartManager, priceCalc, logg))
			r.Get("/quote", controllers.CartQuote(cartManager, priceCalc, logg))
			r.Post("/items", controllers.CartAdd(cartManager, productRepo, priceCalc, logg))
			r.Patch("/items/{itemID}", controllers.CartUpdateItem(cartManager, priceCalc, logg))
			r.Delete("/items/{itemID}", controllers.CartRemoveItem(cartManager, priceCalc, logg))
			r.Delete("/", controllers.CartClear(cartManager, priceCalc, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

			r.With(middleware.ProfileContext(logg)).Post("/checkout", controllers.Checkout(checkoutService, cartManager, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(orderService, logg))
				r.Get("/{orderID}", controllers.OrderDetail(orderService, logg))
			})
			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(wishlistService, logg))
				r.Get("/ids", controllers.WishlistIDs(wishlistService, logg))
				r.Post("/", controllers.WishlistAdd(wishlistService, logg))
				r.Delete("/{productID}", controllers.WishlistRemove(wishlistService, logg))
			})
			r.Route("/me", func(r chi.Router) {
				r.Get("/", controllers.MeFetch(userService, logg))
				r.Put("/", controllers.MeUpdate(userService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(productService, logg))
			r.Post("/", controllers.AdminProductCreate(productService, logg))
			r.Patch("/{productID}", controllers.AdminProductUpdate(productService, logg))
			r.Delete("/{productID}", controllers.AdminProductDelete(productService, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(orderService, logg))
			r.Get("/{orderID}", controllers.AdminOrderDetail(orderService, logg))
			r.Patch("/{orderID}/status", controllers.AdminOrderStatus(orderService, logg))
		})
		r.Get("/customers", controllers.AdminCustomerList(userService, logg))
		r.Get("/dashboard", controllers.AdminDashboard(dashboardService, logg))
	})

	return r
}
