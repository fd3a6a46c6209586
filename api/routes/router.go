package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rvaldezc/poscloud-backend/api/controllers"
	"github.com/rvaldezc/poscloud-backend/api/middleware"
	authsvc "github.com/rvaldezc/poscloud-backend/internal/auth"
	bizsvc "github.com/rvaldezc/poscloud-backend/internal/businesses"
	devsvc "github.com/rvaldezc/poscloud-backend/internal/devices"
	licsvc "github.com/rvaldezc/poscloud-backend/internal/licenses"
	syncsvc "github.com/rvaldezc/poscloud-backend/internal/sync"
	"github.com/rvaldezc/poscloud-backend/pkg/config"
	"github.com/rvaldezc/poscloud-backend/pkg/enums"
	"github.com/rvaldezc/poscloud-backend/pkg/logger"
	"github.com/rvaldezc/poscloud-backend/pkg/metrics"
	"github.com/rvaldezc/poscloud-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	authService authsvc.Service,
	businessService bizsvc.Service,
	deviceService devsvc.Service,
	licenseService licsvc.Service,
	syncService syncsvc.Service,
) http.Handler {
	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
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

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Public surface: what a freshly installed desktop client can reach
	// before anyone has logged in.
	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register", controllers.Register(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.Login(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me", controllers.Me(authService, logg))
		})
	})

	r.Route("/api/device", func(r chi.Router) {
		r.Post("/register", controllers.RegisterDevice(deviceService, logg))
		r.Get("/check/{fingerprint}", controllers.CheckDeviceAuth(deviceService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/business/{businessID}", controllers.ListDevices(deviceService, logg))
			r.Patch("/{deviceID}/authorize", controllers.AuthorizeDevice(deviceService, logg))
		})
	})

	r.Route("/api/license", func(r chi.Router) {
		r.Get("/verify", controllers.VerifyLicense(licenseService, logg))
		r.With(
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireRole(enums.SystemRoleAdmin.String(), logg),
		).Post("/update", controllers.UpdateLicense(licenseService, logg))
	})

	r.Route("/api/business", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Post("/", controllers.CreateBusiness(businessService, logg))
		r.Get("/", controllers.ListMyBusinesses(businessService, logg))
		r.Get("/{businessID}", controllers.GetBusiness(businessService, logg))
		r.Get("/{businessID}/users", controllers.ListBusinessUsers(businessService, logg))
		r.Post("/{businessID}/users", controllers.AddBusinessUser(businessService, logg))
	})

	// Sync and read surface: authenticated and tenant-scoped.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.BusinessContext(logg))

		r.Route("/sync", func(r chi.Router) {
			r.Post("/order", controllers.SyncOrder(syncService, logg))
			r.Post("/payment", controllers.SyncPayment(syncService, logg))
			r.Post("/client", controllers.SyncClient(syncService, logg))
			r.Post("/staff", controllers.SyncStaffUser(syncService, logg))
			r.Post("/product", controllers.SyncProduct(syncService, logg))
			r.Post("/log", controllers.SyncLog(syncService, logg))
			r.Post("/sunat-document", controllers.SyncSunatDocument(syncService, logg))
		})

		r.Route("/recovery", func(r chi.Router) {
			r.Get("/data", controllers.RecoveryData(syncService, logg))
			r.Post("/sync", controllers.SyncConfig(syncService, logg))
		})

		r.Get("/orders", controllers.ListOrders(syncService, logg))
		r.Get("/orders/stats", controllers.OrderStats(syncService, logg))
		r.Get("/products", controllers.ListProducts(syncService, logg))
		r.Get("/staff", controllers.ListStaffUsers(syncService, logg))
		r.Get("/clients", controllers.ListClients(syncService, logg))
		r.Get("/logs", controllers.ListSystemLogs(syncService, logg))
		r.Get("/sunat-documents", controllers.ListSunatDocuments(syncService, logg))
	})

	return r
}
