package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	authcontrollers "github.com/angelmondragon/marketplace-backend/api/controllers/auth"
	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/internal/auth"
	"github.com/angelmondragon/marketplace-backend/pkg/auth/session"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
)

// Dependencies are the services mounted by NewRouter. Optional fields may be left nil.
type Dependencies struct {
	DB          controllers.Pinger
	Redis       controllers.Pinger
	Auth        auth.Service
	Resolver    controllers.PrincipalResolver
	Sellers     controllers.SellerStore
	Cookies     *session.CookieManager
	RateLimits  middleware.RateLimitStore
	AuthMetrics *metrics.AuthMetrics
	// Revoker enables token revocation on logout and in Auth.
	Revoker  *session.Revoker
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	cookies := deps.Cookies
	if cookies == nil {
		cookies = session.NewCookieManager(cfg.App, cfg.Session)
	}

	var (
		revocations session.RevocationChecker
		revoker     authcontrollers.TokenRevoker
	)
	if deps.Revoker != nil {
		revocations = deps.Revoker
		revoker = deps.Revoker
	}

	limit := func(kind enums.PrincipalKind, operation string) func(http.Handler) http.Handler {
		policy := loginPolicy(cfg.AuthRateLimit, kind)
		if operation == "register" {
			policy = registerPolicy(cfg.AuthRateLimit, kind)
		}
		return middleware.AuthRateLimit(policy, deps.RateLimits, deps.AuthMetrics, logg)
	}

	adminSellerAuth := middleware.Auth(enums.PrincipalKindSeller, cfg.JWT, revocations, logg)
	customerAuth := middleware.Auth(enums.PrincipalKindCustomer, cfg.JWT, revocations, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.DependencyCheck{Name: "db", Pinger: deps.DB},
			controllers.DependencyCheck{Name: "redis", Pinger: deps.Redis},
		))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/admin", func(r chi.Router) {
			if adminRegistrationEnabled(cfg) {
				r.With(limit(enums.PrincipalKindAdmin, "register")).
					Post("/register", authcontrollers.Register(enums.PrincipalKindAdmin, deps.Auth, cookies, logg))
			}
			r.With(limit(enums.PrincipalKindAdmin, "login")).
				Post("/login", authcontrollers.Login(enums.PrincipalKindAdmin, deps.Auth, cookies, logg))

			r.With(
				adminSellerAuth,
				middleware.RequireKind(enums.PrincipalKindAdmin, logg),
				middleware.RequireRole(logg, string(enums.AdminRoleAdmin), string(enums.AdminRoleSuperadmin)),
			).Get("/sellers", controllers.AdminSearchSellers(deps.Sellers, logg))
		})

		r.Route("/seller", func(r chi.Router) {
			r.With(limit(enums.PrincipalKindSeller, "register")).
				Post("/register", authcontrollers.Register(enums.PrincipalKindSeller, deps.Auth, cookies, logg))
			r.With(limit(enums.PrincipalKindSeller, "login")).
				Post("/login", authcontrollers.Login(enums.PrincipalKindSeller, deps.Auth, cookies, logg))

			r.With(
				adminSellerAuth,
				middleware.RequireKind(enums.PrincipalKindSeller, logg),
			).Post("/profile-info", controllers.SellerProfileInfo(deps.Sellers, logg))
		})

		r.Route("/customer", func(r chi.Router) {
			r.With(limit(enums.PrincipalKindCustomer, "register")).
				Post("/register", authcontrollers.Register(enums.PrincipalKindCustomer, deps.Auth, cookies, logg))
			r.With(limit(enums.PrincipalKindCustomer, "login")).
				Post("/login", authcontrollers.Login(enums.PrincipalKindCustomer, deps.Auth, cookies, logg))
			r.Get("/logout", authcontrollers.Logout(enums.PrincipalKindCustomer, cfg.JWT, cookies, revoker, logg))
			r.With(customerAuth).Get("/me", controllers.UserInfo(deps.Resolver, logg))
		})

		r.Get("/logout", authcontrollers.Logout(enums.PrincipalKindSeller, cfg.JWT, cookies, revoker, logg))
		r.With(adminSellerAuth).Get("/me", controllers.UserInfo(deps.Resolver, logg))
	})

	return r
}

// adminRegistrationEnabled keeps the admin register endpoint off in production unless
// explicitly allowed.
func adminRegistrationEnabled(cfg *config.Config) bool {
	return !cfg.App.IsProd() || cfg.FeatureFlags.AllowAdminRegistration
}

func loginPolicy(cfg config.AuthRateLimitConfig, kind enums.PrincipalKind) middleware.AuthRateLimitPolicy {
	return middleware.NewAuthRateLimitPolicy(kind, "login", cfg.LoginWindow, cfg.LoginIPLimit, cfg.LoginEmailLimit)
}

func registerPolicy(cfg config.AuthRateLimitConfig, kind enums.PrincipalKind) middleware.AuthRateLimitPolicy {
	return middleware.NewAuthRateLimitPolicy(kind, "register", cfg.RegisterWindow, cfg.RegisterIPLimit, cfg.RegisterEmailLimit)
}
