package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-otp-auth/internal/application/auth"
	profileapp "github.com/go-otp-auth/internal/application/profile"
	"github.com/go-otp-auth/internal/application/user"
	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/transport/http/handler"
	appmiddleware "github.com/go-otp-auth/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. The authentication
// filter runs on every request; it only attaches identity. Rejection happens
// per route group via RequireAuth / RequireRole.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(appmiddleware.Authenticate(deps.JWTProvider, deps.UserRepo, cfg.PublicPathPrefixes))

	// 5 requests/second, burst of 10 — applied to the public auth endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	userSvc := user.NewService(deps.UserRepo)
	authSvc := auth.NewService(auth.ServiceDeps{
		Registry:      deps.Registry,
		CodeRequester: deps.CodeAdapter,
		Users:         userSvc,
		Tokens:        deps.JWTProvider,
		VerifyTimeout: cfg.ProviderVerifyTimeout,
	})
	profileSvc := profileapp.NewService(profileapp.ServiceDeps{
		ProfileRepo:      deps.ProfileRepo,
		VerificationRepo: deps.VerificationRepo,
		Mailer:           deps.Mailer,
		TokenTTL:         cfg.OTPTTL,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	profileH := handler.NewProfileHandler(profileSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/otp/request", authH.RequestCode)
		r.With(sensitiveRL.Limit).Post("/auth/otp/verify", authH.VerifyOTP)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireAuth)

			r.Get("/users/{phone}", userH.Get)

			r.Get("/profile", profileH.Get)
			r.Put("/profile", profileH.Upsert)
			r.Get("/profile/addresses", profileH.ListAddresses)
			r.Post("/profile/addresses", profileH.AddAddress)
			r.Put("/profile/addresses/{id}", profileH.UpdateAddress)
			r.Delete("/profile/addresses/{id}", profileH.DeleteAddress)
			r.Post("/profile/confirm-email/{action}", profileH.EmailAction)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Put("/users/{phone}/roles", userH.AssignRoles)
				r.Delete("/users/{phone}", userH.Delete)
			})
		})
	})

	return r
}
