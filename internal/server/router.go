package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/farmbit/mobile-api/internal/config"
	"github.com/farmbit/mobile-api/internal/handler"
	"github.com/farmbit/mobile-api/shared/httputil"
)

const (
	authRatePerMinute = 12
	authRateBurst     = 5
)

// Router wires the HTTP surface: public account endpoints, token-protected
// profile endpoints, the admin-gated business endpoint and static avatar
// serving, all under the /v1 prefix.
type Router struct {
	mux *chi.Mux
}

// Deps carries everything the router needs.
type Deps struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	User        *handler.UserHandler
	Business    *handler.BusinessHandler
	Auth        *handler.AuthMiddleware
	AvatarsDir  string
	HealthCheck func(ctx context.Context) error
}

// NewRouter assembles the middleware chains and routes.
func NewRouter(deps Deps) *Router {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(m.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins(),
		AllowedMethods:   []string{"POST", "GET", "OPTIONS", "DELETE", "PATCH", "PUT"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("FarmBit Mobile API"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(req.Context()); err != nil {
				httputil.Respond(w, http.StatusServiceUnavailable, "unhealthy", nil)
				return
			}
		}
		httputil.Respond(w, http.StatusOK, "ok", nil)
	})

	r.Method(http.MethodGet, "/metrics", metricsHandler(reg))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			authLimit := RateLimit(authRatePerMinute, authRateBurst)

			r.With(authLimit).Post("/", deps.User.CreateUser)
			r.Post("/availability", deps.User.CheckAvailability)
			r.With(authLimit).Get("/authenticate", deps.User.Authenticate)
			r.Post("/password_reset/init", deps.User.InitiatePasswordReset)
			r.Post("/password_reset/finalize", deps.User.FinalizePasswordReset)

			r.Group(func(r chi.Router) {
				r.Use(deps.Auth.RequireRefreshToken)
				r.Get("/token", deps.User.RefreshTokens)
			})

			r.Group(func(r chi.Router) {
				r.Use(deps.Auth.RequireAccessToken)
				r.Use(deps.Auth.EnrichUser)
				r.Get("/", deps.User.GetProfile)
				r.Put("/", deps.User.UpdateUser)
			})
		})

		r.Route("/business", func(r chi.Router) {
			r.Use(deps.Auth.RequireAccessToken)
			r.Use(deps.Auth.EnrichUser)
			r.Use(deps.Auth.RequireAdmin)
			r.Post("/", deps.Business.CreateBusiness)
		})

		fileServer := http.StripPrefix("/v1/files/avatars/", http.FileServer(http.Dir(deps.AvatarsDir)))
		r.Get("/files/avatars/*", fileServer.ServeHTTP)
	})

	return &Router{mux: r}
}

// ServeHTTP delegates to the underlying chi mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
