package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"bombom/internal/http/handlers"
	"bombom/internal/infra/geoip"
	"bombom/internal/middleware"
)

// NewRouter assembles the HTTP surface. Public routes serve the customizer;
// everything under /admin requires a staff or admin token.
func NewRouter(app *handlers.App, resolver geoip.CountryResolver) stdhttp.Handler {
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.CORSAllowedOrigins),
		middleware.I18N(app.Config.DefaultLocale, lookup),
		middleware.WithActor(app.Config.JWTSecret),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/options", app.Options)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
		r.Post("/generate", app.Generate)
	})

	r.Post("/submit", app.Submit)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleStaff))

		r.Route("/options/{group}", func(r chi.Router) {
			r.Get("/", app.AdminListOptions)
			r.Post("/", app.AdminCreateOption)
			r.Put("/{id}", app.AdminUpdateOption)
			r.Delete("/{id}", app.AdminDeleteOption)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", app.AdminListOrders)
			r.Get("/export", app.AdminExportOrders)
			r.Get("/{id}", app.AdminGetOrder)
			r.Get("/{id}/export", app.AdminExportOrder)
			r.Patch("/{id}/status", app.AdminUpdateOrderStatus)
		})
	})

	return r
}
