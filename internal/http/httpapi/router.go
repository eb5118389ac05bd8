package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"server/internal/http/handlers"
	"server/internal/metrics"
	"server/internal/middleware"
)

// Deps carries everything the router mounts besides the handlers themselves.
type Deps struct {
	App             *handlers.App
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
	JWTSecret       string
	AllowedOrigins  []string
	RateLimitPerMin int
	Country         middleware.CountryLookup
}

func NewRouter(deps Deps) stdhttp.Handler {
	app := deps.App
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(deps.AllowedOrigins),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	if deps.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(deps.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	if deps.Gatherer != nil {
		r.Method(stdhttp.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Public guest surface. Country annotation only matters where guests
	// pledge, so it wraps just these routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Country(deps.Country))

		r.Get("/v1/weddings/{id}", app.WeddingGet)
		r.Get("/v1/gifts/{id}", app.GiftGet)
		r.Post("/v1/gifts/{id}/contributions", app.ContributionsCreate)
		r.Get("/v1/gifts/{id}/contributions", app.ContributionsList)
	})

	r.Get("/v1/media/*", app.MediaGet)

	// Owner surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(deps.JWTSecret))

		r.Post("/v1/weddings", app.WeddingsCreate)
		r.Get("/v1/weddings", app.WeddingsList)
		r.Patch("/v1/weddings/{id}", app.WeddingUpdate)
		r.Delete("/v1/weddings/{id}", app.WeddingArchive)
		r.Post("/v1/weddings/{id}/gifts", app.GiftsCreate)
		r.Patch("/v1/gifts/{id}", app.GiftUpdate)
		r.Delete("/v1/gifts/{id}", app.GiftDelete)
		r.Post("/v1/media", app.MediaUpload)
	})

	return r
}
