package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/stock"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessions *storefront.Sessions,
	products *stock.Registry,
	outcomes controllers.OutcomeResolver,
	gatherer prometheus.Gatherer,
) http.Handler {
	var (
		pinger redis.Pinger
		store  redis.IdempotencyStore
	)
	if redisClient != nil {
		pinger = redisClient
		store = redisClient
	}
	idempotent := middleware.Idempotency(store, logg)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Recoverer(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, pinger, logg))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		withSession := middleware.Session(sessions, logg)

		r.Get("/products", controllers.Products(products, logg))

		r.Group(func(r chi.Router) {
			r.Use(withSession)

			r.Get("/session", controllers.SessionState(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Post("/items", controllers.CartAdd(logg))
				r.Delete("/items/{index}", controllers.CartRemove(logg))
			})

			r.Put("/customer/{field}", controllers.CustomerFieldUpdate(logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.With(idempotent).Post("/outcome", controllers.CheckoutOutcome(outcomes, logg))

			r.Group(func(r chi.Router) {
				r.Use(withSession)
				r.Post("/open", controllers.CheckoutOpen(logg))
				r.Post("/close", controllers.CheckoutClose(logg))
				r.With(idempotent).Post("/confirm", controllers.CheckoutConfirm(logg))
			})
		})
	})

	return r
}
