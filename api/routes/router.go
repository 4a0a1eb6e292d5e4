package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/foodcart-engine/api/controllers"
	"github.com/angelmondragon/foodcart-engine/api/middleware"
	"github.com/angelmondragon/foodcart-engine/pkg/config"
	"github.com/angelmondragon/foodcart-engine/pkg/logger"
)

// Deps are the collaborators the router hands to controllers. Refresher and
// Metrics are optional.
type Deps struct {
	Engine    controllers.Engine
	Refresher controllers.CatalogRefresher
	Storage   controllers.Pinger
	Metrics   http.Handler
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{"storage": deps.Storage}))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	eng := deps.Engine
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", controllers.State(eng))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(eng))
			r.Post("/items", controllers.CatalogCreate(eng, logg))
			r.Put("/items/{itemID}", controllers.CatalogUpsert(eng, logg))
			r.Patch("/items/{itemID}", controllers.CatalogPatch(eng, logg))
			r.Delete("/items/{itemID}", controllers.CatalogDelete(eng, logg))
			r.Post("/refresh", controllers.CatalogRefresh(deps.Refresher, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Delete("/", controllers.CartClear(eng, logg))
			r.Post("/items/{itemID}", controllers.CartAdd(eng, logg))
			r.Delete("/items/{itemID}", controllers.CartRemove(eng, logg))
			r.Put("/items/{itemID}/special-request", controllers.CartSpecialRequest(eng, logg))
			r.Put("/cutlery", controllers.CartCutlery(eng, logg))
		})

		r.Route("/selection", func(r chi.Router) {
			r.Post("/{itemID}", controllers.SelectionSet(eng, logg))
			r.Delete("/", controllers.SelectionClear(eng, logg))
		})

		r.Route("/promo", func(r chi.Router) {
			r.Post("/", controllers.PromoApply(eng, logg))
			r.Delete("/", controllers.PromoRemove(eng, logg))
			r.Get("/active", controllers.PromoActive(eng, logg))
		})

		r.Post("/orders", controllers.OrdersPlace(eng, logg))
	})

	return r
}
