package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the chi router serving the vault API.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,
		h.withTraceID,
		h.withLogging,
		h.httpMetrics.Middleware,
		withGZip,
	)

	router.Route("/api", func(api chi.Router) {
		api.Post("/user/register", h.register)
		api.Post("/user/login", h.login)

		api.Route("/version", func(v chi.Router) {
			v.Get("/", h.getServerVersion)
			v.Get("/build", h.getBuildInfo)
		})

		api.Route("/vault/sync", func(vault chi.Router) {
			vault.Group(func(r chi.Router) {
				r.Use(h.auth)
				if h.requestTimeout > 0 {
					r.Use(middleware.Timeout(h.requestTimeout))
				}

				r.Post("/", h.synchronize)
				r.Get("/history", h.syncHistory)
			})
		})
	})

	if h.metricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", h.metricsHandler)
	}

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
