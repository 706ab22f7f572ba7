package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

var errRouteFound = errors.New("route found")

// CheckHTTPMethod is registered as the router's MethodNotAllowed handler.
// It answers 404 instead of 405 so that callers using an unsupported method
// cannot probe which paths exist. Nested routers are walked too.
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(r.URL.Path, "/")

		err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			if method == r.Method && strings.TrimSuffix(route, "/") == path {
				return errRouteFound
			}
			return nil
		})
		if errors.Is(err, errRouteFound) {
			router.ServeHTTP(w, r)
			return
		}

		http.NotFound(w, r)
	}
}
