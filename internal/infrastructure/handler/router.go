package handler

import (
	"net/http"

	"github.com/damon-houk/mini-backoffice/internal/infrastructure/logger"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// RouteRegistrar adds its routes to a router
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// NewRouter builds the API router. The middleware chain wraps the router itself,
// so unmatched paths and methods get a request ID and a JSON error body too.
func NewRouter(log logger.Logger, registrars ...RouteRegistrar) http.Handler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	router := mux.NewRouter()
	for _, r := range registrars {
		r.RegisterRoutes(router)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErrorResponse(w, log, "Not found",
			"No route matches "+r.URL.Path, http.StatusNotFound, middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErrorResponse(w, log, "Method not allowed",
			r.Method+" is not supported on "+r.URL.Path, http.StatusMethodNotAllowed, middleware.GetRequestID(r.Context()))
	})

	var h http.Handler = router
	h = middleware.RecoveryMiddleware(log)(h)
	h = middleware.LoggingMiddleware(log)(h)
	h = middleware.RequestIDMiddleware(h)

	return h
}
