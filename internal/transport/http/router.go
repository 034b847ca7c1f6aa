// Package httptransport assembles the public HTTP surface. Feature packages
// own their routes and middleware; this package only provides the shared
// router and the operational endpoints.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registrar attaches a feature's routes to a router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires the operational endpoints and every feature handler onto a
// single router. Feature route groups carry their own middleware chains so
// /healthz and /metrics stay free of auth and logging.
func NewRouter(features ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, feature := range features {
		feature.Register(r)
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}
