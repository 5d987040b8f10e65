// Package system provides the probe and version endpoints.
package system

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/forgeo/crm-audit-server/internal/api/common"
	"github.com/forgeo/crm-audit-server/internal/versions"
)

// Checker reports whether the server can serve requests
type Checker interface {
	CheckReadiness(ctx context.Context) error
}

// Router creates a router for the probe endpoints
func Router(svc Checker) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

func readinessHandler(svc Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			common.WriteErrorResponse(w, "service not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		common.WriteJSONResponse(w, map[string]string{"status": "ready"}, http.StatusOK)
	}
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.Get(), http.StatusOK)
}
