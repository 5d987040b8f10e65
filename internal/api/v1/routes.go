// Package v1 provides the audit, sync and scheduler endpoints.
package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/forgeo/crm-audit-server/internal/api/common"
	"github.com/forgeo/crm-audit-server/internal/service"
)

// Routes handles HTTP requests for the v1 endpoints
type Routes struct {
	service service.Service
}

// NewRoutes creates a new Routes instance with the given service
func NewRoutes(svc service.Service) *Routes {
	return &Routes{service: svc}
}

// Router creates the router for the v1 endpoints
func Router(svc service.Service) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Post("/audits", routes.startAudit)
		r.Get("/audits", routes.listAudits)

		r.Post("/syncs", routes.startSync)
		r.Get("/syncs", routes.listSyncs)
		r.Get("/syncs/latest", routes.latestSync)

		r.Get("/freshness", routes.freshness)
		r.Post("/login", routes.login)
	})

	r.Route("/audits/{auditID}", func(r chi.Router) {
		r.Get("/", routes.getAudit)
		r.Delete("/", routes.deleteAudit)
		r.Get("/results", routes.getResults)
		r.Get("/results/{category}/{criterion}/items", routes.getIssueDetails)
		r.Get("/scores", routes.getScores)
		r.Get("/export", routes.exportAudit)
	})

	r.Get("/scheduler/status", routes.schedulerStatus)
	r.Post("/scheduler/trigger", routes.triggerScheduler)

	return r
}

func listOptions(r *http.Request) ([]service.Option[service.ListOptions], error) {
	limit, err := common.GetIntQuery(r, "limit")
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		return nil, nil
	}
	return []service.Option[service.ListOptions]{service.WithListLimit(limit)}, nil
}
